package port

import (
	"context"

	"github.com/fuad00/rtspshot/internal/domain/entity"
)

// OutcomeSink receives every terminal CaptureOutcome of a run. A sink error
// never changes the outcome.
type OutcomeSink interface {
	Name() string
	Handle(ctx context.Context, outcome entity.CaptureOutcome) error
}
