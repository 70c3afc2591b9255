package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"github.com/fuad00/rtspshot/internal/domain/entity"
)

// diagnostics maps libav error strings, as printed on stderr, to the
// recoverable error classes. The first match wins.
var diagnostics = []struct {
	needle string
	err    error
}{
	{"cannot allocate memory", entity.ErrOutOfMemory},
	{"out of memory", entity.ErrOutOfMemory},
	{"permission denied", entity.ErrPermission},
	{"operation not permitted", entity.ErrPermission},
	{"invalid data found when processing input", entity.ErrInvalidData},
}

// ClassifyStderr returns the error class named by a tool's stderr output, or
// nil when the output names none of them.
func ClassifyStderr(stderr string) error {
	lower := strings.ToLower(stderr)
	for _, d := range diagnostics {
		if strings.Contains(lower, d.needle) {
			return d.err
		}
	}
	return nil
}

// commandError wraps the failure of an ffmpeg/ffprobe invocation so that
// errors.Is sees the class reported on stderr.
func commandError(ctx context.Context, tool string, runErr error, stderr string) error {
	detail := lastLine(stderr)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", tool, ctxErr)
	}
	if class := ClassifyStderr(stderr); class != nil {
		return fmt.Errorf("%s: %w: %s", tool, class, detail)
	}
	return fmt.Errorf("%s failed: %w, stderr: %s", tool, runErr, detail)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
