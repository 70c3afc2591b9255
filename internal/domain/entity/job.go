package entity

import (
	"time"

	"github.com/google/uuid"
)

// RetryBudget holds the retries left per failure category. The two counters
// are spent independently.
type RetryBudget struct {
	InvalidRetries   int
	TransientRetries int
}

// DefaultRetryBudget allows one retry per category, two attempts each.
func DefaultRetryBudget() RetryBudget {
	return RetryBudget{InvalidRetries: 1, TransientRetries: 1}
}

// CaptureJob is one capture attempt sequence for one input line.
type CaptureJob struct {
	ID        uuid.UUID
	Source    string
	OutputDir string
	Budget    RetryBudget
	CreatedAt time.Time
}

func NewCaptureJob(source, outputDir string, budget RetryBudget) CaptureJob {
	return CaptureJob{
		ID:        uuid.New(),
		Source:    source,
		OutputDir: outputDir,
		Budget:    budget,
		CreatedAt: time.Now().UTC(),
	}
}
