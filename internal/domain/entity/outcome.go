package entity

import (
	"time"

	"github.com/google/uuid"
)

type OutcomeKind string

const (
	OutcomeSuccess          OutcomeKind = "success"
	OutcomeInvalidStream    OutcomeKind = "invalid_stream"
	OutcomeTransientFailure OutcomeKind = "transient_failure"
	OutcomeFatalFailure     OutcomeKind = "fatal_failure"
)

// CaptureOutcome is the terminal result of a CaptureJob. FilePath is set only
// for OutcomeSuccess, Cause only for the failure kinds that carry one.
type CaptureOutcome struct {
	JobID    uuid.UUID
	Source   string
	Kind     OutcomeKind
	FilePath string
	Cause    error
	Attempts int
	Duration time.Duration
}

func (o CaptureOutcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}

// CaptureEvent is the wire form of a CaptureOutcome published to sinks.
type CaptureEvent struct {
	JobID        uuid.UUID   `json:"job_id"`
	Source       string      `json:"source"`
	Outcome      OutcomeKind `json:"outcome"`
	FilePath     string      `json:"file_path,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
	Attempts     int         `json:"attempts"`
	DurationMs   int64       `json:"duration_ms"`
	CapturedAt   time.Time   `json:"captured_at"`
}

func NewCaptureEvent(o CaptureOutcome, at time.Time) CaptureEvent {
	ev := CaptureEvent{
		JobID:      o.JobID,
		Source:     o.Source,
		Outcome:    o.Kind,
		FilePath:   o.FilePath,
		Attempts:   o.Attempts,
		DurationMs: o.Duration.Milliseconds(),
		CapturedAt: at.UTC(),
	}
	if o.Cause != nil {
		ev.ErrorMessage = o.Cause.Error()
	}
	return ev
}
