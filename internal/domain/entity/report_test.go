package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReportRecord(t *testing.T) {
	r := &Report{}
	r.Record(CaptureOutcome{Kind: OutcomeSuccess, FilePath: "/out/a.jpg"})
	r.Record(CaptureOutcome{Kind: OutcomeInvalidStream})
	r.Record(CaptureOutcome{Kind: OutcomeSuccess, FilePath: "/out/b.jpg"})
	r.Record(CaptureOutcome{Kind: OutcomeTransientFailure})
	r.Record(CaptureOutcome{Kind: OutcomeFatalFailure})
	r.Skipped = 3

	assert.Equal(t, 2, r.Success)
	assert.Equal(t, 1, r.InvalidStream)
	assert.Equal(t, 1, r.TransientFailure)
	assert.Equal(t, 1, r.FatalFailure)
	assert.Equal(t, 5, r.Total(), "skipped sources are not terminal outcomes")
	assert.Len(t, r.Outcomes, 5)
	assert.Equal(t, []string{"/out/a.jpg", "/out/b.jpg"}, r.CapturedFiles())
}

func TestReportEmpty(t *testing.T) {
	r := &Report{}
	assert.Zero(t, r.Total())
	assert.Empty(t, r.CapturedFiles())
}

func TestNewCaptureEvent(t *testing.T) {
	id := uuid.New()
	at := time.Date(2024, 6, 1, 10, 30, 0, 0, time.FixedZone("BRT", -3*3600))

	ev := NewCaptureEvent(CaptureOutcome{
		JobID:    id,
		Source:   "rtsp://cam/1",
		Kind:     OutcomeFatalFailure,
		Cause:    errors.New("connection refused"),
		Attempts: 1,
		Duration: 250 * time.Millisecond,
	}, at)

	assert.Equal(t, id, ev.JobID)
	assert.Equal(t, OutcomeFatalFailure, ev.Outcome)
	assert.Equal(t, "connection refused", ev.ErrorMessage)
	assert.Empty(t, ev.FilePath)
	assert.Equal(t, int64(250), ev.DurationMs)
	assert.Equal(t, time.UTC, ev.CapturedAt.Location())
	assert.True(t, at.Equal(ev.CapturedAt))
}

func TestNewCaptureJob(t *testing.T) {
	a := NewCaptureJob("rtsp://cam/1", "/out", DefaultRetryBudget())
	b := NewCaptureJob("rtsp://cam/1", "/out", DefaultRetryBudget())

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, RetryBudget{InvalidRetries: 1, TransientRetries: 1}, a.Budget)
	assert.Equal(t, "/out", a.OutputDir)
	assert.False(t, a.CreatedAt.IsZero())
}
