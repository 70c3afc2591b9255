package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fuad00/rtspshot/internal/domain/entity"
	"github.com/fuad00/rtspshot/internal/domain/port"
	"github.com/fuad00/rtspshot/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultCaptureTimeout = 60 * time.Second
	DefaultSocketTimeout  = 3 * time.Second
)

type CaptureConfig struct {
	// Timeout bounds one attempt from connect to the last read.
	Timeout time.Duration
	// SocketTimeout bounds each socket operation during negotiation.
	SocketTimeout time.Duration
}

// FrameCapturer grabs a single frame from one stream source.
type FrameCapturer struct {
	opener port.Opener
	writer port.SnapshotWriter
	logger *zap.Logger
	opts   port.OpenOptions
}

func NewFrameCapturer(
	opener port.Opener,
	writer port.SnapshotWriter,
	logger *zap.Logger,
	cfg CaptureConfig,
) *FrameCapturer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultCaptureTimeout
	}
	if cfg.SocketTimeout <= 0 {
		cfg.SocketTimeout = DefaultSocketTimeout
	}
	return &FrameCapturer{
		opener: opener,
		writer: writer,
		logger: logger,
		opts: port.OpenOptions{
			ForceTCP:      true,
			SocketTimeout: cfg.SocketTimeout,
			Timeout:       cfg.Timeout,
			AutoThreads:   true,
		},
	}
}

// Capture runs attempts until one succeeds or a failure category runs out of
// retries. Invalid-stream and recoverable failures draw from separate
// budgets; any other error ends the job at once. Capture never returns an
// error: every failure is folded into the outcome.
func (c *FrameCapturer) Capture(ctx context.Context, job entity.CaptureJob) entity.CaptureOutcome {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "FrameCapturer.Capture")
	defer span.End()

	span.SetAttributes(
		attribute.String("job.id", job.ID.String()),
		attribute.String("job.source", job.Source),
	)

	log := c.logger.With(zap.String("job_id", job.ID.String()), zap.String("source", job.Source))

	start := time.Now()
	budget := job.Budget
	outcome := entity.CaptureOutcome{JobID: job.ID, Source: job.Source}

	for {
		outcome.Attempts++
		path, err := c.attempt(ctx, job, outcome.Attempts)
		category := Classify(err)
		metrics.CaptureAttemptsTotal.WithLabelValues(string(category)).Inc()

		retry := false
		switch category {
		case CategoryNone:
			outcome.Kind = entity.OutcomeSuccess
			outcome.FilePath = path
		case CategoryInvalid:
			if budget.InvalidRetries > 0 {
				budget.InvalidRetries--
				retry = true
			} else {
				outcome.Kind = entity.OutcomeInvalidStream
				outcome.Cause = err
			}
		case CategoryRecoverable:
			if budget.TransientRetries > 0 {
				budget.TransientRetries--
				retry = true
			} else {
				outcome.Kind = entity.OutcomeTransientFailure
				outcome.Cause = err
			}
		default:
			outcome.Kind = entity.OutcomeFatalFailure
			outcome.Cause = err
		}

		if retry {
			log.Info("retrying capture",
				zap.Int("attempt", outcome.Attempts),
				zap.String("category", string(category)),
				zap.Error(err),
			)
			continue
		}

		outcome.Duration = time.Since(start)
		span.SetAttributes(
			attribute.String("job.outcome", string(outcome.Kind)),
			attribute.Int("job.attempts", outcome.Attempts),
		)
		if outcome.Cause != nil {
			span.SetStatus(codes.Error, outcome.Cause.Error())
		}
		return outcome
	}
}

// attempt performs one open-validate-decode-persist pass. The session and
// frame stream are released before it returns on every path.
func (c *FrameCapturer) attempt(ctx context.Context, job entity.CaptureJob, n int) (string, error) {
	ctx, span := otel.Tracer("usecase").Start(ctx, "FrameCapturer.attempt",
		trace.WithAttributes(attribute.Int("attempt", n)),
	)
	defer span.End()

	// In-flight jobs are not cancelled with the run; only the session
	// timeout bounds them.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.Timeout)
	defer cancel()

	sess, err := c.opener.Open(ctx, job.Source, c.opts)
	if err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}
	defer sess.Close()

	tracks := sess.VideoTracks()
	if len(tracks) == 0 {
		return "", entity.ErrNoVideoTrack
	}
	track := tracks[0]
	if !IsUsableVideo(track) {
		return "", fmt.Errorf("track %d: %w", track.Index, entity.ErrUnusableVideo)
	}

	frames, err := sess.Frames(ctx, track)
	if err != nil {
		return "", fmt.Errorf("start decoding: %w", err)
	}
	defer frames.Close()

	frame, err := frames.Next()
	if errors.Is(err, io.EOF) {
		return "", entity.ErrNoFrame
	}
	if err != nil {
		return "", fmt.Errorf("decode frame: %w", err)
	}

	img, err := frame.Image()
	if err != nil {
		return "", fmt.Errorf("convert frame: %w", err)
	}

	path := filepath.Join(job.OutputDir, SnapshotFileName(job.Source))
	if err := c.writer.WriteSnapshot(ctx, path, img); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}
