package usecase

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fuad00/rtspshot/internal/domain/entity"
	"github.com/fuad00/rtspshot/internal/domain/port"
	"github.com/fuad00/rtspshot/internal/infra/metrics"
	"go.uber.org/zap"
)

const DefaultWorkerCount = 10

// Capturer is the per-job unit of work run by the dispatcher's workers.
type Capturer interface {
	Capture(ctx context.Context, job entity.CaptureJob) entity.CaptureOutcome
}

type DispatcherConfig struct {
	Budget entity.RetryBudget
}

// Dispatcher fans capture jobs out over a fixed pool of workers.
type Dispatcher struct {
	capturer Capturer
	sinks    []port.OutcomeSink
	logger   *zap.Logger
	budget   entity.RetryBudget
}

func NewDispatcher(
	capturer Capturer,
	sinks []port.OutcomeSink,
	logger *zap.Logger,
	cfg DispatcherConfig,
) *Dispatcher {
	return &Dispatcher{
		capturer: capturer,
		sinks:    sinks,
		logger:   logger,
		budget:   cfg.Budget,
	}
}

// Run captures every source listed in urlListPath into outputDir using
// workerCount concurrent workers. Individual job failures are counted in the
// report; an error is returned only when the list cannot be read or the
// output directory cannot be created. Cancelling ctx stops queueing new jobs
// but lets running ones finish.
func (d *Dispatcher) Run(ctx context.Context, urlListPath, outputDir string, workerCount int) (*entity.Report, error) {
	sources, err := ReadSources(urlListPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	if workerCount < 1 {
		workerCount = 1
	}

	d.logger.Info("starting worker pool",
		zap.Int("workers", workerCount),
		zap.Int("sources", len(sources)),
		zap.String("output_dir", outputDir),
	)

	jobs := make(chan entity.CaptureJob, workerCount)
	results := make(chan entity.CaptureOutcome, workerCount)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go d.worker(ctx, i, jobs, results, &wg)
	}

	// queued is written by the feeder before it closes jobs and read only
	// after every worker, and therefore the feeder, is done.
	queued := 0
	go func() {
		defer close(jobs)
		for _, src := range sources {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case jobs <- entity.NewCaptureJob(src, outputDir, d.budget):
				queued++
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	report := &entity.Report{}
	for outcome := range results {
		report.Record(outcome)
	}
	report.Skipped = len(sources) - queued

	if report.Skipped > 0 {
		d.logger.Warn("run interrupted, sources left unprocessed", zap.Int("skipped", report.Skipped))
	}
	return report, nil
}

func (d *Dispatcher) worker(
	ctx context.Context,
	id int,
	jobs <-chan entity.CaptureJob,
	results chan<- entity.CaptureOutcome,
	wg *sync.WaitGroup,
) {
	defer wg.Done()
	log := d.logger.With(zap.Int("worker_id", id))

	for job := range jobs {
		metrics.ActiveWorkers.Inc()
		outcome := d.capturer.Capture(ctx, job)
		metrics.ActiveWorkers.Dec()

		metrics.CapturesTotal.WithLabelValues(string(outcome.Kind)).Inc()
		metrics.CaptureDuration.Observe(outcome.Duration.Seconds())

		logOutcome(log, outcome)
		d.notifySinks(ctx, outcome, log)
		results <- outcome
	}
}

func (d *Dispatcher) notifySinks(ctx context.Context, outcome entity.CaptureOutcome, log *zap.Logger) {
	ctx = context.WithoutCancel(ctx)
	for _, sink := range d.sinks {
		if err := sink.Handle(ctx, outcome); err != nil {
			metrics.SinkErrorsTotal.WithLabelValues(sink.Name()).Inc()
			log.Error("outcome sink failed",
				zap.String("sink", sink.Name()),
				zap.String("job_id", outcome.JobID.String()),
				zap.Error(err),
			)
		}
	}
}

func logOutcome(log *zap.Logger, o entity.CaptureOutcome) {
	log = log.With(
		zap.String("job_id", o.JobID.String()),
		zap.String("source", o.Source),
		zap.Int("attempts", o.Attempts),
		zap.Duration("duration", o.Duration),
	)
	switch o.Kind {
	case entity.OutcomeSuccess:
		log.Info("snapshot captured", zap.String("file_path", o.FilePath))
	case entity.OutcomeInvalidStream:
		log.Warn("invalid stream", zap.Error(o.Cause))
	case entity.OutcomeTransientFailure:
		log.Warn("transient failure", zap.Error(o.Cause))
	default:
		log.Error("fatal failure", zap.Error(o.Cause))
	}
}
