package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CapturesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rtspshot_captures_total",
		Help: "Total number of capture jobs finished, by outcome",
	}, []string{"outcome"})

	CaptureAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rtspshot_capture_attempts_total",
		Help: "Total number of capture attempts, by result category",
	}, []string{"result"})

	CaptureDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rtspshot_capture_duration_seconds",
		Help:    "Duration of a capture job including retries",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rtspshot_active_workers",
		Help: "Number of workers currently running a capture job",
	})

	SinkErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rtspshot_sink_errors_total",
		Help: "Total number of outcome sink failures, by sink",
	}, []string{"sink"})
)
