package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	WorkerCount      int           `env:"WORKER_COUNT"      envDefault:"10"`
	CaptureTimeout   time.Duration `env:"CAPTURE_TIMEOUT"   envDefault:"60s"`
	SocketTimeout    time.Duration `env:"SOCKET_TIMEOUT"    envDefault:"3s"`
	InvalidRetries   int           `env:"INVALID_RETRIES"   envDefault:"1"`
	TransientRetries int           `env:"TRANSIENT_RETRIES" envDefault:"1"`
	JPEGQuality      int           `env:"JPEG_QUALITY"      envDefault:"90"`

	FFmpegPath  string `env:"FFMPEG_PATH"  envDefault:"ffmpeg"`
	FFprobePath string `env:"FFPROBE_PATH" envDefault:"ffprobe"`

	MinIOEndpoint       string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey      string `env:"MINIO_ACCESS_KEY"      envDefault:"minioadmin"`
	MinIOSecretKey      string `env:"MINIO_SECRET_KEY"      envDefault:"minioadmin"`
	MinIOUseSSL         bool   `env:"MINIO_USE_SSL"         envDefault:"false"`
	MinIOSnapshotBucket string `env:"MINIO_SNAPSHOT_BUCKET" envDefault:"snapshots"`

	RabbitMQURL      string `env:"RABBITMQ_URL"`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"rtspshot.snapshots"`

	MetricsPort    int    `env:"METRICS_PORT"    envDefault:"0"`
	PushgatewayURL string `env:"PUSHGATEWAY_URL"`
	JaegerEndpoint string `env:"JAEGER_ENDPOINT"`
	LogLevel       string `env:"LOG_LEVEL"       envDefault:"info"`

	TraceSampleRatio float64 `env:"TRACE_SAMPLE_RATIO" envDefault:"1"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.WorkerCount < 1 {
		errs = append(errs, fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount))
	}
	if c.CaptureTimeout <= 0 {
		errs = append(errs, fmt.Errorf("CAPTURE_TIMEOUT must be positive, got %s", c.CaptureTimeout))
	}
	if c.SocketTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SOCKET_TIMEOUT must be positive, got %s", c.SocketTimeout))
	}
	if c.InvalidRetries < 0 || c.TransientRetries < 0 {
		errs = append(errs, errors.New("retry counts must not be negative"))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("JPEG_QUALITY must be within 1..100, got %d", c.JPEGQuality))
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		errs = append(errs, fmt.Errorf("METRICS_PORT out of range: %d", c.MetricsPort))
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		errs = append(errs, fmt.Errorf("TRACE_SAMPLE_RATIO must be within 0..1, got %g", c.TraceSampleRatio))
	}
	return errors.Join(errs...)
}

func (c *Config) MirrorEnabled() bool  { return c.MinIOEndpoint != "" }
func (c *Config) PublishEnabled() bool { return c.RabbitMQURL != "" }
