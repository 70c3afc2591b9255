package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fuad00/rtspshot/internal/domain/entity"
	"github.com/fuad00/rtspshot/internal/domain/port"
	"github.com/fuad00/rtspshot/internal/infra/archive"
	"github.com/fuad00/rtspshot/internal/infra/config"
	"github.com/fuad00/rtspshot/internal/infra/ffmpeg"
	"github.com/fuad00/rtspshot/internal/infra/localfs"
	"github.com/fuad00/rtspshot/internal/infra/metrics"
	miniostorage "github.com/fuad00/rtspshot/internal/infra/minio"
	"github.com/fuad00/rtspshot/internal/infra/rabbitmq"
	"github.com/fuad00/rtspshot/internal/infra/tracing"
	"github.com/fuad00/rtspshot/internal/usecase"
	"github.com/fuad00/rtspshot/pkg/logger"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const folderLayout = "2006-01-02__15-04-05"

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	outDir := flag.String("o", "", "output folder (default: current date and time)")
	workers := flag.Int("w", cfg.WorkerCount, "number of streams captured concurrently")
	zipRun := flag.Bool("zip", false, "archive the captured snapshots into <output folder>.zip")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-o output_folder] [-w workers] [-zip] <file with rtsp urls>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	listPath := flag.Arg(0)
	if _, err := os.Stat(listPath); err != nil {
		fmt.Printf("%s not found\n", listPath)
		return 1
	}
	if *outDir == "" {
		*outDir = time.Now().Format(folderLayout)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing (non-fatal if the collector is unavailable)
	shutdownTracing, err := tracing.InitTracer(ctx, tracing.Config{
		Endpoint:    cfg.JaegerEndpoint,
		SampleRatio: cfg.TraceSampleRatio,
	})
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer shutdownTracing(context.Background())
	}

	if cfg.MetricsPort > 0 {
		srv := metrics.NewServer(cfg.MetricsPort, log)
		srv.Start(ctx)
		defer srv.Stop()
	}

	sinks, closeSinks, err := buildSinks(ctx, cfg, *outDir, log)
	if err != nil {
		log.Error("init outcome sinks", zap.Error(err))
		return 1
	}
	defer closeSinks()

	opener := ffmpeg.NewOpener(cfg.FFprobePath, cfg.FFmpegPath, log)
	writer := localfs.NewJPEGWriter(cfg.JPEGQuality)
	capturer := usecase.NewFrameCapturer(opener, writer, log, usecase.CaptureConfig{
		Timeout:       cfg.CaptureTimeout,
		SocketTimeout: cfg.SocketTimeout,
	})
	dispatcher := usecase.NewDispatcher(capturer, sinks, log, usecase.DispatcherConfig{
		Budget: entity.RetryBudget{
			InvalidRetries:   cfg.InvalidRetries,
			TransientRetries: cfg.TransientRetries,
		},
	})

	log.Info("rtspshot started", zap.String("url_list", listPath), zap.String("output_dir", *outDir))

	report, err := dispatcher.Run(ctx, listPath, *outDir, *workers)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		return 1
	}

	var zipPath string
	if *zipRun {
		zipPath, err = usecase.ArchiveSnapshots(context.WithoutCancel(ctx), archive.NewZipArchiver(), report, *outDir)
		if err != nil {
			log.Error("archive failed", zap.Error(err))
		}
	}

	if cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := metrics.Push(pushCtx, cfg.PushgatewayURL, *outDir); err != nil {
			log.Warn("metrics push failed", zap.Error(err))
		}
		cancel()
	}

	printSummary(report, *outDir, zipPath)
	return 0
}

// buildSinks connects the optional outcome sinks enabled in cfg. On error
// nothing is left open and the returned close func is nil.
func buildSinks(ctx context.Context, cfg *config.Config, outDir string, log *zap.Logger) ([]port.OutcomeSink, func(), error) {
	var sinks []port.OutcomeSink
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.MirrorEnabled() {
		storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			UseSSL:    cfg.MinIOUseSSL,
			Bucket:    cfg.MinIOSnapshotBucket,
			Prefix:    filepath.Base(outDir),
		})
		if err != nil {
			return nil, nil, err
		}
		if err := storage.EnsureBucket(ctx); err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, storage)
		log.Info("snapshot mirror enabled", zap.String("bucket", cfg.MinIOSnapshotBucket))
	}

	if cfg.PublishEnabled() {
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to rabbitmq: %w", err)
		}
		closers = append(closers, func() { conn.Close() })

		pub, err := rabbitmq.NewPublisher(conn, cfg.RabbitMQExchange)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { pub.Close() })
		sinks = append(sinks, rabbitmq.NewOutcomePublisher(pub))
		log.Info("outcome events enabled", zap.String("exchange", cfg.RabbitMQExchange))
	}

	return sinks, closeAll, nil
}

func printSummary(r *entity.Report, outDir, zipPath string) {
	fmt.Println("\n=== Run Summary ===")
	fmt.Printf("Output:           %s\n", outDir)
	fmt.Printf("Captured:         %d\n", r.Success)
	fmt.Printf("Invalid streams:  %d\n", r.InvalidStream)
	fmt.Printf("Transient errors: %d\n", r.TransientFailure)
	fmt.Printf("Fatal errors:     %d\n", r.FatalFailure)
	if r.Skipped > 0 {
		fmt.Printf("Skipped:          %d\n", r.Skipped)
	}
	if zipPath != "" {
		fmt.Printf("Archive:          %s\n", zipPath)
	}
}
