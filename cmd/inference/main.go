// Command inference runs the frame -> preprocess -> infer -> postprocess
// -> publish pipeline against the shared-memory bridge. It connects to
// the capture process's frame buffer and signal queue (retrying every
// retry_interval_ms until they appear), owns the detection buffer and
// controller signal queue outright, and serves health/metrics over HTTP
// alongside an optional MQTT status/control plane.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jordandelbar/detr-mmap/internal/bridge"
	"github.com/jordandelbar/detr-mmap/internal/bridge/mq"
	"github.com/jordandelbar/detr-mmap/internal/bridge/slot"
	"github.com/jordandelbar/detr-mmap/internal/config"
	"github.com/jordandelbar/detr-mmap/internal/control"
	"github.com/jordandelbar/detr-mmap/internal/detector"
	"github.com/jordandelbar/detr-mmap/internal/health"
	"github.com/jordandelbar/detr-mmap/internal/pipeline"
	"github.com/jordandelbar/detr-mmap/internal/telemetry"
)

const defaultConfigPath = "config/inference.yaml"

const statusPublishInterval = 10 * time.Second

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := telemetry.NewLogger(config.EnvironmentFromEnv(), level)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err, "path", *configPath)
		os.Exit(1)
	}
	logger.Info("starting inference pipeline", "instance_id", cfg.InstanceID, "config", *configPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	retryInterval := time.Duration(cfg.RetryIntervalMs) * time.Millisecond

	logger.Info("loading detector engine", "model_path", cfg.ModelPath, "input_size", cfg.InputSize)
	engine := detector.New(cfg.ModelPath, cfg.InputSize)
	if err := engine.Load(); err != nil {
		logger.Error("failed to load detector engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	logger.Info("connecting to frame buffer", "path", cfg.FrameBufferPath)
	frameReader, err := connectFrameReader(ctx, cfg.FrameBufferPath, retryInterval, logger)
	if err != nil {
		logger.Error("failed to connect to frame buffer", "error", err)
		os.Exit(1)
	}
	defer frameReader.Close()

	logger.Info("opening detection buffer", "path", cfg.DetectionBufferPath)
	detectionWriter, err := slot.OpenWriter(cfg.DetectionBufferPath, cfg.DetectionBufferSize)
	if err != nil {
		logger.Error("failed to open detection buffer", "error", err)
		os.Exit(1)
	}
	defer detectionWriter.Close()

	logger.Info("connecting to frame signal queue", "name", bridge.QueueFrameInference)
	frameQueue, err := connectFrameQueue(ctx, bridge.QueueFrameInference, retryInterval, logger)
	if err != nil {
		logger.Error("failed to connect to frame signal queue", "error", err)
		os.Exit(1)
	}
	defer frameQueue.Close()

	logger.Info("opening controller signal queue", "name", bridge.QueueDetectionController)
	controllerQueue, err := openOrCreateQueue(bridge.QueueDetectionController)
	if err != nil {
		logger.Error("failed to open controller signal queue", "error", err)
		os.Exit(1)
	}
	defer controllerQueue.Close()

	publisher := control.NewPublisher(cfg, logger)
	if err := publisher.Connect(ctx); err != nil {
		logger.Warn("mqtt control plane unavailable, continuing without it", "error", err)
	}
	defer publisher.Disconnect()

	driver := pipeline.New(cfg, logger, frameQueue, controllerQueue, frameReader, detectionWriter, engine)

	healthServer := health.New(cfg.InstanceID, logger, driver.Stats, engine.State, publisher.Connected)
	healthServer.Start(":" + cfg.HealthPort)

	go handleControlCommands(ctx, cancel, publisher, driver, logger)
	go publishStatusPeriodically(ctx, driver, publisher)

	errChan := make(chan error, 1)
	go func() {
		errChan <- driver.Run(ctx)
	}()

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
		<-errChan
	case runErr := <-errChan:
		if runErr != nil && runErr != context.Canceled {
			logger.Error("pipeline loop exited with error", "error", runErr)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown failed", "error", err)
	}

	logger.Info("inference pipeline stopped", "stats", driver.Stats())
}

// connectFrameReader retries slot.OpenReader until it succeeds or ctx is
// canceled: the frame buffer is owned by the capture process, which may
// start after this one.
func connectFrameReader(ctx context.Context, path string, retryInterval time.Duration, logger *slog.Logger) (*slot.Reader, error) {
	for {
		reader, err := slot.OpenReader(path)
		if err == nil {
			return reader, nil
		}
		logger.Warn("frame buffer not ready, retrying", "error", err, "retry_in", retryInterval)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

// connectFrameQueue retries mq.Open until the capture process's frame
// signal queue exists or ctx is canceled.
func connectFrameQueue(ctx context.Context, name string, retryInterval time.Duration, logger *slog.Logger) (*mq.Queue, error) {
	for {
		queue, err := mq.Open(name)
		if err == nil {
			return queue, nil
		}
		logger.Warn("frame signal queue not ready, retrying", "error", err, "retry_in", retryInterval)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

// openOrCreateQueue attaches to an existing queue, creating it if the
// controller process has not started yet: the inference process does
// not require the controller to exist first.
func openOrCreateQueue(name string) (*mq.Queue, error) {
	queue, err := mq.Open(name)
	if err == nil {
		return queue, nil
	}
	return mq.Create(name)
}

func handleControlCommands(ctx context.Context, cancel context.CancelFunc, publisher *control.Publisher, driver *pipeline.Driver, logger *slog.Logger) {
	commands := publisher.Commands()
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-commands:
			switch cmd.Name {
			case control.CommandShutdown:
				logger.Info("received shutdown command over control plane")
				cancel()
			case control.CommandReloadThreshold:
				if cmd.Threshold == nil {
					logger.Warn("reload_threshold command missing threshold value")
					continue
				}
				driver.SetConfidenceThreshold(*cmd.Threshold)
				logger.Info("applied reload_threshold command", "threshold", *cmd.Threshold)
			default:
				logger.Warn("received unknown control command", "command", cmd.Name)
			}
		}
	}
}

func publishStatusPeriodically(ctx context.Context, driver *pipeline.Driver, publisher *control.Publisher) {
	ticker := time.NewTicker(statusPublishInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = publisher.PublishStatus(driver.Stats())
		}
	}
}
