// Command simcontroller stands in for the real controller process
// during local development: it waits on the detection signal queue and
// prints each published DetectionResult, exercising the reader half of
// the detection bridge without any of the controller's actual business
// logic (out of scope for this repo).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jordandelbar/detr-mmap/internal/bridge"
	"github.com/jordandelbar/detr-mmap/internal/bridge/mq"
	"github.com/jordandelbar/detr-mmap/internal/bridge/slot"
	"github.com/jordandelbar/detr-mmap/internal/schema"
)

func main() {
	flag.Parse()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	logger.Info("simcontroller connecting to detection buffer", "path", bridge.DetectionBufferPath)
	reader, err := slot.OpenReader(bridge.DetectionBufferPath)
	if err != nil {
		logger.Error("failed to open detection buffer", "error", err)
		os.Exit(1)
	}
	defer reader.Close()

	queue, err := mq.Open(bridge.QueueDetectionController)
	if err != nil {
		logger.Error("failed to open controller signal queue", "error", err)
		os.Exit(1)
	}
	defer queue.Close()

	logger.Info("simcontroller waiting for detections")

	for {
		done := make(chan error, 1)
		go func() { done <- queue.Wait() }()

		select {
		case <-ctx.Done():
			logger.Info("simcontroller stopping")
			return
		case err := <-done:
			if err != nil {
				logger.Warn("wait on detection signal failed", "error", err)
				continue
			}
		}

		if _, err := queue.Drain(); err != nil {
			logger.Warn("drain detection signal queue failed", "error", err)
		}

		seq, data, err := reader.ReadLatest()
		if err != nil {
			if err != slot.ErrNoNewData {
				logger.Warn("read detection result failed", "error", err)
			}
			continue
		}

		result, err := schema.SafeRootAsDetectionResult(data)
		if err != nil {
			logger.Warn("detection result deserialization failed", "error", err)
			reader.MarkRead(seq)
			continue
		}

		detections := result.AllDetections()
		logger.Info("detection result received",
			"frame_number", result.FrameNumber(),
			"timestamp_ns", result.TimestampNs(),
			"camera_id", result.CameraId(),
			"detection_count", len(detections),
		)

		reader.MarkRead(seq)
	}
}
