// Command simcapture stands in for the real capture process during
// local development: it synthesizes frames at a fixed rate, writes them
// to the frame buffer, and signals both the inference and gateway
// queues, mirroring the original capture sink's FrameSink.write (which
// posts to both consumers after every publish).
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jordandelbar/detr-mmap/internal/bridge"
	"github.com/jordandelbar/detr-mmap/internal/bridge/mq"
	"github.com/jordandelbar/detr-mmap/internal/bridge/slot"
	"github.com/jordandelbar/detr-mmap/internal/schema"
)

func main() {
	width := flag.Int("width", 640, "Frame width in pixels")
	height := flag.Int("height", 480, "Frame height in pixels")
	cameraID := flag.Uint("camera-id", 1, "Camera id to stamp on each frame")
	fps := flag.Float64("fps", 10, "Frames to publish per second")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	writer, err := slot.OpenWriter(bridge.FrameBufferPath, bridge.DefaultFrameBufferSize)
	if err != nil {
		logger.Error("failed to open frame buffer", "error", err)
		os.Exit(1)
	}
	defer writer.Close()

	inferenceQueue, err := mq.Create(bridge.QueueFrameInference)
	if err != nil {
		logger.Error("failed to create inference signal queue", "error", err)
		os.Exit(1)
	}
	defer func() {
		inferenceQueue.Close()
		mq.Unlink(bridge.QueueFrameInference)
	}()

	gatewayQueue, err := mq.Create(bridge.QueueFrameGateway)
	if err != nil {
		logger.Error("failed to create gateway signal queue", "error", err)
		os.Exit(1)
	}
	defer func() {
		gatewayQueue.Close()
		mq.Unlink(bridge.QueueFrameGateway)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	logger.Info("simcapture publishing frames", "width", *width, "height", *height, "fps", *fps, "camera_id", *cameraID)

	interval := time.Duration(float64(time.Second) / *fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var frameNumber uint64
	pixels := make([]byte, *width**height*3)

	for {
		select {
		case <-ctx.Done():
			logger.Info("simcapture stopping", "frames_published", frameNumber)
			return
		case <-ticker.C:
			frameNumber++
			rand.Read(pixels)

			payload := schema.BuildFrame(
				frameNumber,
				uint64(time.Now().UnixNano()),
				uint32(*cameraID),
				uint32(*width),
				uint32(*height),
				3,
				schema.ColorFormatBGR,
				pixels,
			)

			if err := writer.Write(payload); err != nil {
				logger.Error("write frame failed", "error", err, "frame_number", frameNumber)
				continue
			}
			if err := inferenceQueue.Post(); err != nil {
				logger.Warn("signal inference queue failed", "error", err)
			}
			if err := gatewayQueue.Post(); err != nil {
				logger.Warn("signal gateway queue failed", "error", err)
			}
		}
	}
}
