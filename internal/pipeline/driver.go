package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/jordandelbar/detr-mmap/internal/bridge/mq"
	"github.com/jordandelbar/detr-mmap/internal/bridge/slot"
	"github.com/jordandelbar/detr-mmap/internal/config"
	"github.com/jordandelbar/detr-mmap/internal/detector"
	"github.com/jordandelbar/detr-mmap/internal/postprocess"
	"github.com/jordandelbar/detr-mmap/internal/preprocess"
	"github.com/jordandelbar/detr-mmap/internal/schema"
)

// Detector is the subset of *detector.Engine the driver depends on.
// Extracted so tests can drive the loop against a fake without an ONNX
// Runtime session.
type Detector interface {
	Infer(tensor []float32) (detector.Outputs, error)
}

// summaryEvery and statsEvery control the loop's log cadence, matching
// the original pipeline's main loop (a per-frame summary every 10
// frames, aggregate counters every 100).
const (
	summaryEvery = 10
	statsEvery   = 100
)

// Driver runs the frame -> preprocess -> infer -> postprocess -> publish
// loop for one camera instance.
type Driver struct {
	cfg    *config.Config
	logger *slog.Logger

	frameQueue      *mq.Queue
	controllerQueue *mq.Queue
	frameReader     *slot.Reader
	detectionWriter *slot.Writer
	engine          Detector

	stats     Stats
	threshold atomic.Uint32
}

// New assembles a Driver from already-connected collaborators. Callers
// (cmd/inference) are responsible for the connect-with-retry dance
// against the frame and queue endpoints before constructing one.
func New(cfg *config.Config, logger *slog.Logger, frameQueue, controllerQueue *mq.Queue, frameReader *slot.Reader, detectionWriter *slot.Writer, engine Detector) *Driver {
	d := &Driver{
		cfg:             cfg,
		logger:          logger,
		frameQueue:      frameQueue,
		controllerQueue: controllerQueue,
		frameReader:     frameReader,
		detectionWriter: detectionWriter,
		engine:          engine,
	}
	d.threshold.Store(math.Float32bits(cfg.ConfidenceThreshold))
	return d
}

// Stats returns a non-blocking snapshot of the driver's running
// counters.
func (d *Driver) Stats() Snapshot {
	return d.stats.Snapshot()
}

// ConfidenceThreshold returns the threshold currently applied to
// postprocessing. It starts at cfg.ConfidenceThreshold and can be
// changed at runtime via SetConfidenceThreshold.
func (d *Driver) ConfidenceThreshold() float32 {
	return math.Float32frombits(d.threshold.Load())
}

// SetConfidenceThreshold updates the threshold processLatest applies to
// the next frame onward, without restarting the pipeline.
func (d *Driver) SetConfidenceThreshold(threshold float32) {
	d.threshold.Store(math.Float32bits(threshold))
}

// Run blocks processing frames until ctx is canceled. A per-frame
// failure (a torn read, a malformed frame, an inference error) is
// logged and skipped; it never stops the loop. Only a canceled context
// or a failure to wait on the frame signal at all ends Run.
func (d *Driver) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := d.waitForSignal(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("pipeline: wait for frame signal: %w", err)
		}

		skipped, err := d.frameQueue.Drain()
		if err != nil {
			d.logger.Warn("drain frame queue failed", "error", err)
		}
		d.stats.addSkipped(skipped)

		d.processLatest()
	}
}

// waitForSignal blocks on the frame queue while honoring ctx
// cancellation. mq.Queue.Wait has no context-aware variant, so the wait
// runs in its own goroutine and the result races against ctx.Done.
func (d *Driver) waitForSignal(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- d.frameQueue.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// processLatest reads the most recent frame, runs it through the
// detector, and publishes the result. Every failure path is logged and
// returns without propagating an error: one bad frame must not take
// down the process.
func (d *Driver) processLatest() {
	seq, data, err := d.frameReader.ReadLatest()
	if err != nil {
		if !errors.Is(err, slot.ErrNoNewData) {
			d.logger.Warn("read latest frame failed", "error", err)
		}
		return
	}

	frame, err := schema.SafeRootAsFrame(data)
	if err != nil {
		d.logger.Warn("frame deserialization failed", "error", err)
		d.frameReader.MarkRead(seq)
		return
	}
	if err := frame.Validate(); err != nil {
		d.logger.Warn("frame failed validation", "error", err, "frame_number", frame.FrameNumber())
		d.frameReader.MarkRead(seq)
		return
	}

	result, err := preprocess.Letterbox(frame.PixelsBytes(), int(frame.Width()), int(frame.Height()), frame.Format(), d.cfg.InputSize)
	if err != nil {
		d.logger.Warn("letterbox preprocessing failed", "error", err, "frame_number", frame.FrameNumber())
		d.frameReader.MarkRead(seq)
		return
	}

	outputs, err := d.engine.Infer(result.Tensor)
	if err != nil {
		d.logger.Error("inference failed", "error", err, "frame_number", frame.FrameNumber())
		d.frameReader.MarkRead(seq)
		return
	}

	detections := postprocess.FromOutputs(outputs, result.Transform, d.ConfidenceThreshold())

	payload := schema.BuildDetectionResult(frame.FrameNumber(), frame.TimestampNs(), frame.CameraId(), detections)
	if err := d.detectionWriter.Write(payload); err != nil {
		d.logger.Error("write detection result failed", "error", err, "frame_number", frame.FrameNumber())
		d.frameReader.MarkRead(seq)
		return
	}

	if err := d.controllerQueue.Post(); err != nil {
		d.logger.Warn("signal controller failed", "error", err, "frame_number", frame.FrameNumber())
	}

	d.frameReader.MarkRead(seq)
	d.stats.recordProcessed(len(detections))
	d.logProgress(frame.FrameNumber(), len(detections))
}

func (d *Driver) logProgress(frameNumber uint64, detections int) {
	snap := d.stats.Snapshot()

	if snap.FramesProcessed%summaryEvery == 0 {
		d.logger.Debug("frame processed", "frame_number", frameNumber, "detections", detections)
	}
	if snap.FramesProcessed%statsEvery == 0 {
		d.logger.Info("pipeline stats",
			"frames_processed", snap.FramesProcessed,
			"frames_skipped", snap.FramesSkipped,
			"total_detections", snap.TotalDetections,
		)
	}
}
