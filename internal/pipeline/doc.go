// Package pipeline drives the synchronous frame -> preprocess -> infer
// -> postprocess -> publish loop that turns a raw frame from the
// shared-memory bridge into a published DetectionResult.
//
// # Architecture
//
// Driver sits between the frame side of the bridge and the detection
// side:
//
//	bridge/mq (frame signal) -> Driver -> preprocess -> detector -> postprocess -> bridge/slot (detection)
//	                                                                       |
//	                                                                  bridge/mq (controller signal)
//
// One frame is in flight at a time: the loop is single-threaded by
// design, matching the original inference process's own event loop
// (see original_source/crates/inference-cpp/src/main.cpp, which this
// loop's stage order and logging cadence is a near-literal translation
// of). GPU inference inside a single process does not benefit from a
// worker pool the way CPU-bound stream ingestion might — there is one
// model, one execution provider, and overlapping two inferences on it
// would only serialize at the driver anyway.
//
// # Loop Shape
//
// Each iteration:
//
//  1. Wait for the frame signal queue (cancellable via context).
//  2. Drain the backlog to skip straight to the latest frame, counting
//     what was skipped.
//  3. Read the latest published frame from the slot.
//  4. Letterbox it to the detector's input size.
//  5. Run inference.
//  6. Postprocess the raw outputs into detections above threshold.
//  7. Serialize and publish a DetectionResult, then signal the
//     controller queue.
//  8. Mark the frame read and update running stats.
//
// A failure at any of steps 3-7 is logged and the frame is skipped —
// the frame is still marked read so a persistently malformed frame
// cannot loop the pipeline forever on it. Only a canceled context or a
// failure to even wait on the signal queue ends Run.
//
// # Runtime-Adjustable Threshold
//
// The confidence threshold step 6 applies is not fixed at
// construction: SetConfidenceThreshold updates it from whatever
// goroutine handles the optional MQTT control plane's reload_threshold
// command, without needing to restart Run. It is held in an
// atomic.Uint32 rather than behind a mutex since it is read once per
// frame and written rarely, from a different goroutine than the loop
// itself.
//
// # Observability
//
// Stats returns a non-blocking snapshot (FramesProcessed,
// FramesSkipped, TotalDetections) safe to poll concurrently with Run —
// internal/health's readiness and metrics handlers do exactly that. The
// loop also logs a per-frame summary every 10 frames and an aggregate
// stats line every 100, the same cadence the original main loop uses.
//
// # Basic Usage
//
//	driver := pipeline.New(cfg, logger, frameQueue, controllerQueue, frameReader, detectionWriter, engine)
//
//	errChan := make(chan error, 1)
//	go func() { errChan <- driver.Run(ctx) }()
//
//	// elsewhere, concurrently:
//	snap := driver.Stats()
//	driver.SetConfidenceThreshold(0.6)
package pipeline
