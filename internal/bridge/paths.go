// Package bridge holds the constants and sub-packages (mq, slot) that
// implement the shared-memory bridge between the capture, inference, and
// controller processes. Nothing in this file talks to the kernel; it is
// the single source of truth for names and sizes so producer and
// consumer processes can never disagree about where to look.
package bridge

const (
	// FrameBufferPath is the shared-memory slot the capture process
	// writes frames into and the inference process reads from.
	FrameBufferPath = "/dev/shm/bridge_frame_buffer"

	// DetectionBufferPath is the shared-memory slot the inference
	// process writes detection results into.
	DetectionBufferPath = "/dev/shm/bridge_detection_buffer"

	// DefaultFrameBufferSize comfortably holds a 1920x1080 RGB frame
	// plus its Frame table overhead.
	DefaultFrameBufferSize = 6 * 1024 * 1024

	// DefaultDetectionBufferSize comfortably holds several hundred
	// BoundingBox entries plus table overhead.
	DefaultDetectionBufferSize = 1024 * 1024
)

const (
	// QueueFrameInference wakes the inference process when a new frame
	// has landed in FrameBufferPath.
	QueueFrameInference = "/bridge_frame_inference"

	// QueueFrameGateway wakes any secondary frame consumer (e.g. a
	// streaming gateway) on the same cadence as QueueFrameInference.
	QueueFrameGateway = "/bridge_frame_gateway"

	// QueueDetectionController wakes the controller process when a new
	// detection result has landed in DetectionBufferPath.
	QueueDetectionController = "/bridge_detection_controller"
)
