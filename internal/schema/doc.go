// Package schema is the wire format shared by the frame buffer and the
// detection buffer: FlatBuffers tables and structs hand-authored against
// the github.com/google/flatbuffers/go runtime in the same shape flatc
// would generate from frame.fbs / detection.fbs.
//
// Frame and DetectionResult are tables (self-describing, field-optional).
// BoundingBox is a struct: a fixed 24-byte inline layout, so a vector of
// detections is a flat array with constant-time, allocation-free access
// to any field of any element.
//
// Every root accessor has a "safe" variant (SafeRootAsFrame,
// SafeRootAsDetectionResult) that never panics on truncated or torn
// input — it validates a minimum length up front and recovers from any
// out-of-range access the vtable-walk might otherwise trigger, turning it
// into an error. Callers in internal/bridge/slot rely on this to reject a
// torn read instead of crashing the pipeline.
package schema
