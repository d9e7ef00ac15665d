// Package detector adapts an ONNX Runtime session to the pipeline's
// opaque tensor-contract engine interface: a fixed-shape CHW input
// tensor in, a fixed set of detection heads out. It carries an explicit
// Unloaded -> Loaded -> Destroyed lifecycle so the pipeline driver can
// tell a genuinely fatal load failure (refuse to start) apart from a
// frame-scoped inference failure (skip the frame, keep running).
package detector
