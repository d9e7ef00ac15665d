package pipeline

import "sync/atomic"

// Stats holds the driver's running counters. All fields are accessed
// through atomic operations so Snapshot can be called concurrently with
// Run — the loop itself is single-threaded, but internal/health reads
// Stats from its own HTTP handler goroutine.
type Stats struct {
	framesProcessed uint64
	framesSkipped   uint64
	totalDetections uint64
}

// Snapshot is a point-in-time, non-blocking copy of Stats.
type Snapshot struct {
	FramesProcessed uint64
	FramesSkipped   uint64
	TotalDetections uint64
}

func (s *Stats) recordProcessed(detections int) {
	atomic.AddUint64(&s.framesProcessed, 1)
	atomic.AddUint64(&s.totalDetections, uint64(detections))
}

func (s *Stats) addSkipped(n int) {
	if n <= 0 {
		return
	}
	atomic.AddUint64(&s.framesSkipped, uint64(n))
}

// Snapshot returns the current counter values. Safe to call from any
// goroutine at any time.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		FramesProcessed: atomic.LoadUint64(&s.framesProcessed),
		FramesSkipped:   atomic.LoadUint64(&s.framesSkipped),
		TotalDetections: atomic.LoadUint64(&s.totalDetections),
	}
}
