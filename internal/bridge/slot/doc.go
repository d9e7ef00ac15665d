// Package slot implements the single-slot shared-memory transport used
// on both sides of the bridge: one writer, any number of readers, no
// lock shared between processes, and a reader that never blocks a
// writer and never sees a torn frame.
//
// # Philosophy
//
// "Latest wins, always." The bridge does not queue frames between
// capture and inference, or between inference and the controller: each
// hop holds exactly one slot, and every publish overwrites whatever was
// there. A reader that is too slow to keep up does not fall behind a
// backlog, it simply rereads the same frame until a new one lands. This
// mirrors the coalescing signal in [github.com/jordandelbar/detr-mmap/internal/bridge/mq]:
// the queue says "something changed," the slot says what it changed to.
//
// # Memory Layout
//
// Each slot is a single memory-mapped file:
//
//	+-------------------+-------------------------------+
//	| sequence (8 bytes)| payload (sized at Create time)|
//	+-------------------+-------------------------------+
//
// Sequence 0 means no data has ever been published. Every successful
// Write increments the sequence by exactly one, so sequence parity
// alone (odd vs. even) is not significant — only equality across two
// loads is.
//
// # Writer Protocol
//
//  1. Copy the payload into the data region.
//  2. Store sequence+1 with release ordering.
//
// The payload is written before the sequence bump, and the store uses
// release ordering, so any reader that observes the new sequence is
// guaranteed to observe every byte of the payload the writer produced
// before it, on any platform Go's memory model targets.
//
// # Reader Protocol
//
//  1. Load the sequence with acquire ordering.
//  2. Read the payload.
//  3. Load the sequence again; if it changed, the read was torn and
//     must be discarded.
//
// Steps 1 and 3 are the torn-read guard: if a writer publishes between
// the reader's two sequence loads, the payload the reader copied out in
// step 2 may be a mix of the old and new frame, so the read is retried
// rather than trusted. ReadLatest additionally skips the read entirely
// when the sequence has not advanced since the caller's last MarkRead,
// since re-reading an unchanged payload is wasted work.
//
// # Basic Usage
//
// Writer side (owns the slot's lifetime, sizes it once):
//
//	writer, err := slot.OpenWriter(path, maxPayloadSize)
//	if err != nil {
//	    return err
//	}
//	defer writer.Close()
//
//	if err := writer.Write(payload); err != nil {
//	    log.Warn("write frame failed", "error", err)
//	}
//
// Reader side (attaches to an existing slot, does not size it):
//
//	reader, err := slot.OpenReader(path)
//	if err != nil {
//	    return err
//	}
//	defer reader.Close()
//
//	seq, data, err := reader.ReadLatest()
//	if errors.Is(err, slot.ErrNoNewData) {
//	    // nothing published since the last MarkRead
//	} else if err != nil {
//	    log.Warn("torn read, will retry on next signal", "error", err)
//	} else {
//	    process(data)
//	    reader.MarkRead(seq)
//	}
//
// # Why Not a Lock
//
// The two ends of a slot are separate OS processes in the deployments
// this bridge targets (capture, inference, controller), so a sync.Mutex
// is not an option — there is no shared address space to hold one in.
// The sequence-counter protocol above gets the same correctness
// guarantee (no torn reads) without needing one, at the cost of an
// occasional wasted retry instead of a blocked writer.
//
// # Thread Safety
//
// A *Writer is safe for use by a single writing goroutine; this package
// assumes one process owns the write side, matching the bridge's
// single-producer design. A *Reader's ReadLatest/MarkRead pair is safe
// to call from a single consuming goroutine; concurrent readers each
// need their own *Reader (cheap — it is a second mmap of the same
// file) since MarkRead's "have I already seen this sequence" state is
// per-Reader, not per-slot.
package slot
