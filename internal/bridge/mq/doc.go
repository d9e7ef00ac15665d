// Package mq wraps POSIX message queues (mq_open/mq_send/mq_receive) as
// a coalescing signal between processes that do not share an address
// space: token content carries no meaning, only that "at least one
// publish happened since you last looked" matters.
//
// # Coalescing Semantics
//
// A Queue is not a work queue. Producers Post a single byte on every
// publish, but consumers never need to read N messages to catch up on N
// publishes — Drain empties the queue in one pass and reports how many
// tokens it found, and the caller immediately goes and reads current
// state from the paired shared-memory slot
// ([github.com/jordandelbar/detr-mmap/internal/bridge/slot]) rather than
// from the queue itself. The queue only answers "has anything changed,"
// the slot answers "changed to what."
//
// This split exists because the underlying transport — frames and
// detection results — is far too large to fit in a message queue's
// per-message size limit, and copying it through one would add a
// second full copy on top of the mmap'd slot for no benefit.
//
// # Basic Usage
//
// Producer side (posts on every publish, owns nothing):
//
//	queue, err := mq.Open(bridge.QueueFrameInference)
//	if err != nil {
//	    return err
//	}
//	defer queue.Close()
//
//	if err := queue.Post(); err != nil {
//	    log.Warn("signal failed", "error", err)
//	}
//
// Consumer side (owns the queue's lifetime via Create, drains backlog
// before reading the slot):
//
//	queue, err := mq.Create(bridge.QueueFrameInference)
//	if err != nil {
//	    return err
//	}
//	defer func() {
//	    queue.Close()
//	    mq.Unlink(bridge.QueueFrameInference)
//	}()
//
//	for {
//	    if err := queue.Wait(); err != nil {
//	        return err
//	    }
//	    skipped, _ := queue.Drain()
//	    stats.addSkipped(skipped)
//	    processLatest()
//	}
//
// # Why Raw Syscalls
//
// golang.org/x/sys/unix exposes Mmap and Munmap as wrapped functions but
// not mq_open and friends — only the raw SYS_MQ_* syscall numbers are
// defined. This package is a thin shim over those numbers, mirroring
// the mq_open/mq_send/mq_receive/mq_timedreceive sequence the original
// C++ semaphore wrapper uses, rather than pulling in a second
// IPC-specific dependency for four syscalls.
//
// # Ownership
//
// Create unlinks any stale queue of the same name before creating a
// fresh one: a process that crashed without a clean shutdown can leave
// a queue behind, and the next run must not inherit its backlog. Open
// attaches to a queue Create already brought into existence and fails
// if it does not exist yet — only the owning side (the side that calls
// Create) is responsible for Unlink during a clean shutdown.
//
// # Thread Safety
//
// A *Queue's methods are safe for concurrent use; mq_send and
// mq_timedreceive are individually atomic kernel operations. Wait has
// no context-aware variant, so callers that need to honor a
// context.Context race it in a goroutine against ctx.Done — see
// [github.com/jordandelbar/detr-mmap/internal/pipeline]'s waitForSignal
// for the pattern.
package mq
