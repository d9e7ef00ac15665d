package mq

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// Queue is a coalescing signal backed by a POSIX message queue. The
// message payload is always a single byte and carries no information;
// only the arrival of a message matters.
type Queue struct {
	name string
	fd   int
}

// Open attaches to an existing queue. It fails if the queue has not been
// Created by another process yet — callers that own queue lifecycle
// (typically the inference process, which owns QueueDetectionController)
// should use Create instead.
func Open(name string) (*Queue, error) {
	fd, err := mqOpen(name, oRDWR, 0, nil)
	if err != nil {
		return nil, wrapErrno("open", name, err)
	}
	return &Queue{name: name, fd: fd}, nil
}

// Create unlinks any stale queue of the same name left over from a
// previous run, then creates a fresh one. This matches the original
// bridge's assumption that a crashed process can leave a queue behind
// that the next run must not inherit stale state from.
func Create(name string) (*Queue, error) {
	_ = mqUnlink(name)

	attr := &mqAttr{
		Maxmsg:  maxMessages,
		Msgsize: messageSize,
	}
	fd, err := mqOpen(name, oCreat|oExcl|oRDWR, defaultMode, attr)
	if err != nil {
		return nil, wrapErrno("create", name, err)
	}
	return &Queue{name: name, fd: fd}, nil
}

// Wait blocks until at least one message is available, retrying
// transparently across EINTR.
func (q *Queue) Wait() error {
	buf := make([]byte, messageSize)
	for {
		_, err := mqTimedReceive(q.fd, buf, nil)
		if err == nil {
			return nil
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return wrapErrno("wait", q.name, err)
	}
}

// TryWait polls once without blocking. It returns (true, nil) if a
// message was consumed, (false, nil) if the queue was empty, and a
// non-nil error for anything else.
func (q *Queue) TryWait() (bool, error) {
	buf := make([]byte, messageSize)
	now := time.Now()
	_, err := mqTimedReceive(q.fd, buf, &now)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, unix.ETIMEDOUT) {
		return false, nil
	}
	if errors.Is(err, unix.EINTR) {
		return false, nil
	}
	return false, wrapErrno("try_wait", q.name, err)
}

// Drain consumes every pending message and reports how many it found.
// The pipeline driver calls this before reading the frame slot: coalesce
// semantics mean the count is discarded, only "was there at least one"
// matters, but the count is useful for backlog logging.
func (q *Queue) Drain() (int, error) {
	count := 0
	for {
		got, err := q.TryWait()
		if err != nil {
			return count, err
		}
		if !got {
			return count, nil
		}
		count++
	}
}

// Post publishes a single wake-up token.
func (q *Queue) Post() error {
	if err := mqSend(q.fd, []byte{1}, 0); err != nil {
		return wrapErrno("post", q.name, err)
	}
	return nil
}

// Close releases the underlying descriptor. It does not unlink the
// queue: the process that Created it is responsible for that, on the
// same terms a Unix domain socket owner removes its own path.
func (q *Queue) Close() error {
	return mqClose(q.fd)
}

// Unlink removes the named queue from the system. Only the owning
// process (the one that called Create) should call this, and only
// during a clean shutdown.
func Unlink(name string) error {
	return mqUnlink(name)
}
