package mq

import (
	"fmt"
	"testing"
)

// newTestQueue creates a uniquely-named queue for the test and registers
// cleanup. Tests skip rather than fail when the sandbox has no POSIX
// message queue filesystem mounted (mqueue is not universally available
// in restricted containers).
func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	name := fmt.Sprintf("/bridge_mq_test_%d", t.Name()[0]+uint8(len(t.Name())))
	_ = mqUnlink(name)

	q, err := Create(name)
	if err != nil {
		t.Skipf("POSIX message queues unavailable in this environment: %v", err)
	}
	t.Cleanup(func() {
		q.Close()
		Unlink(name)
	})
	return q
}

func TestCreateThenOpen(t *testing.T) {
	q := newTestQueue(t)

	other, err := Open(q.name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer other.Close()
}

func TestPostThenWait(t *testing.T) {
	q := newTestQueue(t)

	if err := q.Post(); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if err := q.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestTryWaitEmpty(t *testing.T) {
	q := newTestQueue(t)

	got, err := q.TryWait()
	if err != nil {
		t.Fatalf("TryWait: %v", err)
	}
	if got {
		t.Error("TryWait on empty queue = true, want false")
	}
}

func TestDrainCoalescesBacklog(t *testing.T) {
	q := newTestQueue(t)

	for i := 0; i < 5; i++ {
		if err := q.Post(); err != nil {
			t.Fatalf("Post %d: %v", i, err)
		}
	}

	count, err := q.Drain()
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if count != 5 {
		t.Errorf("Drain count = %d, want 5", count)
	}

	// A second drain should find nothing left.
	count, err = q.Drain()
	if err != nil {
		t.Fatalf("second Drain: %v", err)
	}
	if count != 0 {
		t.Errorf("second Drain count = %d, want 0", count)
	}
}

func TestCreateUnlinksStaleQueue(t *testing.T) {
	name := "/bridge_mq_test_stale"
	_ = mqUnlink(name)

	first, err := Create(name)
	if err != nil {
		t.Skipf("POSIX message queues unavailable in this environment: %v", err)
	}
	if err := first.Post(); err != nil {
		t.Fatalf("Post: %v", err)
	}
	first.Close()

	// Create again without unlinking manually: it must succeed and
	// start from an empty queue, not inherit the pending message.
	second, err := Create(name)
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	defer func() {
		second.Close()
		Unlink(name)
	}()

	got, err := second.TryWait()
	if err != nil {
		t.Fatalf("TryWait: %v", err)
	}
	if got {
		t.Error("recreated queue inherited a stale message")
	}
}
