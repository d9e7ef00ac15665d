package slot

import (
	"os"
	"path/filepath"
	"testing"
)

func tempSlotPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "slot.bin")
}

func TestWriterThenReaderRoundTrip(t *testing.T) {
	path := tempSlotPath(t)

	w, err := OpenWriter(path, 1024)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	defer w.Close()

	if err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	seq, data, err := r.ReadLatest()
	if err != nil {
		t.Fatalf("ReadLatest: %v", err)
	}
	if seq != 1 {
		t.Errorf("sequence = %d, want 1", seq)
	}
	if string(data[:5]) != "hello" {
		t.Errorf("payload = %q, want %q", data[:5], "hello")
	}
}

func TestReadLatestNoNewDataBeforeAnyWrite(t *testing.T) {
	path := tempSlotPath(t)

	w, err := OpenWriter(path, 64)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	defer w.Close()

	r, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	if _, _, err := r.ReadLatest(); err != ErrNoNewData {
		t.Errorf("ReadLatest = %v, want ErrNoNewData", err)
	}
}

func TestMarkReadSuppressesRepeatedRead(t *testing.T) {
	path := tempSlotPath(t)

	w, err := OpenWriter(path, 64)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	defer w.Close()
	if err := w.Write([]byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	seq, _, err := r.ReadLatest()
	if err != nil {
		t.Fatalf("ReadLatest: %v", err)
	}
	r.MarkRead(seq)

	if _, _, err := r.ReadLatest(); err != ErrNoNewData {
		t.Errorf("ReadLatest after MarkRead = %v, want ErrNoNewData", err)
	}
}

func TestSequenceMonotonicAcrossWrites(t *testing.T) {
	path := tempSlotPath(t)

	w, err := OpenWriter(path, 64)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	defer w.Close()

	for i := 1; i <= 5; i++ {
		if err := w.Write([]byte{byte(i)}); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
		if w.Sequence() != uint64(i) {
			t.Fatalf("Sequence after write %d = %d, want %d", i, w.Sequence(), i)
		}
	}
}

func TestWriteRejectsOversizedPayload(t *testing.T) {
	path := tempSlotPath(t)

	w, err := OpenWriter(path, 8)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	defer w.Close()

	if err := w.Write(make([]byte, 9)); err == nil {
		t.Error("Write(9 bytes into 8-byte capacity) = nil error, want rejection")
	}
}

func TestOpenWriterPreservesSequenceOnMatchingReopen(t *testing.T) {
	path := tempSlotPath(t)

	w1, err := OpenWriter(path, 64)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	if err := w1.Write([]byte("a")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	w2, err := OpenWriter(path, 64)
	if err != nil {
		t.Fatalf("reopen OpenWriter: %v", err)
	}
	defer w2.Close()

	if w2.Sequence() != 1 {
		t.Errorf("reopened Sequence = %d, want 1 (preserved)", w2.Sequence())
	}
}

func TestOpenWriterReinitsOnSizeMismatch(t *testing.T) {
	path := tempSlotPath(t)

	w1, err := OpenWriter(path, 64)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	if err := w1.Write([]byte("a")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen with a different capacity: must reinitialize, not trust the
	// stale sequence from the old layout.
	w2, err := OpenWriter(path, 128)
	if err != nil {
		t.Fatalf("reopen OpenWriter with different capacity: %v", err)
	}
	defer w2.Close()

	if w2.Sequence() != 0 {
		t.Errorf("reinitialized Sequence = %d, want 0", w2.Sequence())
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != HeaderSize+128 {
		t.Errorf("file size = %d, want %d", info.Size(), HeaderSize+128)
	}
}

func TestOpenReaderRejectsUndersizedFile(t *testing.T) {
	path := tempSlotPath(t)
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0660); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := OpenReader(path); err == nil {
		t.Error("OpenReader on undersized file = nil error, want rejection")
	}
}
