package slot

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Writer maps a slot file read-write and publishes payloads into it
// under the sequence protocol described in the package doc.
type Writer struct {
	file     *os.File
	mapped   []byte
	sequence uint64
}

// OpenWriter opens or creates the slot file at path sized to hold
// HeaderSize+capacity bytes.
//
// If the file does not exist, it is created, truncated to the requested
// size, and its sequence header zeroed. If it exists but its size does
// not match HeaderSize+capacity, it is truncated to the requested size
// and the header is re-zeroed: a half-initialized or differently-sized
// leftover file from a previous run is treated as unusable rather than
// trusted, since this buffer has exactly one writer and no data in it
// survives a writer restart anyway. If it exists with the exact expected
// size, its current sequence is preserved so a restarted writer resumes
// numbering instead of confusing readers with a sequence that goes
// backwards.
func OpenWriter(path string, capacity int) (*Writer, error) {
	wantSize := int64(HeaderSize + capacity)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0660)
	if err != nil {
		return nil, fmt.Errorf("slot: open writer %q: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("slot: stat writer %q: %w", path, err)
	}

	freshInit := info.Size() != wantSize
	if freshInit {
		if err := f.Truncate(wantSize); err != nil {
			f.Close()
			return nil, fmt.Errorf("slot: truncate writer %q: %w", path, err)
		}
	}

	mapped, err := unix.Mmap(int(f.Fd()), 0, int(wantSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("slot: mmap writer %q: %w", path, err)
	}

	w := &Writer{file: f, mapped: mapped}
	if freshInit {
		storeSequence(w.mapped, 0)
		w.sequence = 0
	} else {
		w.sequence = loadSequence(w.mapped)
	}

	return w, nil
}

// Sequence returns the last sequence this writer published.
func (w *Writer) Sequence() uint64 {
	return w.sequence
}

// Write copies data into the payload region and publishes it: the copy
// happens before the sequence store, so any reader that observes the new
// sequence with acquire ordering is guaranteed to see the complete
// payload.
func (w *Writer) Write(data []byte) error {
	dst := payload(w.mapped)
	if len(data) > len(dst) {
		return fmt.Errorf("slot: payload %d bytes exceeds capacity %d", len(data), len(dst))
	}

	copy(dst, data)

	w.sequence++
	storeSequence(w.mapped, w.sequence)
	return nil
}

// Close unmaps the region and closes the file descriptor.
func (w *Writer) Close() error {
	var errs []error
	if w.mapped != nil {
		if err := unix.Munmap(w.mapped); err != nil {
			errs = append(errs, err)
		}
		w.mapped = nil
	}
	if err := w.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("slot: close writer: %v", errs)
}
