package slot

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrNoNewData is returned by ReadLatest when the writer has not
// published anything past the reader's last-observed sequence.
var ErrNoNewData = errors.New("slot: no new data")

// ErrTornRead is returned by ReadLatest when the sequence changed while
// the payload was being copied out. The caller should treat this the
// same as ErrNoNewData: retry on the next signal, do not crash the
// pipeline over it.
var ErrTornRead = errors.New("slot: torn read detected")

// Reader maps a slot file read-only and exposes the latest published
// payload.
type Reader struct {
	file         *os.File
	mapped       []byte
	lastSequence uint64
}

// OpenReader maps path for reading. The file must already exist and be
// at least HeaderSize bytes; it is normally created by the Writer side.
func OpenReader(path string) (*Reader, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("slot: open reader %q: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("slot: stat reader %q: %w", path, err)
	}
	if info.Size() < HeaderSize {
		f.Close()
		return nil, fmt.Errorf("slot: reader %q too small: %d bytes", path, info.Size())
	}

	mapped, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("slot: mmap reader %q: %w", path, err)
	}

	return &Reader{file: f, mapped: mapped}, nil
}

// CurrentSequence returns the sequence currently published in the
// header, with acquire ordering.
func (r *Reader) CurrentSequence() uint64 {
	return loadSequence(r.mapped)
}

// LastSequence returns the sequence the reader last accepted via
// MarkRead.
func (r *Reader) LastSequence() uint64 {
	return r.lastSequence
}

// ReadLatest returns the sequence number and payload bytes of the most
// recent publish, if it is newer than LastSequence. The returned slice
// aliases the mapped region and is only valid until the next write; the
// caller must copy anything it needs to retain (schema.SafeRootAsFrame
// copies field values out, so this is normally safe to pass straight
// through).
func (r *Reader) ReadLatest() (sequence uint64, data []byte, err error) {
	seq1 := loadSequence(r.mapped)
	if seq1 <= r.lastSequence {
		return 0, nil, ErrNoNewData
	}

	buf := payload(r.mapped)

	seq2 := loadSequence(r.mapped)
	if seq1 != seq2 {
		return 0, nil, ErrTornRead
	}

	return seq1, buf, nil
}

// MarkRead records seq as consumed so a later ReadLatest for the same
// publish returns ErrNoNewData.
func (r *Reader) MarkRead(seq uint64) {
	r.lastSequence = seq
}

// Close unmaps the region and closes the file descriptor.
func (r *Reader) Close() error {
	var errs []error
	if r.mapped != nil {
		if err := unix.Munmap(r.mapped); err != nil {
			errs = append(errs, err)
		}
		r.mapped = nil
	}
	if err := r.file.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
