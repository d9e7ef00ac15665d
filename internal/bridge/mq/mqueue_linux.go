//go:build linux

package mq

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mqAttr mirrors struct mq_attr from <mqueue.h> on Linux. All members are
// long, which is 8 bytes on amd64/arm64.
type mqAttr struct {
	Flags    int64
	Maxmsg   int64
	Msgsize  int64
	Curmsgs  int64
	reserved [4]int64
}

const (
	oCreat = unix.O_CREAT
	oExcl  = unix.O_EXCL
	oRDWR  = unix.O_RDWR

	// defaultMode matches the 0660 the original C++ semaphore wrapper
	// creates queues with.
	defaultMode = 0660

	// maxMessages and messageSize match the original: queues here carry
	// no payload, only the fact that a send happened.
	maxMessages = 10
	messageSize = 1
)

func mqOpen(name string, oflag int, mode uint32, attr *mqAttr) (int, error) {
	namePtr, err := unix.BytePtrFromString(name)
	if err != nil {
		return -1, err
	}
	fd, _, errno := unix.Syscall6(
		unix.SYS_MQ_OPEN,
		uintptr(unsafe.Pointer(namePtr)),
		uintptr(oflag),
		uintptr(mode),
		uintptr(unsafe.Pointer(attr)),
		0, 0,
	)
	if errno != 0 {
		return -1, errno
	}
	return int(fd), nil
}

func mqUnlink(name string) error {
	namePtr, err := unix.BytePtrFromString(name)
	if err != nil {
		return err
	}
	_, _, errno := unix.Syscall(unix.SYS_MQ_UNLINK, uintptr(unsafe.Pointer(namePtr)), 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

func mqSend(fd int, msg []byte, prio uint) error {
	var msgPtr unsafe.Pointer
	if len(msg) > 0 {
		msgPtr = unsafe.Pointer(&msg[0])
	}
	_, _, errno := unix.Syscall6(
		unix.SYS_MQ_TIMEDSEND,
		uintptr(fd),
		uintptr(msgPtr),
		uintptr(len(msg)),
		uintptr(prio),
		0, // no abs_timeout: block indefinitely, matching mq_send semantics
		0,
	)
	if errno != 0 {
		return errno
	}
	return nil
}

// timespec mirrors struct timespec for the absolute-timeout receive path.
type timespec struct {
	Sec  int64
	Nsec int64
}

// mqTimedReceive receives a message, or returns unix.ETIMEDOUT if abs is
// non-nil and reached before one arrives. abs == nil blocks indefinitely.
func mqTimedReceive(fd int, buf []byte, abs *time.Time) (int, error) {
	var bufPtr unsafe.Pointer
	if len(buf) > 0 {
		bufPtr = unsafe.Pointer(&buf[0])
	}

	var tsPtr unsafe.Pointer
	if abs != nil {
		ts := timespec{Sec: abs.Unix(), Nsec: int64(abs.Nanosecond())}
		tsPtr = unsafe.Pointer(&ts)
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_MQ_TIMEDRECEIVE,
		uintptr(fd),
		uintptr(bufPtr),
		uintptr(len(buf)),
		0, // msg_prio: unused, we don't care about priority
		uintptr(tsPtr),
		0,
	)
	if errno != 0 {
		return 0, errno
	}
	return int(n), nil
}

func mqClose(fd int) error {
	return unix.Close(fd)
}

func wrapErrno(op, name string, err error) error {
	return fmt.Errorf("mq: %s %q: %w", op, name, err)
}
