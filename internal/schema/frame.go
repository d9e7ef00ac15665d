package schema

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
)

// Frame is the table published by the capture process into the frame
// buffer. Field order matches the vtable slot indices below; do not
// reorder without keeping producer and consumer builds in lock-step (this
// is exactly the kind of change flatc would otherwise guard with schema
// evolution rules).
type Frame struct {
	_tab flatbuffers.Table
}

func GetRootAsFrame(buf []byte, offset flatbuffers.UOffsetT) *Frame {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &Frame{}
	x.Init(buf, n+offset)
	return x
}

// SafeRootAsFrame validates a minimum buffer size and recovers from any
// out-of-range access before it can panic, returning an error for
// truncated or torn input instead. It never mutates buf.
func SafeRootAsFrame(buf []byte) (frame *Frame, err error) {
	if len(buf) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("schema: frame buffer too small: %d bytes", len(buf))
	}
	defer func() {
		if r := recover(); r != nil {
			frame, err = nil, fmt.Errorf("schema: frame deserialization failed: %v", r)
		}
	}()
	return GetRootAsFrame(buf, 0), nil
}

func (rcv *Frame) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Frame) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *Frame) FrameNumber() uint64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetUint64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Frame) TimestampNs() uint64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.GetUint64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Frame) CameraId() uint32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.GetUint32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Frame) Width() uint32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		return rcv._tab.GetUint32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Frame) Height() uint32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(12))
	if o != 0 {
		return rcv._tab.GetUint32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Frame) Channels() byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(14))
	if o != 0 {
		return rcv._tab.GetByte(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Frame) Format() ColorFormat {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(16))
	if o != 0 {
		return ColorFormat(rcv._tab.GetInt8(o + rcv._tab.Pos))
	}
	return ColorFormatBGR
}

func (rcv *Frame) PixelsLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(18))
	if o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}

// PixelsBytes returns the raw pixel payload without copying it out of the
// mapped buffer.
func (rcv *Frame) PixelsBytes() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(18))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

// Validate applies the structural checks §4.D requires beyond what the
// vtable walk alone gives us: declared pixel length must match
// width*height*channels, and the buffer must actually contain that many
// bytes.
func (rcv *Frame) Validate() error {
	w, h, c := rcv.Width(), rcv.Height(), uint32(rcv.Channels())
	if w == 0 || h == 0 || c == 0 {
		return fmt.Errorf("schema: frame has zero dimension (w=%d h=%d c=%d)", w, h, c)
	}
	want := uint64(w) * uint64(h) * uint64(c)
	got := uint64(rcv.PixelsLength())
	if want != got {
		return fmt.Errorf("schema: frame pixel length mismatch: want %d (w*h*c), got %d", want, got)
	}
	return nil
}

func FrameStart(builder *flatbuffers.Builder) {
	builder.StartObject(8)
}

func FrameAddFrameNumber(builder *flatbuffers.Builder, frameNumber uint64) {
	builder.PrependUint64Slot(0, frameNumber, 0)
}

func FrameAddTimestampNs(builder *flatbuffers.Builder, timestampNs uint64) {
	builder.PrependUint64Slot(1, timestampNs, 0)
}

func FrameAddCameraId(builder *flatbuffers.Builder, cameraID uint32) {
	builder.PrependUint32Slot(2, cameraID, 0)
}

func FrameAddWidth(builder *flatbuffers.Builder, width uint32) {
	builder.PrependUint32Slot(3, width, 0)
}

func FrameAddHeight(builder *flatbuffers.Builder, height uint32) {
	builder.PrependUint32Slot(4, height, 0)
}

func FrameAddChannels(builder *flatbuffers.Builder, channels byte) {
	builder.PrependByteSlot(5, channels, 0)
}

func FrameAddFormat(builder *flatbuffers.Builder, format ColorFormat) {
	builder.PrependInt8Slot(6, int8(format), 0)
}

func FrameAddPixels(builder *flatbuffers.Builder, pixels flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(7, pixels, 0)
}

func FrameEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}

// BuildFrame serializes a complete Frame record into a fresh builder and
// returns the finished bytes, ready to be copied into a slot's payload
// region. It is the mirror image of SafeRootAsFrame and exists mainly for
// tests and for cmd/simcapture, which stands in for the real capture
// process.
func BuildFrame(frameNumber, timestampNs uint64, cameraID, width, height uint32, channels byte, format ColorFormat, pixels []byte) []byte {
	builder := flatbuffers.NewBuilder(len(pixels) + 64)

	pixelsOffset := builder.CreateByteVector(pixels)

	FrameStart(builder)
	FrameAddFrameNumber(builder, frameNumber)
	FrameAddTimestampNs(builder, timestampNs)
	FrameAddCameraId(builder, cameraID)
	FrameAddWidth(builder, width)
	FrameAddHeight(builder, height)
	FrameAddChannels(builder, channels)
	FrameAddFormat(builder, format)
	FrameAddPixels(builder, pixelsOffset)
	frame := FrameEnd(builder)

	builder.Finish(frame)
	return builder.FinishedBytes()
}
