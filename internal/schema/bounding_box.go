package schema

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// BoundingBoxSize is the fixed inline size, in bytes, of a BoundingBox
// struct: four float32 coordinates, a float32 confidence, and a uint32
// class id.
const BoundingBoxSize = 24

// BoundingBox is a FlatBuffers struct: it has no vtable, so every field of
// every element in a vector of BoundingBox sits at a fixed byte offset
// from the element's start. This is what makes detection vectors
// constant-time and allocation-free to read.
type BoundingBox struct {
	_tab flatbuffers.Struct
}

func (rcv *BoundingBox) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *BoundingBox) Table() flatbuffers.Table {
	return rcv._tab.Table
}

func (rcv *BoundingBox) X1() float32 {
	return rcv._tab.GetFloat32(rcv._tab.Pos + 0)
}

func (rcv *BoundingBox) Y1() float32 {
	return rcv._tab.GetFloat32(rcv._tab.Pos + 4)
}

func (rcv *BoundingBox) X2() float32 {
	return rcv._tab.GetFloat32(rcv._tab.Pos + 8)
}

func (rcv *BoundingBox) Y2() float32 {
	return rcv._tab.GetFloat32(rcv._tab.Pos + 12)
}

func (rcv *BoundingBox) Confidence() float32 {
	return rcv._tab.GetFloat32(rcv._tab.Pos + 16)
}

func (rcv *BoundingBox) ClassId() uint32 {
	return rcv._tab.GetUint32(rcv._tab.Pos + 20)
}

// CreateBoundingBox writes a BoundingBox struct inline. Struct fields are
// prepended in reverse declaration order because the builder fills the
// buffer back-to-front.
func CreateBoundingBox(builder *flatbuffers.Builder, x1, y1, x2, y2, confidence float32, classID uint32) flatbuffers.UOffsetT {
	builder.Prep(4, BoundingBoxSize)
	builder.PrependUint32(classID)
	builder.PrependFloat32(confidence)
	builder.PrependFloat32(y2)
	builder.PrependFloat32(x2)
	builder.PrependFloat32(y1)
	builder.PrependFloat32(x1)
	return builder.Offset()
}

// BoundingBoxValue is a detached, plain-Go copy of a BoundingBox, used
// once a detection has left the wire format (e.g. postprocess output
// before it is re-serialized by the detection writer).
type BoundingBoxValue struct {
	X1, Y1, X2, Y2 float32
	Confidence     float32
	ClassID        uint32
}

func (rcv *BoundingBox) Value() BoundingBoxValue {
	return BoundingBoxValue{
		X1:         rcv.X1(),
		Y1:         rcv.Y1(),
		X2:         rcv.X2(),
		Y2:         rcv.Y2(),
		Confidence: rcv.Confidence(),
		ClassID:    rcv.ClassId(),
	}
}
