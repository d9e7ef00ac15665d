package schema

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
)

// DetectionResult is the table published by the pipeline into the
// detection buffer: correlation fields copied verbatim from the frame
// that produced them, plus the filtered detections.
type DetectionResult struct {
	_tab flatbuffers.Table
}

func GetRootAsDetectionResult(buf []byte, offset flatbuffers.UOffsetT) *DetectionResult {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &DetectionResult{}
	x.Init(buf, n+offset)
	return x
}

// SafeRootAsDetectionResult mirrors SafeRootAsFrame: bounds-check first,
// recover from any panic the vtable walk could otherwise raise on
// corrupt input, and turn both into a plain error.
func SafeRootAsDetectionResult(buf []byte) (result *DetectionResult, err error) {
	if len(buf) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("schema: detection buffer too small: %d bytes", len(buf))
	}
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("schema: detection result deserialization failed: %v", r)
		}
	}()
	return GetRootAsDetectionResult(buf, 0), nil
}

func (rcv *DetectionResult) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *DetectionResult) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *DetectionResult) FrameNumber() uint64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetUint64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *DetectionResult) TimestampNs() uint64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.GetUint64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *DetectionResult) CameraId() uint32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.GetUint32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *DetectionResult) DetectionsLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}

// Detections populates obj with the j-th detection. It returns false if
// the vector is absent (j is not range-checked; callers must stay within
// [0, DetectionsLength())).
func (rcv *DetectionResult) Detections(obj *BoundingBox, j int) bool {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o == 0 {
		return false
	}
	x := rcv._tab.Vector(o)
	x += flatbuffers.UOffsetT(j) * BoundingBoxSize
	obj.Init(rcv._tab.Bytes, x)
	return true
}

// AllDetections copies every detection out of the mapped buffer into
// plain Go values, decoupling callers from the buffer's lifetime.
func (rcv *DetectionResult) AllDetections() []BoundingBoxValue {
	n := rcv.DetectionsLength()
	out := make([]BoundingBoxValue, 0, n)
	var box BoundingBox
	for i := 0; i < n; i++ {
		if rcv.Detections(&box, i) {
			out = append(out, box.Value())
		}
	}
	return out
}

func DetectionResultStart(builder *flatbuffers.Builder) {
	builder.StartObject(4)
}

func DetectionResultAddFrameNumber(builder *flatbuffers.Builder, frameNumber uint64) {
	builder.PrependUint64Slot(0, frameNumber, 0)
}

func DetectionResultAddTimestampNs(builder *flatbuffers.Builder, timestampNs uint64) {
	builder.PrependUint64Slot(1, timestampNs, 0)
}

func DetectionResultAddCameraId(builder *flatbuffers.Builder, cameraID uint32) {
	builder.PrependUint32Slot(2, cameraID, 0)
}

func DetectionResultAddDetections(builder *flatbuffers.Builder, detections flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(3, detections, 0)
}

func DetectionResultEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}

// DetectionResultStartDetectionsVector begins a vector of inline
// BoundingBox structs. Callers must call CreateBoundingBox numElems times
// in reverse index order (the builder fills back-to-front) before
// EndVector.
func DetectionResultStartDetectionsVector(builder *flatbuffers.Builder, numElems int) flatbuffers.UOffsetT {
	return builder.StartVector(BoundingBoxSize, numElems, 4)
}

// BuildDetectionResult serializes a complete DetectionResult record. It
// is the counterpart used by internal/bridge/slot's detection writer.
func BuildDetectionResult(frameNumber, timestampNs uint64, cameraID uint32, detections []BoundingBoxValue) []byte {
	builder := flatbuffers.NewBuilder(len(detections)*BoundingBoxSize + 64)

	var detectionsOffset flatbuffers.UOffsetT
	if len(detections) > 0 {
		DetectionResultStartDetectionsVector(builder, len(detections))
		for i := len(detections) - 1; i >= 0; i-- {
			d := detections[i]
			CreateBoundingBox(builder, d.X1, d.Y1, d.X2, d.Y2, d.Confidence, d.ClassID)
		}
		detectionsOffset = builder.EndVector(len(detections))
	}

	DetectionResultStart(builder)
	DetectionResultAddFrameNumber(builder, frameNumber)
	DetectionResultAddTimestampNs(builder, timestampNs)
	DetectionResultAddCameraId(builder, cameraID)
	if len(detections) > 0 {
		DetectionResultAddDetections(builder, detectionsOffset)
	}
	result := DetectionResultEnd(builder)

	builder.Finish(result)
	return builder.FinishedBytes()
}
