package schema

import (
	"testing"
)

func TestBuildFrameRoundTrip(t *testing.T) {
	pixels := make([]byte, 4*3*3)
	for i := range pixels {
		pixels[i] = byte(i)
	}

	buf := BuildFrame(42, 1_700_000_000_000, 7, 4, 3, 3, ColorFormatBGR, pixels)

	frame, err := SafeRootAsFrame(buf)
	if err != nil {
		t.Fatalf("SafeRootAsFrame: %v", err)
	}

	if frame.FrameNumber() != 42 {
		t.Errorf("FrameNumber = %d, want 42", frame.FrameNumber())
	}
	if frame.TimestampNs() != 1_700_000_000_000 {
		t.Errorf("TimestampNs = %d, want 1700000000000", frame.TimestampNs())
	}
	if frame.CameraId() != 7 {
		t.Errorf("CameraId = %d, want 7", frame.CameraId())
	}
	if frame.Width() != 4 || frame.Height() != 3 || frame.Channels() != 3 {
		t.Errorf("dims = %dx%dx%d, want 4x3x3", frame.Width(), frame.Height(), frame.Channels())
	}
	if frame.Format() != ColorFormatBGR {
		t.Errorf("Format = %v, want BGR", frame.Format())
	}
	if got := frame.PixelsBytes(); len(got) != len(pixels) {
		t.Fatalf("PixelsBytes length = %d, want %d", len(got), len(pixels))
	}
	for i, b := range frame.PixelsBytes() {
		if b != pixels[i] {
			t.Fatalf("pixel %d = %d, want %d", i, b, pixels[i])
		}
	}
	if err := frame.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestFrameValidateDimensionMismatch(t *testing.T) {
	// Declared 4x3x3 = 36 bytes but only 10 supplied.
	buf := BuildFrame(1, 0, 0, 4, 3, 3, ColorFormatRGB, make([]byte, 10))
	frame, err := SafeRootAsFrame(buf)
	if err != nil {
		t.Fatalf("SafeRootAsFrame: %v", err)
	}
	if err := frame.Validate(); err == nil {
		t.Error("Validate() = nil, want mismatch error")
	}
}

func TestSafeRootAsFrameRejectsTornBuffer(t *testing.T) {
	buf := BuildFrame(1, 2, 3, 4, 5, 3, ColorFormatGray, make([]byte, 60))

	// Truncate mid-payload to simulate a torn read.
	torn := buf[:len(buf)/2]
	if _, err := SafeRootAsFrame(torn); err == nil {
		t.Error("SafeRootAsFrame(torn) = nil error, want rejection")
	}

	if _, err := SafeRootAsFrame(nil); err == nil {
		t.Error("SafeRootAsFrame(nil) = nil error, want rejection")
	}
	if _, err := SafeRootAsFrame([]byte{0, 1, 2}); err == nil {
		t.Error("SafeRootAsFrame(too small) = nil error, want rejection")
	}
}

func TestBuildDetectionResultRoundTrip(t *testing.T) {
	detections := []BoundingBoxValue{
		{X1: 10, Y1: 20, X2: 110, Y2: 220, Confidence: 0.91, ClassID: 2},
		{X1: 5, Y1: 5, X2: 50, Y2: 55, Confidence: 0.42, ClassID: 0},
	}

	buf := BuildDetectionResult(99, 1_800_000_000_000, 3, detections)

	result, err := SafeRootAsDetectionResult(buf)
	if err != nil {
		t.Fatalf("SafeRootAsDetectionResult: %v", err)
	}

	if result.FrameNumber() != 99 {
		t.Errorf("FrameNumber = %d, want 99", result.FrameNumber())
	}
	if result.TimestampNs() != 1_800_000_000_000 {
		t.Errorf("TimestampNs = %d, want 1800000000000", result.TimestampNs())
	}
	if result.CameraId() != 3 {
		t.Errorf("CameraId = %d, want 3", result.CameraId())
	}
	if result.DetectionsLength() != len(detections) {
		t.Fatalf("DetectionsLength = %d, want %d", result.DetectionsLength(), len(detections))
	}

	got := result.AllDetections()
	for i, want := range detections {
		if got[i] != want {
			t.Errorf("detection %d = %+v, want %+v", i, got[i], want)
		}
	}
}

func TestBuildDetectionResultEmpty(t *testing.T) {
	buf := BuildDetectionResult(1, 2, 3, nil)
	result, err := SafeRootAsDetectionResult(buf)
	if err != nil {
		t.Fatalf("SafeRootAsDetectionResult: %v", err)
	}
	if result.DetectionsLength() != 0 {
		t.Errorf("DetectionsLength = %d, want 0", result.DetectionsLength())
	}
	if got := result.AllDetections(); len(got) != 0 {
		t.Errorf("AllDetections = %v, want empty", got)
	}
}

func TestSafeRootAsDetectionResultRejectsTornBuffer(t *testing.T) {
	detections := []BoundingBoxValue{
		{X1: 1, Y1: 2, X2: 3, Y2: 4, Confidence: 0.5, ClassID: 1},
	}
	buf := BuildDetectionResult(1, 2, 3, detections)
	torn := buf[:len(buf)/2]
	if _, err := SafeRootAsDetectionResult(torn); err == nil {
		t.Error("SafeRootAsDetectionResult(torn) = nil error, want rejection")
	}
}

func TestColorFormatString(t *testing.T) {
	cases := map[ColorFormat]string{
		ColorFormatBGR:  "BGR",
		ColorFormatRGB:  "RGB",
		ColorFormatGray: "GRAY",
		ColorFormat(99): "UNKNOWN",
	}
	for format, want := range cases {
		if got := format.String(); got != want {
			t.Errorf("ColorFormat(%d).String() = %q, want %q", format, got, want)
		}
	}
}
