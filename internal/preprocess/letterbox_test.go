package preprocess

import (
	"testing"

	"github.com/jordandelbar/detr-mmap/internal/schema"
)

func solidFrame(width, height int, b, g, r byte) []byte {
	pixels := make([]byte, width*height*3)
	for i := 0; i < width*height; i++ {
		pixels[i*3+0] = b
		pixels[i*3+1] = g
		pixels[i*3+2] = r
	}
	return pixels
}

func TestLetterboxWidescreenCentersVertically(t *testing.T) {
	pixels := solidFrame(640, 360, 10, 20, 30)

	result, err := Letterbox(pixels, 640, 360, schema.ColorFormatBGR, 640)
	if err != nil {
		t.Fatalf("Letterbox: %v", err)
	}

	if result.InputSize != 640 {
		t.Errorf("InputSize = %d, want 640", result.InputSize)
	}
	if result.Transform.Scale != 1.0 {
		t.Errorf("Scale = %f, want 1.0", result.Transform.Scale)
	}
	if result.Transform.OffsetX != 0 {
		t.Errorf("OffsetX = %f, want 0", result.Transform.OffsetX)
	}
	wantOffsetY := float32((640 - 360) / 2)
	if result.Transform.OffsetY != wantOffsetY {
		t.Errorf("OffsetY = %f, want %f", result.Transform.OffsetY, wantOffsetY)
	}
	if len(result.Tensor) != 3*640*640 {
		t.Fatalf("tensor length = %d, want %d", len(result.Tensor), 3*640*640)
	}
}

func TestLetterboxPadsWithExpectedGray(t *testing.T) {
	pixels := solidFrame(640, 360, 10, 20, 30)

	result, err := Letterbox(pixels, 640, 360, schema.ColorFormatBGR, 640)
	if err != nil {
		t.Fatalf("Letterbox: %v", err)
	}

	plane := 640 * 640
	// Row 0 sits inside the top pad band for a 360-tall source centered
	// in a 640 canvas.
	idx := 0*640 + 0
	want := float32(padColor) / 255.0
	for c := 0; c < 3; c++ {
		if got := result.Tensor[c*plane+idx]; got != want {
			t.Errorf("pad pixel channel %d = %f, want %f", c, got, want)
		}
	}
}

func TestLetterboxRejectsZeroDimensions(t *testing.T) {
	if _, err := Letterbox(nil, 0, 100, schema.ColorFormatBGR, 640); err == nil {
		t.Error("Letterbox(width=0) = nil error, want rejection")
	}
	if _, err := Letterbox(nil, 100, 0, schema.ColorFormatBGR, 640); err == nil {
		t.Error("Letterbox(height=0) = nil error, want rejection")
	}
}

func TestLetterboxGrayscaleExpandsToThreeChannels(t *testing.T) {
	pixels := make([]byte, 100*100)
	for i := range pixels {
		pixels[i] = 200
	}

	result, err := Letterbox(pixels, 100, 100, schema.ColorFormatGray, 320)
	if err != nil {
		t.Fatalf("Letterbox: %v", err)
	}
	if len(result.Tensor) != 3*320*320 {
		t.Fatalf("tensor length = %d, want %d", len(result.Tensor), 3*320*320)
	}
}
