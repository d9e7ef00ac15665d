package postprocess

import (
	"testing"

	"github.com/jordandelbar/detr-mmap/internal/detector"
	"github.com/jordandelbar/detr-mmap/internal/preprocess"
)

func twoHeadOutputs(boxes []float32, scores []float32, labels []int64) detector.Outputs {
	return detector.Outputs{
		Variant:       detector.OutputVariantTwoHead,
		NumDetections: len(scores),
		Boxes:         boxes,
		Scores:        scores,
		Labels:        labels,
	}
}

func TestFromOutputsFiltersBelowThreshold(t *testing.T) {
	out := twoHeadOutputs(
		[]float32{0, 0, 10, 10, 0, 0, 10, 10},
		[]float32{0.9, 0.1},
		[]int64{1, 2},
	)
	transform := preprocess.TransformParams{Scale: 1, OrigWidth: 640, OrigHeight: 640}

	got := FromOutputs(out, transform, 0.5)
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if got[0].ClassID != 1 {
		t.Errorf("ClassID = %d, want 1", got[0].ClassID)
	}
}

func TestFromOutputsInvertsLetterboxOffsetAndScale(t *testing.T) {
	// Original 1280x720 letterboxed into 640: scale = 640/1280 = 0.5,
	// offsetY = (640 - 360) / 2 = 140.
	out := twoHeadOutputs(
		[]float32{100, 200, 300, 400},
		[]float32{0.99},
		[]int64{0},
	)
	transform := preprocess.TransformParams{
		Scale:      0.5,
		OffsetX:    0,
		OffsetY:    140,
		OrigWidth:  1280,
		OrigHeight: 720,
	}

	got := FromOutputs(out, transform, 0.5)
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}

	d := got[0]
	if d.X1 != 200 {
		t.Errorf("X1 = %f, want 200", d.X1)
	}
	if d.Y1 != 120 {
		t.Errorf("Y1 = %f, want 120", d.Y1)
	}
	if d.X2 != 600 {
		t.Errorf("X2 = %f, want 600", d.X2)
	}
	if d.Y2 != 520 {
		t.Errorf("Y2 = %f, want 520", d.Y2)
	}
}

func TestFromOutputsClampsToFrameBounds(t *testing.T) {
	out := twoHeadOutputs(
		[]float32{-50, -50, 700, 700},
		[]float32{0.8},
		[]int64{3},
	)
	transform := preprocess.TransformParams{Scale: 1, OrigWidth: 640, OrigHeight: 480}

	got := FromOutputs(out, transform, 0.5)
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}

	d := got[0]
	if d.X1 != 0 || d.Y1 != 0 {
		t.Errorf("top-left = (%f, %f), want (0, 0)", d.X1, d.Y1)
	}
	if d.X2 != 640 {
		t.Errorf("X2 = %f, want 640 (clamped)", d.X2)
	}
	if d.Y2 != 480 {
		t.Errorf("Y2 = %f, want 480 (clamped)", d.Y2)
	}
}

func TestFromOutputsEmptyInput(t *testing.T) {
	out := twoHeadOutputs(nil, nil, nil)
	transform := preprocess.TransformParams{Scale: 1, OrigWidth: 640, OrigHeight: 480}

	got := FromOutputs(out, transform, 0.5)
	if len(got) != 0 {
		t.Errorf("len(got) = %d, want 0", len(got))
	}
}
