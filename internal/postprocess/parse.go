package postprocess

import (
	"github.com/jordandelbar/detr-mmap/internal/detector"
	"github.com/jordandelbar/detr-mmap/internal/preprocess"
	"github.com/jordandelbar/detr-mmap/internal/schema"
)

// FromOutputs filters detector output by confidence, maps surviving
// boxes out of letterbox space back into the original frame's
// coordinates, and clamps them to the frame bounds.
//
// Formula: original_coord = (letterbox_coord - offset) / scale, matching
// the original pipeline's postprocessing exactly.
//
// It branches on out.Variant so a future detector.OutputVariantThreeHead
// can be handled without changing this function's signature; today only
// detector.OutputVariantTwoHead is implemented.
func FromOutputs(out detector.Outputs, transform preprocess.TransformParams, threshold float32) []schema.BoundingBoxValue {
	switch out.Variant {
	case detector.OutputVariantTwoHead:
		return fromTwoHead(out, transform, threshold)
	default:
		return nil
	}
}

func fromTwoHead(out detector.Outputs, transform preprocess.TransformParams, threshold float32) []schema.BoundingBoxValue {
	detections := make([]schema.BoundingBoxValue, 0, out.NumDetections)

	for i := 0; i < out.NumDetections; i++ {
		confidence := out.Scores[i]
		if confidence < threshold {
			continue
		}

		x1 := invertLetterbox(out.Boxes[i*4+0], transform.OffsetX, transform.Scale)
		y1 := invertLetterbox(out.Boxes[i*4+1], transform.OffsetY, transform.Scale)
		x2 := invertLetterbox(out.Boxes[i*4+2], transform.OffsetX, transform.Scale)
		y2 := invertLetterbox(out.Boxes[i*4+3], transform.OffsetY, transform.Scale)

		x1 = clamp(x1, 0, float32(transform.OrigWidth))
		y1 = clamp(y1, 0, float32(transform.OrigHeight))
		x2 = clamp(x2, 0, float32(transform.OrigWidth))
		y2 = clamp(y2, 0, float32(transform.OrigHeight))

		detections = append(detections, schema.BoundingBoxValue{
			X1:         x1,
			Y1:         y1,
			X2:         x2,
			Y2:         y2,
			Confidence: confidence,
			ClassID:    uint32(out.Labels[i]),
		})
	}

	return detections
}

func invertLetterbox(coord, offset, scale float32) float32 {
	return (coord - offset) / scale
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
