package preprocess

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/jordandelbar/detr-mmap/internal/schema"
)

// padColor is the gray value used to fill the letterbox borders, matching
// the original pipeline's constant exactly.
const padColor = 114

// TransformParams describes how a letterboxed tensor maps back onto the
// original frame: postprocess.Process uses these to invert the resize
// and padding applied here.
type TransformParams struct {
	Scale      float32
	OffsetX    float32
	OffsetY    float32
	OrigWidth  int
	OrigHeight int
}

// Result is a preprocessed frame ready for the detector engine: a
// flattened CHW float32 tensor normalized to [0, 1], plus the transform
// needed to map detections in letterbox space back to the original
// frame.
type Result struct {
	Tensor    []float32
	Transform TransformParams
	InputSize int
}

// Letterbox converts raw frame pixels into a square, aspect-preserving,
// padded tensor of size inputSize x inputSize. Grayscale frames are
// expanded to three channels by replication; BGR frames are converted to
// RGB, matching the channel order the detector engines in this pipeline
// expect.
func Letterbox(pixels []byte, width, height int, format schema.ColorFormat, inputSize int) (Result, error) {
	if width <= 0 || height <= 0 {
		return Result{}, fmt.Errorf("preprocess: invalid dimensions %dx%d", width, height)
	}
	if inputSize <= 0 {
		return Result{}, fmt.Errorf("preprocess: invalid input size %d", inputSize)
	}

	src, err := toRGBMat(pixels, width, height, format)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	scale := float32(inputSize) / float32(width)
	if hScale := float32(inputSize) / float32(height); hScale < scale {
		scale = hScale
	}
	newWidth := int(float32(width) * scale)
	newHeight := int(float32(height) * scale)
	offsetX := (inputSize - newWidth) / 2
	offsetY := (inputSize - newHeight) / 2

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(src, &resized, image.Pt(newWidth, newHeight), 0, 0, gocv.InterpolationLinear)

	canvas := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(padColor, padColor, padColor, 0),
		inputSize, inputSize, gocv.MatTypeCV8UC3,
	)
	defer canvas.Close()

	roi := canvas.Region(image.Rect(offsetX, offsetY, offsetX+newWidth, offsetY+newHeight))
	resized.CopyTo(&roi)
	roi.Close()

	tensor := toCHWNormalized(canvas, inputSize)

	return Result{
		Tensor: tensor,
		Transform: TransformParams{
			Scale:      scale,
			OffsetX:    float32(offsetX),
			OffsetY:    float32(offsetY),
			OrigWidth:  width,
			OrigHeight: height,
		},
		InputSize: inputSize,
	}, nil
}

// toRGBMat builds an 8UC3 RGB matrix from the frame's raw payload,
// converting from BGR or expanding grayscale as needed.
func toRGBMat(pixels []byte, width, height int, format schema.ColorFormat) (gocv.Mat, error) {
	switch format {
	case schema.ColorFormatBGR:
		bgr, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, pixels)
		if err != nil {
			return gocv.Mat{}, fmt.Errorf("preprocess: mat from BGR bytes: %w", err)
		}
		defer bgr.Close()
		rgb := gocv.NewMat()
		gocv.CvtColor(bgr, &rgb, gocv.ColorBGRToRGB)
		return rgb, nil

	case schema.ColorFormatRGB:
		src, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, pixels)
		if err != nil {
			return gocv.Mat{}, fmt.Errorf("preprocess: mat from RGB bytes: %w", err)
		}
		return src.Clone(), nil

	case schema.ColorFormatGray:
		gray, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC1, pixels)
		if err != nil {
			return gocv.Mat{}, fmt.Errorf("preprocess: mat from gray bytes: %w", err)
		}
		defer gray.Close()
		rgb := gocv.NewMat()
		gocv.CvtColor(gray, &rgb, gocv.ColorGrayToBGR)
		return rgb, nil

	default:
		return gocv.Mat{}, fmt.Errorf("preprocess: unsupported color format %v", format)
	}
}

// toCHWNormalized reads an 8UC3 square mat out as a flattened [3, size,
// size] float32 tensor normalized to [0, 1].
func toCHWNormalized(mat gocv.Mat, size int) []float32 {
	hwc := mat.ToBytes()
	plane := size * size
	tensor := make([]float32, 3*plane)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			base := (y*size + x) * 3
			idx := y*size + x
			tensor[0*plane+idx] = float32(hwc[base+0]) / 255.0
			tensor[1*plane+idx] = float32(hwc[base+1]) / 255.0
			tensor[2*plane+idx] = float32(hwc[base+2]) / 255.0
		}
	}
	return tensor
}
