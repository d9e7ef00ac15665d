package detector

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// State is the Engine's lifecycle position.
type State int

const (
	Unloaded State = iota
	Loaded
	Destroyed
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// DetectionCount is the fixed number of detection slots the two-head
// output contract advertises, matching the RT-DETR-style model this
// pipeline targets.
const DetectionCount = 300

// Engine adapts one ONNX Runtime session to the pipeline's fixed
// tensor-contract interface.
type Engine struct {
	modelPath string
	inputSize int
	state     State

	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	boxes   *ort.Tensor[float32]
	scores  *ort.Tensor[float32]
	labels  *ort.Tensor[int64]
}

// New creates an Engine bound to modelPath, starting Unloaded. inputSize
// is the square tensor dimension the preprocessor must produce to match
// this model.
func New(modelPath string, inputSize int) *Engine {
	return &Engine{
		modelPath: modelPath,
		inputSize: inputSize,
		state:     Unloaded,
	}
}

// State reports the engine's current lifecycle position.
func (e *Engine) State() State {
	return e.state
}

// Load builds the input/output tensors and the ONNX Runtime session. It
// asserts that the model's advertised input shape matches the
// preprocessor's configured inputSize before committing to a session:
// running a mismatched tensor through the model silently produces
// garbage detections rather than an error, so this is refused at load
// time instead.
//
// On any failure, partially-created resources are released and the
// engine stays Unloaded.
func (e *Engine) Load() error {
	if e.state != Unloaded {
		return fmt.Errorf("detector: Load called in state %s, want %s", e.state, Unloaded)
	}

	if err := e.assertInputShape(); err != nil {
		return err
	}

	if err := acquireEnvironment(); err != nil {
		return err
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		releaseEnvironment()
		return fmt.Errorf("detector: create session options: %w", err)
	}
	defer options.Destroy()

	inputShape := ort.NewShape(1, 3, int64(e.inputSize), int64(e.inputSize))
	input, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		releaseEnvironment()
		return fmt.Errorf("detector: create input tensor: %w", err)
	}

	boxesShape := ort.NewShape(1, DetectionCount, 4)
	boxes, err := ort.NewEmptyTensor[float32](boxesShape)
	if err != nil {
		input.Destroy()
		releaseEnvironment()
		return fmt.Errorf("detector: create boxes tensor: %w", err)
	}

	scoresShape := ort.NewShape(1, DetectionCount)
	scores, err := ort.NewEmptyTensor[float32](scoresShape)
	if err != nil {
		boxes.Destroy()
		input.Destroy()
		releaseEnvironment()
		return fmt.Errorf("detector: create scores tensor: %w", err)
	}

	labelsShape := ort.NewShape(1, DetectionCount)
	labels, err := ort.NewEmptyTensor[int64](labelsShape)
	if err != nil {
		scores.Destroy()
		boxes.Destroy()
		input.Destroy()
		releaseEnvironment()
		return fmt.Errorf("detector: create labels tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		e.modelPath,
		[]string{"images"},
		[]string{"boxes", "scores", "labels"},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{boxes, scores, labels},
		options,
	)
	if err != nil {
		labels.Destroy()
		scores.Destroy()
		boxes.Destroy()
		input.Destroy()
		releaseEnvironment()
		return fmt.Errorf("detector: create session: %w", err)
	}

	e.session = session
	e.input = input
	e.boxes = boxes
	e.scores = scores
	e.labels = labels
	e.state = Loaded
	return nil
}

// assertInputShape checks the model's advertised input tensor shape
// against e.inputSize before any session is created.
func (e *Engine) assertInputShape() error {
	inputs, _, err := ort.GetInputOutputInfo(e.modelPath)
	if err != nil {
		return fmt.Errorf("detector: inspect model %q: %w", e.modelPath, err)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("detector: model %q advertises no inputs", e.modelPath)
	}

	dims := inputs[0].Dimensions
	if len(dims) != 4 {
		return fmt.Errorf("detector: model %q input has %d dims, want 4 (NCHW)", e.modelPath, len(dims))
	}

	h, w := dims[2], dims[3]
	if h > 0 && int(h) != e.inputSize {
		return fmt.Errorf("detector: model %q advertises input height %d, configured inputSize is %d", e.modelPath, h, e.inputSize)
	}
	if w > 0 && int(w) != e.inputSize {
		return fmt.Errorf("detector: model %q advertises input width %d, configured inputSize is %d", e.modelPath, w, e.inputSize)
	}
	return nil
}

// Infer runs one synchronous inference call. tensor must be a flattened
// [1, 3, inputSize, inputSize] CHW buffer, the shape internal/preprocess
// produces. A failure is frame-scoped: the engine stays Loaded and the
// caller should skip the frame, not restart the pipeline.
func (e *Engine) Infer(tensor []float32) (Outputs, error) {
	if e.state != Loaded {
		return Outputs{}, fmt.Errorf("detector: Infer called in state %s, want %s", e.state, Loaded)
	}

	dst := e.input.GetData()
	if len(tensor) != len(dst) {
		return Outputs{}, fmt.Errorf("detector: input tensor has %d elements, want %d", len(tensor), len(dst))
	}
	copy(dst, tensor)

	if err := e.session.Run(); err != nil {
		return Outputs{}, fmt.Errorf("detector: session run: %w", err)
	}

	boxesOut := make([]float32, DetectionCount*4)
	copy(boxesOut, e.boxes.GetData())

	scoresOut := make([]float32, DetectionCount)
	copy(scoresOut, e.scores.GetData())

	labelsOut := make([]int64, DetectionCount)
	copy(labelsOut, e.labels.GetData())

	return Outputs{
		Variant:       OutputVariantTwoHead,
		NumDetections: DetectionCount,
		Boxes:         boxesOut,
		Scores:        scoresOut,
		Labels:        labelsOut,
	}, nil
}

// Close releases resources in device-buffers-before-context-before-runtime
// order: session first, then the tensors it referenced, then (if this
// was the last loaded engine in the process) the shared ORT environment.
func (e *Engine) Close() error {
	if e.state == Destroyed {
		return nil
	}
	if e.state != Loaded {
		e.state = Destroyed
		return nil
	}

	e.session.Destroy()
	e.labels.Destroy()
	e.scores.Destroy()
	e.boxes.Destroy()
	e.input.Destroy()

	e.state = Destroyed
	return releaseEnvironment()
}
