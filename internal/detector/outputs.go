package detector

// OutputVariant tags the shape of a detector's output heads. TwoHead is
// the only variant this engine currently produces; it is modeled as a
// tag rather than a single fixed struct so a future ThreeHead variant
// (separate score and label heads with their own class-count dimension)
// can be added without breaking postprocess.FromOutputs's contract.
type OutputVariant int

const (
	OutputVariantTwoHead OutputVariant = iota
)

// Outputs holds one inference call's raw detection heads, in
// letterbox-pixel space, before confidence filtering or coordinate
// transform.
type Outputs struct {
	Variant       OutputVariant
	NumDetections int

	// Boxes is N*4 floats: x1,y1,x2,y2 per detection, in letterbox-pixel
	// space.
	Boxes []float32
	// Scores is N floats, one confidence per detection.
	Scores []float32
	// Labels is N int64 class ids, one per detection.
	Labels []int64
}
