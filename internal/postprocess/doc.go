// Package postprocess turns raw detector output into detections in the
// original frame's coordinate space: confidence filtering, the inverse
// letterbox transform, and clamping to the frame bounds.
package postprocess
