// Package preprocess turns a raw camera frame into the letterboxed,
// normalized CHW tensor the detector engine expects: color conversion to
// RGB, aspect-preserving resize into a padded square, normalization to
// [0, 1]. Letterbox returns the transform parameters alongside the
// tensor so internal/postprocess can map detections back into the
// original frame's coordinate space.
package preprocess
