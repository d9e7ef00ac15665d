package control

import (
	"encoding/json"

	"github.com/jordandelbar/detr-mmap/internal/pipeline"
)

// StatusMessage is the heartbeat payload published to the status topic.
type StatusMessage struct {
	InstanceID      string `json:"instance_id"`
	TimestampNs     int64  `json:"timestamp_ns"`
	FramesProcessed uint64 `json:"frames_processed"`
	FramesSkipped   uint64 `json:"frames_skipped"`
	TotalDetections uint64 `json:"total_detections"`
}

// buildStatusMessage copies a pipeline snapshot into a wire-ready status
// message.
func buildStatusMessage(instanceID string, timestampNs int64, snap pipeline.Snapshot) StatusMessage {
	return StatusMessage{
		InstanceID:      instanceID,
		TimestampNs:     timestampNs,
		FramesProcessed: snap.FramesProcessed,
		FramesSkipped:   snap.FramesSkipped,
		TotalDetections: snap.TotalDetections,
	}
}

func (m StatusMessage) marshal() ([]byte, error) {
	return json.Marshal(m)
}
