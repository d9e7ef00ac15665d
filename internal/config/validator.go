package config

import (
	"fmt"
	"regexp"

	"github.com/jordandelbar/detr-mmap/internal/bridge"
)

var instanceIDPattern = regexp.MustCompile(`^[a-z0-9\-]+$`)

// Validate checks required fields, rejects invalid values, and fills in
// defaults for everything left zero-valued.
func Validate(cfg *Config) error {
	if cfg.InstanceID == "" {
		cfg.InstanceID = "inference-0"
	}
	if !instanceIDPattern.MatchString(cfg.InstanceID) {
		return fmt.Errorf("instance_id must match pattern [a-z0-9-]+, got %q", cfg.InstanceID)
	}

	if cfg.ModelPath == "" {
		return fmt.Errorf("model_path is required")
	}

	if cfg.InputSize <= 0 {
		cfg.InputSize = DefaultInputSize
	}
	if cfg.ConfidenceThreshold <= 0 || cfg.ConfidenceThreshold > 1 {
		cfg.ConfidenceThreshold = DefaultConfidenceThreshold
	}

	if cfg.FrameBufferPath == "" {
		cfg.FrameBufferPath = bridge.FrameBufferPath
	}
	if cfg.DetectionBufferPath == "" {
		cfg.DetectionBufferPath = bridge.DetectionBufferPath
	}
	if cfg.FrameBufferSize <= 0 {
		cfg.FrameBufferSize = bridge.DefaultFrameBufferSize
	}
	if cfg.DetectionBufferSize <= 0 {
		cfg.DetectionBufferSize = bridge.DefaultDetectionBufferSize
	}

	if cfg.RetryIntervalMs <= 0 {
		cfg.RetryIntervalMs = DefaultRetryIntervalMs
	}

	if cfg.HealthPort == "" {
		cfg.HealthPort = "8080"
	}

	if cfg.MQTT.Broker != "" {
		if cfg.MQTT.Topics.Status == "" {
			cfg.MQTT.Topics.Status = fmt.Sprintf("bridge/status/%s", cfg.InstanceID)
		}
		if cfg.MQTT.Topics.Control == "" {
			cfg.MQTT.Topics.Control = fmt.Sprintf("bridge/control/%s", cfg.InstanceID)
		}
	}

	return nil
}
