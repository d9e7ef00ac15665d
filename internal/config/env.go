package config

import (
	"os"
	"strconv"
)

// applyEnvOverrides mirrors the original pipeline's env-first
// configuration style (original_source/crates/common/src/config.rs's
// get_env helpers): every field can be overridden without editing the
// YAML file, which matters for container deployments.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INSTANCE_ID"); v != "" {
		cfg.InstanceID = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		cfg.ModelPath = v
	}
	if v, ok := getEnvInt("INPUT_SIZE"); ok {
		cfg.InputSize = v
	}
	if v, ok := getEnvFloat("CONFIDENCE_THRESHOLD"); ok {
		cfg.ConfidenceThreshold = float32(v)
	}
	if v := os.Getenv("FRAME_BUFFER_PATH"); v != "" {
		cfg.FrameBufferPath = v
	}
	if v := os.Getenv("DETECTION_BUFFER_PATH"); v != "" {
		cfg.DetectionBufferPath = v
	}
	if v, ok := getEnvInt("FRAME_BUFFER_SIZE"); ok {
		cfg.FrameBufferSize = v
	}
	if v, ok := getEnvInt("DETECTION_BUFFER_SIZE"); ok {
		cfg.DetectionBufferSize = v
	}
	if v, ok := getEnvInt("RETRY_INTERVAL_MS"); ok {
		cfg.RetryIntervalMs = v
	}
	if v := os.Getenv("HEALTH_PORT"); v != "" {
		cfg.HealthPort = v
	}
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		cfg.MQTT.Broker = v
	}
}

func getEnvInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func getEnvFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
