package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jordandelbar/detr-mmap/internal/bridge"
)

// Environment selects the logging and operational posture of the
// process: Production favors structured JSON output and stricter
// defaults, Development favors human-readable output.
type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
)

// EnvironmentFromEnv mirrors the original pipeline's ENVIRONMENT
// variable: anything spelled "production"/"prod" (case-insensitive)
// selects Production, everything else (including unset) selects
// Development.
func EnvironmentFromEnv() Environment {
	switch os.Getenv("ENVIRONMENT") {
	case "production", "prod", "PRODUCTION", "PROD":
		return Production
	default:
		return Development
	}
}

// Config is the complete pipeline configuration.
type Config struct {
	InstanceID string `yaml:"instance_id"`

	ModelPath           string  `yaml:"model_path"`
	InputSize           int     `yaml:"input_size"`
	ConfidenceThreshold float32 `yaml:"confidence_threshold"`

	FrameBufferPath     string `yaml:"frame_buffer_path"`
	DetectionBufferPath string `yaml:"detection_buffer_path"`
	FrameBufferSize     int    `yaml:"frame_buffer_size"`
	DetectionBufferSize int    `yaml:"detection_buffer_size"`

	RetryIntervalMs int `yaml:"retry_interval_ms"`

	HealthPort string `yaml:"health_port"`

	MQTT MQTTConfig `yaml:"mqtt"`
}

// MQTTConfig controls the optional status/control plane. Broker left
// empty disables it entirely: the pipeline runs on the shared-memory
// bridge alone.
type MQTTConfig struct {
	Broker string     `yaml:"broker"`
	Topics MQTTTopics `yaml:"topics"`
}

// MQTTTopics contains topic templates; blank fields get instance-scoped
// defaults in Validate.
type MQTTTopics struct {
	Status  string `yaml:"status"`
	Control string `yaml:"control"`
}

// DefaultInputSize matches the RF-DETR-S variant's native resolution.
const DefaultInputSize = 512

// DefaultConfidenceThreshold matches PostProcessor's own default.
const DefaultConfidenceThreshold = 0.5

// DefaultRetryIntervalMs is how long the pipeline sleeps between
// reconnect attempts while a bridge endpoint is not yet available, and
// between retries after a failed signal wait.
const DefaultRetryIntervalMs = 500

// Load reads path as YAML, applies environment variable overrides, then
// validates and fills in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}

	return &cfg, nil
}

// defaultConfig returns a Config with every field at its documented
// default. Useful for tests and for cmd/simcapture, which doesn't read a
// YAML file at all.
func defaultConfig() Config {
	return Config{
		InputSize:           DefaultInputSize,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		FrameBufferPath:     bridge.FrameBufferPath,
		DetectionBufferPath: bridge.DetectionBufferPath,
		FrameBufferSize:     bridge.DefaultFrameBufferSize,
		DetectionBufferSize: bridge.DefaultDetectionBufferSize,
		RetryIntervalMs:     DefaultRetryIntervalMs,
		HealthPort:          "8080",
	}
}
