// Package config loads and validates the pipeline's YAML configuration,
// following the teacher's split of a plain struct plus a separate
// Validate pass that fills in defaults and rejects invalid combinations.
// Every field can be overridden by an environment variable, matching the
// original pipeline's env-first configuration style.
package config
