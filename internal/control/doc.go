// Package control is the pipeline's optional status/control plane: a
// periodic heartbeat publish over MQTT, and a control topic subscription
// for external commands. It is entirely optional — a Config with an
// empty MQTT.Broker means the shared-memory bridge runs with no control
// plane at all, per the original pipeline's deployments that never
// configured MQTT.
package control
