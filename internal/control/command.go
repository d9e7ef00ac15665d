package control

import (
	"encoding/json"
	"fmt"
)

// CommandName identifies a control-plane instruction. Unknown names are
// still decoded and delivered — it is up to the subscriber to decide
// whether to act on them.
type CommandName string

const (
	CommandShutdown        CommandName = "shutdown"
	CommandReloadThreshold CommandName = "reload_threshold"
)

// Command is one decoded message off the control topic.
type Command struct {
	Name      CommandName     `json:"command"`
	Threshold *float32        `json:"threshold,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// decodeCommand parses a control-topic payload. Malformed payloads are
// reported rather than silently dropped: a bad command on the wire is
// worth logging, not worth crashing over.
func decodeCommand(payload []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return Command{}, fmt.Errorf("control: decode command: %w", err)
	}
	if cmd.Name == "" {
		return Command{}, fmt.Errorf("control: command missing \"command\" field")
	}
	cmd.Raw = payload
	return cmd, nil
}
