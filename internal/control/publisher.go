package control

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jordandelbar/detr-mmap/internal/config"
	"github.com/jordandelbar/detr-mmap/internal/pipeline"
)

// Publisher connects one inference instance to the optional MQTT
// control plane: it publishes periodic status heartbeats and forwards
// decoded commands from the control topic to Commands.
type Publisher struct {
	cfg    *config.Config
	logger *slog.Logger
	client mqtt.Client

	connected atomic.Bool
	commands  chan Command

	mu   sync.Mutex
	errs uint64
}

// NewPublisher builds a Publisher for cfg. It does nothing until
// Connect is called.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	return &Publisher{
		cfg:      cfg,
		logger:   logger,
		commands: make(chan Command, 8),
	}
}

// Commands delivers decoded control-topic messages. Callers should
// drain it continuously; a full buffer drops the oldest command rather
// than blocking the MQTT client's own callback goroutine.
func (p *Publisher) Commands() <-chan Command {
	return p.commands
}

// Connect dials the configured broker, subscribes to the control topic,
// and begins auto-reconnecting on connection loss. It is a no-op
// returning nil immediately if cfg.MQTT.Broker is empty: the control
// plane is optional.
func (p *Publisher) Connect(ctx context.Context) error {
	if p.cfg.MQTT.Broker == "" {
		return nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", p.cfg.MQTT.Broker))
	opts.SetClientID(p.cfg.InstanceID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		p.connected.Store(true)
		p.logger.Info("mqtt connection established", "broker", p.cfg.MQTT.Broker, "client_id", p.cfg.InstanceID)

		if token := c.Subscribe(p.cfg.MQTT.Topics.Control, 1, p.onControlMessage); token.Wait() && token.Error() != nil {
			p.logger.Error("mqtt subscribe to control topic failed", "topic", p.cfg.MQTT.Topics.Control, "error", token.Error())
		}
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		p.connected.Store(false)
		p.logger.Warn("mqtt connection lost, will auto-reconnect", "error", err, "broker", p.cfg.MQTT.Broker)
	}

	p.client = mqtt.NewClient(opts)

	p.logger.Info("connecting to mqtt broker", "broker", p.cfg.MQTT.Broker)
	token := p.client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("control: mqtt connect timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("control: mqtt connect failed: %w", err)
	}

	p.connected.Store(true)
	return nil
}

func (p *Publisher) onControlMessage(_ mqtt.Client, msg mqtt.Message) {
	cmd, err := decodeCommand(msg.Payload())
	if err != nil {
		p.logger.Warn("control message decode failed", "error", err)
		return
	}

	select {
	case p.commands <- cmd:
	default:
		select {
		case <-p.commands:
		default:
		}
		p.commands <- cmd
		p.logger.Warn("control command buffer full, dropped oldest pending command")
	}
}

// PublishStatus publishes one heartbeat built from snap. It is a no-op
// returning nil if the control plane was never connected.
func (p *Publisher) PublishStatus(snap pipeline.Snapshot) error {
	if p.client == nil || !p.connected.Load() {
		return nil
	}

	msg := buildStatusMessage(p.cfg.InstanceID, time.Now().UnixNano(), snap)
	payload, err := msg.marshal()
	if err != nil {
		p.recordError()
		return fmt.Errorf("control: marshal status: %w", err)
	}

	token := p.client.Publish(p.cfg.MQTT.Topics.Status, 0, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		p.recordError()
		return fmt.Errorf("control: publish status timeout")
	}
	if err := token.Error(); err != nil {
		p.recordError()
		return fmt.Errorf("control: publish status failed: %w", err)
	}

	return nil
}

func (p *Publisher) recordError() {
	p.mu.Lock()
	p.errs++
	p.mu.Unlock()
}

// Errors reports how many publish/marshal failures have occurred.
func (p *Publisher) Errors() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errs
}

// Connected reports whether the client currently believes it has a live
// broker connection.
func (p *Publisher) Connected() bool {
	return p.connected.Load()
}

// Disconnect closes the MQTT connection, if one was ever opened.
func (p *Publisher) Disconnect() error {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
		p.logger.Info("mqtt disconnected")
	}
	p.connected.Store(false)
	return nil
}
