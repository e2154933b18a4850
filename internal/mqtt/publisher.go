package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/saturnino-fabrica-de-software/moodmirror/internal/state"
)

// NewClientFunc builds the underlying paho client. Tests swap it for a fake.
var NewClientFunc = paho.NewClient

var ErrDisabled = errors.New("mqtt publisher is disabled")

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	queueSize      = 64
)

type Config struct {
	Broker   string
	Topic    string
	ClientID string
	Username string
	Password string
	// Retain keeps the last emotion on the broker for late subscribers.
	Retain bool
}

type message struct {
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Publisher mirrors state changes to an MQTT topic.
type Publisher struct {
	cfg    Config
	client paho.Client
	queue  chan state.Snapshot
	logger *slog.Logger
}

// NewPublisher returns nil when no broker is configured.
func NewPublisher(cfg Config, logger *slog.Logger) *Publisher {
	if cfg.Broker == "" {
		return nil
	}

	p := &Publisher{
		cfg:    cfg,
		queue:  make(chan state.Snapshot, queueSize),
		logger: logger.With("component", "mqtt"),
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(1 * time.Minute)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		p.logger.Warn("mqtt connection lost", "error", err)
	})
	opts.SetOnConnectHandler(func(_ paho.Client) {
		p.logger.Info("mqtt connected", "broker", cfg.Broker)
	})

	p.client = NewClientFunc(opts)
	return p
}

// Connect performs the initial connection. Later drops are handled by
// auto-reconnect.
func (p *Publisher) Connect() error {
	if p == nil {
		return ErrDisabled
	}
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("connect to %s: timed out", p.cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to %s: %w", p.cfg.Broker, err)
	}
	return nil
}

// Listener enqueues snapshots without blocking the caller.
func (p *Publisher) Listener() state.Listener {
	return func(s state.Snapshot) {
		select {
		case p.queue <- s:
		default:
			p.logger.Warn("mqtt queue full, update dropped", "emotion", s.Emotion)
		}
	}
}

// Run publishes queued snapshots until ctx is cancelled, then disconnects.
func (p *Publisher) Run(ctx context.Context) {
	defer p.client.Disconnect(250)

	for {
		select {
		case <-ctx.Done():
			return
		case s := <-p.queue:
			if err := p.Publish(s); err != nil {
				p.logger.Error("failed to publish emotion", "error", err)
			}
		}
	}
}

func (p *Publisher) Publish(s state.Snapshot) error {
	payload, err := json.Marshal(message{
		Emotion:    s.Emotion,
		Confidence: s.Confidence,
		Source:     s.Source,
		UpdatedAt:  s.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	token := p.client.Publish(p.cfg.Topic, 0, p.cfg.Retain, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s: timed out", p.cfg.Topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.cfg.Topic, err)
	}
	return nil
}
