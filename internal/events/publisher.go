package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/jengatrack/jengatrack/internal/config"
	"github.com/jengatrack/jengatrack/internal/observer"
	"github.com/jengatrack/jengatrack/pkg/logger"
	"github.com/jengatrack/jengatrack/pkg/utils"
)

// Publisher emits processed-message events for downstream consumers.
type Publisher interface {
	PublishProcessed(ctx context.Context, event ProcessedEvent) error
	Close()
}

// ProcessedEvent describes the outcome of handling one inbound message.
type ProcessedEvent struct {
	MessageLogID int64     `json:"message_log_id"`
	PhoneNumber  string    `json:"phone_number"`
	Intent       string    `json:"intent"`
	Confidence   float64   `json:"confidence"`
	ProjectID    string    `json:"project_id,omitempty"`
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// JetStreamPublisher publishes events to a NATS JetStream stream.
type JetStreamPublisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
}

// NewPublisher connects to NATS and ensures the event stream exists. An empty
// URL disables publishing and returns a no-op publisher.
func NewPublisher(cfg config.NATSConfig) (Publisher, error) {
	if cfg.URL == "" {
		logger.Log.Info("NATS URL not set, event publishing disabled")
		return NoopPublisher{}, nil
	}

	nc, err := nats.Connect(cfg.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Log.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ErrorHandler(func(nc *nats.Conn, s *nats.Subscription, err error) {
			logger.Log.Error("NATS error", zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	p := &JetStreamPublisher{nc: nc, js: js, subject: cfg.Subject}
	if err := p.ensureStream(cfg.Stream, cfg.Subject); err != nil {
		nc.Close()
		return nil, err
	}
	return p, nil
}

func (p *JetStreamPublisher) ensureStream(name, subject string) error {
	_, err := p.js.StreamInfo(name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to get stream info for '%s': %w", name, err)
	}

	_, err = p.js.AddStream(&nats.StreamConfig{
		Name:      name,
		Subjects:  []string{subject},
		Storage:   nats.FileStorage,
		Retention: nats.LimitsPolicy,
		MaxAge:    30 * 24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("failed to add stream '%s': %w", name, err)
	}
	logger.Log.Info("Created event stream",
		zap.String("name", name),
		zap.String("subject", subject))
	return nil
}

// PublishProcessed publishes one processed-message event.
func (p *JetStreamPublisher) PublishProcessed(ctx context.Context, event ProcessedEvent) error {
	if event.ProcessedAt.IsZero() {
		event.ProcessedAt = utils.Now()
	}
	data := utils.MustMarshalJSON(event)

	_, err := p.js.Publish(p.subject, data, nats.Context(ctx))
	observer.IncEventsPublished(p.subject, err)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to publish processed event",
			zap.String("subject", p.subject),
			zap.Int64("message_log_id", event.MessageLogID),
			zap.Error(err))
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close drains the NATS connection.
func (p *JetStreamPublisher) Close() {
	if p.nc != nil && !p.nc.IsClosed() {
		if err := p.nc.Drain(); err != nil {
			logger.Log.Warn("Failed to drain NATS connection", zap.Error(err))
		}
	}
}

// NoopPublisher drops events. Used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishProcessed(ctx context.Context, event ProcessedEvent) error { return nil }
func (NoopPublisher) Close()                                                           {}

var _ Publisher = (*JetStreamPublisher)(nil)
var _ Publisher = NoopPublisher{}
