package jetstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/toklytics/toklytics-live/internal/adapter"
	"github.com/toklytics/toklytics-live/internal/domain"
	"github.com/toklytics/toklytics-live/internal/logger"
	"github.com/toklytics/toklytics-live/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	// PublishRetries is the number of retries after a failed publish
	PublishRetries uint64
}

// streamSubjects are the subjects captured by the lifecycle stream
var streamSubjects = []string{"powerups.>", "notifications.>"}

type publisher struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	streamName string
	retries    uint64
	json       adapter.JSON
}

// NewPublisher connects to NATS, ensures the lifecycle stream exists and returns a publisher
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       cfg.StreamName,
		Subjects:   streamSubjects,
		Storage:    jetstream.FileStorage,
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     7 * 24 * time.Hour,
		Duplicates: 2 * time.Minute,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream %s: %w", cfg.StreamName, err)
	}

	logger.Info("Connected to NATS JetStream",
		zap.String("url", nc.ConnectedUrl()),
		zap.String("stream", cfg.StreamName))

	return &publisher{
		nc:         nc,
		js:         js,
		streamName: cfg.StreamName,
		retries:    cfg.PublishRetries,
		json:       jsonAdapter,
	}, nil
}

// PublishLifecycleEvent publishes a lifecycle event on its subject, retrying transient failures.
// The event ID is sent as the message ID so retried publishes are deduplicated by the stream.
func (p *publisher) PublishLifecycleEvent(ctx context.Context, event *domain.PowerUpLifecycleEvent) error {
	if event == nil {
		return errors.New("nil lifecycle event")
	}

	logger.DebugCtx(ctx, "Publishing lifecycle event",
		zap.String("eventID", event.EventID),
		zap.String("subject", string(event.EventType)))

	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	operation := func() error {
		_, err := p.js.Publish(ctx, string(event.EventType), data, jetstream.WithMsgID(event.EventID))
		if errors.Is(err, jetstream.ErrNoStreamResponse) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	retry := backoff.WithContext(backoff.WithMaxRetries(b, p.retries), ctx)

	if err := backoff.Retry(operation, retry); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
