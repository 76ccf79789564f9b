package jetstream

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/chainequity/captable-indexer/internal/adapter"
	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/logger"
	"github.com/chainequity/captable-indexer/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	Chain          domain.Chain
}

// message is the payload published for every ingested event
type message struct {
	Chain     domain.Chain     `json:"chain"`
	EventType domain.EventType `json:"event_type"`
	Event     domain.Event     `json:"event"`
}

type publisher struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	streamName string
	chain      domain.Chain
	json       adapter.JSON
}

// NewPublisher connects to NATS. When StreamName is set the stream is created,
// or extended, to capture the chain's subjects.
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

	if cfg.StreamName != "" {
		if err := js.EnsureStream(ctx, cfg.StreamName, []string{subjectPrefix(cfg.Chain) + ".>"}); err != nil {
			nc.Close()
			return nil, err
		}
	}

	return &publisher{
		nc:         nc,
		js:         js,
		streamName: cfg.StreamName,
		chain:      cfg.Chain,
		json:       jsonAdapter,
	}, nil
}

// PublishEvent publishes an ingested event to NATS JetStream.
// The tx hash and log index form the message ID so redeliveries are deduplicated.
func (p *publisher) PublishEvent(ctx context.Context, event domain.Event) error {
	logger.DebugCtx(ctx, "Publishing NATS event",
		zap.String("event_type", string(event.Type())),
		zap.String("tx_hash", event.Meta().TxHash))

	data, err := p.json.Marshal(message{
		Chain:     p.chain,
		EventType: event.Type(),
		Event:     event,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	meta := event.Meta()
	msgID := fmt.Sprintf("%s-%d", meta.TxHash, meta.LogIndex)

	opts := []jetstream.PublishOpt{jetstream.WithMsgID(msgID)}
	if p.streamName != "" {
		opts = append(opts, jetstream.WithExpectStream(p.streamName))
	}

	_, err = p.js.Publish(ctx, p.buildSubject(event.Type()), data, opts...)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// buildSubject constructs the subject, e.g. captable.eip155_84532.transfer
func (p *publisher) buildSubject(eventType domain.EventType) string {
	return subjectPrefix(p.chain) + "." + string(eventType)
}

func subjectPrefix(chain domain.Chain) string {
	return "captable." + strings.ReplaceAll(string(chain), ":", "_")
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
