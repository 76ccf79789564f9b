package messaging

import (
	"context"

	"github.com/chainequity/captable-indexer/internal/domain"
)

// EventHandler is called for every event delivered by a subscription
type EventHandler func(ctx context.Context, event domain.Event) error

// Subscriber streams newly mined token events, one subscription per event type
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// Subscribe blocks, delivering events of eventType to handler until ctx is
	// canceled or the underlying subscription fails
	Subscribe(ctx context.Context, eventType domain.EventType, handler EventHandler) error

	// GetLatestBlock returns the latest block number
	GetLatestBlock(ctx context.Context) (uint64, error)

	// Close closes the connection and cleans up resources
	Close()
}
