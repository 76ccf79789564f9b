package messaging

import (
	"context"

	"github.com/chainequity/captable-indexer/internal/domain"
)

// Publisher announces events that were written to the ledger
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEvent publishes an ingested event to the message broker
	PublishEvent(ctx context.Context, event domain.Event) error
	// Close closes the connection
	Close()
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event.
// Used when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishEvent(context.Context, domain.Event) error { return nil }

func (noopPublisher) Close() {}
