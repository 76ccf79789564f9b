package watcher

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/logger"
	"github.com/chainequity/captable-indexer/internal/messaging"
)

// Watcher forwards newly mined token events into a channel
//
//go:generate mockgen -source=watcher.go -destination=../mocks/watcher.go -package=mocks -mock_names=Watcher=MockWatcher
type Watcher interface {
	// Watch subscribes to one event type and pushes decoded events into sink
	// until ctx is done or the subscription fails
	Watch(ctx context.Context, eventType domain.EventType, sink chan<- domain.Event) error

	// WatchAll runs Watch for every watched event type and returns the first error.
	// The remaining subscriptions are stopped when one of them fails.
	WatchAll(ctx context.Context, sink chan<- domain.Event) error
}

type watcher struct {
	subscriber messaging.Subscriber
	eventTypes []domain.EventType
}

// NewWatcher creates a watcher over subscriber for domain.WatchedEventTypes
func NewWatcher(subscriber messaging.Subscriber) Watcher {
	return &watcher{
		subscriber: subscriber,
		eventTypes: domain.WatchedEventTypes,
	}
}

// Watch forwards events of one type into sink
func (w *watcher) Watch(ctx context.Context, eventType domain.EventType, sink chan<- domain.Event) error {
	handler := func(ctx context.Context, event domain.Event) error {
		select {
		case sink <- event:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := w.subscriber.Subscribe(ctx, eventType, handler); err != nil {
		return fmt.Errorf("failed to watch %s events: %w", eventType, err)
	}
	return nil
}

// WatchAll watches every event type concurrently
func (w *watcher) WatchAll(ctx context.Context, sink chan<- domain.Event) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, eventType := range w.eventTypes {
		eventType := eventType
		g.Go(func() error {
			return w.Watch(gctx, eventType, sink)
		})
	}

	logger.InfoCtx(ctx, "Watching token events", zap.Int("event_types", len(w.eventTypes)))

	return g.Wait()
}
