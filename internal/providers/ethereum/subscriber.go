package ethereum

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/chainequity/captable-indexer/internal/block"
	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/logger"
	"github.com/chainequity/captable-indexer/internal/messaging"
)

type ethSubscriber struct {
	client        EthereumClient
	decoder       Decoder
	blockProvider block.BlockProvider
}

// NewSubscriber creates a subscriber for the token contract's events
func NewSubscriber(client EthereumClient, decoder Decoder, blockProvider block.BlockProvider) messaging.Subscriber {
	return &ethSubscriber{
		client:        client,
		decoder:       decoder,
		blockProvider: blockProvider,
	}
}

// Subscribe streams decoded events of one type to handler until ctx is done
// or the subscription fails. Handler errors are logged and do not end the stream.
func (s *ethSubscriber) Subscribe(ctx context.Context, eventType domain.EventType, handler messaging.EventHandler) error {
	logs := make(chan types.Log)
	sub, err := s.client.SubscribeLogs(ctx, eventType, logs)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSubscriptionFailed, eventType, err)
	}
	defer func() {
		sub.Unsubscribe()
		logger.InfoCtx(ctx, "Unsubscribed from token events", zap.String("event_type", string(eventType)))
	}()

	logger.InfoCtx(ctx, "Subscribed to token events", zap.String("event_type", string(eventType)))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("%w: %s: %v", domain.ErrSubscriptionFailed, eventType, err)
		case vLog := <-logs:
			if vLog.Removed {
				// The ledger is append-only; reorged logs need an operator rebuild
				logger.WarnCtx(ctx, "Ignoring removed log",
					zap.String("event_type", string(eventType)),
					zap.String("tx_hash", vLog.TxHash.Hex()),
					zap.Uint64("block_number", vLog.BlockNumber))
				continue
			}

			event, err := s.decode(ctx, vLog)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.ErrorCtx(ctx, err, zap.String("message", "Error decoding log"))
				}
				continue
			}

			if err := handler(ctx, event); err != nil {
				logger.ErrorCtx(ctx, err, zap.String("message", "Error handling event"))
			}
		}
	}
}

func (s *ethSubscriber) decode(ctx context.Context, vLog types.Log) (domain.Event, error) {
	blockTime, err := s.blockProvider.GetBlockTimestamp(ctx, vLog.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get block timestamp: %w", err)
	}
	return s.decoder.Decode(vLog, blockTime)
}

// GetLatestBlock returns the latest block number
func (s *ethSubscriber) GetLatestBlock(ctx context.Context) (uint64, error) {
	return s.blockProvider.GetLatestBlock(ctx)
}

// Close closes the connection
func (s *ethSubscriber) Close() {
	if s.client == nil {
		return
	}

	s.client.Close()
	logger.Info("Ethereum connection closed")
}
