package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chainequity/captable-indexer/internal/adapter"
	"github.com/chainequity/captable-indexer/internal/backfill"
	"github.com/chainequity/captable-indexer/internal/block"
	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/ingest"
	"github.com/chainequity/captable-indexer/internal/logger"
	"github.com/chainequity/captable-indexer/internal/store"
	"github.com/chainequity/captable-indexer/internal/watcher"
)

// Config holds the configuration for the indexer
type Config struct {
	ChainID domain.Chain
	// StartBlock is the token deployment block
	StartBlock uint64
	// ResumeFromCursor starts the boot backfill after the stored cursor instead of StartBlock
	ResumeFromCursor bool
	// BufferSize is the capacity of the live event channel
	BufferSize      int
	CursorSaveFreq  uint64        // Save cursor every N blocks
	CursorSaveDelay time.Duration // Or save cursor every N seconds
	// CursorLag keeps the live cursor this many blocks behind the newest acked
	// event, since the event type subscriptions deliver independently
	CursorLag uint64
}

// Indexer defines the interface for the indexer
//
//go:generate mockgen -source=indexer.go -destination=../mocks/indexer.go -package=mocks -mock_names=Indexer=MockIndexer
type Indexer interface {
	// Run backfills from the start block to the head, then follows new events
	// until ctx is done, the watchers fail or the ledger integrity breaks
	Run(ctx context.Context) error
}

type indexer struct {
	scanner       backfill.Scanner
	watcher       watcher.Watcher
	ingestor      ingest.Ingestor
	blockProvider block.BlockProvider
	store         store.Store
	clock         adapter.Clock
	config        Config
}

// NewIndexer creates a new indexer
func NewIndexer(
	scanner backfill.Scanner,
	w watcher.Watcher,
	ingestor ingest.Ingestor,
	blockProvider block.BlockProvider,
	st store.Store,
	clock adapter.Clock,
	cfg Config,
) Indexer {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}

	return &indexer{
		scanner:       scanner,
		watcher:       w,
		ingestor:      ingestor,
		blockProvider: blockProvider,
		store:         st,
		clock:         clock,
		config:        cfg,
	}
}

// Run starts the indexer
func (i *indexer) Run(ctx context.Context) error {
	chain := string(i.config.ChainID)

	startBlock, err := i.startBlock(ctx)
	if err != nil {
		return err
	}

	head, err := i.blockProvider.GetLatestBlock(ctx)
	if err != nil {
		return fmt.Errorf("failed to get latest block number: %w", err)
	}

	if err := i.backfill(ctx, startBlock, head); err != nil {
		return err
	}

	// Watchers run under their own context so a failed ingest can stop them
	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()

	events := make(chan domain.Event, i.config.BufferSize)
	errCh := make(chan error, 1)
	go func() {
		logger.InfoCtx(ctx, "Starting event subscription", zap.String("chain", chain))
		errCh <- i.watcher.WatchAll(watchCtx, events)
	}()

	// Cover the blocks mined between the boot backfill and the subscriptions going live
	newHead, err := i.blockProvider.GetLatestBlock(ctx)
	if err != nil {
		logger.WarnCtx(ctx, "Skipping catch-up backfill", zap.Error(err))
	} else if newHead > head {
		if err := i.backfill(ctx, head+1, newHead); err != nil {
			return err
		}
		head = newHead
	}

	lastSavedBlock := head
	lastSaveTime := i.clock.Now()

	// lowest block of a live event that failed to ingest; the cursor stays below it
	var failedBlock uint64
	holding := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-errCh:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err == nil {
				return errors.New("event subscription ended")
			}
			return fmt.Errorf("event subscription ended: %w", err)

		case event := <-events:
			meta := event.Meta()

			outcome, err := i.ingestor.Ingest(ctx, event)
			if err != nil {
				if errors.Is(err, domain.ErrLedgerIntegrity) {
					logger.ErrorCtx(ctx, err,
						zap.String("message", "Stopping indexer, ledger-check --rebuild required"),
						zap.String("tx_hash", meta.TxHash))
					return err
				}
				logger.ErrorCtx(ctx, err, zap.String("tx_hash", meta.TxHash))
				if !holding || meta.BlockNumber < failedBlock {
					failedBlock = meta.BlockNumber
					holding = true
					logger.WarnCtx(ctx, "Live ingest failed, cursor held back",
						zap.Uint64("block_number", meta.BlockNumber),
						zap.Uint64("cursor", lastSavedBlock))
				}
				continue
			}
			if outcome != ingest.OutcomeAck {
				continue
			}

			cursor := i.liveCursor(meta.BlockNumber, failedBlock, holding)
			if cursor <= lastSavedBlock {
				continue
			}

			// Save cursor periodically (every N blocks or N seconds)
			shouldSave := cursor-lastSavedBlock >= i.config.CursorSaveFreq ||
				i.clock.Since(lastSaveTime) >= i.config.CursorSaveDelay
			if !shouldSave {
				continue
			}

			if err := i.store.SetBlockCursor(ctx, chain, cursor); err != nil {
				logger.WarnCtx(ctx, "Failed to save block cursor", zap.Error(err))
				continue
			}
			lastSavedBlock = cursor
			lastSaveTime = i.clock.Now()
		}
	}
}

// liveCursor is the highest block a live event at blockNumber lets the cursor
// cover: strictly below it and below any block that failed to ingest
func (i *indexer) liveCursor(blockNumber, failedBlock uint64, holding bool) uint64 {
	if blockNumber <= i.config.CursorLag+1 {
		return 0
	}
	cursor := blockNumber - i.config.CursorLag - 1
	if holding && failedBlock <= cursor {
		if failedBlock == 0 {
			return 0
		}
		cursor = failedBlock - 1
	}
	return cursor
}

// startBlock resolves where the boot backfill begins
func (i *indexer) startBlock(ctx context.Context) (uint64, error) {
	chain := string(i.config.ChainID)
	startBlock := i.config.StartBlock

	if !i.config.ResumeFromCursor {
		logger.InfoCtx(ctx, "Starting from deployment block", zap.String("chain", chain), zap.Uint64("block", startBlock))
		return startBlock, nil
	}

	lastBlock, err := i.store.GetBlockCursor(ctx, chain)
	if err != nil {
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}

	if lastBlock > 0 && lastBlock+1 > startBlock {
		startBlock = lastBlock + 1
		logger.InfoCtx(ctx, "Resuming from last processed block", zap.String("chain", chain), zap.Uint64("block", startBlock))
	} else {
		logger.InfoCtx(ctx, "No usable cursor, starting from deployment block", zap.String("chain", chain), zap.Uint64("block", startBlock))
	}

	return startBlock, nil
}

// backfill scans [from, to] and advances the cursor as far as the scan is complete
func (i *indexer) backfill(ctx context.Context, from, to uint64) error {
	if from > to {
		return nil
	}

	stats, err := i.scanner.Backfill(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to backfill blocks %d-%d: %w", from, to, err)
	}

	cursor := to
	if stats.FailedFetches > 0 || stats.Failed > 0 {
		cursor = stats.LastBlock
		logger.WarnCtx(ctx, "Backfill left gaps, cursor held back",
			zap.Int("failed_fetches", stats.FailedFetches),
			zap.Int("failed", stats.Failed),
			zap.Uint64("cursor", cursor))
	}
	if cursor == 0 {
		return nil
	}

	if err := i.store.SetBlockCursor(ctx, string(i.config.ChainID), cursor); err != nil {
		return fmt.Errorf("failed to save block cursor: %w", err)
	}

	return nil
}
