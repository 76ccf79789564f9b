package backfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/chainequity/captable-indexer/internal/adapter"
	"github.com/chainequity/captable-indexer/internal/block"
	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/ingest"
	"github.com/chainequity/captable-indexer/internal/logger"
	"github.com/chainequity/captable-indexer/internal/providers/ethereum"
)

const defaultFetchRetryInterval = 500 * time.Millisecond

// Config holds the configuration for the backfill scanner
type Config struct {
	// MaxBlockRange is the widest chunk fetched in one pass
	MaxBlockRange uint64
	// ChunkPause is the delay between applied chunks
	ChunkPause time.Duration
	// FetchConcurrency is the number of chunks fetched ahead of the one being applied
	FetchConcurrency int
	// FetchRetryInterval is the first retry delay of a failed fetch
	FetchRetryInterval time.Duration
	// FetchRetryMaxElapsed bounds the total retry time of one fetch
	FetchRetryMaxElapsed time.Duration
}

// Stats summarizes one backfill pass
type Stats struct {
	Chunks        int
	Fetched       int
	Acked         int
	Skipped       int
	Failed        int
	FailedFetches int
	// LastBlock is the end of the last chunk such that every chunk up to it was
	// fully fetched and every fetched log in it was ingested. Zero when no chunk qualifies.
	LastBlock uint64
}

// Chunk is an inclusive block range
type Chunk struct {
	From uint64
	To   uint64
}

// Chunks splits [from, to] into contiguous inclusive windows of at most maxRange blocks
func Chunks(from, to, maxRange uint64) []Chunk {
	if from > to {
		return nil
	}
	if maxRange == 0 {
		maxRange = domain.DEFAULT_MAX_BLOCK_RANGE
	}

	var chunks []Chunk
	for start := from; ; start += maxRange {
		end := to
		if to-start >= maxRange {
			end = start + maxRange - 1
		}
		chunks = append(chunks, Chunk{From: start, To: end})
		if end == to {
			break
		}
	}
	return chunks
}

// Scanner replays historical logs into the ledger
//
//go:generate mockgen -source=scanner.go -destination=../mocks/scanner.go -package=mocks -mock_names=Scanner=MockScanner
type Scanner interface {
	// Backfill fetches and ingests every ledger event in [fromBlock, toBlock].
	// Chunks are applied in ascending order; within a chunk event types are applied
	// in domain.LedgerEventTypes order. Returns early with an error wrapping
	// domain.ErrLedgerIntegrity or the context error.
	Backfill(ctx context.Context, fromBlock, toBlock uint64) (Stats, error)
}

type scanner struct {
	client        ethereum.EthereumClient
	decoder       ethereum.Decoder
	blockProvider block.BlockProvider
	ingestor      ingest.Ingestor
	clock         adapter.Clock
	config        Config
}

// NewScanner creates a backfill scanner
func NewScanner(
	client ethereum.EthereumClient,
	decoder ethereum.Decoder,
	blockProvider block.BlockProvider,
	ingestor ingest.Ingestor,
	clock adapter.Clock,
	cfg Config,
) Scanner {
	if cfg.MaxBlockRange == 0 {
		cfg.MaxBlockRange = domain.DEFAULT_MAX_BLOCK_RANGE
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 1
	}
	if cfg.FetchRetryInterval <= 0 {
		cfg.FetchRetryInterval = defaultFetchRetryInterval
	}

	return &scanner{
		client:        client,
		decoder:       decoder,
		blockProvider: blockProvider,
		ingestor:      ingestor,
		clock:         clock,
		config:        cfg,
	}
}

// chunkLogs holds the fetched logs of one chunk
type chunkLogs struct {
	chunk  Chunk
	logs   map[domain.EventType][]types.Log
	failed map[domain.EventType]error
}

// Backfill replays [fromBlock, toBlock]
func (s *scanner) Backfill(ctx context.Context, fromBlock, toBlock uint64) (Stats, error) {
	var stats Stats

	chunks := Chunks(fromBlock, toBlock, s.config.MaxBlockRange)
	if len(chunks) == 0 {
		return stats, nil
	}

	logger.InfoCtx(ctx, "Starting backfill",
		zap.Uint64("from_block", fromBlock),
		zap.Uint64("to_block", toBlock),
		zap.Int("chunks", len(chunks)))

	pool := pond.NewResultPool[*chunkLogs](s.config.FetchConcurrency, pond.WithContext(ctx))
	defer pool.StopAndWait()

	// Fetch runs ahead by FetchConcurrency chunks; apply consumes in chunk order
	results := make([]pond.Result[*chunkLogs], len(chunks))
	submit := func(i int) {
		chunk := chunks[i]
		results[i] = pool.Submit(func() *chunkLogs {
			return s.fetchChunk(ctx, chunk)
		})
	}
	for i := 0; i < min(s.config.FetchConcurrency, len(chunks)); i++ {
		submit(i)
	}

	contiguous := true
	for i, chunk := range chunks {
		fetched, err := results[i].Wait()
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			return stats, fmt.Errorf("failed to fetch chunk %d-%d: %w", chunk.From, chunk.To, err)
		}

		if next := i + s.config.FetchConcurrency; next < len(chunks) {
			submit(next)
		}

		failedBefore := stats.Failed
		if err := s.applyChunk(ctx, fetched, &stats); err != nil {
			return stats, err
		}

		stats.Chunks++
		if len(fetched.failed) > 0 || stats.Failed > failedBefore {
			contiguous = false
		}
		if contiguous {
			stats.LastBlock = chunk.To
		}

		logger.DebugCtx(ctx, "Applied chunk",
			zap.Uint64("from_block", chunk.From),
			zap.Uint64("to_block", chunk.To),
			zap.Int("acked", stats.Acked))

		if i < len(chunks)-1 && s.config.ChunkPause > 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-s.clock.After(s.config.ChunkPause):
			}
		}
	}

	logger.InfoCtx(ctx, "Backfill finished",
		zap.Uint64("from_block", fromBlock),
		zap.Uint64("to_block", toBlock),
		zap.Int("chunks", stats.Chunks),
		zap.Int("fetched", stats.Fetched),
		zap.Int("acked", stats.Acked),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.Int("failed_fetches", stats.FailedFetches))

	return stats, nil
}

// fetchChunk fetches every ledger event type of one chunk and warms the
// timestamp cache for the blocks it touches
func (s *scanner) fetchChunk(ctx context.Context, chunk Chunk) *chunkLogs {
	result := &chunkLogs{
		chunk:  chunk,
		logs:   make(map[domain.EventType][]types.Log, len(domain.LedgerEventTypes)),
		failed: make(map[domain.EventType]error),
	}

	blocks := make(map[uint64]struct{})
	for _, eventType := range domain.LedgerEventTypes {
		logs, err := s.fetchWithRetry(ctx, eventType, chunk)
		if err != nil {
			result.failed[eventType] = err
			continue
		}
		result.logs[eventType] = logs
		for _, vLog := range logs {
			blocks[vLog.BlockNumber] = struct{}{}
		}
	}

	for blockNumber := range blocks {
		if ctx.Err() != nil {
			break
		}
		// failures surface again when the log is decoded
		_, _ = s.blockProvider.GetBlockTimestamp(ctx, blockNumber)
	}

	return result
}

// fetchWithRetry fetches one event type with exponential backoff
func (s *scanner) fetchWithRetry(ctx context.Context, eventType domain.EventType, chunk Chunk) ([]types.Log, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.config.FetchRetryInterval
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = s.config.FetchRetryMaxElapsed

	var logs []types.Log
	operation := func() error {
		var err error
		logs, err = s.client.GetLogs(ctx, eventType, chunk.From, chunk.To)
		if errors.Is(err, domain.ErrUnknownEvent) {
			return backoff.Permanent(err)
		}
		return err
	}

	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Log fetch failed, retrying",
			zap.String("event_type", string(eventType)),
			zap.Uint64("from_block", chunk.From),
			zap.Uint64("to_block", chunk.To),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notifyOnError); err != nil {
		return nil, fmt.Errorf("failed after %d attempts: %w", attemptCount+1, err)
	}

	return logs, nil
}

// applyChunk decodes and ingests the logs of one chunk in event type order
func (s *scanner) applyChunk(ctx context.Context, fetched *chunkLogs, stats *Stats) error {
	for _, eventType := range domain.LedgerEventTypes {
		if err, failed := fetched.failed[eventType]; failed {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			stats.FailedFetches++
			logger.ErrorCtx(ctx, err,
				zap.String("message", "Giving up on log fetch"),
				zap.String("event_type", string(eventType)),
				zap.Uint64("from_block", fetched.chunk.From),
				zap.Uint64("to_block", fetched.chunk.To))
			continue
		}

		for _, vLog := range fetched.logs[eventType] {
			if err := ctx.Err(); err != nil {
				return err
			}
			stats.Fetched++

			event, err := s.decode(ctx, vLog)
			if err != nil {
				stats.Failed++
				logger.ErrorCtx(ctx, err,
					zap.String("message", "Failed to decode log"),
					zap.String("tx_hash", vLog.TxHash.Hex()),
					zap.Uint64("block_number", vLog.BlockNumber))
				continue
			}

			outcome, err := s.ingestor.Ingest(ctx, event)
			if err != nil {
				if errors.Is(err, domain.ErrLedgerIntegrity) {
					return err
				}
				stats.Failed++
				logger.ErrorCtx(ctx, err,
					zap.String("message", "Failed to ingest event"),
					zap.String("tx_hash", vLog.TxHash.Hex()))
				continue
			}

			switch outcome {
			case ingest.OutcomeAck:
				stats.Acked++
			case ingest.OutcomeSkip:
				stats.Skipped++
			}
		}
	}

	return nil
}

func (s *scanner) decode(ctx context.Context, vLog types.Log) (domain.Event, error) {
	blockTime, err := s.blockProvider.GetBlockTimestamp(ctx, vLog.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get block timestamp: %w", err)
	}
	return s.decoder.Decode(vLog, blockTime)
}
