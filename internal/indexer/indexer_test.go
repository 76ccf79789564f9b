package indexer_test

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainequity/captable-indexer/internal/backfill"
	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/indexer"
	"github.com/chainequity/captable-indexer/internal/ingest"
	"github.com/chainequity/captable-indexer/internal/logger"
	"github.com/chainequity/captable-indexer/internal/mocks"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const chain = string(domain.ChainBaseSepolia)

// testIndexerMocks contains all the mocks needed for testing the indexer
type testIndexerMocks struct {
	ctrl          *gomock.Controller
	scanner       *mocks.MockScanner
	watcher       *mocks.MockWatcher
	ingestor      *mocks.MockIngestor
	blockProvider *mocks.MockBlockProvider
	store         *mocks.MockStore
	clock         *mocks.MockClock
}

func setupTestIndexer(t *testing.T) *testIndexerMocks {
	ctrl := gomock.NewController(t)

	tm := &testIndexerMocks{
		ctrl:          ctrl,
		scanner:       mocks.NewMockScanner(ctrl),
		watcher:       mocks.NewMockWatcher(ctrl),
		ingestor:      mocks.NewMockIngestor(ctrl),
		blockProvider: mocks.NewMockBlockProvider(ctrl),
		store:         mocks.NewMockStore(ctrl),
		clock:         mocks.NewMockClock(ctrl),
	}

	now := time.Now()
	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	tm.clock.EXPECT().Since(gomock.Any()).Return(time.Duration(0)).AnyTimes()

	return tm
}

func (tm *testIndexerMocks) indexer(cfg indexer.Config) indexer.Indexer {
	cfg.ChainID = domain.ChainBaseSepolia
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 8
	}
	if cfg.CursorSaveFreq == 0 {
		cfg.CursorSaveFreq = 1
	}
	if cfg.CursorSaveDelay == 0 {
		cfg.CursorSaveDelay = time.Minute
	}
	return indexer.NewIndexer(tm.scanner, tm.watcher, tm.ingestor, tm.blockProvider, tm.store, tm.clock, cfg)
}

func transferAt(tx string, block uint64) domain.Event {
	return domain.TransferEvent{
		EventMeta: domain.EventMeta{TxHash: tx, BlockNumber: block},
		From:      domain.ETHEREUM_ZERO_ADDRESS,
		To:        "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Amount:    big.NewInt(1),
	}
}

// watchUntilDone emits events into the sink and then blocks until ctx ends
func watchUntilDone(events ...domain.Event) func(context.Context, chan<- domain.Event) error {
	return func(ctx context.Context, sink chan<- domain.Event) error {
		for _, event := range events {
			sink <- event
		}
		<-ctx.Done()
		return ctx.Err()
	}
}

func TestIndexer_Run_BackfillCatchUpAndLive(t *testing.T) {
	tm := setupTestIndexer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	live := transferAt("0xlive", 510)

	gomock.InOrder(
		tm.blockProvider.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(500), nil),
		tm.scanner.EXPECT().Backfill(gomock.Any(), uint64(100), uint64(500)).Return(backfill.Stats{Chunks: 1}, nil),
		tm.store.EXPECT().SetBlockCursor(gomock.Any(), chain, uint64(500)).Return(nil),
		tm.blockProvider.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(505), nil),
		tm.scanner.EXPECT().Backfill(gomock.Any(), uint64(501), uint64(505)).Return(backfill.Stats{Chunks: 1}, nil),
		tm.store.EXPECT().SetBlockCursor(gomock.Any(), chain, uint64(505)).Return(nil),
		tm.ingestor.EXPECT().Ingest(gomock.Any(), live).Return(ingest.OutcomeAck, nil),
		tm.store.EXPECT().SetBlockCursor(gomock.Any(), chain, uint64(509)).
			DoAndReturn(func(context.Context, string, uint64) error {
				cancel()
				return nil
			}),
	)
	tm.watcher.EXPECT().WatchAll(gomock.Any(), gomock.Any()).DoAndReturn(watchUntilDone(live))

	err := tm.indexer(indexer.Config{StartBlock: 100}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexer_Run_ResumeFromCursor(t *testing.T) {
	tests := []struct {
		name          string
		cursor        uint64
		expectedStart uint64
	}{
		{name: "cursor ahead of deployment", cursor: 300, expectedStart: 301},
		{name: "no cursor", cursor: 0, expectedStart: 100},
		{name: "cursor before deployment", cursor: 50, expectedStart: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestIndexer(t)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			tm.store.EXPECT().GetBlockCursor(gomock.Any(), chain).Return(tt.cursor, nil)
			tm.blockProvider.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(500), nil).Times(2)
			tm.scanner.EXPECT().Backfill(gomock.Any(), tt.expectedStart, uint64(500)).Return(backfill.Stats{}, nil)
			tm.store.EXPECT().SetBlockCursor(gomock.Any(), chain, uint64(500)).
				DoAndReturn(func(context.Context, string, uint64) error {
					cancel()
					return nil
				})
			tm.watcher.EXPECT().WatchAll(gomock.Any(), gomock.Any()).DoAndReturn(watchUntilDone()).AnyTimes()

			err := tm.indexer(indexer.Config{StartBlock: 100, ResumeFromCursor: true}).Run(ctx)
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestIndexer_Run_FailedFetchesHoldCursorBack(t *testing.T) {
	tm := setupTestIndexer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tm.blockProvider.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(500), nil).Times(2)
	tm.scanner.EXPECT().Backfill(gomock.Any(), uint64(100), uint64(500)).
		Return(backfill.Stats{Chunks: 3, FailedFetches: 1, LastBlock: 200}, nil)
	tm.store.EXPECT().SetBlockCursor(gomock.Any(), chain, uint64(200)).
		DoAndReturn(func(context.Context, string, uint64) error {
			cancel()
			return nil
		})
	tm.watcher.EXPECT().WatchAll(gomock.Any(), gomock.Any()).DoAndReturn(watchUntilDone()).AnyTimes()

	err := tm.indexer(indexer.Config{StartBlock: 100}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexer_Run_BackfillIntegrityError(t *testing.T) {
	tm := setupTestIndexer(t)

	tm.blockProvider.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(500), nil)
	tm.scanner.EXPECT().Backfill(gomock.Any(), uint64(100), uint64(500)).
		Return(backfill.Stats{}, fmt.Errorf("%w: %w", domain.ErrLedgerIntegrity, domain.ErrNegativeBalance))
	// no watcher is started

	err := tm.indexer(indexer.Config{StartBlock: 100}).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLedgerIntegrity)
	assert.Contains(t, err.Error(), "failed to backfill blocks 100-500")
}

func TestIndexer_Run_LiveIntegrityErrorStops(t *testing.T) {
	tm := setupTestIndexer(t)

	bad := transferAt("0xbad", 600)

	tm.blockProvider.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(500), nil).Times(2)
	tm.scanner.EXPECT().Backfill(gomock.Any(), uint64(100), uint64(500)).Return(backfill.Stats{}, nil)
	tm.store.EXPECT().SetBlockCursor(gomock.Any(), chain, uint64(500)).Return(nil)
	tm.watcher.EXPECT().WatchAll(gomock.Any(), gomock.Any()).DoAndReturn(watchUntilDone(bad))
	tm.ingestor.EXPECT().Ingest(gomock.Any(), bad).
		Return(ingest.OutcomeSkip, fmt.Errorf("%w: %w", domain.ErrLedgerIntegrity, domain.ErrNegativeBalance))

	err := tm.indexer(indexer.Config{StartBlock: 100}).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNegativeBalance)
}

func TestIndexer_Run_BackfillIngestFailuresHoldCursorBack(t *testing.T) {
	tests := []struct {
		name  string
		stats backfill.Stats
	}{
		{
			name:  "failed chunk after clean ones",
			stats: backfill.Stats{Chunks: 5, Fetched: 2, Acked: 1, Failed: 1, LastBlock: 300},
		},
		{
			name:  "failed and unfetched chunks",
			stats: backfill.Stats{Chunks: 5, Fetched: 2, Acked: 1, Failed: 1, FailedFetches: 1, LastBlock: 300},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestIndexer(t)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			tm.blockProvider.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(500), nil).Times(2)
			tm.scanner.EXPECT().Backfill(gomock.Any(), uint64(100), uint64(500)).Return(tt.stats, nil)
			tm.store.EXPECT().SetBlockCursor(gomock.Any(), chain, uint64(300)).
				DoAndReturn(func(context.Context, string, uint64) error {
					cancel()
					return nil
				})
			tm.watcher.EXPECT().WatchAll(gomock.Any(), gomock.Any()).DoAndReturn(watchUntilDone()).AnyTimes()

			err := tm.indexer(indexer.Config{StartBlock: 100}).Run(ctx)
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestIndexer_Run_BackfillFailureInFirstChunkSavesNothing(t *testing.T) {
	tm := setupTestIndexer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tm.blockProvider.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(500), nil).Times(2)
	tm.scanner.EXPECT().Backfill(gomock.Any(), uint64(100), uint64(500)).
		Return(backfill.Stats{Chunks: 1, Fetched: 1, Failed: 1}, nil)
	// no SetBlockCursor
	tm.watcher.EXPECT().WatchAll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ chan<- domain.Event) error {
			cancel()
			<-ctx.Done()
			return ctx.Err()
		})

	err := tm.indexer(indexer.Config{StartBlock: 100}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexer_Run_LiveIngestErrorHoldsCursor(t *testing.T) {
	tm := setupTestIndexer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failed := transferAt("0xfailed", 501)
	later := transferAt("0xlater", 502)
	muchLater := transferAt("0xmuchlater", 600)

	tm.blockProvider.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(500), nil).Times(2)
	tm.scanner.EXPECT().Backfill(gomock.Any(), uint64(100), uint64(500)).Return(backfill.Stats{}, nil)
	tm.store.EXPECT().SetBlockCursor(gomock.Any(), chain, uint64(500)).Return(nil)
	tm.watcher.EXPECT().WatchAll(gomock.Any(), gomock.Any()).DoAndReturn(watchUntilDone(failed, later, muchLater))
	// the cursor never moves past 500 after the failure at 501
	gomock.InOrder(
		tm.ingestor.EXPECT().Ingest(gomock.Any(), failed).Return(ingest.OutcomeSkip, assert.AnError),
		tm.ingestor.EXPECT().Ingest(gomock.Any(), later).Return(ingest.OutcomeAck, nil),
		tm.ingestor.EXPECT().Ingest(gomock.Any(), muchLater).
			DoAndReturn(func(context.Context, domain.Event) (ingest.Outcome, error) {
				cancel()
				return ingest.OutcomeAck, nil
			}),
	)

	err := tm.indexer(indexer.Config{StartBlock: 100}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexer_Run_LiveCursorCapsBelowFailedBlock(t *testing.T) {
	tm := setupTestIndexer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failed := transferAt("0xfailed", 540)
	later := transferAt("0xlater", 600)

	tm.blockProvider.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(500), nil).Times(2)
	tm.scanner.EXPECT().Backfill(gomock.Any(), uint64(100), uint64(500)).Return(backfill.Stats{}, nil)
	tm.store.EXPECT().SetBlockCursor(gomock.Any(), chain, uint64(500)).Return(nil)
	tm.watcher.EXPECT().WatchAll(gomock.Any(), gomock.Any()).DoAndReturn(watchUntilDone(failed, later))
	gomock.InOrder(
		tm.ingestor.EXPECT().Ingest(gomock.Any(), failed).Return(ingest.OutcomeSkip, assert.AnError),
		tm.ingestor.EXPECT().Ingest(gomock.Any(), later).Return(ingest.OutcomeAck, nil),
		tm.store.EXPECT().SetBlockCursor(gomock.Any(), chain, uint64(539)).
			DoAndReturn(func(context.Context, string, uint64) error {
				cancel()
				return nil
			}),
	)

	err := tm.indexer(indexer.Config{StartBlock: 100}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexer_Run_LiveCursorLag(t *testing.T) {
	tm := setupTestIndexer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	near := transferAt("0xnear", 505)
	far := transferAt("0xfar", 520)

	tm.blockProvider.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(500), nil).Times(2)
	tm.scanner.EXPECT().Backfill(gomock.Any(), uint64(100), uint64(500)).Return(backfill.Stats{}, nil)
	tm.store.EXPECT().SetBlockCursor(gomock.Any(), chain, uint64(500)).Return(nil)
	tm.watcher.EXPECT().WatchAll(gomock.Any(), gomock.Any()).DoAndReturn(watchUntilDone(near, far))
	gomock.InOrder(
		// 505 minus the lag stays behind the saved cursor
		tm.ingestor.EXPECT().Ingest(gomock.Any(), near).Return(ingest.OutcomeAck, nil),
		tm.ingestor.EXPECT().Ingest(gomock.Any(), far).Return(ingest.OutcomeAck, nil),
		tm.store.EXPECT().SetBlockCursor(gomock.Any(), chain, uint64(509)).
			DoAndReturn(func(context.Context, string, uint64) error {
				cancel()
				return nil
			}),
	)

	err := tm.indexer(indexer.Config{StartBlock: 100, CursorLag: 10}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexer_Run_WatcherError(t *testing.T) {
	tm := setupTestIndexer(t)

	tm.blockProvider.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(500), nil).Times(2)
	tm.scanner.EXPECT().Backfill(gomock.Any(), uint64(100), uint64(500)).Return(backfill.Stats{}, nil)
	tm.store.EXPECT().SetBlockCursor(gomock.Any(), chain, uint64(500)).Return(nil)
	tm.watcher.EXPECT().WatchAll(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("%w: websocket closed", domain.ErrSubscriptionFailed))

	err := tm.indexer(indexer.Config{StartBlock: 100}).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSubscriptionFailed)
}

func TestIndexer_Run_GetBlockCursorError(t *testing.T) {
	tm := setupTestIndexer(t)

	tm.store.EXPECT().GetBlockCursor(gomock.Any(), chain).Return(uint64(0), assert.AnError)

	err := tm.indexer(indexer.Config{StartBlock: 100, ResumeFromCursor: true}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get block cursor")
}

func TestIndexer_Run_GetLatestBlockError(t *testing.T) {
	tm := setupTestIndexer(t)

	tm.blockProvider.EXPECT().GetLatestBlock(gomock.Any()).Return(uint64(0), assert.AnError)

	err := tm.indexer(indexer.Config{StartBlock: 100}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get latest block number")
}
