package block_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainequity/captable-indexer/internal/block"
	"github.com/chainequity/captable-indexer/internal/logger"
	"github.com/chainequity/captable-indexer/internal/mocks"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

type testBlockProviderMocks struct {
	ctrl     *gomock.Controller
	fetcher  *mocks.MockBlockFetcher
	clock    *mocks.MockClock
	provider block.BlockProvider
}

func setupTest(t *testing.T, cacheSize int) *testBlockProviderMocks {
	ctrl := gomock.NewController(t)

	mockFetcher := mocks.NewMockBlockFetcher(ctrl)
	mockClock := mocks.NewMockClock(ctrl)

	provider, err := block.NewBlockProvider(mockFetcher, block.Config{
		TTL:                10 * time.Second,
		StaleWindow:        2 * time.Minute,
		TimestampCacheSize: cacheSize,
	}, mockClock)
	require.NoError(t, err)

	return &testBlockProviderMocks{
		ctrl:     ctrl,
		fetcher:  mockFetcher,
		clock:    mockClock,
		provider: provider,
	}
}

func TestBlockProvider_GetLatestBlock(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fetchErr := errors.New("network error")

	tests := []struct {
		name      string
		// second call happens at now+after
		after     time.Duration
		secondNum uint64
		secondErr error
		// fetched reports whether the second call reaches the fetcher
		fetched   bool
		want      uint64
		wantErr   bool
	}{
		{
			name:  "uses cache within TTL",
			after: 5 * time.Second,
			want:  1000,
		},
		{
			name:      "refreshes after TTL",
			after:     15 * time.Second,
			secondNum: 1100,
			fetched:   true,
			want:      1100,
		},
		{
			name:      "serves stale head within stale window",
			after:     30 * time.Second,
			secondErr: fetchErr,
			fetched:   true,
			want:      1000,
		},
		{
			name:      "fails beyond stale window",
			after:     5 * time.Minute,
			secondErr: fetchErr,
			fetched:   true,
			wantErr:   true,
		},
		{
			name:      "does not move head backwards",
			after:     15 * time.Second,
			secondNum: 990,
			fetched:   true,
			want:      1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTest(t, 0)
			ctx := context.Background()

			tm.clock.EXPECT().Now().Return(now)
			tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil)

			first, err := tm.provider.GetLatestBlock(ctx)
			require.NoError(t, err)
			assert.Equal(t, uint64(1000), first)

			tm.clock.EXPECT().Now().Return(now.Add(tt.after))
			if tt.fetched {
				tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(tt.secondNum, tt.secondErr)
			}

			got, err := tm.provider.GetLatestBlock(ctx)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "no valid cache available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlockProvider_GetLatestBlock_NoCacheFetchFails(t *testing.T) {
	tm := setupTest(t, 0)
	ctx := context.Background()

	tm.clock.EXPECT().Now().Return(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(0), errors.New("network error"))

	blockNum, err := tm.provider.GetLatestBlock(ctx)
	assert.Error(t, err)
	assert.Equal(t, uint64(0), blockNum)
}

func TestBlockProvider_GetBlockTimestamp_Cached(t *testing.T) {
	tm := setupTest(t, 0)
	ctx := context.Background()
	blockTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(1000)).Return(blockTime, nil).Times(1)

	for n := 0; n < 3; n++ {
		ts, err := tm.provider.GetBlockTimestamp(ctx, 1000)
		require.NoError(t, err)
		assert.Equal(t, blockTime, ts)
	}
}

func TestBlockProvider_GetBlockTimestamp_FetchFails(t *testing.T) {
	tm := setupTest(t, 0)
	ctx := context.Background()

	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(7)).Return(time.Time{}, errors.New("not found"))

	_, err := tm.provider.GetBlockTimestamp(ctx, 7)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "block 7")
}

func TestBlockProvider_GetBlockTimestamp_EvictsLeastRecentlyUsed(t *testing.T) {
	tm := setupTest(t, 2)
	ctx := context.Background()
	t1 := time.Unix(1_700_000_001, 0).UTC()
	t2 := time.Unix(1_700_000_002, 0).UTC()
	t3 := time.Unix(1_700_000_003, 0).UTC()

	gomock.InOrder(
		tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(1)).Return(t1, nil),
		tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(2)).Return(t2, nil),
		tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(3)).Return(t3, nil),
		tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(1)).Return(t1, nil),
	)

	for _, n := range []uint64{1, 2, 3} {
		_, err := tm.provider.GetBlockTimestamp(ctx, n)
		require.NoError(t, err)
	}

	// block 1 was evicted by block 3
	ts, err := tm.provider.GetBlockTimestamp(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, t1, ts)
}

func TestBlockProvider_ConcurrentAccess(t *testing.T) {
	tm := setupTest(t, 0)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	blockTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil).AnyTimes()
	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(1000)).Return(blockTime, nil).AnyTimes()

	var wg sync.WaitGroup
	for n := 0; n < 10; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			blockNum, err := tm.provider.GetLatestBlock(ctx)
			assert.NoError(t, err)
			assert.Equal(t, uint64(1000), blockNum)

			ts, err := tm.provider.GetBlockTimestamp(ctx, 1000)
			assert.NoError(t, err)
			assert.Equal(t, blockTime, ts)
		}()
	}
	wg.Wait()
}
