package store

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/store/schema"
)

const (
	alice = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bob   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	carol = "0xcccccccccccccccccccccccccccccccccccccccc"
)

// =============================================================================
// Test Data Builders
// =============================================================================

var baseTime = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func buildTestTransfer(txHash, from, to string, amount int64, block uint64) CreateTransferInput {
	return CreateTransferInput{
		TxHash:         txHash,
		LogIndex:       0,
		BlockNumber:    block,
		BlockHash:      "0xblockhash",
		BlockTimestamp: baseTime.Add(time.Duration(block) * time.Second), //nolint:gosec,G115
		From:           from,
		To:             to,
		Amount:         big.NewInt(amount),
	}
}

func mint(to string, amount int64, txHash string, block uint64) CreateTransferInput {
	return buildTestTransfer(txHash, domain.ETHEREUM_ZERO_ADDRESS, to, amount, block)
}

func burn(from string, amount int64, txHash string, block uint64) CreateTransferInput {
	return buildTestTransfer(txHash, from, domain.ETHEREUM_ZERO_ADDRESS, amount, block)
}

func buildTestSplit(txHash string, multiplier uint64, block uint64) CreateCorporateActionInput {
	data, _ := json.Marshal(schema.SplitActionData{
		Multiplier:     new(big.Int).SetUint64(multiplier).String(),
		NewTotalSupply: "0",
	})
	return CreateCorporateActionInput{
		TxHash:         txHash,
		BlockNumber:    block,
		BlockTimestamp: baseTime.Add(time.Duration(block) * time.Second), //nolint:gosec,G115
		ActionType:     domain.CorporateActionSplit,
		ActionData:     data,
	}
}

func buildTestSymbolChange(txHash, oldSymbol, newSymbol string, block uint64) CreateCorporateActionInput {
	data, _ := json.Marshal(schema.SymbolChangeActionData{OldSymbol: oldSymbol, NewSymbol: newSymbol})
	return CreateCorporateActionInput{
		TxHash:         txHash,
		BlockNumber:    block,
		BlockTimestamp: baseTime.Add(time.Duration(block) * time.Second), //nolint:gosec,G115
		ActionType:     domain.CorporateActionSymbolChange,
		ActionData:     data,
	}
}

func buildTestApproval(txHash, wallet string, approved bool, block uint64) CreateApprovalInput {
	at := baseTime.Add(time.Duration(block) * time.Second) //nolint:gosec,G115
	return CreateApprovalInput{
		TxHash:         txHash,
		BlockNumber:    block,
		BlockTimestamp: at,
		Wallet:         wallet,
		Approved:       approved,
		At:             at,
	}
}

func mustIngest(t *testing.T, store Store, inputs ...CreateTransferInput) {
	t.Helper()
	for _, input := range inputs {
		inserted, err := store.IngestTransfer(context.Background(), input)
		require.NoError(t, err, "tx %s", input.TxHash)
		require.True(t, inserted, "tx %s", input.TxHash)
	}
}

func balanceOf(t *testing.T, store Store, address string) string {
	t.Helper()
	b, err := store.GetBalance(context.Background(), address)
	require.NoError(t, err)
	if b == nil {
		return ""
	}
	return b.Balance
}

// =============================================================================
// Test Runner
// =============================================================================

// RunStoreTests runs the store test cases against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"IngestTransferIdempotent", testIngestTransferIdempotent},
		{"IngestTransferConservation", testIngestTransferConservation},
		{"IngestTransferNegativeBalance", testIngestTransferNegativeBalance},
		{"IngestTransferZeroToZero", testIngestTransferZeroToZero},
		{"IngestCorporateAction", testIngestCorporateAction},
		{"IngestApproval", testIngestApproval},
		{"GetTransfers", testGetTransfers},
		{"GetTransfersUpToBlock", testGetTransfersUpToBlock},
		{"WalletActivity", testWalletActivity},
		{"RebuildBalances", testRebuildBalances},
		{"SnapshotEvents", testSnapshotEvents},
		{"BlockCursor", testBlockCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, initDB(t))
		})
	}
}

// =============================================================================
// Ingestion
// =============================================================================

func testIngestTransferIdempotent(t *testing.T, store Store) {
	ctx := context.Background()

	inserted, err := store.IngestTransfer(ctx, mint(alice, 1000, "0xmint1", 100))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = store.IngestTransfer(ctx, mint(alice, 1000, "0xmint1", 100))
	require.NoError(t, err)
	assert.False(t, inserted, "second ingest of the same hash must be skipped")

	assert.Equal(t, "1000", balanceOf(t, store, alice))

	supply, err := store.GetTotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1000", supply.String())

	_, total, err := store.GetTransfers(ctx, TransferFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
}

func testIngestTransferConservation(t *testing.T, store Store) {
	ctx := context.Background()

	mustIngest(t, store,
		mint(alice, 1000, "0xt1", 100),
		buildTestTransfer("0xt2", alice, bob, 400, 150),
		burn(bob, 100, "0xt3", 160),
		buildTestTransfer("0xt4", bob, carol, 300, 170),
	)

	assert.Equal(t, "600", balanceOf(t, store, alice))
	assert.Equal(t, "0", balanceOf(t, store, bob))
	assert.Equal(t, "300", balanceOf(t, store, carol))

	report, err := store.GetSupplyReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "900", report.ProjectionSum.String())
	assert.Equal(t, "900", report.Cached.String())
	assert.Equal(t, "900", report.Ledger.String())
	assert.Equal(t, uint64(2), report.Holders)

	balances, err := store.GetBalances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 2, "zero balances are not listed")
	assert.Equal(t, alice, balances[0].Address)
	assert.Equal(t, carol, balances[1].Address)
	assert.Equal(t, uint64(150), balances[0].LastUpdatedBlock)
}

func testIngestTransferZeroToZero(t *testing.T, store Store) {
	ctx := context.Background()

	mustIngest(t, store,
		mint(alice, 1000, "0xz1", 100),
		buildTestTransfer("0xz2", domain.ETHEREUM_ZERO_ADDRESS, domain.ETHEREUM_ZERO_ADDRESS, 50, 110),
	)

	assert.Equal(t, "", balanceOf(t, store, domain.ETHEREUM_ZERO_ADDRESS))

	balances, err := store.GetBalances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, alice, balances[0].Address)

	report, err := store.GetSupplyReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1000", report.ProjectionSum.String())
	assert.Equal(t, "1000", report.Cached.String())
	assert.Equal(t, "1000", report.Ledger.String())
	assert.Equal(t, uint64(1), report.Holders)

	// still part of the ledger
	_, total, err := store.GetTransfers(ctx, TransferFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)

	result, err := store.RebuildBalances(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1000", result.TotalSupply.String())
	assert.Equal(t, uint64(1), result.Holders)
}

func testIngestTransferNegativeBalance(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("sender without balance", func(t *testing.T) {
		inserted, err := store.IngestTransfer(ctx, buildTestTransfer("0xneg1", carol, bob, 1, 10))
		assert.ErrorIs(t, err, domain.ErrNegativeBalance)
		assert.False(t, inserted)
	})

	t.Run("sender short of amount", func(t *testing.T) {
		mustIngest(t, store, mint(alice, 1000, "0xneg2", 20))

		inserted, err := store.IngestTransfer(ctx, buildTestTransfer("0xneg3", alice, bob, 2000, 30))
		assert.ErrorIs(t, err, domain.ErrNegativeBalance)
		assert.False(t, inserted)

		// the failed event left no trace
		assert.Equal(t, "1000", balanceOf(t, store, alice))
		assert.Equal(t, "", balanceOf(t, store, bob))

		_, total, err := store.GetTransfers(ctx, TransferFilter{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)

		supply, err := store.GetTotalSupply(ctx)
		require.NoError(t, err)
		assert.Equal(t, "1000", supply.String())
	})
}

func testIngestCorporateAction(t *testing.T, store Store) {
	ctx := context.Background()

	for _, input := range []CreateCorporateActionInput{
		buildTestSplit("0xsplit1", 2, 200),
		buildTestSymbolChange("0xsym1", "ACME", "ACMX", 250),
		buildTestSplit("0xsplit2", 3, 300),
	} {
		inserted, err := store.IngestCorporateAction(ctx, input)
		require.NoError(t, err)
		assert.True(t, inserted)
	}

	inserted, err := store.IngestCorporateAction(ctx, buildTestSplit("0xsplit1", 2, 200))
	require.NoError(t, err)
	assert.False(t, inserted)

	_, err = store.IngestCorporateAction(ctx, CreateCorporateActionInput{
		TxHash:     "0xbad",
		ActionType: domain.CorporateActionType("dividend"),
		ActionData: []byte(`{}`),
	})
	assert.Error(t, err)

	t.Run("all splits", func(t *testing.T) {
		splits, err := store.GetSplits(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, []SplitRecord{
			{BlockNumber: 200, Multiplier: 2},
			{BlockNumber: 300, Multiplier: 3},
		}, splits)
	})

	t.Run("splits up to block", func(t *testing.T) {
		toBlock := uint64(299)
		splits, err := store.GetSplits(ctx, &toBlock)
		require.NoError(t, err)
		assert.Equal(t, []SplitRecord{{BlockNumber: 200, Multiplier: 2}}, splits)

		toBlock = 199
		splits, err = store.GetSplits(ctx, &toBlock)
		require.NoError(t, err)
		assert.Empty(t, splits)
	})

	t.Run("filter by type", func(t *testing.T) {
		actionType := domain.CorporateActionSymbolChange
		actions, total, err := store.GetCorporateActions(ctx, CorporateActionFilter{ActionType: &actionType, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		require.Len(t, actions, 1)

		var data schema.SymbolChangeActionData
		require.NoError(t, json.Unmarshal(actions[0].ActionData, &data))
		assert.Equal(t, "ACMX", data.NewSymbol)
	})

	t.Run("newest first with paging", func(t *testing.T) {
		actions, total, err := store.GetCorporateActions(ctx, CorporateActionFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), total)
		require.Len(t, actions, 2)
		assert.Equal(t, uint64(250), actions[0].BlockNumber)
		assert.Equal(t, uint64(200), actions[1].BlockNumber)
	})
}

func testIngestApproval(t *testing.T, store Store) {
	ctx := context.Background()

	approval, err := store.GetApproval(ctx, alice)
	require.NoError(t, err)
	assert.Nil(t, approval)

	inserted, err := store.IngestApproval(ctx, buildTestApproval("0xap1", alice, true, 100))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = store.IngestApproval(ctx, buildTestApproval("0xap1", alice, true, 100))
	require.NoError(t, err)
	assert.False(t, inserted)

	_, err = store.IngestApproval(ctx, buildTestApproval("0xrv1", alice, false, 200))
	require.NoError(t, err)

	approval, err = store.GetApproval(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, approval)
	assert.False(t, approval.Approved)
	require.NotNil(t, approval.ApprovedAtBlock)
	assert.Equal(t, uint64(100), *approval.ApprovedAtBlock)
	require.NotNil(t, approval.RevokedAtBlock)
	assert.Equal(t, uint64(200), *approval.RevokedAtBlock)
	assert.Equal(t, uint64(200), approval.LastEventBlock)

	// an older approval delivered late is recorded but does not change the state
	inserted, err = store.IngestApproval(ctx, buildTestApproval("0xap2", alice, true, 150))
	require.NoError(t, err)
	assert.True(t, inserted)

	approval, err = store.GetApproval(ctx, alice)
	require.NoError(t, err)
	assert.False(t, approval.Approved)
	assert.Equal(t, "0xrv1", approval.TransactionHash)
	assert.Equal(t, uint64(100), *approval.ApprovedAtBlock)

	// upper-case input resolves to the same wallet
	approval, err = store.GetApproval(ctx, "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	require.NoError(t, err)
	assert.NotNil(t, approval)
}

// =============================================================================
// Queries
// =============================================================================

func testGetTransfers(t *testing.T, store Store) {
	ctx := context.Background()

	mustIngest(t, store,
		mint(alice, 1000, "0xq1", 100),
		mint(bob, 500, "0xq2", 100),
		buildTestTransfer("0xq3", alice, bob, 100, 200),
		buildTestTransfer("0xq4", bob, carol, 50, 300),
	)

	t.Run("newest first", func(t *testing.T) {
		transfers, total, err := store.GetTransfers(ctx, TransferFilter{Limit: 100})
		require.NoError(t, err)
		assert.Equal(t, uint64(4), total)
		require.Len(t, transfers, 4)
		assert.Equal(t, "0xq4", transfers[0].TransactionHash)
		assert.Equal(t, "0xq3", transfers[1].TransactionHash)
		// same block: higher id first
		assert.Equal(t, "0xq2", transfers[2].TransactionHash)
		assert.Equal(t, "0xq1", transfers[3].TransactionHash)
		assert.Equal(t, domain.TransferKindMint, transfers[3].EventType)
		assert.Equal(t, domain.TransferKindTransfer, transfers[0].EventType)
	})

	t.Run("by address", func(t *testing.T) {
		address := bob
		transfers, total, err := store.GetTransfers(ctx, TransferFilter{Address: &address, Limit: 100})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), total)
		assert.Len(t, transfers, 3)
	})

	t.Run("by address and block range", func(t *testing.T) {
		address := bob
		from, to := uint64(150), uint64(250)
		transfers, total, err := store.GetTransfers(ctx, TransferFilter{
			Address:   &address,
			FromBlock: &from,
			ToBlock:   &to,
			Limit:     100,
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		require.Len(t, transfers, 1)
		assert.Equal(t, "0xq3", transfers[0].TransactionHash)
	})

	t.Run("paging", func(t *testing.T) {
		transfers, total, err := store.GetTransfers(ctx, TransferFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, uint64(4), total)
		require.Len(t, transfers, 2)
		assert.Equal(t, "0xq2", transfers[0].TransactionHash)
	})
}

func testGetTransfersUpToBlock(t *testing.T, store Store) {
	ctx := context.Background()

	mustIngest(t, store,
		mint(alice, 1000, "0xu1", 100),
		buildTestTransfer("0xu2", alice, bob, 400, 150),
		buildTestTransfer("0xu3", bob, carol, 100, 151),
	)

	transfers, err := store.GetTransfersUpToBlock(ctx, 150)
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, "0xu1", transfers[0].TransactionHash)
	assert.Equal(t, "0xu2", transfers[1].TransactionHash)
	assert.Equal(t, "400", transfers[1].Amount)

	transfers, err = store.GetTransfersUpToBlock(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, transfers)
}

func testWalletActivity(t *testing.T, store Store) {
	ctx := context.Background()

	mustIngest(t, store,
		mint(alice, 1000, "0xw1", 100),
		buildTestTransfer("0xw2", alice, bob, 10, 120),
		buildTestTransfer("0xw3", alice, bob, 10, 130),
	)

	activity, err := store.GetWalletActivity(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), activity.TransferCount)
	require.NotNil(t, activity.FirstTransferBlock)
	require.NotNil(t, activity.LastTransferBlock)
	assert.Equal(t, uint64(120), *activity.FirstTransferBlock)
	assert.Equal(t, uint64(130), *activity.LastTransferBlock)
	require.NotNil(t, activity.LastTransferAt)
	assert.True(t, activity.LastTransferAt.Equal(baseTime.Add(130*time.Second)))

	activity, err = store.GetWalletActivity(ctx, carol)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), activity.TransferCount)
	assert.Nil(t, activity.FirstTransferBlock)
}

func testRebuildBalances(t *testing.T, store Store) {
	ctx := context.Background()

	mustIngest(t, store,
		mint(alice, 1000, "0xr1", 100),
		buildTestTransfer("0xr2", alice, bob, 400, 150),
		burn(bob, 100, "0xr3", 160),
	)

	// corrupt the projection behind the store's back
	pg, ok := store.(*pgStore)
	require.True(t, ok)
	require.NoError(t, pg.db.Exec("UPDATE balances SET balance = 1 WHERE address = ?", alice).Error)
	require.NoError(t, pg.db.Exec("INSERT INTO balances (address, balance, last_updated_block) VALUES (?, 5, 1)", carol).Error)
	require.NoError(t, setValue(pg.db, TotalSupplyKey, "42"))

	report, err := store.GetSupplyReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "306", report.ProjectionSum.String())
	assert.Equal(t, "42", report.Cached.String())
	assert.Equal(t, "900", report.Ledger.String())

	result, err := store.RebuildBalances(ctx)
	require.NoError(t, err)
	assert.Equal(t, "900", result.TotalSupply.String())
	assert.Equal(t, uint64(2), result.Holders)

	assert.Equal(t, "600", balanceOf(t, store, alice))
	assert.Equal(t, "300", balanceOf(t, store, bob))
	assert.Equal(t, "", balanceOf(t, store, carol))

	report, err = store.GetSupplyReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "900", report.ProjectionSum.String())
	assert.Equal(t, "900", report.Cached.String())
	assert.Equal(t, "900", report.Ledger.String())
}

func testSnapshotEvents(t *testing.T, store Store) {
	ctx := context.Background()

	mustIngest(t, store,
		mint(alice, 100, "0xs1", 10),
		burn(alice, 100, "0xs2", 20),
		mint(bob, 50, "0xs3", 30),
		buildTestTransfer("0xs4", bob, carol, 10, 35),
	)
	_, err := store.IngestCorporateAction(ctx, buildTestSplit("0xs5", 2, 40))
	require.NoError(t, err)
	_, err = store.IngestCorporateAction(ctx, buildTestSymbolChange("0xs6", "ACME", "ACMX", 50))
	require.NoError(t, err)

	events, err := store.GetSnapshotEvents(ctx, 50)
	require.NoError(t, err)
	require.Len(t, events, 4, "events at or before the supply reset at block 20 are excluded")

	assert.Equal(t, SnapshotEvent{
		BlockNumber:    50,
		BlockTimestamp: events[0].BlockTimestamp,
		EventType:      "symbol_change",
		Description:    "Symbol Change",
	}, events[0])
	assert.Equal(t, "Stock Split (2:1)", events[1].Description)
	assert.Equal(t, "Token Transfer", events[2].Description)
	assert.Equal(t, "Token Mint", events[3].Description)
	assert.Equal(t, uint64(30), events[3].BlockNumber)

	events, err = store.GetSnapshotEvents(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func testBlockCursor(t *testing.T, store Store) {
	ctx := context.Background()
	chain := string(domain.ChainBaseSepolia)

	cursor, err := store.GetBlockCursor(ctx, chain)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cursor)

	require.NoError(t, store.SetBlockCursor(ctx, chain, 100))
	cursor, err = store.GetBlockCursor(ctx, chain)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), cursor)

	require.NoError(t, store.SetBlockCursor(ctx, chain, 250))
	cursor, err = store.GetBlockCursor(ctx, chain)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), cursor)

	supply, err := store.GetTotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), supply.Int64())
}
