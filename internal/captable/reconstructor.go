package captable

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/chainequity/captable-indexer/internal/block"
	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/logger"
	"github.com/chainequity/captable-indexer/internal/store"
)

// DefaultSnapshotLimit is the number of snapshot entries returned when no limit is given
const DefaultSnapshotLimit = 50

// Config holds the configuration for the reconstructor
type Config struct {
	// DeploymentBlock is the earliest block a cap table can be asked for
	DeploymentBlock uint64
}

// Reconstructor answers cap table queries from the ledger
//
//go:generate mockgen -source=reconstructor.go -destination=../mocks/reconstructor.go -package=mocks -mock_names=Reconstructor=MockReconstructor
type Reconstructor interface {
	// ReconstructAt replays the transfer ledger up to blockNumber and applies the
	// cumulative split multiplier at that block. It never reads the balance projection.
	// Returns an error wrapping domain.ErrBlockOutOfRange outside [deployment block, head].
	ReconstructAt(ctx context.Context, blockNumber uint64) (*CapTable, error)

	// Current builds the cap table at the head from the balance projection and the
	// cached total supply. Holders below minBalance (split-adjusted base units) are
	// omitted; a nil minBalance keeps every holder.
	Current(ctx context.Context, minBalance *big.Int) (*CapTable, error)

	// Snapshots lists the cap table changes after the last supply reset, newest first
	Snapshots(ctx context.Context, limit int) ([]store.SnapshotEvent, error)
}

type reconstructor struct {
	store         store.Store
	blockProvider block.BlockProvider
	config        Config
}

// NewReconstructor creates a new reconstructor
func NewReconstructor(st store.Store, blockProvider block.BlockProvider, cfg Config) Reconstructor {
	return &reconstructor{
		store:         st,
		blockProvider: blockProvider,
		config:        cfg,
	}
}

// ReconstructAt returns the cap table at blockNumber
func (r *reconstructor) ReconstructAt(ctx context.Context, blockNumber uint64) (*CapTable, error) {
	head, err := r.blockProvider.GetLatestBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest block: %w", err)
	}

	if blockNumber < r.config.DeploymentBlock || blockNumber > head {
		return nil, fmt.Errorf("%w: block %d is outside [%d, %d]",
			domain.ErrBlockOutOfRange, blockNumber, r.config.DeploymentBlock, head)
	}

	splits, err := r.store.GetSplits(ctx, &blockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	multiplier := CumulativeMultiplier(splits)

	transfers, err := r.store.GetTransfersUpToBlock(ctx, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfers: %w", err)
	}

	base, err := ReplayTransfers(transfers)
	if err != nil {
		return nil, fmt.Errorf("failed to replay transfers: %w", err)
	}

	holders, total := BuildHolders(base, multiplier)

	return &CapTable{
		BlockNumber: blockNumber,
		Timestamp:   r.blockTime(ctx, blockNumber),
		Multiplier:  multiplier,
		TotalSupply: total,
		HolderCount: len(holders),
		Holders:     holders,
	}, nil
}

// Current returns the cap table at the head
func (r *reconstructor) Current(ctx context.Context, minBalance *big.Int) (*CapTable, error) {
	head, err := r.blockProvider.GetLatestBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest block: %w", err)
	}

	splits, err := r.store.GetSplits(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	multiplier := CumulativeMultiplier(splits)

	balances, err := r.store.GetBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}

	supply, err := r.store.GetTotalSupply(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total supply: %w", err)
	}
	total := new(big.Int).Mul(supply, multiplier)

	holders := make([]Holder, 0, len(balances))
	for _, b := range balances {
		baseBalance, ok := domain.ParseAmount(b.Balance)
		if !ok {
			return nil, fmt.Errorf("invalid balance %q for %s", b.Balance, b.Address)
		}

		displayed := new(big.Int).Mul(baseBalance, multiplier)
		if displayed.Sign() <= 0 {
			continue
		}
		if minBalance != nil && displayed.Cmp(minBalance) < 0 {
			continue
		}

		holders = append(holders, Holder{
			Address:     b.Address,
			Balance:     displayed,
			BaseBalance: baseBalance,
			Percentage:  Percentage(displayed, total),
		})
	}
	SortHolders(holders)

	return &CapTable{
		BlockNumber: head,
		Timestamp:   r.blockTime(ctx, head),
		Multiplier:  multiplier,
		TotalSupply: total,
		HolderCount: len(holders),
		Holders:     holders,
	}, nil
}

// Snapshots returns at most limit snapshot entries
func (r *reconstructor) Snapshots(ctx context.Context, limit int) ([]store.SnapshotEvent, error) {
	if limit <= 0 {
		limit = DefaultSnapshotLimit
	}

	events, err := r.store.GetSnapshotEvents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot events: %w", err)
	}

	return events, nil
}

// blockTime resolves a block timestamp, nil when the chain cannot be reached
func (r *reconstructor) blockTime(ctx context.Context, blockNumber uint64) *time.Time {
	ts, err := r.blockProvider.GetBlockTimestamp(ctx, blockNumber)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to get block timestamp",
			zap.Uint64("block_number", blockNumber),
			zap.Error(err))
		return nil
	}
	return &ts
}
