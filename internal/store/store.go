package store

import (
	"context"
	"math/big"
	"time"

	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/store/schema"
)

const (
	// TotalSupplyKey is the key_value_store key of the cached total supply
	TotalSupplyKey = "total_supply"
)

// CreateTransferInput is a decoded Transfer log to append to the ledger
type CreateTransferInput struct {
	TxHash         string
	LogIndex       uint
	BlockNumber    uint64
	BlockHash      string
	BlockTimestamp time.Time
	From           string
	To             string
	Amount         *big.Int
}

// CreateCorporateActionInput is a split or symbol change to append to the ledger
type CreateCorporateActionInput struct {
	TxHash         string
	LogIndex       uint
	BlockNumber    uint64
	BlockTimestamp time.Time
	ActionType     domain.CorporateActionType
	// ActionData is the JSON payload, see schema.SplitActionData and schema.SymbolChangeActionData
	ActionData []byte
}

// CreateApprovalInput is a WalletApproved or WalletRevoked log
type CreateApprovalInput struct {
	TxHash         string
	LogIndex       uint
	BlockNumber    uint64
	BlockTimestamp time.Time
	Wallet         string
	Approved       bool
	// At is the approval or revocation time carried by the event
	At time.Time
}

// SplitRecord is one stock split in the ledger
type SplitRecord struct {
	BlockNumber uint64
	Multiplier  uint64
}

// TransferFilter narrows GetTransfers
type TransferFilter struct {
	// Address matches either side of the transfer
	Address   *string
	FromBlock *uint64
	ToBlock   *uint64
	Limit     int
	Offset    uint64
}

// CorporateActionFilter narrows GetCorporateActions
type CorporateActionFilter struct {
	ActionType *domain.CorporateActionType
	Limit      int
	Offset     uint64
}

// WalletActivity summarizes the ledger history of one address
type WalletActivity struct {
	TransferCount      uint64
	FirstTransferBlock *uint64
	LastTransferBlock  *uint64
	FirstTransferAt    *time.Time
	LastTransferAt     *time.Time
}

// SnapshotEvent is one cap table changing event after the last supply reset
type SnapshotEvent struct {
	BlockNumber    uint64
	BlockTimestamp time.Time
	EventType      string
	Description    string
}

// SupplyReport holds the three independent views of the total supply
type SupplyReport struct {
	// ProjectionSum is the sum of the balances projection
	ProjectionSum *big.Int
	// Cached is the total supply kept in key_value_store
	Cached *big.Int
	// Ledger is the sum of mints minus the sum of burns
	Ledger *big.Int
	// Holders is the number of projection rows with a positive balance
	Holders uint64
}

// RebuildResult reports a projection rebuild
type RebuildResult struct {
	Holders     uint64
	TotalSupply *big.Int
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// Ping checks the database connection
	Ping(ctx context.Context) error

	// IngestTransfer appends a transfer and updates the balance projection and cached
	// supply in one transaction. Returns false when the transaction hash is already
	// in the ledger. Returns an error wrapping domain.ErrNegativeBalance when the
	// sender cannot cover the amount.
	IngestTransfer(ctx context.Context, input CreateTransferInput) (bool, error)
	// IngestCorporateAction appends a split or symbol change. Returns false on duplicates.
	IngestCorporateAction(ctx context.Context, input CreateCorporateActionInput) (bool, error)
	// IngestApproval appends an approval event and updates the approval projection
	// unless a later event already did. Returns false on duplicates.
	IngestApproval(ctx context.Context, input CreateApprovalInput) (bool, error)

	// GetTransfersUpToBlock returns every transfer with block_number <= toBlock in ledger order
	GetTransfersUpToBlock(ctx context.Context, toBlock uint64) ([]schema.Transfer, error)
	// GetSplits returns splits in ascending block order, limited to block <= toBlock when set
	GetSplits(ctx context.Context, toBlock *uint64) ([]SplitRecord, error)
	// GetBalances returns the projection rows with a positive balance
	GetBalances(ctx context.Context) ([]schema.Balance, error)
	// GetBalance returns the projection row of an address, nil if none
	GetBalance(ctx context.Context, address string) (*schema.Balance, error)
	// GetTotalSupply returns the cached total supply, zero when never set
	GetTotalSupply(ctx context.Context) (*big.Int, error)
	// GetSupplyReport computes the projection, cached and ledger supplies
	GetSupplyReport(ctx context.Context) (*SupplyReport, error)
	// RebuildBalances recomputes the balance projection and cached supply from the ledger
	RebuildBalances(ctx context.Context) (*RebuildResult, error)

	// GetApproval returns the approval projection of a wallet, nil if none
	GetApproval(ctx context.Context, address string) (*schema.Approval, error)
	// GetWalletActivity summarizes the transfers touching an address
	GetWalletActivity(ctx context.Context, address string) (*WalletActivity, error)
	// GetTransfers lists transfers newest first with the total matching count
	GetTransfers(ctx context.Context, filter TransferFilter) ([]schema.Transfer, uint64, error)
	// GetCorporateActions lists corporate actions newest first with the total matching count
	GetCorporateActions(ctx context.Context, filter CorporateActionFilter) ([]schema.CorporateAction, uint64, error)
	// GetSnapshotEvents lists cap table changes after the last supply reset, newest first
	GetSnapshotEvents(ctx context.Context, limit int) ([]SnapshotEvent, error)

	// GetBlockCursor retrieves the last processed block number for a chain
	GetBlockCursor(ctx context.Context, chain string) (uint64, error)
	// SetBlockCursor stores the last processed block number for a chain
	SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error
}
