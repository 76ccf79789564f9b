package schema

import (
	"time"

	"github.com/chainequity/captable-indexer/internal/domain"
)

// Transfer represents the transfers table - the append-only ledger of token movements.
// The ledger is authoritative; the balances projection can always be rebuilt from it.
type Transfer struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TransactionHash is the hash of the transaction that emitted the Transfer log
	TransactionHash string `gorm:"column:transaction_hash;not null;type:text;uniqueIndex:idx_transfers_transaction_hash"`
	// LogIndex is the position of the log within its block
	LogIndex uint `gorm:"column:log_index;not null;type:integer"`

	BlockNumber    uint64    `gorm:"column:block_number;not null;type:bigint"`
	BlockHash      string    `gorm:"column:block_hash;not null;type:text"`
	BlockTimestamp time.Time `gorm:"column:block_timestamp;not null;type:timestamptz"`
	// FromAddress is the zero address for mints
	FromAddress string `gorm:"column:from_address;not null;type:text"`
	// ToAddress is the zero address for burns
	ToAddress string `gorm:"column:to_address;not null;type:text"`
	// Amount is stored as a decimal string to support uint256 values
	Amount string `gorm:"column:amount;not null;type:numeric(78,0)"`
	// EventType is the classification of the transfer (mint, burn, transfer)
	EventType domain.TransferKind `gorm:"column:event_type;not null;type:text"`
	CreatedAt time.Time           `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Transfer model
func (Transfer) TableName() string {
	return "transfers"
}
