package schema

import (
	"time"
)

// Balance represents the balances table - the current base balance of each holder.
// Rows are derived from the transfers ledger and never hold the zero address.
type Balance struct {
	// Address is the lower-case holder address
	Address string `gorm:"column:address;primaryKey;type:text"`
	// Balance is the pre-split base balance (stored as string to support up to 78 digits)
	Balance string `gorm:"column:balance;not null;type:numeric(78,0)"`
	// LastUpdatedBlock is the block of the last transfer touching this holder
	LastUpdatedBlock uint64    `gorm:"column:last_updated_block;not null;type:bigint"`
	LastUpdatedAt    time.Time `gorm:"column:last_updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Balance model
func (Balance) TableName() string {
	return "balances"
}
