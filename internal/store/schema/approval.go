package schema

import "time"

// ApprovalEvent represents the approval_events table - append-only allowlist changes
type ApprovalEvent struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	TransactionHash string    `gorm:"column:transaction_hash;not null;type:text;uniqueIndex:idx_approval_events_transaction_hash"`
	LogIndex        uint      `gorm:"column:log_index;not null;type:integer"`
	BlockNumber     uint64    `gorm:"column:block_number;not null;type:bigint"`
	BlockTimestamp  time.Time `gorm:"column:block_timestamp;not null;type:timestamptz"`
	WalletAddress   string    `gorm:"column:wallet_address;not null;type:text"`
	// Approved is false for revocations
	Approved  bool      `gorm:"column:approved;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ApprovalEvent model
func (ApprovalEvent) TableName() string {
	return "approval_events"
}

// Approval represents the approvals table - the latest approval state per wallet
type Approval struct {
	WalletAddress   string     `gorm:"column:wallet_address;primaryKey;type:text"`
	Approved        bool       `gorm:"column:approved;not null"`
	ApprovedAt      *time.Time `gorm:"column:approved_at;type:timestamptz"`
	ApprovedAtBlock *uint64    `gorm:"column:approved_at_block;type:bigint"`
	RevokedAt       *time.Time `gorm:"column:revoked_at;type:timestamptz"`
	RevokedAtBlock  *uint64    `gorm:"column:revoked_at_block;type:bigint"`
	TransactionHash string     `gorm:"column:transaction_hash;not null;type:text"`
	// LastEventBlock guards against older events overwriting newer state
	LastEventBlock uint64    `gorm:"column:last_event_block;not null;type:bigint"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Approval model
func (Approval) TableName() string {
	return "approvals"
}
