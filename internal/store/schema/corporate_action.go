package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/chainequity/captable-indexer/internal/domain"
)

// SplitActionData is the action_data payload of a split
type SplitActionData struct {
	Multiplier     string `json:"multiplier"`
	NewTotalSupply string `json:"new_total_supply"`
}

// SymbolChangeActionData is the action_data payload of a symbol change
type SymbolChangeActionData struct {
	OldSymbol string `json:"old_symbol"`
	NewSymbol string `json:"new_symbol"`
}

// CorporateAction represents the corporate_actions table - append-only splits and symbol changes
type CorporateAction struct {
	ID              int64                      `gorm:"column:id;primaryKey;autoIncrement"`
	TransactionHash string                     `gorm:"column:transaction_hash;not null;type:text;uniqueIndex:idx_corporate_actions_transaction_hash"`
	LogIndex        uint                       `gorm:"column:log_index;not null;type:integer"`
	BlockNumber     uint64                     `gorm:"column:block_number;not null;type:bigint"`
	BlockTimestamp  time.Time                  `gorm:"column:block_timestamp;not null;type:timestamptz"`
	ActionType      domain.CorporateActionType `gorm:"column:action_type;not null;type:text"`
	// ActionData holds SplitActionData or SymbolChangeActionData
	ActionData datatypes.JSON `gorm:"column:action_data;not null;type:jsonb"`
	CreatedAt  time.Time      `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the CorporateAction model
func (CorporateAction) TableName() string {
	return "corporate_actions"
}
