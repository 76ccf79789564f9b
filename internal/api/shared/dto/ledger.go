package dto

import (
	"encoding/json"
	"time"

	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/store/schema"
)

// TransferResponse represents one ledger transfer
type TransferResponse struct {
	TransactionHash string              `json:"transaction_hash"`
	LogIndex        uint                `json:"log_index"`
	BlockNumber     uint64              `json:"block_number"`
	BlockTimestamp  time.Time           `json:"block_timestamp"`
	From            string              `json:"from"`
	To              string              `json:"to"`
	Amount          string              `json:"amount"`
	AmountFormatted string              `json:"amount_formatted"`
	Type            domain.TransferKind `json:"type"`
}

// TransferListResponse represents a page of transfers
type TransferListResponse struct {
	Transfers []TransferResponse `json:"transfers"`
	Limit     int                `json:"limit"`
	Offset    *uint64            `json:"offset,omitempty"` // next page offset, omitted on the last page
	Total     uint64             `json:"total"`
}

// CorporateActionResponse represents one split or symbol change
type CorporateActionResponse struct {
	ID              int64                      `json:"id"`
	ActionType      domain.CorporateActionType `json:"action_type"`
	TransactionHash string                     `json:"transaction_hash"`
	BlockNumber     uint64                     `json:"block_number"`
	BlockTimestamp  time.Time                  `json:"block_timestamp"`
	Details         json.RawMessage            `json:"details"`
}

// CorporateActionListResponse represents a page of corporate actions
type CorporateActionListResponse struct {
	Actions []CorporateActionResponse `json:"actions"`
	Limit   int                       `json:"limit"`
	Offset  *uint64                   `json:"offset,omitempty"`
	Total   uint64                    `json:"total"`
}

// MapTransferToDTO maps a transfer row to its response
func MapTransferToDTO(t schema.Transfer) TransferResponse {
	amount, ok := domain.ParseAmount(t.Amount)
	formatted := t.Amount
	if ok {
		formatted = domain.FormatTokenAmount(amount, domain.TOKEN_DECIMALS)
	}

	return TransferResponse{
		TransactionHash: t.TransactionHash,
		LogIndex:        t.LogIndex,
		BlockNumber:     t.BlockNumber,
		BlockTimestamp:  t.BlockTimestamp,
		From:            t.FromAddress,
		To:              t.ToAddress,
		Amount:          t.Amount,
		AmountFormatted: formatted,
		Type:            domain.ClassifyTransfer(t.FromAddress, t.ToAddress),
	}
}

// MapCorporateActionToDTO maps a corporate action row to its response
func MapCorporateActionToDTO(a schema.CorporateAction) CorporateActionResponse {
	return CorporateActionResponse{
		ID:              a.ID,
		ActionType:      a.ActionType,
		TransactionHash: a.TransactionHash,
		BlockNumber:     a.BlockNumber,
		BlockTimestamp:  a.BlockTimestamp,
		Details:         json.RawMessage(a.ActionData),
	}
}

// NextOffset returns the offset of the next page, nil when this page is the last
func NextOffset(offset uint64, count int, total uint64) *uint64 {
	if offset+uint64(count) < total { //nolint:gosec,G115
		next := offset + uint64(count) //nolint:gosec,G115
		return &next
	}
	return nil
}
