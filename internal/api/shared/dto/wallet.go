package dto

import "time"

// WalletResponse represents the ledger view of one address
type WalletResponse struct {
	Address string `json:"address"`
	// Balance is the base balance recorded by the ledger
	Balance string `json:"balance"`
	// DisplayBalance is Balance times the current split multiplier
	DisplayBalance          string     `json:"display_balance"`
	DisplayBalanceFormatted string     `json:"display_balance_formatted"`
	Percentage              string     `json:"percentage"`
	IsApproved              bool       `json:"is_approved"`
	ApprovedAt              *time.Time `json:"approved_at"`
	ApprovedAtBlock         *uint64    `json:"approved_at_block"`
	RevokedAt               *time.Time `json:"revoked_at"`
	RevokedAtBlock          *uint64    `json:"revoked_at_block"`
	TransferCount           uint64     `json:"transfer_count"`
	FirstTransferBlock      *uint64    `json:"first_transfer_block"`
	LastTransferBlock       *uint64    `json:"last_transfer_block"`
	FirstTransferAt         *time.Time `json:"first_transfer_at"`
	LastTransferAt          *time.Time `json:"last_transfer_at"`
}

// HealthResponse represents the health of the API and its dependencies
type HealthResponse struct {
	Status      string  `json:"status"`
	Database    string  `json:"database"`
	Chain       string  `json:"chain"`
	BlockNumber *uint64 `json:"block_number,omitempty"`
	TokenSymbol *string `json:"token_symbol,omitempty"`
}

// Healthy reports whether every dependency is reachable
func (h *HealthResponse) Healthy() bool {
	return h.Status == HealthStatusOK
}

const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)
