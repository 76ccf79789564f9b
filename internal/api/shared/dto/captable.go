package dto

import (
	"time"

	"github.com/chainequity/captable-indexer/internal/captable"
	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/store"
)

// HolderResponse represents one cap table row
type HolderResponse struct {
	Address string `json:"address"`
	// Balance is the split-adjusted balance in base units
	Balance          string `json:"balance"`
	BalanceFormatted string `json:"balance_formatted"`
	// BaseBalance is the balance before any split
	BaseBalance string `json:"base_balance"`
	Percentage  string `json:"percentage"`
}

// CapTableResponse represents the cap table at one block
type CapTableResponse struct {
	BlockNumber          uint64           `json:"block_number"`
	Timestamp            *time.Time       `json:"timestamp"`
	Multiplier           string           `json:"multiplier"`
	TotalSupply          string           `json:"total_supply"`
	TotalSupplyFormatted string           `json:"total_supply_formatted"`
	HolderCount          int              `json:"holder_count"`
	Holders              []HolderResponse `json:"holders"`
}

// SnapshotResponse represents one cap table changing event
type SnapshotResponse struct {
	BlockNumber    uint64    `json:"block_number"`
	BlockTimestamp time.Time `json:"block_timestamp"`
	EventType      string    `json:"event_type"`
	Description    string    `json:"description"`
}

// SnapshotListResponse represents the snapshot listing
type SnapshotListResponse struct {
	Snapshots []SnapshotResponse `json:"snapshots"`
	Count     int                `json:"count"`
}

// MapCapTableToDTO maps a cap table to its response
func MapCapTableToDTO(ct *captable.CapTable) *CapTableResponse {
	holders := make([]HolderResponse, len(ct.Holders))
	for i, h := range ct.Holders {
		holders[i] = HolderResponse{
			Address:          h.Address,
			Balance:          h.Balance.String(),
			BalanceFormatted: domain.FormatTokenAmount(h.Balance, domain.TOKEN_DECIMALS),
			BaseBalance:      h.BaseBalance.String(),
			Percentage:       h.Percentage,
		}
	}

	return &CapTableResponse{
		BlockNumber:          ct.BlockNumber,
		Timestamp:            ct.Timestamp,
		Multiplier:           ct.Multiplier.String(),
		TotalSupply:          ct.TotalSupply.String(),
		TotalSupplyFormatted: domain.FormatTokenAmount(ct.TotalSupply, domain.TOKEN_DECIMALS),
		HolderCount:          ct.HolderCount,
		Holders:              holders,
	}
}

// MapSnapshotsToDTO maps snapshot events to their response
func MapSnapshotsToDTO(events []store.SnapshotEvent) *SnapshotListResponse {
	snapshots := make([]SnapshotResponse, len(events))
	for i, e := range events {
		snapshots[i] = SnapshotResponse{
			BlockNumber:    e.BlockNumber,
			BlockTimestamp: e.BlockTimestamp,
			EventType:      e.EventType,
			Description:    e.Description,
		}
	}

	return &SnapshotListResponse{
		Snapshots: snapshots,
		Count:     len(snapshots),
	}
}
