package domain

import (
	"math/big"
	"time"
)

// EventType represents the type of a decoded token contract event
type EventType string

const (
	EventTypeTransfer       EventType = "transfer"
	EventTypeWalletApproved EventType = "wallet_approved"
	EventTypeWalletRevoked  EventType = "wallet_revoked"
	EventTypeStockSplit     EventType = "stock_split"
	EventTypeSymbolChanged  EventType = "symbol_changed"
	EventTypeTokensMinted   EventType = "tokens_minted"
	EventTypeTokensBurned   EventType = "tokens_burned"
)

// LedgerEventTypes are the event types that are written to the ledger, in the
// order the backfill scanner fetches them within a chunk.
var LedgerEventTypes = []EventType{
	EventTypeTransfer,
	EventTypeWalletApproved,
	EventTypeWalletRevoked,
	EventTypeStockSplit,
	EventTypeSymbolChanged,
}

// WatchedEventTypes are the event types the live watcher subscribes to.
// Minted/burned mirrors are only logged since the Transfer stream already carries them.
var WatchedEventTypes = []EventType{
	EventTypeTransfer,
	EventTypeWalletApproved,
	EventTypeWalletRevoked,
	EventTypeStockSplit,
	EventTypeSymbolChanged,
	EventTypeTokensMinted,
	EventTypeTokensBurned,
}

// EventMeta carries the log coordinates shared by every event
type EventMeta struct {
	TxHash         string    `json:"tx_hash"`
	LogIndex       uint      `json:"log_index"`
	BlockNumber    uint64    `json:"block_number"`
	BlockHash      string    `json:"block_hash"`
	BlockTimestamp time.Time `json:"block_timestamp"`
	Contract       string    `json:"contract"`
}

// Meta returns the log coordinates
func (m EventMeta) Meta() EventMeta {
	return m
}

// Event is a decoded contract event. The set of implementations is closed:
// only the variants declared in this file satisfy it.
type Event interface {
	Type() EventType
	Meta() EventMeta
	isEvent()
}

// TransferEvent is an ERC20 Transfer(from, to, value)
type TransferEvent struct {
	EventMeta
	From   string   `json:"from"`
	To     string   `json:"to"`
	Amount *big.Int `json:"amount"`
}

// Kind classifies the transfer as mint, burn or transfer
func (e TransferEvent) Kind() TransferKind {
	return ClassifyTransfer(e.From, e.To)
}

// WalletApprovedEvent is WalletApproved(wallet, timestamp)
type WalletApprovedEvent struct {
	EventMeta
	Wallet     string    `json:"wallet"`
	ApprovedAt time.Time `json:"approved_at"`
}

// WalletRevokedEvent is WalletRevoked(wallet, timestamp)
type WalletRevokedEvent struct {
	EventMeta
	Wallet    string    `json:"wallet"`
	RevokedAt time.Time `json:"revoked_at"`
}

// StockSplitEvent is StockSplit(multiplier, newTotalSupply, timestamp)
type StockSplitEvent struct {
	EventMeta
	Multiplier     uint64   `json:"multiplier"`
	NewTotalSupply *big.Int `json:"new_total_supply"`
}

// SymbolChangedEvent is SymbolChanged(oldSymbol, newSymbol, timestamp)
type SymbolChangedEvent struct {
	EventMeta
	OldSymbol string `json:"old_symbol"`
	NewSymbol string `json:"new_symbol"`
}

// TokensMintedEvent mirrors a mint Transfer. Informational only.
type TokensMintedEvent struct {
	EventMeta
	To     string   `json:"to"`
	Amount *big.Int `json:"amount"`
	Minter string   `json:"minter"`
}

// TokensBurnedEvent mirrors a burn Transfer. Informational only.
type TokensBurnedEvent struct {
	EventMeta
	From   string   `json:"from"`
	Amount *big.Int `json:"amount"`
	Burner string   `json:"burner"`
}

func (TransferEvent) Type() EventType       { return EventTypeTransfer }
func (WalletApprovedEvent) Type() EventType { return EventTypeWalletApproved }
func (WalletRevokedEvent) Type() EventType  { return EventTypeWalletRevoked }
func (StockSplitEvent) Type() EventType     { return EventTypeStockSplit }
func (SymbolChangedEvent) Type() EventType  { return EventTypeSymbolChanged }
func (TokensMintedEvent) Type() EventType   { return EventTypeTokensMinted }
func (TokensBurnedEvent) Type() EventType   { return EventTypeTokensBurned }

func (TransferEvent) isEvent()       {}
func (WalletApprovedEvent) isEvent() {}
func (WalletRevokedEvent) isEvent()  {}
func (StockSplitEvent) isEvent()     {}
func (SymbolChangedEvent) isEvent()  {}
func (TokensMintedEvent) isEvent()   {}
func (TokensBurnedEvent) isEvent()   {}

// IsLedgerEvent reports whether events of this type are written to the ledger
func IsLedgerEvent(t EventType) bool {
	for _, lt := range LedgerEventTypes {
		if lt == t {
			return true
		}
	}
	return false
}
