package domain

import "errors"

var (
	// ErrSubscriptionFailed is returned when subscription to events fails
	ErrSubscriptionFailed = errors.New("subscription failed")

	// ErrNegativeBalance is returned when a transfer would take a balance below zero
	ErrNegativeBalance = errors.New("balance would become negative")

	// ErrLedgerIntegrity marks an error the indexer must not skip over.
	// The transfer ledger stays authoritative and the projection has to be rebuilt.
	ErrLedgerIntegrity = errors.New("ledger integrity violation")

	// ErrSupplyMismatch is returned when projection balances do not add up to the supply
	ErrSupplyMismatch = errors.New("balance projection does not match supply")

	// ErrBlockOutOfRange is returned for historical queries outside [deployment block, head]
	ErrBlockOutOfRange = errors.New("block number out of range")

	// ErrUnknownEvent is returned when a log does not match any known event signature
	ErrUnknownEvent = errors.New("unknown event")

	// ErrMalformedLog is returned when a log cannot be decoded
	ErrMalformedLog = errors.New("malformed log")

	// ErrInvalidMultiplier is returned for split multipliers below 2
	ErrInvalidMultiplier = errors.New("invalid split multiplier")

	// ErrChainMismatch is returned when an RPC endpoint serves a different chain than configured
	ErrChainMismatch = errors.New("chain id mismatch")
)
