package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainEthereumSepolia Chain = "eip155:11155111"
	ChainBaseMainnet     Chain = "eip155:8453"
	ChainBaseSepolia     Chain = "eip155:84532"
)

// IsValidChain checks if a chain is valid
func IsValidChain(chain Chain) bool {
	return chain == ChainEthereumMainnet ||
		chain == ChainEthereumSepolia ||
		chain == ChainBaseMainnet ||
		chain == ChainBaseSepolia
}

// ID returns the numeric EIP-155 chain id, e.g. 84532 for eip155:84532
func (c Chain) ID() (*big.Int, error) {
	ref, ok := strings.CutPrefix(string(c), "eip155:")
	if !ok {
		return nil, fmt.Errorf("unsupported chain namespace: %s", c)
	}

	id, ok := new(big.Int).SetString(ref, 10)
	if !ok || id.Sign() <= 0 {
		return nil, fmt.Errorf("invalid chain reference: %s", c)
	}
	return id, nil
}

// TransferKind classifies a transfer by its zero-address endpoints
type TransferKind string

const (
	TransferKindMint     TransferKind = "mint"
	TransferKindBurn     TransferKind = "burn"
	TransferKindTransfer TransferKind = "transfer"
)

// ClassifyTransfer returns mint when tokens come from the zero address,
// burn when they go to it, and transfer otherwise.
func ClassifyTransfer(from, to string) TransferKind {
	switch {
	case IsZeroAddress(from):
		return TransferKindMint
	case IsZeroAddress(to):
		return TransferKindBurn
	default:
		return TransferKindTransfer
	}
}

// CorporateActionType is the kind of a non-transfer contract event kept in the ledger
type CorporateActionType string

const (
	CorporateActionSplit        CorporateActionType = "split"
	CorporateActionSymbolChange CorporateActionType = "symbol_change"
)

// Valid reports whether the action type is known
func (t CorporateActionType) Valid() bool {
	return t == CorporateActionSplit || t == CorporateActionSymbolChange
}

// NormalizeAddress lower-cases a 0x address
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// IsValidAddress reports whether s is a 20-byte hex address
func IsValidAddress(s string) bool {
	return common.IsHexAddress(s)
}

// IsZeroAddress reports whether the address is the mint source / burn sink sentinel
func IsZeroAddress(address string) bool {
	return NormalizeAddress(address) == ETHEREUM_ZERO_ADDRESS
}

// FormatTokenAmount renders a base-unit amount with the given decimals,
// trimming trailing zeros of the fraction (e.g. 1500000000000000000 => "1.5").
func FormatTokenAmount(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}

	negative := amount.Sign() < 0
	abs := new(big.Int).Abs(amount)
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(abs, divisor, new(big.Int))

	result := whole.String()
	if frac.Sign() != 0 {
		fracStr := frac.String()
		fracStr = strings.Repeat("0", decimals-len(fracStr)) + fracStr
		result += "." + strings.TrimRight(fracStr, "0")
	}

	if negative {
		return "-" + result
	}
	return result
}

// ParseAmount parses a base-10 integer amount as stored in numeric(78,0) columns
func ParseAmount(s string) (*big.Int, bool) {
	if s == "" {
		return new(big.Int), true
	}
	return new(big.Int).SetString(s, 10)
}
