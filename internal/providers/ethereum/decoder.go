package ethereum

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainequity/captable-indexer/internal/domain"
)

// Decoder turns raw token contract logs into domain events
//
//go:generate mockgen -source=decoder.go -destination=../../mocks/decoder.go -package=mocks -mock_names=Decoder=MockDecoder
type Decoder interface {
	// Decode decodes one log. blockTime is the timestamp of the log's block.
	Decode(vLog types.Log, blockTime time.Time) (domain.Event, error)
}

type decoder struct {
	contract string
}

// NewDecoder creates a decoder that only accepts logs emitted by contract
func NewDecoder(contract string) Decoder {
	return &decoder{contract: domain.NormalizeAddress(contract)}
}

// Decode decodes a log into one of the domain event variants
func (d *decoder) Decode(vLog types.Log, blockTime time.Time) (domain.Event, error) {
	if len(vLog.Topics) == 0 {
		return nil, fmt.Errorf("%w: log has no topics (tx %s)", domain.ErrMalformedLog, vLog.TxHash.Hex())
	}

	contract := domain.NormalizeAddress(vLog.Address.Hex())
	if d.contract != "" && contract != d.contract {
		return nil, fmt.Errorf("%w: log from unexpected contract %s", domain.ErrUnknownEvent, contract)
	}

	eventType, ok := topicEvents[vLog.Topics[0]]
	if !ok {
		return nil, fmt.Errorf("%w: topic %s", domain.ErrUnknownEvent, vLog.Topics[0].Hex())
	}

	meta := domain.EventMeta{
		TxHash:         vLog.TxHash.Hex(),
		LogIndex:       vLog.Index,
		BlockNumber:    vLog.BlockNumber,
		BlockHash:      vLog.BlockHash.Hex(),
		BlockTimestamp: blockTime.UTC(),
		Contract:       contract,
	}

	values, err := tokenABI.Unpack(abiEventNames[eventType], vLog.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to unpack %s data: %v", domain.ErrMalformedLog, eventType, err)
	}

	switch eventType {
	case domain.EventTypeTransfer:
		if err := requireTopics(vLog, 3); err != nil {
			return nil, err
		}
		amount, err := bigIntAt(values, 0)
		if err != nil {
			return nil, err
		}
		return domain.TransferEvent{
			EventMeta: meta,
			From:      topicAddress(vLog.Topics[1]),
			To:        topicAddress(vLog.Topics[2]),
			Amount:    amount,
		}, nil

	case domain.EventTypeWalletApproved, domain.EventTypeWalletRevoked:
		if err := requireTopics(vLog, 2); err != nil {
			return nil, err
		}
		at, err := timestampAt(values, 0, blockTime)
		if err != nil {
			return nil, err
		}
		wallet := topicAddress(vLog.Topics[1])
		if eventType == domain.EventTypeWalletApproved {
			return domain.WalletApprovedEvent{EventMeta: meta, Wallet: wallet, ApprovedAt: at}, nil
		}
		return domain.WalletRevokedEvent{EventMeta: meta, Wallet: wallet, RevokedAt: at}, nil

	case domain.EventTypeStockSplit:
		multiplier, err := bigIntAt(values, 0)
		if err != nil {
			return nil, err
		}
		if !multiplier.IsUint64() || multiplier.Uint64() < 2 {
			return nil, fmt.Errorf("%w: %s (tx %s)", domain.ErrInvalidMultiplier, multiplier.String(), meta.TxHash)
		}
		newTotalSupply, err := bigIntAt(values, 1)
		if err != nil {
			return nil, err
		}
		return domain.StockSplitEvent{
			EventMeta:      meta,
			Multiplier:     multiplier.Uint64(),
			NewTotalSupply: newTotalSupply,
		}, nil

	case domain.EventTypeSymbolChanged:
		oldSymbol, okOld := valueAt[string](values, 0)
		newSymbol, okNew := valueAt[string](values, 1)
		if !okOld || !okNew {
			return nil, fmt.Errorf("%w: symbol change without string arguments (tx %s)", domain.ErrMalformedLog, meta.TxHash)
		}
		return domain.SymbolChangedEvent{EventMeta: meta, OldSymbol: oldSymbol, NewSymbol: newSymbol}, nil

	case domain.EventTypeTokensMinted:
		if err := requireTopics(vLog, 3); err != nil {
			return nil, err
		}
		amount, err := bigIntAt(values, 0)
		if err != nil {
			return nil, err
		}
		return domain.TokensMintedEvent{
			EventMeta: meta,
			To:        topicAddress(vLog.Topics[1]),
			Amount:    amount,
			Minter:    topicAddress(vLog.Topics[2]),
		}, nil

	case domain.EventTypeTokensBurned:
		if err := requireTopics(vLog, 3); err != nil {
			return nil, err
		}
		amount, err := bigIntAt(values, 0)
		if err != nil {
			return nil, err
		}
		return domain.TokensBurnedEvent{
			EventMeta: meta,
			From:      topicAddress(vLog.Topics[1]),
			Amount:    amount,
			Burner:    topicAddress(vLog.Topics[2]),
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownEvent, eventType)
}

func requireTopics(vLog types.Log, n int) error {
	if len(vLog.Topics) != n {
		return fmt.Errorf("%w: expected %d topics, got %d (tx %s)",
			domain.ErrMalformedLog, n, len(vLog.Topics), vLog.TxHash.Hex())
	}
	return nil
}

func topicAddress(topic common.Hash) string {
	return domain.NormalizeAddress(common.BytesToAddress(topic.Bytes()).Hex())
}

func valueAt[T any](values []interface{}, i int) (T, bool) {
	var zero T
	if i >= len(values) {
		return zero, false
	}
	v, ok := values[i].(T)
	return v, ok
}

func bigIntAt(values []interface{}, i int) (*big.Int, error) {
	v, ok := valueAt[*big.Int](values, i)
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: missing uint256 argument %d", domain.ErrMalformedLog, i)
	}
	return v, nil
}

// timestampAt reads a unix seconds argument, falling back to the block time
func timestampAt(values []interface{}, i int, fallback time.Time) (time.Time, error) {
	v, err := bigIntAt(values, i)
	if err != nil {
		return time.Time{}, err
	}
	if !v.IsInt64() || v.Sign() == 0 {
		return fallback.UTC(), nil
	}
	return time.Unix(v.Int64(), 0).UTC(), nil
}
