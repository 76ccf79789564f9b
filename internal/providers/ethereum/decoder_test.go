package ethereum_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/providers/ethereum"
)

const (
	tokenContract = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	walletA       = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
	walletB       = "0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"
)

var blockTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func mustType(t *testing.T, name string) abi.Type {
	t.Helper()
	typ, err := abi.NewType(name, "", nil)
	require.NoError(t, err)
	return typ
}

// packData ABI-encodes the non-indexed arguments of an event
func packData(t *testing.T, argTypes []string, values ...interface{}) []byte {
	t.Helper()
	args := make(abi.Arguments, len(argTypes))
	for i, name := range argTypes {
		args[i] = abi.Argument{Type: mustType(t, name)}
	}
	data, err := args.Pack(values...)
	require.NoError(t, err)
	return data
}

func addressTopic(address string) common.Hash {
	return common.BytesToHash(common.HexToAddress(address).Bytes())
}

func eventTopic(t *testing.T, eventType domain.EventType) common.Hash {
	t.Helper()
	topic, err := ethereum.EventTopic(eventType)
	require.NoError(t, err)
	return topic
}

func testLog(topics []common.Hash, data []byte) types.Log {
	return types.Log{
		Address:     common.HexToAddress(tokenContract),
		Topics:      topics,
		Data:        data,
		BlockNumber: 150,
		BlockHash:   common.HexToHash("0xb1"),
		TxHash:      common.HexToHash("0xa1"),
		Index:       3,
	}
}

func TestDecode_Transfer(t *testing.T) {
	decoder := ethereum.NewDecoder(tokenContract)
	amount := new(big.Int).Mul(big.NewInt(600), big.NewInt(1e18))

	vLog := testLog(
		[]common.Hash{eventTopic(t, domain.EventTypeTransfer), addressTopic(walletA), addressTopic(walletB)},
		packData(t, []string{"uint256"}, amount),
	)

	event, err := decoder.Decode(vLog, blockTime)
	require.NoError(t, err)

	transfer, ok := event.(domain.TransferEvent)
	require.True(t, ok)
	assert.Equal(t, walletA, transfer.From)
	assert.Equal(t, walletB, transfer.To)
	assert.Equal(t, 0, amount.Cmp(transfer.Amount))
	assert.Equal(t, domain.TransferKindTransfer, transfer.Kind())

	meta := transfer.Meta()
	assert.Equal(t, uint64(150), meta.BlockNumber)
	assert.Equal(t, uint(3), meta.LogIndex)
	assert.Equal(t, vLog.TxHash.Hex(), meta.TxHash)
	assert.Equal(t, blockTime, meta.BlockTimestamp)
	assert.Equal(t, domain.NormalizeAddress(tokenContract), meta.Contract)
}

func TestDecode_Mint(t *testing.T) {
	decoder := ethereum.NewDecoder(tokenContract)

	vLog := testLog(
		[]common.Hash{eventTopic(t, domain.EventTypeTransfer), addressTopic(domain.ETHEREUM_ZERO_ADDRESS), addressTopic(walletA)},
		packData(t, []string{"uint256"}, big.NewInt(1000)),
	)

	event, err := decoder.Decode(vLog, blockTime)
	require.NoError(t, err)

	transfer := event.(domain.TransferEvent)
	assert.Equal(t, domain.TransferKindMint, transfer.Kind())
}

func TestDecode_WalletApproval(t *testing.T) {
	tests := []struct {
		name      string
		eventType domain.EventType
		timestamp *big.Int
		expected  time.Time
	}{
		{
			name:      "approved with event timestamp",
			eventType: domain.EventTypeWalletApproved,
			timestamp: big.NewInt(1_700_000_000),
			expected:  time.Unix(1_700_000_000, 0).UTC(),
		},
		{
			name:      "revoked with event timestamp",
			eventType: domain.EventTypeWalletRevoked,
			timestamp: big.NewInt(1_700_000_100),
			expected:  time.Unix(1_700_000_100, 0).UTC(),
		},
		{
			name:      "zero timestamp falls back to block time",
			eventType: domain.EventTypeWalletApproved,
			timestamp: big.NewInt(0),
			expected:  blockTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder := ethereum.NewDecoder(tokenContract)
			vLog := testLog(
				[]common.Hash{eventTopic(t, tt.eventType), addressTopic(walletA)},
				packData(t, []string{"uint256"}, tt.timestamp),
			)

			event, err := decoder.Decode(vLog, blockTime)
			require.NoError(t, err)
			assert.Equal(t, tt.eventType, event.Type())

			switch e := event.(type) {
			case domain.WalletApprovedEvent:
				assert.Equal(t, walletA, e.Wallet)
				assert.Equal(t, tt.expected, e.ApprovedAt)
			case domain.WalletRevokedEvent:
				assert.Equal(t, walletA, e.Wallet)
				assert.Equal(t, tt.expected, e.RevokedAt)
			default:
				t.Fatalf("unexpected event %T", event)
			}
		})
	}
}

func TestDecode_StockSplit(t *testing.T) {
	decoder := ethereum.NewDecoder(tokenContract)
	newSupply := new(big.Int).Mul(big.NewInt(4500), big.NewInt(1e18))

	vLog := testLog(
		[]common.Hash{eventTopic(t, domain.EventTypeStockSplit)},
		packData(t, []string{"uint256", "uint256", "uint256"}, big.NewInt(2), newSupply, big.NewInt(1_700_000_000)),
	)

	event, err := decoder.Decode(vLog, blockTime)
	require.NoError(t, err)

	split, ok := event.(domain.StockSplitEvent)
	require.True(t, ok)
	assert.Equal(t, uint64(2), split.Multiplier)
	assert.Equal(t, 0, newSupply.Cmp(split.NewTotalSupply))
}

func TestDecode_StockSplitInvalidMultiplier(t *testing.T) {
	tests := []struct {
		name       string
		multiplier *big.Int
	}{
		{name: "zero", multiplier: big.NewInt(0)},
		{name: "one", multiplier: big.NewInt(1)},
		{name: "overflows uint64", multiplier: new(big.Int).Lsh(big.NewInt(1), 70)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder := ethereum.NewDecoder(tokenContract)
			vLog := testLog(
				[]common.Hash{eventTopic(t, domain.EventTypeStockSplit)},
				packData(t, []string{"uint256", "uint256", "uint256"}, tt.multiplier, big.NewInt(1), big.NewInt(0)),
			)

			_, err := decoder.Decode(vLog, blockTime)
			assert.ErrorIs(t, err, domain.ErrInvalidMultiplier)
		})
	}
}

func TestDecode_SymbolChanged(t *testing.T) {
	decoder := ethereum.NewDecoder(tokenContract)

	vLog := testLog(
		[]common.Hash{eventTopic(t, domain.EventTypeSymbolChanged)},
		packData(t, []string{"string", "string", "uint256"}, "ACME", "ACMX", big.NewInt(1_700_000_000)),
	)

	event, err := decoder.Decode(vLog, blockTime)
	require.NoError(t, err)

	change, ok := event.(domain.SymbolChangedEvent)
	require.True(t, ok)
	assert.Equal(t, "ACME", change.OldSymbol)
	assert.Equal(t, "ACMX", change.NewSymbol)
}

func TestDecode_TokensMintedAndBurned(t *testing.T) {
	decoder := ethereum.NewDecoder(tokenContract)

	minted, err := decoder.Decode(testLog(
		[]common.Hash{eventTopic(t, domain.EventTypeTokensMinted), addressTopic(walletA), addressTopic(walletB)},
		packData(t, []string{"uint256"}, big.NewInt(1000)),
	), blockTime)
	require.NoError(t, err)
	mintEvent := minted.(domain.TokensMintedEvent)
	assert.Equal(t, walletA, mintEvent.To)
	assert.Equal(t, walletB, mintEvent.Minter)

	burned, err := decoder.Decode(testLog(
		[]common.Hash{eventTopic(t, domain.EventTypeTokensBurned), addressTopic(walletA), addressTopic(walletB)},
		packData(t, []string{"uint256"}, big.NewInt(400)),
	), blockTime)
	require.NoError(t, err)
	burnEvent := burned.(domain.TokensBurnedEvent)
	assert.Equal(t, walletA, burnEvent.From)
	assert.Equal(t, int64(400), burnEvent.Amount.Int64())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name        string
		log         func(t *testing.T) types.Log
		expectedErr error
	}{
		{
			name: "no topics",
			log: func(t *testing.T) types.Log {
				return testLog(nil, nil)
			},
			expectedErr: domain.ErrMalformedLog,
		},
		{
			name: "unknown topic",
			log: func(t *testing.T) types.Log {
				return testLog([]common.Hash{common.HexToHash("0xdeadbeef")}, nil)
			},
			expectedErr: domain.ErrUnknownEvent,
		},
		{
			name: "other contract",
			log: func(t *testing.T) types.Log {
				vLog := testLog(
					[]common.Hash{eventTopic(t, domain.EventTypeTransfer), addressTopic(walletA), addressTopic(walletB)},
					packData(t, []string{"uint256"}, big.NewInt(1)),
				)
				vLog.Address = common.HexToAddress(walletA)
				return vLog
			},
			expectedErr: domain.ErrUnknownEvent,
		},
		{
			name: "transfer missing indexed topic",
			log: func(t *testing.T) types.Log {
				return testLog(
					[]common.Hash{eventTopic(t, domain.EventTypeTransfer), addressTopic(walletA)},
					packData(t, []string{"uint256"}, big.NewInt(1)),
				)
			},
			expectedErr: domain.ErrMalformedLog,
		},
		{
			name: "truncated data",
			log: func(t *testing.T) types.Log {
				return testLog(
					[]common.Hash{eventTopic(t, domain.EventTypeTransfer), addressTopic(walletA), addressTopic(walletB)},
					[]byte{0x01, 0x02},
				)
			},
			expectedErr: domain.ErrMalformedLog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder := ethereum.NewDecoder(tokenContract)

			_, err := decoder.Decode(tt.log(t), blockTime)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestEventTopic_Unknown(t *testing.T) {
	_, err := ethereum.EventTopic(domain.EventType("approval"))
	assert.ErrorIs(t, err, domain.ErrUnknownEvent)
}
