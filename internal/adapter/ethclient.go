package adapter

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/chainequity/captable-indexer/internal/domain"
)

// EthClient is the part of the go-ethereum RPC client used against the token contract
//
//go:generate mockgen -source=ethclient.go -destination=../mocks/ethclient.go -package=mocks -mock_names=EthClient=MockEthClient,EthClientDialer=MockEthClientDialer
type EthClient interface {
	// SubscribeFilterLogs subscribes to logs matching the query (websocket endpoints only)
	SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)

	// FilterLogs runs eth_getLogs
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)

	// HeaderByNumber returns a header by number, nil for the latest
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)

	// CallContract executes a read-only contract call
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)

	// ChainID returns the chain id reported by the endpoint
	ChainID(ctx context.Context) (*big.Int, error)

	Close()
}

// EthClientDialer opens RPC connections for a configured chain
type EthClientDialer interface {
	// Dial connects to rawurl (http(s) or ws(s)) and fails when the endpoint
	// serves a chain other than chain
	Dial(ctx context.Context, rawurl string, chain domain.Chain) (EthClient, error)
}

type ethClientDialer struct{}

// NewEthClientDialer returns a dialer backed by go-ethereum's ethclient
func NewEthClientDialer() EthClientDialer {
	return ethClientDialer{}
}

func (ethClientDialer) Dial(ctx context.Context, rawurl string, chain domain.Chain) (EthClient, error) {
	client, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc endpoint: %w", err)
	}

	if err := VerifyChain(ctx, client, chain); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// VerifyChain compares the chain id reported by client with chain
func VerifyChain(ctx context.Context, client EthClient, chain domain.Chain) error {
	want, err := chain.ID()
	if err != nil {
		return err
	}

	got, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id: %w", err)
	}

	if got.Cmp(want) != 0 {
		return fmt.Errorf("%w: endpoint serves %s, configured %s", domain.ErrChainMismatch, got, chain)
	}
	return nil
}
