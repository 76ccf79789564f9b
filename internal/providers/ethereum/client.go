package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chainequity/captable-indexer/internal/adapter"
	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/logger"
)

// Config holds the token contract and RPC limits
type Config struct {
	ChainID         domain.Chain
	ContractAddress string
	// MaxBlockRange is the widest window accepted by eth_getLogs
	MaxBlockRange     uint64
	RequestsPerSecond float64
	RequestBurst      int
}

// EthereumClient reads the token contract's logs and chain state
//
//go:generate mockgen -source=client.go -destination=../../mocks/ethereum_client.go -package=mocks -mock_names=EthereumClient=MockEthereumClient
type EthereumClient interface {
	// GetLogs returns the logs of one event type emitted by the token contract
	// in [fromBlock, toBlock], sorted by block number then log index
	GetLogs(ctx context.Context, eventType domain.EventType, fromBlock, toBlock uint64) ([]types.Log, error)

	// SubscribeLogs subscribes to new logs of one event type
	SubscribeLogs(ctx context.Context, eventType domain.EventType, ch chan<- types.Log) (ethereum.Subscription, error)

	// HeaderByNumber returns a header by number, nil for the latest
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)

	// TokenSymbol calls symbol() on the token contract
	TokenSymbol(ctx context.Context) (string, error)

	// Close closes the connection
	Close()
}

type ethereumClient struct {
	config   Config
	contract common.Address
	client   adapter.EthClient
	limiter  *rate.Limiter
}

// NewClient creates a rate-limited client for the token contract
func NewClient(cfg Config, client adapter.EthClient) EthereumClient {
	if cfg.MaxBlockRange == 0 {
		cfg.MaxBlockRange = domain.DEFAULT_MAX_BLOCK_RANGE
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.RequestBurst, 1))
	}

	return &ethereumClient{
		config:   cfg,
		contract: common.HexToAddress(cfg.ContractAddress),
		client:   client,
		limiter:  limiter,
	}
}

// GetLogs fetches logs for one event type. The range is split into windows of
// at most MaxBlockRange blocks; a window the provider rejects for returning too
// many results is halved and retried.
func (c *ethereumClient) GetLogs(ctx context.Context, eventType domain.EventType, fromBlock, toBlock uint64) ([]types.Log, error) {
	if fromBlock > toBlock {
		return nil, nil
	}

	topic, err := EventTopic(eventType)
	if err != nil {
		return nil, err
	}

	query := ethereum.FilterQuery{
		Addresses: []common.Address{c.contract},
		Topics:    [][]common.Hash{{topic}},
	}

	stepSize := c.config.MaxBlockRange
	var allLogs []types.Log

	for currentFrom := fromBlock; currentFrom <= toBlock; {
		currentTo := min(currentFrom+stepSize-1, toBlock)

		rangeQuery := query
		rangeQuery.FromBlock = new(big.Int).SetUint64(currentFrom)
		rangeQuery.ToBlock = new(big.Int).SetUint64(currentTo)

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		logs, err := c.client.FilterLogs(ctx, rangeQuery)
		if err == nil {
			allLogs = append(allLogs, logs...)
			if currentTo == toBlock {
				break
			}
			currentFrom = currentTo + 1
			continue
		}

		if !isTooManyResultsError(err) || stepSize == 1 {
			return nil, fmt.Errorf("failed to get %s logs for range %d-%d: %w", eventType, currentFrom, currentTo, err)
		}

		stepSize = max(stepSize/2, 1)
		logger.WarnCtx(ctx, "Too many results, reducing step size",
			zap.String("event_type", string(eventType)),
			zap.Uint64("new_step_size", stepSize),
			zap.Uint64("from_block", currentFrom),
			zap.Uint64("to_block", currentTo))
	}

	sort.SliceStable(allLogs, func(i, j int) bool {
		if allLogs[i].BlockNumber != allLogs[j].BlockNumber {
			return allLogs[i].BlockNumber < allLogs[j].BlockNumber
		}
		return allLogs[i].Index < allLogs[j].Index
	})

	return allLogs, nil
}

// isTooManyResultsError checks if the error is related to too many results
func isTooManyResultsError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "query returned more than 10000 results") ||
		strings.Contains(errStr, "query timeout exceeded") ||
		strings.Contains(errStr, "too many results") ||
		strings.Contains(errStr, "block range") ||
		strings.Contains(errStr, "exceeded maximum")
}

// SubscribeLogs subscribes to new logs of one event type from the token contract
func (c *ethereumClient) SubscribeLogs(ctx context.Context, eventType domain.EventType, ch chan<- types.Log) (ethereum.Subscription, error) {
	topic, err := EventTopic(eventType)
	if err != nil {
		return nil, err
	}

	return c.client.SubscribeFilterLogs(ctx, ethereum.FilterQuery{
		Addresses: []common.Address{c.contract},
		Topics:    [][]common.Hash{{topic}},
	}, ch)
}

// HeaderByNumber returns a header by number
func (c *ethereumClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.client.HeaderByNumber(ctx, number)
}

// TokenSymbol fetches symbol() from the token contract
func (c *ethereumClient) TokenSymbol(ctx context.Context) (string, error) {
	data, err := tokenABI.Pack("symbol")
	if err != nil {
		return "", fmt.Errorf("failed to pack data: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := c.client.CallContract(callCtx, ethereum.CallMsg{
		To:   &c.contract,
		Data: data,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to call contract: %w", err)
	}

	var symbol string
	if err := tokenABI.UnpackIntoInterface(&symbol, "symbol", result); err != nil {
		return "", fmt.Errorf("failed to unpack result: %w", err)
	}

	return symbol, nil
}

// Close closes the connection
func (c *ethereumClient) Close() {
	c.client.Close()
}
