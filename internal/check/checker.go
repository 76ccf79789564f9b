package check

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/logger"
	"github.com/chainequity/captable-indexer/internal/store"
)

// Config holds configuration for the checker
type Config struct {
	RetryInitialInterval time.Duration
	RetryMaxElapsed      time.Duration
}

// Report is the outcome of one consistency check
type Report struct {
	ProjectionSum *big.Int
	CachedSupply  *big.Int
	LedgerSupply  *big.Int
	Holders       uint64
}

// Consistent reports whether the three supplies agree
func (r *Report) Consistent() bool {
	return r.ProjectionSum.Cmp(r.LedgerSupply) == 0 && r.CachedSupply.Cmp(r.LedgerSupply) == 0
}

// Checker verifies and repairs the balance projection against the transfer ledger
//
//go:generate mockgen -source=checker.go -destination=../mocks/checker.go -package=mocks -mock_names=Checker=MockChecker
type Checker interface {
	// Verify compares the projection sum, the cached supply and the ledger supply.
	// The report is returned together with an error wrapping domain.ErrSupplyMismatch
	// when they disagree.
	Verify(ctx context.Context) (*Report, error)

	// Rebuild recomputes the projection and cached supply from the ledger
	Rebuild(ctx context.Context) (*store.RebuildResult, error)
}

type checker struct {
	store  store.Store
	config Config
}

// NewChecker creates a new checker
func NewChecker(st store.Store, cfg Config) Checker {
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = time.Second
	}
	return &checker{store: st, config: cfg}
}

// Verify runs the consistency check
func (c *checker) Verify(ctx context.Context) (*Report, error) {
	var supply *store.SupplyReport
	err := c.retry(ctx, "supply report", func() error {
		var err error
		supply, err = c.store.GetSupplyReport(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get supply report: %w", err)
	}

	report := &Report{
		ProjectionSum: supply.ProjectionSum,
		CachedSupply:  supply.Cached,
		LedgerSupply:  supply.Ledger,
		Holders:       supply.Holders,
	}

	fields := []zap.Field{
		zap.String("projection_sum", report.ProjectionSum.String()),
		zap.String("cached_supply", report.CachedSupply.String()),
		zap.String("ledger_supply", report.LedgerSupply.String()),
		zap.Uint64("holders", report.Holders),
	}

	if !report.Consistent() {
		logger.WarnCtx(ctx, "Balance projection is inconsistent with the ledger", fields...)
		return report, fmt.Errorf("%w: projection %s, cached %s, ledger %s",
			domain.ErrSupplyMismatch, report.ProjectionSum, report.CachedSupply, report.LedgerSupply)
	}

	logger.InfoCtx(ctx, "Balance projection is consistent", fields...)
	return report, nil
}

// Rebuild recomputes the projection
func (c *checker) Rebuild(ctx context.Context) (*store.RebuildResult, error) {
	var result *store.RebuildResult
	err := c.retry(ctx, "rebuild", func() error {
		var err error
		result, err = c.store.RebuildBalances(ctx)
		if errors.Is(err, domain.ErrNegativeBalance) {
			// the ledger itself is inconsistent, retrying cannot help
			return backoff.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild balances: %w", err)
	}

	logger.InfoCtx(ctx, "Rebuilt balance projection",
		zap.Uint64("holders", result.Holders),
		zap.String("total_supply", result.TotalSupply.String()))

	return result, nil
}

func (c *checker) retry(ctx context.Context, operationName string, operation backoff.Operation) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.RetryInitialInterval
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = c.config.RetryMaxElapsed
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.1

	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Database operation failed, retrying",
			zap.String("operation", operationName),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration),
			zap.Error(err))
	}

	return backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notifyOnError)
}
