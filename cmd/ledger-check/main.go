package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chainequity/captable-indexer/internal/check"
	"github.com/chainequity/captable-indexer/internal/config"
	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/logger"
	"github.com/chainequity/captable-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	rebuild    = flag.Bool("rebuild", false, "Rebuild the balance projection from the ledger when it is inconsistent")
)

// Exit codes
const (
	exitConsistent   = 0
	exitInconsistent = 1
	exitError        = 2
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadCheckConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "ledger-check",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	code := run(ctx, cfg, *rebuild || cfg.Rebuild)
	logger.Flush(2 * time.Second)
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.CheckConfig, rebuild bool) int {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to connect to database: %w", err), zap.String("host", cfg.Database.Host))
		return exitError
	}

	checker := check.NewChecker(store.NewPGStore(db), check.Config{
		RetryMaxElapsed: cfg.RetryMax,
	})

	_, err = checker.Verify(ctx)
	if err == nil {
		return exitConsistent
	}
	if !errors.Is(err, domain.ErrSupplyMismatch) {
		logger.ErrorCtx(ctx, err)
		return exitError
	}
	if !rebuild {
		logger.WarnCtx(ctx, "Run with -rebuild to recompute the balance projection from the ledger")
		return exitInconsistent
	}

	if _, err := checker.Rebuild(ctx); err != nil {
		logger.ErrorCtx(ctx, err)
		return exitError
	}

	if _, err := checker.Verify(ctx); err != nil {
		logger.ErrorCtx(ctx, err)
		if errors.Is(err, domain.ErrSupplyMismatch) {
			return exitInconsistent
		}
		return exitError
	}

	return exitConsistent
}
