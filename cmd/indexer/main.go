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

	"github.com/chainequity/captable-indexer/internal/adapter"
	"github.com/chainequity/captable-indexer/internal/backfill"
	"github.com/chainequity/captable-indexer/internal/block"
	"github.com/chainequity/captable-indexer/internal/config"
	"github.com/chainequity/captable-indexer/internal/indexer"
	"github.com/chainequity/captable-indexer/internal/ingest"
	"github.com/chainequity/captable-indexer/internal/logger"
	"github.com/chainequity/captable-indexer/internal/messaging"
	"github.com/chainequity/captable-indexer/internal/providers/ethereum"
	"github.com/chainequity/captable-indexer/internal/providers/jetstream"
	"github.com/chainequity/captable-indexer/internal/store"
	"github.com/chainequity/captable-indexer/internal/watcher"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadIndexerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "captable-indexer",
			"chain":   string(cfg.Ethereum.ChainID),
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting cap table indexer",
		zap.String("contract", cfg.Ethereum.ContractAddress),
		zap.Uint64("start_block", cfg.Ethereum.StartBlock))

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	// Initialize ethereum client
	ethDialer := adapter.NewEthClientDialer()
	adapterEthClient, err := ethDialer.Dial(ctx, cfg.Ethereum.WebSocketURL, cfg.Ethereum.ChainID)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum WebSocket", zap.Error(err), zap.String("websocket_url", cfg.Ethereum.WebSocketURL))
	}
	ethereumClient := ethereum.NewClient(ethereum.Config{
		ChainID:           cfg.Ethereum.ChainID,
		ContractAddress:   cfg.Ethereum.ContractAddress,
		MaxBlockRange:     cfg.Ethereum.MaxBlockRange,
		RequestsPerSecond: cfg.Ethereum.RequestsPerSecond,
		RequestBurst:      cfg.Ethereum.RequestBurst,
	}, adapterEthClient)
	logger.InfoCtx(ctx, "Connected to Ethereum WebSocket")

	blockProvider, err := block.NewBlockProvider(
		ethereum.NewEthereumBlockFetcher(ethereumClient),
		block.Config{
			TTL:                cfg.Ethereum.BlockHeadTTL,
			StaleWindow:        cfg.Ethereum.BlockHeadStaleWindow,
			TimestampCacheSize: cfg.Ethereum.BlockCacheSize,
		},
		clockAdapter,
	)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create block provider", zap.Error(err))
	}

	// Initialize NATS publisher, ingested events are only stored when NATS is not configured
	publisher := messaging.NewNoopPublisher()
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(ctx,
			jetstream.Config{
				URL:            cfg.NATS.URL,
				StreamName:     cfg.NATS.StreamName,
				MaxReconnects:  cfg.NATS.MaxReconnects,
				ReconnectWait:  cfg.NATS.ReconnectWait,
				ConnectionName: cfg.NATS.ConnectionName,
				Chain:          cfg.Ethereum.ChainID,
			}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		logger.InfoCtx(ctx, "Connected to NATS JetStream")
	}
	defer publisher.Close()

	decoder := ethereum.NewDecoder(cfg.Ethereum.ContractAddress)
	ingestor := ingest.NewIngestor(dataStore, publisher, jsonAdapter)

	scanner := backfill.NewScanner(
		ethereumClient,
		decoder,
		blockProvider,
		ingestor,
		clockAdapter,
		backfill.Config{
			MaxBlockRange:        cfg.Ethereum.MaxBlockRange,
			ChunkPause:           cfg.Ethereum.ChunkPause,
			FetchConcurrency:     cfg.Ethereum.FetchConcurrency,
			FetchRetryMaxElapsed: cfg.Ethereum.FetchRetryMaxElapsed,
		},
	)

	// Closing the subscriber also closes the ethereum client
	subscriber := ethereum.NewSubscriber(ethereumClient, decoder, blockProvider)
	defer subscriber.Close()

	idx := indexer.NewIndexer(
		scanner,
		watcher.NewWatcher(subscriber),
		ingestor,
		blockProvider,
		dataStore,
		clockAdapter,
		indexer.Config{
			ChainID:          cfg.Ethereum.ChainID,
			StartBlock:       cfg.Ethereum.StartBlock,
			ResumeFromCursor: cfg.Ethereum.ResumeFromCursor,
			BufferSize:       cfg.Ingest.BufferSize,
			CursorSaveFreq:   cfg.Ingest.CursorSaveFreq,
			CursorSaveDelay:  cfg.Ingest.CursorSaveDelay,
			CursorLag:        cfg.Ingest.CursorLag,
		},
	)

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel for indexer errors
	errCh := make(chan error, 1)

	// Start the indexer
	go func() {
		if err := idx.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	exitCode := 0
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "indexer"))
		cancel()
		exitCode = 1
	}

	// Give some time for graceful shutdown
	time.Sleep(time.Second)

	// Use non-context logger for final shutdown message since context is already canceled
	logger.Info("Cap table indexer stopped")
	if exitCode != 0 {
		logger.Flush(2 * time.Second)
		os.Exit(exitCode)
	}
}
