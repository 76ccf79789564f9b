package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chainequity/captable-indexer/internal/adapter"
	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/logger"
	"github.com/chainequity/captable-indexer/internal/messaging"
	"github.com/chainequity/captable-indexer/internal/store"
	"github.com/chainequity/captable-indexer/internal/store/schema"
)

// Outcome is the result of ingesting one event
type Outcome int

const (
	// OutcomeAck means the event was written to the ledger
	OutcomeAck Outcome = iota
	// OutcomeSkip means the event was already known or is not ledger material
	OutcomeSkip
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAck:
		return "ack"
	case OutcomeSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Ingestor applies decoded events to the ledger. Every call goes through a
// single writer; the backfill scanner and the live watcher share one instance.
//
//go:generate mockgen -source=ingestor.go -destination=../mocks/ingestor.go -package=mocks -mock_names=Ingestor=MockIngestor
type Ingestor interface {
	// Ingest writes one event. Errors wrapping domain.ErrLedgerIntegrity are fatal
	// to the caller; any other error only concerns this event.
	Ingest(ctx context.Context, event domain.Event) (Outcome, error)
}

type ingestor struct {
	mu        sync.Mutex
	store     store.Store
	publisher messaging.Publisher
	json      adapter.JSON
}

// NewIngestor creates an ingestor writing to st and announcing new events through publisher
func NewIngestor(st store.Store, publisher messaging.Publisher, jsonAdapter adapter.JSON) Ingestor {
	if publisher == nil {
		publisher = messaging.NewNoopPublisher()
	}
	return &ingestor{
		store:     st,
		publisher: publisher,
		json:      jsonAdapter,
	}
}

// Ingest writes one event to the ledger
func (i *ingestor) Ingest(ctx context.Context, event domain.Event) (Outcome, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	meta := event.Meta()

	var inserted bool
	var err error

	switch e := event.(type) {
	case domain.TransferEvent:
		inserted, err = i.store.IngestTransfer(ctx, store.CreateTransferInput{
			TxHash:         meta.TxHash,
			LogIndex:       meta.LogIndex,
			BlockNumber:    meta.BlockNumber,
			BlockHash:      meta.BlockHash,
			BlockTimestamp: meta.BlockTimestamp,
			From:           e.From,
			To:             e.To,
			Amount:         e.Amount,
		})
		if err != nil && errors.Is(err, domain.ErrNegativeBalance) {
			return OutcomeSkip, fmt.Errorf("%w: %w", domain.ErrLedgerIntegrity, err)
		}

	case domain.StockSplitEvent:
		newTotalSupply := "0"
		if e.NewTotalSupply != nil {
			newTotalSupply = e.NewTotalSupply.String()
		}
		inserted, err = i.ingestCorporateAction(ctx, meta, domain.CorporateActionSplit, schema.SplitActionData{
			Multiplier:     fmt.Sprintf("%d", e.Multiplier),
			NewTotalSupply: newTotalSupply,
		})

	case domain.SymbolChangedEvent:
		inserted, err = i.ingestCorporateAction(ctx, meta, domain.CorporateActionSymbolChange, schema.SymbolChangeActionData{
			OldSymbol: e.OldSymbol,
			NewSymbol: e.NewSymbol,
		})

	case domain.WalletApprovedEvent:
		inserted, err = i.ingestApproval(ctx, meta, e.Wallet, true, e.ApprovedAt)

	case domain.WalletRevokedEvent:
		inserted, err = i.ingestApproval(ctx, meta, e.Wallet, false, e.RevokedAt)

	case domain.TokensMintedEvent:
		logger.DebugCtx(ctx, "Tokens minted",
			zap.String("to", e.To),
			zap.String("amount", e.Amount.String()),
			zap.String("minter", e.Minter),
			zap.String("tx_hash", meta.TxHash))
		return OutcomeSkip, nil

	case domain.TokensBurnedEvent:
		logger.DebugCtx(ctx, "Tokens burned",
			zap.String("from", e.From),
			zap.String("amount", e.Amount.String()),
			zap.String("burner", e.Burner),
			zap.String("tx_hash", meta.TxHash))
		return OutcomeSkip, nil

	default:
		return OutcomeSkip, fmt.Errorf("%w: %T", domain.ErrUnknownEvent, event)
	}

	if err != nil {
		return OutcomeSkip, fmt.Errorf("failed to ingest %s event (tx %s): %w", event.Type(), meta.TxHash, err)
	}

	if !inserted {
		logger.DebugCtx(ctx, "Skipping duplicate event",
			zap.String("event_type", string(event.Type())),
			zap.String("tx_hash", meta.TxHash))
		return OutcomeSkip, nil
	}

	logger.InfoCtx(ctx, "Ingested event",
		zap.String("event_type", string(event.Type())),
		zap.String("tx_hash", meta.TxHash),
		zap.Uint64("block_number", meta.BlockNumber))

	if err := i.publisher.PublishEvent(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish ingested event",
			zap.String("tx_hash", meta.TxHash),
			zap.Error(err))
	}

	return OutcomeAck, nil
}

func (i *ingestor) ingestCorporateAction(ctx context.Context, meta domain.EventMeta, actionType domain.CorporateActionType, data any) (bool, error) {
	actionData, err := i.json.Marshal(data)
	if err != nil {
		return false, fmt.Errorf("failed to marshal action data: %w", err)
	}

	return i.store.IngestCorporateAction(ctx, store.CreateCorporateActionInput{
		TxHash:         meta.TxHash,
		LogIndex:       meta.LogIndex,
		BlockNumber:    meta.BlockNumber,
		BlockTimestamp: meta.BlockTimestamp,
		ActionType:     actionType,
		ActionData:     actionData,
	})
}

func (i *ingestor) ingestApproval(ctx context.Context, meta domain.EventMeta, wallet string, approved bool, at time.Time) (bool, error) {
	return i.store.IngestApproval(ctx, store.CreateApprovalInput{
		TxHash:         meta.TxHash,
		LogIndex:       meta.LogIndex,
		BlockNumber:    meta.BlockNumber,
		BlockTimestamp: meta.BlockTimestamp,
		Wallet:         wallet,
		Approved:       approved,
		At:             at,
	})
}
