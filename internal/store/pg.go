package store

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/logger"
	"github.com/chainequity/captable-indexer/internal/store/schema"
)

type pgStore struct {
	CursorStore
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{
		CursorStore: NewCursorStore(db),
		db:          db,
	}
}

// ConfigureConnectionPool applies pool settings to the sql.DB behind a gorm connection.
// Zero values fall back to 20 open, 5 idle, 5m lifetime and 10m idle time.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and keeps idle connections
// within the open connection limit.
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 20
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	maxIdleConns = min(maxIdleConns, maxOpenConns)

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// Ping checks the database connection
func (s *pgStore) Ping(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("SELECT 1").Error
}

// IngestTransfer appends a transfer and applies it to the projection
func (s *pgStore) IngestTransfer(ctx context.Context, input CreateTransferInput) (bool, error) {
	if input.Amount == nil || input.Amount.Sign() < 0 {
		return false, fmt.Errorf("%w: invalid transfer amount in tx %s", domain.ErrMalformedLog, input.TxHash)
	}

	from := domain.NormalizeAddress(input.From)
	to := domain.NormalizeAddress(input.To)
	kind := domain.ClassifyTransfer(from, to)
	amount := input.Amount.String()

	inserted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Append to the ledger, skipping known transaction hashes
		transfer := schema.Transfer{
			TransactionHash: input.TxHash,
			LogIndex:        input.LogIndex,
			BlockNumber:     input.BlockNumber,
			BlockHash:       input.BlockHash,
			BlockTimestamp:  input.BlockTimestamp,
			FromAddress:     from,
			ToAddress:       to,
			Amount:          amount,
			EventType:       kind,
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_hash"}},
			DoNothing: true,
		}).Clauses(clause.Returning{Columns: []clause.Column{}}).
			Create(&transfer).Error; err != nil {
			return fmt.Errorf("failed to create transfer: %w", err)
		}

		if transfer.ID == 0 {
			return nil
		}
		inserted = true

		// 2. Debit the sender
		if kind != domain.TransferKindMint {
			if err := debitBalance(tx, from, input.Amount, input.BlockNumber, input.BlockTimestamp); err != nil {
				return fmt.Errorf("failed to debit %s in tx %s: %w", from, input.TxHash, err)
			}
		}

		// 3. Credit the receiver; the zero address never holds a balance
		if kind != domain.TransferKindBurn && !domain.IsZeroAddress(to) {
			if err := creditBalance(tx, to, amount, input.BlockNumber, input.BlockTimestamp); err != nil {
				return fmt.Errorf("failed to credit %s: %w", to, err)
			}
		}

		// 4. Keep the cached supply in step with mints and burns
		switch {
		case kind == domain.TransferKindMint && !domain.IsZeroAddress(to):
			if err := addToNumericValue(tx, TotalSupplyKey, input.Amount); err != nil {
				return fmt.Errorf("failed to update total supply: %w", err)
			}
		case kind == domain.TransferKindBurn:
			if err := addToNumericValue(tx, TotalSupplyKey, new(big.Int).Neg(input.Amount)); err != nil {
				return fmt.Errorf("failed to update total supply: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return inserted, nil
}

// debitBalance subtracts amount from a locked balance row
func debitBalance(tx *gorm.DB, address string, amount *big.Int, blockNumber uint64, blockTime time.Time) error {
	var sender schema.Balance
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).
		First(&sender).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if amount.Sign() == 0 {
				return nil
			}
			return fmt.Errorf("%w: no balance, needs %s", domain.ErrNegativeBalance, amount.String())
		}
		return fmt.Errorf("failed to lock balance: %w", err)
	}

	current, ok := new(big.Int).SetString(sender.Balance, 10)
	if !ok {
		return fmt.Errorf("invalid stored balance %q", sender.Balance)
	}

	remaining := new(big.Int).Sub(current, amount)
	if remaining.Sign() < 0 {
		return fmt.Errorf("%w: balance %s, needs %s", domain.ErrNegativeBalance, current.String(), amount.String())
	}

	return tx.Model(&schema.Balance{}).
		Where("address = ?", address).
		Updates(map[string]interface{}{
			"balance":            remaining.String(),
			"last_updated_block": blockNumber,
			"last_updated_at":    blockTime,
		}).Error
}

// creditBalance upserts amount onto a balance row
func creditBalance(tx *gorm.DB, address string, amount string, blockNumber uint64, blockTime time.Time) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance":            gorm.Expr("balances.balance + EXCLUDED.balance"),
			"last_updated_block": gorm.Expr("GREATEST(balances.last_updated_block, EXCLUDED.last_updated_block)"),
			"last_updated_at":    gorm.Expr("EXCLUDED.last_updated_at"),
		}),
	}).Create(&schema.Balance{
		Address:          address,
		Balance:          amount,
		LastUpdatedBlock: blockNumber,
		LastUpdatedAt:    blockTime,
	}).Error
}

// IngestCorporateAction appends a split or symbol change
func (s *pgStore) IngestCorporateAction(ctx context.Context, input CreateCorporateActionInput) (bool, error) {
	if !input.ActionType.Valid() {
		return false, fmt.Errorf("invalid corporate action type: %s", input.ActionType)
	}

	action := schema.CorporateAction{
		TransactionHash: input.TxHash,
		LogIndex:        input.LogIndex,
		BlockNumber:     input.BlockNumber,
		BlockTimestamp:  input.BlockTimestamp,
		ActionType:      input.ActionType,
		ActionData:      input.ActionData,
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_hash"}},
		DoNothing: true,
	}).Clauses(clause.Returning{Columns: []clause.Column{}}).
		Create(&action).Error; err != nil {
		return false, fmt.Errorf("failed to create corporate action: %w", err)
	}

	return action.ID != 0, nil
}

// IngestApproval appends an approval event and updates the projection
func (s *pgStore) IngestApproval(ctx context.Context, input CreateApprovalInput) (bool, error) {
	wallet := domain.NormalizeAddress(input.Wallet)

	inserted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event := schema.ApprovalEvent{
			TransactionHash: input.TxHash,
			LogIndex:        input.LogIndex,
			BlockNumber:     input.BlockNumber,
			BlockTimestamp:  input.BlockTimestamp,
			WalletAddress:   wallet,
			Approved:        input.Approved,
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_hash"}},
			DoNothing: true,
		}).Clauses(clause.Returning{Columns: []clause.Column{}}).
			Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create approval event: %w", err)
		}

		if event.ID == 0 {
			return nil
		}
		inserted = true

		at := input.At
		block := input.BlockNumber
		approval := schema.Approval{
			WalletAddress:   wallet,
			Approved:        input.Approved,
			TransactionHash: input.TxHash,
			LastEventBlock:  input.BlockNumber,
			UpdatedAt:       time.Now(),
		}
		if input.Approved {
			approval.ApprovedAt = &at
			approval.ApprovedAtBlock = &block
		} else {
			approval.RevokedAt = &at
			approval.RevokedAtBlock = &block
		}

		// Older events delivered late never overwrite newer state
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "wallet_address"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"approved":          gorm.Expr("EXCLUDED.approved"),
				"approved_at":       gorm.Expr("COALESCE(EXCLUDED.approved_at, approvals.approved_at)"),
				"approved_at_block": gorm.Expr("COALESCE(EXCLUDED.approved_at_block, approvals.approved_at_block)"),
				"revoked_at":        gorm.Expr("COALESCE(EXCLUDED.revoked_at, approvals.revoked_at)"),
				"revoked_at_block":  gorm.Expr("COALESCE(EXCLUDED.revoked_at_block, approvals.revoked_at_block)"),
				"transaction_hash":  gorm.Expr("EXCLUDED.transaction_hash"),
				"last_event_block":  gorm.Expr("EXCLUDED.last_event_block"),
				"updated_at":        gorm.Expr("now()"),
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				gorm.Expr("approvals.last_event_block <= EXCLUDED.last_event_block"),
			}},
		}).Create(&approval).Error; err != nil {
			return fmt.Errorf("failed to upsert approval: %w", err)
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return inserted, nil
}

// GetTransfersUpToBlock returns the ledger prefix ending at toBlock
func (s *pgStore) GetTransfersUpToBlock(ctx context.Context, toBlock uint64) ([]schema.Transfer, error) {
	var transfers []schema.Transfer
	err := s.db.WithContext(ctx).
		Where("block_number <= ?", toBlock).
		Order("block_number ASC").Order("log_index ASC").Order("id ASC").
		Find(&transfers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transfers up to block %d: %w", toBlock, err)
	}
	return transfers, nil
}

// GetSplits returns recorded splits in ascending block order
func (s *pgStore) GetSplits(ctx context.Context, toBlock *uint64) ([]SplitRecord, error) {
	var rows []struct {
		BlockNumber uint64
		Multiplier  string
	}

	query := s.db.WithContext(ctx).
		Model(&schema.CorporateAction{}).
		Select("block_number, action_data->>'multiplier' AS multiplier").
		Where("action_type = ?", domain.CorporateActionSplit)
	if toBlock != nil {
		query = query.Where("block_number <= ?", *toBlock)
	}

	if err := query.Order("block_number ASC").Order("log_index ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}

	splits := make([]SplitRecord, 0, len(rows))
	for _, row := range rows {
		multiplier, err := strconv.ParseUint(row.Multiplier, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid split multiplier %q at block %d: %w", row.Multiplier, row.BlockNumber, err)
		}
		splits = append(splits, SplitRecord{BlockNumber: row.BlockNumber, Multiplier: multiplier})
	}

	return splits, nil
}

// GetBalances returns every holder with a positive balance
func (s *pgStore) GetBalances(ctx context.Context) ([]schema.Balance, error) {
	var balances []schema.Balance
	err := s.db.WithContext(ctx).
		Where("balance > 0").
		Order("balance DESC").Order("address ASC").
		Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	return balances, nil
}

// GetBalance returns the balance row of an address
func (s *pgStore) GetBalance(ctx context.Context, address string) (*schema.Balance, error) {
	var balance schema.Balance
	err := s.db.WithContext(ctx).
		Where("address = ?", domain.NormalizeAddress(address)).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &balance, nil
}

// GetTotalSupply returns the cached total supply
func (s *pgStore) GetTotalSupply(ctx context.Context) (*big.Int, error) {
	supply, err := getNumericValue(s.db.WithContext(ctx), TotalSupplyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get total supply: %w", err)
	}
	return supply, nil
}

// GetSupplyReport computes the supply three ways
func (s *pgStore) GetSupplyReport(ctx context.Context) (*SupplyReport, error) {
	db := s.db.WithContext(ctx)

	var projection struct {
		Total   string
		Holders uint64
	}
	if err := db.Raw(`
		SELECT COALESCE(SUM(balance), 0)::text AS total,
		       COUNT(*) FILTER (WHERE balance > 0) AS holders
		FROM balances
	`).Scan(&projection).Error; err != nil {
		return nil, fmt.Errorf("failed to sum balances: %w", err)
	}

	var ledger struct {
		Total string
	}
	if err := db.Raw(`
		SELECT COALESCE(SUM(CASE
			WHEN event_type = 'mint' AND to_address <> ? THEN amount
			WHEN event_type = 'burn' THEN -amount
			ELSE 0 END), 0)::text AS total
		FROM transfers
	`, domain.ETHEREUM_ZERO_ADDRESS).Scan(&ledger).Error; err != nil {
		return nil, fmt.Errorf("failed to sum ledger supply: %w", err)
	}

	cached, err := getNumericValue(db, TotalSupplyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get total supply: %w", err)
	}

	projectionSum, ok := new(big.Int).SetString(projection.Total, 10)
	if !ok {
		return nil, fmt.Errorf("invalid balance sum %q", projection.Total)
	}
	ledgerSum, ok := new(big.Int).SetString(ledger.Total, 10)
	if !ok {
		return nil, fmt.Errorf("invalid ledger sum %q", ledger.Total)
	}

	return &SupplyReport{
		ProjectionSum: projectionSum,
		Cached:        cached,
		Ledger:        ledgerSum,
		Holders:       projection.Holders,
	}, nil
}

// RebuildBalances replaces the balance projection with one replayed from the ledger
func (s *pgStore) RebuildBalances(ctx context.Context) (*RebuildResult, error) {
	result := &RebuildResult{TotalSupply: new(big.Int)}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize with writers for the duration of the rebuild
		if err := tx.Exec("LOCK TABLE balances IN EXCLUSIVE MODE").Error; err != nil {
			return fmt.Errorf("failed to lock balances: %w", err)
		}

		var negative []struct {
			Address string
			Balance string
		}
		if err := tx.Raw(ledgerBalancesQuery+` HAVING SUM(delta) < 0`,
			domain.ETHEREUM_ZERO_ADDRESS, domain.ETHEREUM_ZERO_ADDRESS).
			Scan(&negative).Error; err != nil {
			return fmt.Errorf("failed to check ledger balances: %w", err)
		}
		if len(negative) > 0 {
			return fmt.Errorf("%w: ledger gives %s a balance of %s",
				domain.ErrNegativeBalance, negative[0].Address, negative[0].Balance)
		}

		if err := tx.Exec("DELETE FROM balances").Error; err != nil {
			return fmt.Errorf("failed to clear balances: %w", err)
		}

		insert := tx.Exec(`
			INSERT INTO balances (address, balance, last_updated_block, last_updated_at)
			SELECT address, balance, last_block, last_at FROM (`+ledgerBalancesQuery+`) ledger`,
			domain.ETHEREUM_ZERO_ADDRESS, domain.ETHEREUM_ZERO_ADDRESS)
		if insert.Error != nil {
			return fmt.Errorf("failed to rebuild balances: %w", insert.Error)
		}

		var total struct {
			Total   string
			Holders uint64
		}
		if err := tx.Raw(`
			SELECT COALESCE(SUM(balance), 0)::text AS total,
			       COUNT(*) FILTER (WHERE balance > 0) AS holders
			FROM balances
		`).Scan(&total).Error; err != nil {
			return fmt.Errorf("failed to sum balances: %w", err)
		}

		if err := setValue(tx, TotalSupplyKey, total.Total); err != nil {
			return fmt.Errorf("failed to set total supply: %w", err)
		}

		if _, ok := result.TotalSupply.SetString(total.Total, 10); !ok {
			return fmt.Errorf("invalid balance sum %q", total.Total)
		}
		result.Holders = total.Holders

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Rebuilt balance projection",
		zap.Uint64("holders", result.Holders),
		zap.String("total_supply", result.TotalSupply.String()))

	return result, nil
}

// ledgerBalancesQuery nets every transfer per address, zero address excluded.
// Takes the zero address twice.
const ledgerBalancesQuery = `
	SELECT address,
	       SUM(delta) AS balance,
	       MAX(block_number) AS last_block,
	       MAX(block_timestamp) AS last_at
	FROM (
		SELECT from_address AS address, -amount AS delta, block_number, block_timestamp
		FROM transfers WHERE from_address <> ?
		UNION ALL
		SELECT to_address AS address, amount AS delta, block_number, block_timestamp
		FROM transfers WHERE to_address <> ?
	) deltas
	GROUP BY address`

// GetApproval returns the approval state of a wallet
func (s *pgStore) GetApproval(ctx context.Context, address string) (*schema.Approval, error) {
	var approval schema.Approval
	err := s.db.WithContext(ctx).
		Where("wallet_address = ?", domain.NormalizeAddress(address)).
		First(&approval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get approval: %w", err)
	}
	return &approval, nil
}

// GetWalletActivity summarizes the transfers touching an address
func (s *pgStore) GetWalletActivity(ctx context.Context, address string) (*WalletActivity, error) {
	address = domain.NormalizeAddress(address)

	var row struct {
		TransferCount      uint64
		FirstTransferBlock *uint64
		LastTransferBlock  *uint64
		FirstTransferAt    *time.Time
		LastTransferAt     *time.Time
	}
	err := s.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS transfer_count,
		       MIN(block_number) AS first_transfer_block,
		       MAX(block_number) AS last_transfer_block,
		       MIN(block_timestamp) AS first_transfer_at,
		       MAX(block_timestamp) AS last_transfer_at
		FROM transfers
		WHERE from_address = ? OR to_address = ?
	`, address, address).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet activity: %w", err)
	}

	return &WalletActivity{
		TransferCount:      row.TransferCount,
		FirstTransferBlock: row.FirstTransferBlock,
		LastTransferBlock:  row.LastTransferBlock,
		FirstTransferAt:    row.FirstTransferAt,
		LastTransferAt:     row.LastTransferAt,
	}, nil
}

// GetTransfers lists transfers newest first
func (s *pgStore) GetTransfers(ctx context.Context, filter TransferFilter) ([]schema.Transfer, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.Transfer{})

	if filter.Address != nil {
		address := domain.NormalizeAddress(*filter.Address)
		query = query.Where("(from_address = ? OR to_address = ?)", address, address)
	}
	if filter.FromBlock != nil {
		query = query.Where("block_number >= ?", *filter.FromBlock)
	}
	if filter.ToBlock != nil {
		query = query.Where("block_number <= ?", *filter.ToBlock)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transfers: %w", err)
	}

	var transfers []schema.Transfer
	err := query.
		Order("block_number DESC").Order("id DESC").
		Limit(filter.Limit).
		Offset(int(filter.Offset)). //nolint:gosec,G115
		Find(&transfers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get transfers: %w", err)
	}

	return transfers, uint64(total), nil //nolint:gosec,G115
}

// GetCorporateActions lists corporate actions newest first
func (s *pgStore) GetCorporateActions(ctx context.Context, filter CorporateActionFilter) ([]schema.CorporateAction, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.CorporateAction{})

	if filter.ActionType != nil {
		query = query.Where("action_type = ?", *filter.ActionType)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count corporate actions: %w", err)
	}

	var actions []schema.CorporateAction
	err := query.
		Order("block_number DESC").Order("id DESC").
		Limit(filter.Limit).
		Offset(int(filter.Offset)). //nolint:gosec,G115
		Find(&actions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get corporate actions: %w", err)
	}

	return actions, uint64(total), nil //nolint:gosec,G115
}

// GetSnapshotEvents lists the cap table changing events after the most recent block
// at which the running minted-minus-burned supply returned to zero
func (s *pgStore) GetSnapshotEvents(ctx context.Context, limit int) ([]SnapshotEvent, error) {
	var events []SnapshotEvent
	err := s.db.WithContext(ctx).Raw(`
		WITH reset AS (
			SELECT MAX(block_number) AS reset_block
			FROM (
				SELECT block_number,
				       SUM(CASE
				               WHEN event_type = 'mint' AND to_address <> ? THEN amount
				               WHEN event_type = 'burn' THEN -amount
				               ELSE 0 END)
				           OVER (ORDER BY block_number, transaction_hash
				                 ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW) AS running_supply
				FROM transfers
			) supply
			WHERE running_supply = 0
		),
		events AS (
			SELECT DISTINCT t.block_number,
			       t.block_timestamp,
			       t.event_type,
			       CASE t.event_type
			           WHEN 'mint' THEN 'Token Mint'
			           WHEN 'burn' THEN 'Token Burn'
			           ELSE 'Token Transfer'
			       END AS description
			FROM transfers t, reset r
			WHERE r.reset_block IS NULL OR t.block_number > r.reset_block

			UNION ALL

			SELECT ca.block_number,
			       ca.block_timestamp,
			       'split' AS event_type,
			       'Stock Split (' || (ca.action_data->>'multiplier') || ':1)' AS description
			FROM corporate_actions ca, reset r
			WHERE ca.action_type = 'split'
			  AND (r.reset_block IS NULL OR ca.block_number > r.reset_block)

			UNION ALL

			SELECT ca.block_number,
			       ca.block_timestamp,
			       'symbol_change' AS event_type,
			       'Symbol Change' AS description
			FROM corporate_actions ca, reset r
			WHERE ca.action_type = 'symbol_change'
			  AND (r.reset_block IS NULL OR ca.block_number > r.reset_block)
		)
		SELECT block_number, block_timestamp, event_type, description
		FROM events
		ORDER BY block_number DESC, block_timestamp DESC, event_type ASC
		LIMIT ?
	`, domain.ETHEREUM_ZERO_ADDRESS, limit).Scan(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot events: %w", err)
	}

	return events, nil
}
