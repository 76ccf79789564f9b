package store

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chainequity/captable-indexer/internal/store/schema"
)

// CursorStore defines the interface for storing and retrieving block cursors
type CursorStore interface {
	// GetBlockCursor retrieves the last processed block number for a chain
	GetBlockCursor(ctx context.Context, chain string) (uint64, error)
	// SetBlockCursor stores the last processed block number for a chain
	SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error
}

type cursorStore struct {
	db *gorm.DB
}

// NewCursorStore creates a new cursor store
func NewCursorStore(db *gorm.DB) CursorStore {
	return &cursorStore{db: db}
}

func blockCursorKey(chain string) string {
	return fmt.Sprintf("block_cursor:%s", chain)
}

// GetBlockCursor retrieves the last processed block number for a chain, 0 when unset
func (s *cursorStore) GetBlockCursor(ctx context.Context, chain string) (uint64, error) {
	value, err := getValue(s.db.WithContext(ctx), blockCursorKey(chain))
	if err != nil {
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}
	if value == nil {
		return 0, nil
	}

	blockNumber, err := strconv.ParseUint(*value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor: %w", err)
	}

	return blockNumber, nil
}

// SetBlockCursor stores the last processed block number for a chain
func (s *cursorStore) SetBlockCursor(ctx context.Context, chain string, blockNumber uint64) error {
	if err := setValue(s.db.WithContext(ctx), blockCursorKey(chain), strconv.FormatUint(blockNumber, 10)); err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}
	return nil
}

// getValue reads a key, nil when absent
func getValue(db *gorm.DB, key string) (*string, error) {
	var kv schema.KeyValueStore
	err := db.Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &kv.Value, nil
}

func setValue(db *gorm.DB, key, value string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&schema.KeyValueStore{Key: key, Value: value}).Error
}

// addToNumericValue adds delta to a numeric value, creating the key at delta
func addToNumericValue(db *gorm.DB, key string, delta *big.Int) error {
	return db.Exec(`
		INSERT INTO key_value_store (key, value, created_at, updated_at)
		VALUES (?, ?, now(), now())
		ON CONFLICT (key) DO UPDATE
		SET value = (key_value_store.value::numeric + EXCLUDED.value::numeric)::text,
		    updated_at = now()
	`, key, delta.String()).Error
}

// getNumericValue reads a numeric value, zero when absent
func getNumericValue(db *gorm.DB, key string) (*big.Int, error) {
	value, err := getValue(db, key)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return new(big.Int), nil
	}

	n, ok := new(big.Int).SetString(*value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid numeric value for %s: %q", key, *value)
	}
	return n, nil
}
