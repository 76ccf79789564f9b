package rest

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/gin-gonic/gin"

	"github.com/chainequity/captable-indexer/internal/api/shared/constants"
	"github.com/chainequity/captable-indexer/internal/domain"
)

// GetCapTableQueryParams holds query parameters for GET /cap-table
type GetCapTableQueryParams struct {
	// MinBalance is compared against split-adjusted base units
	MinBalance string `form:"min_balance"`
}

// ParseGetCapTableQuery parses query parameters for GET /cap-table
func ParseGetCapTableQuery(c *gin.Context) (*big.Int, error) {
	var params GetCapTableQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.MinBalance == "" {
		return nil, nil
	}

	minBalance, ok := new(big.Int).SetString(params.MinBalance, 10)
	if !ok || minBalance.Sign() < 0 {
		return nil, fmt.Errorf("min_balance must be a non-negative integer, got %q", params.MinBalance)
	}

	return minBalance, nil
}

// GetSnapshotsQueryParams holds query parameters for GET /cap-table/snapshots
type GetSnapshotsQueryParams struct {
	Limit int `form:"limit,default=50"`
}

// ParseGetSnapshotsQuery parses query parameters for GET /cap-table/snapshots
func ParseGetSnapshotsQuery(c *gin.Context) (*GetSnapshotsQueryParams, error) {
	var params GetSnapshotsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Limit < 1 {
		return nil, errors.New("limit must be positive")
	}

	// Cap limit
	if params.Limit > constants.MAX_SNAPSHOTS_LIMIT {
		params.Limit = constants.MAX_SNAPSHOTS_LIMIT
	}

	return &params, nil
}

// ListTransfersQueryParams holds query parameters for GET /transfers
type ListTransfersQueryParams struct {
	// Filters
	Address   string  `form:"address"`
	FromBlock *uint64 `form:"from_block"`
	ToBlock   *uint64 `form:"to_block"`

	// Pagination, page (1-based) overrides offset when set
	Page   int    `form:"page"`
	Limit  int    `form:"limit,default=100"`
	Offset uint64 `form:"offset,default=0"`
}

// ParseListTransfersQuery parses query parameters for GET /transfers
func ParseListTransfersQuery(c *gin.Context) (*ListTransfersQueryParams, error) {
	var params ListTransfersQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	// Cap limit
	if params.Limit > constants.MAX_TRANSFERS_LIMIT {
		params.Limit = constants.MAX_TRANSFERS_LIMIT
	}

	if params.Page > 0 && params.Limit > 0 {
		params.Offset = uint64(params.Page-1) * uint64(params.Limit) //nolint:gosec,G115
	}

	return &params, nil
}

// Validate validates the query parameters
func (p *ListTransfersQueryParams) Validate() error {
	if p.Limit < 1 {
		return errors.New("limit must be positive")
	}
	if p.Page < 0 {
		return errors.New("page must be positive")
	}
	if p.Address != "" && !domain.IsValidAddress(p.Address) {
		return fmt.Errorf("invalid address: %s", p.Address)
	}
	if p.FromBlock != nil && p.ToBlock != nil && *p.FromBlock > *p.ToBlock {
		return errors.New("from_block must not be greater than to_block")
	}
	return nil
}

// ListCorporateActionsQueryParams holds query parameters for GET /corporate-actions
type ListCorporateActionsQueryParams struct {
	Type   string `form:"type"`
	Limit  int    `form:"limit,default=50"`
	Offset uint64 `form:"offset,default=0"`
}

// ParseListCorporateActionsQuery parses query parameters for GET /corporate-actions
func ParseListCorporateActionsQuery(c *gin.Context) (*ListCorporateActionsQueryParams, error) {
	var params ListCorporateActionsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	// Cap limit
	if params.Limit > constants.MAX_CORPORATE_ACTIONS_LIMIT {
		params.Limit = constants.MAX_CORPORATE_ACTIONS_LIMIT
	}

	return &params, nil
}

// Validate validates the query parameters
func (p *ListCorporateActionsQueryParams) Validate() error {
	if p.Limit < 1 {
		return errors.New("limit must be positive")
	}
	if p.Type != "" && !domain.CorporateActionType(p.Type).Valid() {
		return fmt.Errorf("invalid type: %s, expected split or symbol_change", p.Type)
	}
	return nil
}

// ActionType returns the type filter, nil when absent
func (p *ListCorporateActionsQueryParams) ActionType() *domain.CorporateActionType {
	if p.Type == "" {
		return nil
	}
	actionType := domain.CorporateActionType(p.Type)
	return &actionType
}
