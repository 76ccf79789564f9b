package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chainequity/captable-indexer/internal/api/shared/executor"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetCapTable returns the current cap table
	// GET /api/v1/cap-table?min_balance=<base units>
	GetCapTable(c *gin.Context)

	// GetCapTableAtBlock reconstructs the cap table at a block
	// GET /api/v1/cap-table/blocks/:block
	GetCapTableAtBlock(c *gin.Context)

	// GetSnapshots lists the cap table changes after the last supply reset
	// GET /api/v1/cap-table/snapshots?limit=<limit>
	GetSnapshots(c *gin.Context)

	// ListTransfers lists transfers newest first
	// GET /api/v1/transfers?address=<address>&from_block=<block>&to_block=<block>&page=<page>&limit=<limit>&offset=<offset>
	ListTransfers(c *gin.Context)

	// ListCorporateActions lists splits and symbol changes newest first
	// GET /api/v1/corporate-actions?type=<split|symbol_change>&limit=<limit>&offset=<offset>
	ListCorporateActions(c *gin.Context)

	// GetWallet returns the ledger view of an address
	// GET /api/v1/wallets/:address
	GetWallet(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{
		executor: exec,
	}
}

// GetCapTable returns the current cap table
func (h *handler) GetCapTable(c *gin.Context) {
	minBalance, err := ParseGetCapTableQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	response, err := h.executor.GetCapTable(c.Request.Context(), minBalance)
	if err != nil {
		respondError(c, err, "Failed to get cap table")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCapTableAtBlock reconstructs the cap table at a block
func (h *handler) GetCapTableAtBlock(c *gin.Context) {
	blockNumber, err := strconv.ParseUint(c.Param("block"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid block number", c.Param("block"))
		return
	}

	response, err := h.executor.GetCapTableAtBlock(c.Request.Context(), blockNumber)
	if err != nil {
		respondError(c, err, "Failed to reconstruct cap table")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetSnapshots lists snapshot entries
func (h *handler) GetSnapshots(c *gin.Context) {
	queryParams, err := ParseGetSnapshotsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	response, err := h.executor.GetSnapshots(c.Request.Context(), &queryParams.Limit)
	if err != nil {
		respondError(c, err, "Failed to get snapshots")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListTransfers lists transfers with filtering and pagination
func (h *handler) ListTransfers(c *gin.Context) {
	queryParams, err := ParseListTransfersQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := queryParams.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	var address *string
	if queryParams.Address != "" {
		address = &queryParams.Address
	}

	response, err := h.executor.GetTransfers(
		c.Request.Context(),
		address,
		queryParams.FromBlock,
		queryParams.ToBlock,
		&queryParams.Limit,
		&queryParams.Offset,
	)
	if err != nil {
		respondError(c, err, "Failed to list transfers")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListCorporateActions lists corporate actions with filtering and pagination
func (h *handler) ListCorporateActions(c *gin.Context) {
	queryParams, err := ParseListCorporateActionsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := queryParams.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	response, err := h.executor.GetCorporateActions(
		c.Request.Context(),
		queryParams.ActionType(),
		&queryParams.Limit,
		&queryParams.Offset,
	)
	if err != nil {
		respondError(c, err, "Failed to list corporate actions")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetWallet returns the ledger view of an address
func (h *handler) GetWallet(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		respondBadRequest(c, "Address is required")
		return
	}

	response, err := h.executor.GetWallet(c.Request.Context(), address)
	if err != nil {
		respondError(c, err, "Failed to get wallet")
		return
	}

	if response == nil {
		respondNotFound(c, "Wallet not found", address)
		return
	}

	c.JSON(http.StatusOK, response)
}

// HealthCheck returns the health status of the API and its dependencies
func (h *handler) HealthCheck(c *gin.Context) {
	response := h.executor.Health(c.Request.Context())
	if !response.Healthy() {
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}
