package executor

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/chainequity/captable-indexer/internal/api/shared/constants"
	"github.com/chainequity/captable-indexer/internal/api/shared/dto"
	apierrors "github.com/chainequity/captable-indexer/internal/api/shared/errors"
	"github.com/chainequity/captable-indexer/internal/block"
	"github.com/chainequity/captable-indexer/internal/captable"
	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/logger"
	"github.com/chainequity/captable-indexer/internal/providers/ethereum"
	"github.com/chainequity/captable-indexer/internal/store"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// GetCapTable returns the current cap table, omitting holders below minBalance when set
	GetCapTable(ctx context.Context, minBalance *big.Int) (*dto.CapTableResponse, error)

	// GetCapTableAtBlock reconstructs the cap table at a historical block
	GetCapTableAtBlock(ctx context.Context, blockNumber uint64) (*dto.CapTableResponse, error)

	// GetSnapshots lists the cap table changes after the last supply reset
	GetSnapshots(ctx context.Context, limit *int) (*dto.SnapshotListResponse, error)

	// GetTransfers lists ledger transfers newest first
	GetTransfers(ctx context.Context, address *string, fromBlock *uint64, toBlock *uint64, limit *int, offset *uint64) (*dto.TransferListResponse, error)

	// GetCorporateActions lists splits and symbol changes newest first
	GetCorporateActions(ctx context.Context, actionType *domain.CorporateActionType, limit *int, offset *uint64) (*dto.CorporateActionListResponse, error)

	// GetWallet returns the ledger view of an address, nil when the address is unknown
	GetWallet(ctx context.Context, address string) (*dto.WalletResponse, error)

	// Health checks the database and the chain
	Health(ctx context.Context) *dto.HealthResponse
}

type executor struct {
	store         store.Store
	reconstructor captable.Reconstructor
	blockProvider block.BlockProvider
	ethClient     ethereum.EthereumClient
}

func NewExecutor(
	st store.Store,
	reconstructor captable.Reconstructor,
	blockProvider block.BlockProvider,
	ethClient ethereum.EthereumClient,
) Executor {
	return &executor{
		store:         st,
		reconstructor: reconstructor,
		blockProvider: blockProvider,
		ethClient:     ethClient,
	}
}

func (e *executor) GetCapTable(ctx context.Context, minBalance *big.Int) (*dto.CapTableResponse, error) {
	ct, err := e.reconstructor.Current(ctx, minBalance)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get cap table: %v", err))
	}

	return dto.MapCapTableToDTO(ct), nil
}

func (e *executor) GetCapTableAtBlock(ctx context.Context, blockNumber uint64) (*dto.CapTableResponse, error) {
	ct, err := e.reconstructor.ReconstructAt(ctx, blockNumber)
	if err != nil {
		if errors.Is(err, domain.ErrBlockOutOfRange) {
			return nil, apierrors.NewBadRequestError("Block number out of range", err.Error())
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to reconstruct cap table: %v", err))
	}

	return dto.MapCapTableToDTO(ct), nil
}

func (e *executor) GetSnapshots(ctx context.Context, limit *int) (*dto.SnapshotListResponse, error) {
	if limit == nil {
		defaultLimit := constants.DEFAULT_SNAPSHOTS_LIMIT
		limit = &defaultLimit
	}

	events, err := e.reconstructor.Snapshots(ctx, *limit)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get snapshots: %v", err))
	}

	return dto.MapSnapshotsToDTO(events), nil
}

func (e *executor) GetTransfers(ctx context.Context, address *string, fromBlock *uint64, toBlock *uint64, limit *int, offset *uint64) (*dto.TransferListResponse, error) {
	// Use defaults if not provided
	if limit == nil {
		defaultLimit := constants.DEFAULT_TRANSFERS_LIMIT
		limit = &defaultLimit
	}
	if offset == nil {
		defaultOffset := constants.DEFAULT_OFFSET
		offset = &defaultOffset
	}

	if address != nil {
		if !domain.IsValidAddress(*address) {
			return nil, apierrors.NewValidationError(fmt.Sprintf("Invalid address: %s", *address))
		}
		normalized := domain.NormalizeAddress(*address)
		address = &normalized
	}

	results, total, err := e.store.GetTransfers(ctx, store.TransferFilter{
		Address:   address,
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Limit:     *limit,
		Offset:    *offset,
	})
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get transfers: %v", err))
	}

	transfers := make([]dto.TransferResponse, len(results))
	for i, t := range results {
		transfers[i] = dto.MapTransferToDTO(t)
	}

	return &dto.TransferListResponse{
		Transfers: transfers,
		Limit:     *limit,
		Offset:    dto.NextOffset(*offset, len(results), total),
		Total:     total,
	}, nil
}

func (e *executor) GetCorporateActions(ctx context.Context, actionType *domain.CorporateActionType, limit *int, offset *uint64) (*dto.CorporateActionListResponse, error) {
	if limit == nil {
		defaultLimit := constants.DEFAULT_CORPORATE_ACTIONS_LIMIT
		limit = &defaultLimit
	}
	if offset == nil {
		defaultOffset := constants.DEFAULT_OFFSET
		offset = &defaultOffset
	}

	if actionType != nil && !actionType.Valid() {
		return nil, apierrors.NewValidationError(fmt.Sprintf("Invalid action type: %s", *actionType))
	}

	results, total, err := e.store.GetCorporateActions(ctx, store.CorporateActionFilter{
		ActionType: actionType,
		Limit:      *limit,
		Offset:     *offset,
	})
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get corporate actions: %v", err))
	}

	actions := make([]dto.CorporateActionResponse, len(results))
	for i, a := range results {
		actions[i] = dto.MapCorporateActionToDTO(a)
	}

	return &dto.CorporateActionListResponse{
		Actions: actions,
		Limit:   *limit,
		Offset:  dto.NextOffset(*offset, len(results), total),
		Total:   total,
	}, nil
}

func (e *executor) GetWallet(ctx context.Context, address string) (*dto.WalletResponse, error) {
	if !domain.IsValidAddress(address) {
		return nil, apierrors.NewValidationError(fmt.Sprintf("Invalid address: %s", address))
	}
	address = domain.NormalizeAddress(address)

	balanceRow, err := e.store.GetBalance(ctx, address)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get balance: %v", err))
	}
	approval, err := e.store.GetApproval(ctx, address)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get approval: %v", err))
	}
	activity, err := e.store.GetWalletActivity(ctx, address)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get wallet activity: %v", err))
	}
	if activity == nil {
		activity = &store.WalletActivity{}
	}

	balance := new(big.Int)
	if balanceRow != nil {
		parsed, ok := domain.ParseAmount(balanceRow.Balance)
		if !ok {
			return nil, apierrors.NewInternalError(fmt.Sprintf("Invalid balance for %s", address))
		}
		balance = parsed
	}

	approved := approval != nil && approval.Approved
	if balance.Sign() == 0 && !approved && activity.TransferCount == 0 {
		return nil, nil
	}

	splits, err := e.store.GetSplits(ctx, nil)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get splits: %v", err))
	}
	supply, err := e.store.GetTotalSupply(ctx)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get total supply: %v", err))
	}
	display := new(big.Int).Mul(balance, captable.CumulativeMultiplier(splits))

	response := &dto.WalletResponse{
		Address:                 address,
		Balance:                 balance.String(),
		DisplayBalance:          display.String(),
		DisplayBalanceFormatted: domain.FormatTokenAmount(display, domain.TOKEN_DECIMALS),
		Percentage:              captable.Percentage(balance, supply),
		IsApproved:              approved,
		TransferCount:           activity.TransferCount,
		FirstTransferBlock:      activity.FirstTransferBlock,
		LastTransferBlock:       activity.LastTransferBlock,
		FirstTransferAt:         activity.FirstTransferAt,
		LastTransferAt:          activity.LastTransferAt,
	}
	if approval != nil {
		response.ApprovedAt = approval.ApprovedAt
		response.ApprovedAtBlock = approval.ApprovedAtBlock
		response.RevokedAt = approval.RevokedAt
		response.RevokedAtBlock = approval.RevokedAtBlock
	}

	return response, nil
}

func (e *executor) Health(ctx context.Context) *dto.HealthResponse {
	response := &dto.HealthResponse{
		Status:   dto.HealthStatusOK,
		Database: dto.HealthStatusOK,
		Chain:    dto.HealthStatusOK,
	}

	if err := e.store.Ping(ctx); err != nil {
		logger.WarnCtx(ctx, "Database health check failed", zap.Error(err))
		response.Status = dto.HealthStatusDegraded
		response.Database = err.Error()
	}

	blockNumber, err := e.blockProvider.GetLatestBlock(ctx)
	if err != nil {
		logger.WarnCtx(ctx, "Chain health check failed", zap.Error(err))
		response.Status = dto.HealthStatusDegraded
		response.Chain = err.Error()
		return response
	}
	response.BlockNumber = &blockNumber

	symbol, err := e.ethClient.TokenSymbol(ctx)
	if err != nil {
		logger.WarnCtx(ctx, "Token symbol check failed", zap.Error(err))
		response.Status = dto.HealthStatusDegraded
		response.Chain = err.Error()
		return response
	}
	response.TokenSymbol = &symbol

	return response
}
