package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/finance"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/clock"
	apperrors "github.com/manyinyire/fleetbackend-sub002/internal/shared/errors"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

type RecordIncomeCommand struct {
	TenantID  uint
	Amount    decimal.Decimal
	Date      time.Time
	Source    string
	VehicleID *uint
}

type RecordIncomeUseCase struct {
	incomes finance.IncomeRepository
	clock   clock.Clock
	logger  logger.Interface
}

func NewRecordIncomeUseCase(incomes finance.IncomeRepository, clk clock.Clock, logger logger.Interface) *RecordIncomeUseCase {
	return &RecordIncomeUseCase{
		incomes: incomes,
		clock:   clk,
		logger:  logger,
	}
}

func (uc *RecordIncomeUseCase) Execute(ctx context.Context, cmd RecordIncomeCommand) (*finance.Income, error) {
	income, err := finance.NewIncome(cmd.TenantID, cmd.Amount, cmd.Date, cmd.Source, cmd.VehicleID, uc.clock.Now())
	if err != nil {
		if errors.Is(err, finance.ErrNonPositiveAmount) {
			return nil, apperrors.NewValidationError("Income amount must be positive")
		}
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.incomes.Create(ctx, income); err != nil {
		uc.logger.Errorw("failed to create income record", "error", err, "tenant_id", cmd.TenantID)
		return nil, fmt.Errorf("failed to create income record: %w", err)
	}

	uc.logger.Infow("income recorded",
		"tenant_id", cmd.TenantID,
		"amount", cmd.Amount,
		"source", cmd.Source,
	)

	return income, nil
}
