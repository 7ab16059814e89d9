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

type RecordExpenseCommand struct {
	TenantID  uint
	Amount    decimal.Decimal
	Date      time.Time
	Category  string
	VehicleID *uint
}

type RecordExpenseUseCase struct {
	expenses finance.ExpenseRepository
	clock    clock.Clock
	logger   logger.Interface
}

func NewRecordExpenseUseCase(expenses finance.ExpenseRepository, clk clock.Clock, logger logger.Interface) *RecordExpenseUseCase {
	return &RecordExpenseUseCase{
		expenses: expenses,
		clock:    clk,
		logger:   logger,
	}
}

func (uc *RecordExpenseUseCase) Execute(ctx context.Context, cmd RecordExpenseCommand) (*finance.Expense, error) {
	expense, err := finance.NewExpense(cmd.TenantID, cmd.Amount, cmd.Date, cmd.Category, cmd.VehicleID, uc.clock.Now())
	if err != nil {
		if errors.Is(err, finance.ErrNonPositiveAmount) {
			return nil, apperrors.NewValidationError("Expense amount must be positive")
		}
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.expenses.Create(ctx, expense); err != nil {
		uc.logger.Errorw("failed to create expense record", "error", err, "tenant_id", cmd.TenantID)
		return nil, fmt.Errorf("failed to create expense record: %w", err)
	}

	uc.logger.Infow("expense recorded",
		"tenant_id", cmd.TenantID,
		"amount", cmd.Amount,
		"category", cmd.Category,
	)

	return expense, nil
}
