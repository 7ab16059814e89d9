package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/finance"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/clock"
	apperrors "github.com/manyinyire/fleetbackend-sub002/internal/shared/errors"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

type ApproveExpenseCommand struct {
	ExpenseID uint
	ActorID   string
}

type ApproveExpenseUseCase struct {
	expenses finance.ExpenseRepository
	clock    clock.Clock
	logger   logger.Interface
}

func NewApproveExpenseUseCase(expenses finance.ExpenseRepository, clk clock.Clock, logger logger.Interface) *ApproveExpenseUseCase {
	return &ApproveExpenseUseCase{
		expenses: expenses,
		clock:    clk,
		logger:   logger,
	}
}

func (uc *ApproveExpenseUseCase) Execute(ctx context.Context, cmd ApproveExpenseCommand) error {
	expense, err := uc.expenses.GetByID(ctx, cmd.ExpenseID)
	if err != nil {
		uc.logger.Errorw("failed to get expense", "error", err, "expense_id", cmd.ExpenseID)
		return fmt.Errorf("failed to get expense: %w", err)
	}
	if expense == nil {
		return apperrors.NewNotFoundError("Expense not found")
	}

	if err := expense.Approve(uc.clock.Now()); err != nil {
		if errors.Is(err, finance.ErrExpenseNotPending) {
			return apperrors.NewInvalidStateError("Expense is not pending approval")
		}
		return apperrors.NewValidationError(err.Error())
	}

	if err := uc.expenses.Update(ctx, expense); err != nil {
		uc.logger.Errorw("failed to update expense", "error", err, "expense_id", cmd.ExpenseID)
		return fmt.Errorf("failed to update expense: %w", err)
	}

	uc.logger.Infow("expense approved",
		"expense_id", cmd.ExpenseID,
		"actor_id", cmd.ActorID,
	)

	return nil
}
