package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/finance"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

type CashFlowReportQuery struct {
	TenantID       uint
	Start          time.Time
	End            time.Time
	OpeningBalance decimal.Decimal
}

type CashFlowReportUseCase struct {
	incomes  finance.IncomeRepository
	expenses finance.ExpenseRepository
	logger   logger.Interface
}

func NewCashFlowReportUseCase(incomes finance.IncomeRepository, expenses finance.ExpenseRepository, logger logger.Interface) *CashFlowReportUseCase {
	return &CashFlowReportUseCase{
		incomes:  incomes,
		expenses: expenses,
		logger:   logger,
	}
}

func (uc *CashFlowReportUseCase) Execute(ctx context.Context, query CashFlowReportQuery) (*finance.CashFlowReport, error) {
	start, end, err := normalizeRange(query.Start, query.End)
	if err != nil {
		return nil, err
	}

	incomes, err := uc.incomes.ListByTenantAndRange(ctx, query.TenantID, start, end)
	if err != nil {
		uc.logger.Errorw("failed to list income records", "error", err, "tenant_id", query.TenantID)
		return nil, fmt.Errorf("failed to list income records: %w", err)
	}

	expenses, err := uc.expenses.ListByTenantAndRange(ctx, query.TenantID, start, end)
	if err != nil {
		uc.logger.Errorw("failed to list expense records", "error", err, "tenant_id", query.TenantID)
		return nil, fmt.Errorf("failed to list expense records: %w", err)
	}

	return finance.BuildCashFlowReport(start, end, query.OpeningBalance, incomes, expenses), nil
}
