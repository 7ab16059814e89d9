package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/finance"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

type ProfitLossReportQuery struct {
	TenantID uint
	Start    time.Time
	End      time.Time
}

type ProfitLossReportUseCase struct {
	incomes  finance.IncomeRepository
	expenses finance.ExpenseRepository
	logger   logger.Interface
}

func NewProfitLossReportUseCase(incomes finance.IncomeRepository, expenses finance.ExpenseRepository, logger logger.Interface) *ProfitLossReportUseCase {
	return &ProfitLossReportUseCase{
		incomes:  incomes,
		expenses: expenses,
		logger:   logger,
	}
}

func (uc *ProfitLossReportUseCase) Execute(ctx context.Context, query ProfitLossReportQuery) (*finance.ProfitLossReport, error) {
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

	return finance.BuildProfitLossReport(start, end, incomes, expenses), nil
}
