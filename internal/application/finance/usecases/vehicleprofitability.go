package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/finance"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

type VehicleProfitabilityQuery struct {
	TenantID  uint
	VehicleID uint
	Start     time.Time
	End       time.Time
}

type VehicleProfitabilityUseCase struct {
	incomes  finance.IncomeRepository
	expenses finance.ExpenseRepository
	logger   logger.Interface
}

func NewVehicleProfitabilityUseCase(incomes finance.IncomeRepository, expenses finance.ExpenseRepository, logger logger.Interface) *VehicleProfitabilityUseCase {
	return &VehicleProfitabilityUseCase{
		incomes:  incomes,
		expenses: expenses,
		logger:   logger,
	}
}

func (uc *VehicleProfitabilityUseCase) Execute(ctx context.Context, query VehicleProfitabilityQuery) (*finance.VehicleProfitabilityReport, error) {
	start, end, err := normalizeRange(query.Start, query.End)
	if err != nil {
		return nil, err
	}

	incomes, err := uc.incomes.ListByVehicleAndRange(ctx, query.TenantID, query.VehicleID, start, end)
	if err != nil {
		uc.logger.Errorw("failed to list vehicle income records", "error", err, "tenant_id", query.TenantID, "vehicle_id", query.VehicleID)
		return nil, fmt.Errorf("failed to list income records: %w", err)
	}

	expenses, err := uc.expenses.ListByVehicleAndRange(ctx, query.TenantID, query.VehicleID, start, end)
	if err != nil {
		uc.logger.Errorw("failed to list vehicle expense records", "error", err, "tenant_id", query.TenantID, "vehicle_id", query.VehicleID)
		return nil, fmt.Errorf("failed to list expense records: %w", err)
	}

	return finance.BuildVehicleProfitabilityReport(query.VehicleID, start, end, incomes, expenses), nil
}
