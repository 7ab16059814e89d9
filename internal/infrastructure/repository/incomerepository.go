package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/finance"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/mappers"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/models"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/db"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

type IncomeRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.IncomeMapper
	logger logger.Interface
}

func NewIncomeRepository(gormDB *gorm.DB, logger logger.Interface) finance.IncomeRepository {
	return &IncomeRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewIncomeMapper(),
		logger: logger,
	}
}

func (r *IncomeRepositoryImpl) Create(ctx context.Context, entity *finance.Income) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map income entity to model", "error", err)
		return fmt.Errorf("failed to map income entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create income in database", "tenant_id", model.TenantID, "error", err)
		return fmt.Errorf("failed to create income: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set income ID", "error", err)
		return fmt.Errorf("failed to set income ID: %w", err)
	}

	return nil
}

func (r *IncomeRepositoryImpl) ListByTenantAndRange(ctx context.Context, tenantID uint, start, end time.Time) ([]*finance.Income, error) {
	var modelList []*models.IncomeModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("tenant_id = ? AND date >= ? AND date <= ?", tenantID, start, end).
		Order("date ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list income records", "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to list income records: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *IncomeRepositoryImpl) ListByVehicleAndRange(ctx context.Context, tenantID, vehicleID uint, start, end time.Time) ([]*finance.Income, error) {
	var modelList []*models.IncomeModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("tenant_id = ? AND vehicle_id = ? AND date >= ? AND date <= ?", tenantID, vehicleID, start, end).
		Order("date ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list vehicle income records", "tenant_id", tenantID, "vehicle_id", vehicleID, "error", err)
		return nil, fmt.Errorf("failed to list vehicle income records: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}
