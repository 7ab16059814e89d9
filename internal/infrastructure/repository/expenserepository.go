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

type ExpenseRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ExpenseMapper
	logger logger.Interface
}

func NewExpenseRepository(gormDB *gorm.DB, logger logger.Interface) finance.ExpenseRepository {
	return &ExpenseRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewExpenseMapper(),
		logger: logger,
	}
}

func (r *ExpenseRepositoryImpl) Create(ctx context.Context, entity *finance.Expense) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map expense entity to model", "error", err)
		return fmt.Errorf("failed to map expense entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create expense in database", "tenant_id", model.TenantID, "error", err)
		return fmt.Errorf("failed to create expense: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set expense ID", "error", err)
		return fmt.Errorf("failed to set expense ID: %w", err)
	}

	return nil
}

func (r *ExpenseRepositoryImpl) GetByID(ctx context.Context, expenseID uint) (*finance.Expense, error) {
	var model models.ExpenseModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, expenseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get expense by ID", "id", expenseID, "error", err)
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *ExpenseRepositoryImpl) Update(ctx context.Context, entity *finance.Expense) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map expense entity to model", "error", err)
		return fmt.Errorf("failed to map expense entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ExpenseModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update expense in database", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update expense: %w", result.Error)
	}

	return nil
}

func (r *ExpenseRepositoryImpl) ListByTenantAndRange(ctx context.Context, tenantID uint, start, end time.Time) ([]*finance.Expense, error) {
	var modelList []*models.ExpenseModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("tenant_id = ? AND date >= ? AND date <= ?", tenantID, start, end).
		Order("date ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list expense records", "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to list expense records: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *ExpenseRepositoryImpl) ListByVehicleAndRange(ctx context.Context, tenantID, vehicleID uint, start, end time.Time) ([]*finance.Expense, error) {
	var modelList []*models.ExpenseModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("tenant_id = ? AND vehicle_id = ? AND date >= ? AND date <= ?", tenantID, vehicleID, start, end).
		Order("date ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list vehicle expense records", "tenant_id", tenantID, "vehicle_id", vehicleID, "error", err)
		return nil, fmt.Errorf("failed to list vehicle expense records: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}
