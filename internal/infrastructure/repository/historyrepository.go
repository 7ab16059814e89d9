package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/mappers"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/models"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/db"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

type HistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.HistoryMapper
	logger logger.Interface
}

func NewHistoryRepository(gormDB *gorm.DB, logger logger.Interface) tenant.HistoryRepository {
	return &HistoryRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewHistoryMapper(),
		logger: logger,
	}
}

func (r *HistoryRepositoryImpl) Append(ctx context.Context, entry *tenant.HistoryEntry) error {
	model, err := r.mapper.ToModel(entry)
	if err != nil {
		r.logger.Errorw("failed to map history entry to model", "error", err)
		return fmt.Errorf("failed to map history entry: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to append subscription history", "tenant_id", model.TenantID, "error", err)
		return fmt.Errorf("failed to append subscription history: %w", err)
	}

	return nil
}

func (r *HistoryRepositoryImpl) ListByTenantID(ctx context.Context, tenantID uint) ([]*tenant.HistoryEntry, error) {
	var modelList []*models.SubscriptionHistoryModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC, id DESC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list subscription history", "tenant_id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to list subscription history: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}
