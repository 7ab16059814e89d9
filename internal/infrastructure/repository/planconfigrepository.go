package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/mappers"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/models"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/db"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

// PlanConfigRepositoryImpl reads and writes operator plan overrides. It
// implements billing.ConfigSource for the catalog.
type PlanConfigRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PlanConfigMapper
	logger logger.Interface
}

func NewPlanConfigRepository(gormDB *gorm.DB, logger logger.Interface) *PlanConfigRepositoryImpl {
	return &PlanConfigRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewPlanConfigMapper(),
		logger: logger,
	}
}

// GetOverride returns the stored override for a tier, or (nil, nil) when the
// tier has no override row.
func (r *PlanConfigRepositoryImpl) GetOverride(ctx context.Context, tier billing.PlanTier) (*billing.PlanConfig, error) {
	var model models.PlanConfigModel

	if err := db.GetTxFromContext(ctx, r.db).Where("tier = ?", tier.String()).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan config override", "tier", tier, "error", err)
		return nil, fmt.Errorf("failed to get plan config: %w", err)
	}

	return r.mapper.ToConfig(&model)
}

// Save upserts a plan override keyed by tier.
func (r *PlanConfigRepositoryImpl) Save(ctx context.Context, config *billing.PlanConfig) error {
	model, err := r.mapper.ToModel(config)
	if err != nil {
		r.logger.Errorw("failed to map plan config to model", "error", err)
		return fmt.Errorf("failed to map plan config: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tier"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"display_name", "description", "monthly_price", "yearly_price",
				"features", "max_vehicles", "max_users", "max_drivers", "updated_at",
			}),
		}).
		Create(model).Error; err != nil {
		r.logger.Errorw("failed to save plan config override", "tier", model.Tier, "error", err)
		return fmt.Errorf("failed to save plan config: %w", err)
	}

	r.logger.Infow("plan config override saved", "tier", model.Tier)
	return nil
}
