package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	subusecases "github.com/manyinyire/fleetbackend-sub002/internal/application/subscription/usecases"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/models"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/db"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

// ResourceCounterImpl counts a tenant's live fleet resources for plan-limit
// checks.
type ResourceCounterImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewResourceCounter(gormDB *gorm.DB, logger logger.Interface) subusecases.ResourceCounter {
	return &ResourceCounterImpl{
		db:     gormDB,
		logger: logger,
	}
}

func (r *ResourceCounterImpl) CountResources(ctx context.Context, tenantID uint) (subusecases.ResourceCounts, error) {
	dbh := db.GetTxFromContext(ctx, r.db)

	var vehicles, users, drivers int64

	if err := dbh.Model(&models.VehicleModel{}).Where("tenant_id = ?", tenantID).Count(&vehicles).Error; err != nil {
		r.logger.Errorw("failed to count vehicles", "tenant_id", tenantID, "error", err)
		return subusecases.ResourceCounts{}, fmt.Errorf("failed to count vehicles: %w", err)
	}
	if err := dbh.Model(&models.UserModel{}).Where("tenant_id = ?", tenantID).Count(&users).Error; err != nil {
		r.logger.Errorw("failed to count users", "tenant_id", tenantID, "error", err)
		return subusecases.ResourceCounts{}, fmt.Errorf("failed to count users: %w", err)
	}
	if err := dbh.Model(&models.DriverModel{}).Where("tenant_id = ?", tenantID).Count(&drivers).Error; err != nil {
		r.logger.Errorw("failed to count drivers", "tenant_id", tenantID, "error", err)
		return subusecases.ResourceCounts{}, fmt.Errorf("failed to count drivers: %w", err)
	}

	return subusecases.ResourceCounts{
		Vehicles: int(vehicles),
		Users:    int(users),
		Drivers:  int(drivers),
	}, nil
}
