package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/mappers"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/models"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/db"
	apperrors "github.com/manyinyire/fleetbackend-sub002/internal/shared/errors"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

type TenantRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.TenantMapper
	logger logger.Interface
}

func NewTenantRepository(gormDB *gorm.DB, logger logger.Interface) tenant.Repository {
	return &TenantRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewTenantMapper(),
		logger: logger,
	}
}

func (r *TenantRepositoryImpl) Create(ctx context.Context, entity *tenant.Tenant) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map tenant entity to model", "error", err)
		return fmt.Errorf("failed to map tenant entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create tenant in database", "error", err)
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set tenant ID", "error", err)
		return fmt.Errorf("failed to set tenant ID: %w", err)
	}

	r.logger.Infow("tenant created successfully", "id", model.ID, "sid", model.SID)
	return nil
}

func (r *TenantRepositoryImpl) GetByID(ctx context.Context, tenantID uint) (*tenant.Tenant, error) {
	var model models.TenantModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, tenantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get tenant by ID", "id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map tenant model to entity", "id", tenantID, "error", err)
		return nil, fmt.Errorf("failed to map tenant: %w", err)
	}

	return entity, nil
}

func (r *TenantRepositoryImpl) GetBySID(ctx context.Context, sid string) (*tenant.Tenant, error) {
	var model models.TenantModel

	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get tenant by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map tenant model to entity", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to map tenant: %w", err)
	}

	return entity, nil
}

// Update persists the aggregate guarded by its optimistic lock: the row is
// only written when its stored version matches the version the aggregate was
// loaded at.
func (r *TenantRepositoryImpl) Update(ctx context.Context, entity *tenant.Tenant) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map tenant entity to model", "error", err)
		return fmt.Errorf("failed to map tenant entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.TenantModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"name":               model.Name,
			"plan":               model.Plan,
			"billing_cycle":      model.BillingCycle,
			"status":             model.Status,
			"subscription_start": model.SubscriptionStart,
			"subscription_end":   model.SubscriptionEnd,
			"is_in_trial":        model.IsInTrial,
			"trial_ends_at":      model.TrialEndsAt,
			"auto_renew":         model.AutoRenew,
			"monthly_revenue":    model.MonthlyRevenue,
			"canceled_at":        model.CanceledAt,
			"cancel_reason":      model.CancelReason,
			"version":            model.Version,
			"updated_at":         model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update tenant in database", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update tenant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Warnw("tenant update lost optimistic lock race", "id", model.ID, "version", model.Version)
		return apperrors.NewConflictError("Tenant was modified concurrently, please retry")
	}

	return nil
}

func (r *TenantRepositoryImpl) ListDueForRenewal(ctx context.Context, asOf time.Time) ([]*tenant.Tenant, error) {
	var modelList []*models.TenantModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND auto_renew = ? AND is_in_trial = ? AND subscription_end <= ?",
			tenant.StatusActive.String(), true, false, asOf).
		Order("subscription_end ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list tenants due for renewal", "error", err)
		return nil, fmt.Errorf("failed to list tenants due for renewal: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *TenantRepositoryImpl) ListExpiredTrials(ctx context.Context, asOf time.Time) ([]*tenant.Tenant, error) {
	var modelList []*models.TenantModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("is_in_trial = ? AND trial_ends_at <= ?", true, asOf).
		Order("trial_ends_at ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list expired trials", "error", err)
		return nil, fmt.Errorf("failed to list expired trials: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}
