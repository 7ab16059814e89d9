package mappers

import (
	"fmt"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/models"
)

type TenantMapper interface {
	ToEntity(model *models.TenantModel) (*tenant.Tenant, error)
	ToModel(entity *tenant.Tenant) (*models.TenantModel, error)
	ToEntities(models []*models.TenantModel) ([]*tenant.Tenant, error)
}

type TenantMapperImpl struct{}

func NewTenantMapper() TenantMapper {
	return &TenantMapperImpl{}
}

func (m *TenantMapperImpl) ToEntity(model *models.TenantModel) (*tenant.Tenant, error) {
	if model == nil {
		return nil, nil
	}

	plan, err := billing.ParsePlanTier(model.Plan)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan tier: %w", err)
	}

	cycle, err := billing.ParseBillingCycle(model.BillingCycle)
	if err != nil {
		return nil, fmt.Errorf("failed to parse billing cycle: %w", err)
	}

	entity, err := tenant.Reconstruct(tenant.ReconstructParams{
		ID:                model.ID,
		SID:               model.SID,
		Name:              model.Name,
		Plan:              plan,
		BillingCycle:      cycle,
		Status:            tenant.Status(model.Status),
		SubscriptionStart: model.SubscriptionStart,
		SubscriptionEnd:   model.SubscriptionEnd,
		IsInTrial:         model.IsInTrial,
		TrialEndsAt:       model.TrialEndsAt,
		AutoRenew:         model.AutoRenew,
		MonthlyRevenue:    model.MonthlyRevenue,
		CanceledAt:        model.CanceledAt,
		CancelReason:      model.CancelReason,
		Version:           model.Version,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct tenant entity: %w", err)
	}

	return entity, nil
}

func (m *TenantMapperImpl) ToModel(entity *tenant.Tenant) (*models.TenantModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.TenantModel{
		ID:                entity.ID(),
		SID:               entity.SID(),
		Name:              entity.Name(),
		Plan:              entity.Plan().String(),
		BillingCycle:      entity.BillingCycle().String(),
		Status:            entity.Status().String(),
		SubscriptionStart: entity.SubscriptionStart(),
		SubscriptionEnd:   entity.SubscriptionEnd(),
		IsInTrial:         entity.IsInTrial(),
		TrialEndsAt:       entity.TrialEndsAt(),
		AutoRenew:         entity.AutoRenew(),
		MonthlyRevenue:    entity.MonthlyRevenue(),
		CanceledAt:        entity.CanceledAt(),
		CancelReason:      entity.CancelReason(),
		Version:           entity.Version(),
		CreatedAt:         entity.CreatedAt(),
		UpdatedAt:         entity.UpdatedAt(),
	}, nil
}

func (m *TenantMapperImpl) ToEntities(modelList []*models.TenantModel) ([]*tenant.Tenant, error) {
	entities := make([]*tenant.Tenant, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map tenant %d: %w", model.ID, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
