package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/models"
)

type HistoryMapper interface {
	ToEntity(model *models.SubscriptionHistoryModel) (*tenant.HistoryEntry, error)
	ToModel(entity *tenant.HistoryEntry) (*models.SubscriptionHistoryModel, error)
	ToEntities(models []*models.SubscriptionHistoryModel) ([]*tenant.HistoryEntry, error)
}

type HistoryMapperImpl struct{}

func NewHistoryMapper() HistoryMapper {
	return &HistoryMapperImpl{}
}

func (m *HistoryMapperImpl) ToEntity(model *models.SubscriptionHistoryModel) (*tenant.HistoryEntry, error) {
	if model == nil {
		return nil, nil
	}

	var metadata map[string]interface{}
	if model.Metadata != nil {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history metadata: %w", err)
		}
	}

	entity, err := tenant.ReconstructHistoryEntry(
		model.ID,
		model.TenantID,
		tenant.ChangeType(model.ChangeType),
		billing.PlanTier(model.FromPlan),
		billing.PlanTier(model.ToPlan),
		model.ChangedBy,
		metadata,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct history entry: %w", err)
	}

	return entity, nil
}

func (m *HistoryMapperImpl) ToModel(entity *tenant.HistoryEntry) (*models.SubscriptionHistoryModel, error) {
	if entity == nil {
		return nil, nil
	}

	var metadataJSON datatypes.JSON
	if metadata := entity.Metadata(); len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal history metadata: %w", err)
		}
		metadataJSON = data
	}

	return &models.SubscriptionHistoryModel{
		ID:         entity.ID(),
		TenantID:   entity.TenantID(),
		ChangeType: string(entity.ChangeType()),
		FromPlan:   entity.FromPlan().String(),
		ToPlan:     entity.ToPlan().String(),
		ChangedBy:  entity.ChangedBy(),
		Metadata:   metadataJSON,
		CreatedAt:  entity.CreatedAt(),
	}, nil
}

func (m *HistoryMapperImpl) ToEntities(modelList []*models.SubscriptionHistoryModel) ([]*tenant.HistoryEntry, error) {
	entities := make([]*tenant.HistoryEntry, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map history entry %d: %w", model.ID, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
