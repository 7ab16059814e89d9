package mappers

import (
	"fmt"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/finance"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/models"
)

type IncomeMapper interface {
	ToEntity(model *models.IncomeModel) (*finance.Income, error)
	ToModel(entity *finance.Income) (*models.IncomeModel, error)
	ToEntities(models []*models.IncomeModel) ([]*finance.Income, error)
}

type IncomeMapperImpl struct{}

func NewIncomeMapper() IncomeMapper {
	return &IncomeMapperImpl{}
}

func (m *IncomeMapperImpl) ToEntity(model *models.IncomeModel) (*finance.Income, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := finance.ReconstructIncome(
		model.ID,
		model.TenantID,
		model.Amount,
		model.Date,
		model.Source,
		model.VehicleID,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct income entity: %w", err)
	}

	return entity, nil
}

func (m *IncomeMapperImpl) ToModel(entity *finance.Income) (*models.IncomeModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.IncomeModel{
		ID:        entity.ID(),
		TenantID:  entity.TenantID(),
		Amount:    entity.Amount(),
		Date:      entity.Date(),
		Source:    entity.Source(),
		VehicleID: entity.VehicleID(),
		CreatedAt: entity.CreatedAt(),
	}, nil
}

func (m *IncomeMapperImpl) ToEntities(modelList []*models.IncomeModel) ([]*finance.Income, error) {
	entities := make([]*finance.Income, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map income %d: %w", model.ID, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
