package mappers

import (
	"fmt"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/finance"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/models"
)

type ExpenseMapper interface {
	ToEntity(model *models.ExpenseModel) (*finance.Expense, error)
	ToModel(entity *finance.Expense) (*models.ExpenseModel, error)
	ToEntities(models []*models.ExpenseModel) ([]*finance.Expense, error)
}

type ExpenseMapperImpl struct{}

func NewExpenseMapper() ExpenseMapper {
	return &ExpenseMapperImpl{}
}

func (m *ExpenseMapperImpl) ToEntity(model *models.ExpenseModel) (*finance.Expense, error) {
	if model == nil {
		return nil, nil
	}

	status, err := finance.ParseExpenseStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expense status: %w", err)
	}

	entity, err := finance.ReconstructExpense(
		model.ID,
		model.TenantID,
		model.Amount,
		model.Date,
		model.Category,
		status,
		model.VehicleID,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct expense entity: %w", err)
	}

	return entity, nil
}

func (m *ExpenseMapperImpl) ToModel(entity *finance.Expense) (*models.ExpenseModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.ExpenseModel{
		ID:        entity.ID(),
		TenantID:  entity.TenantID(),
		Amount:    entity.Amount(),
		Date:      entity.Date(),
		Category:  entity.Category(),
		Status:    string(entity.Status()),
		VehicleID: entity.VehicleID(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}, nil
}

func (m *ExpenseMapperImpl) ToEntities(modelList []*models.ExpenseModel) ([]*finance.Expense, error) {
	entities := make([]*finance.Expense, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map expense %d: %w", model.ID, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
