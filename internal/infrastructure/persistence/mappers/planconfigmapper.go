package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/models"
)

type PlanConfigMapper interface {
	ToConfig(model *models.PlanConfigModel) (*billing.PlanConfig, error)
	ToModel(config *billing.PlanConfig) (*models.PlanConfigModel, error)
}

type PlanConfigMapperImpl struct{}

func NewPlanConfigMapper() PlanConfigMapper {
	return &PlanConfigMapperImpl{}
}

func (m *PlanConfigMapperImpl) ToConfig(model *models.PlanConfigModel) (*billing.PlanConfig, error) {
	if model == nil {
		return nil, nil
	}

	tier, err := billing.ParsePlanTier(model.Tier)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan tier: %w", err)
	}

	var features []string
	if model.Features != nil {
		if err := json.Unmarshal(model.Features, &features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan features: %w", err)
		}
	}

	return &billing.PlanConfig{
		Tier:         tier,
		DisplayName:  model.DisplayName,
		Description:  model.Description,
		MonthlyPrice: model.MonthlyPrice,
		YearlyPrice:  model.YearlyPrice,
		Features:     features,
		Limits: billing.PlanLimits{
			MaxVehicles: model.MaxVehicles,
			MaxUsers:    model.MaxUsers,
			MaxDrivers:  model.MaxDrivers,
		},
	}, nil
}

func (m *PlanConfigMapperImpl) ToModel(config *billing.PlanConfig) (*models.PlanConfigModel, error) {
	if config == nil {
		return nil, nil
	}

	var featuresJSON datatypes.JSON
	if len(config.Features) > 0 {
		data, err := json.Marshal(config.Features)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal plan features: %w", err)
		}
		featuresJSON = data
	}

	return &models.PlanConfigModel{
		Tier:         config.Tier.String(),
		DisplayName:  config.DisplayName,
		Description:  config.Description,
		MonthlyPrice: config.MonthlyPrice,
		YearlyPrice:  config.YearlyPrice,
		Features:     featuresJSON,
		MaxVehicles:  config.Limits.MaxVehicles,
		MaxUsers:     config.Limits.MaxUsers,
		MaxDrivers:   config.Limits.MaxDrivers,
	}, nil
}
