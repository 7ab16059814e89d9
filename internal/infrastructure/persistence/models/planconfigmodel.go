package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PlanConfigModel is the persistence model for operator overrides of plan
// pricing and limits. Rows are keyed by tier; tiers without a row fall back
// to compiled-in defaults.
type PlanConfigModel struct {
	ID           uint            `gorm:"primarykey"`
	Tier         string          `gorm:"uniqueIndex;not null;size:20"`
	DisplayName  string          `gorm:"not null;size:100"`
	Description  string          `gorm:"size:500"`
	MonthlyPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	YearlyPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Features     datatypes.JSON
	MaxVehicles  int `gorm:"not null"`
	MaxUsers     int `gorm:"not null"`
	MaxDrivers   int `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (PlanConfigModel) TableName() string {
	return "plan_configs"
}
