package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeModel is the persistence model for tenant revenue records.
type IncomeModel struct {
	ID        uint            `gorm:"primarykey"`
	TenantID  uint            `gorm:"not null;index:idx_income_tenant_date,priority:1"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date      time.Time       `gorm:"not null;index:idx_income_tenant_date,priority:2"`
	Source    string          `gorm:"not null;size:100"`
	VehicleID *uint           `gorm:"index:idx_income_vehicle"`
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (IncomeModel) TableName() string {
	return "incomes"
}
