package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseModel is the persistence model for tenant cost records and their
// approval state.
type ExpenseModel struct {
	ID        uint            `gorm:"primarykey"`
	TenantID  uint            `gorm:"not null;index:idx_expense_tenant_date,priority:1"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date      time.Time       `gorm:"not null;index:idx_expense_tenant_date,priority:2"`
	Category  string          `gorm:"not null;size:100"`
	Status    string          `gorm:"not null;size:20;index:idx_expense_status"`
	VehicleID *uint           `gorm:"index:idx_expense_vehicle"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}
