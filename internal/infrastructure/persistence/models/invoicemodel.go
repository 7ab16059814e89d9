package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for billing invoices raised by plan
// changes and renewals.
type InvoiceModel struct {
	ID           uint            `gorm:"primarykey"`
	SID          string          `gorm:"uniqueIndex;not null;size:50"`
	TenantID     uint            `gorm:"not null;index:idx_invoice_tenant"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Plan         string          `gorm:"not null;size:20"`
	BillingCycle string          `gorm:"not null;size:20"`
	PeriodStart  time.Time       `gorm:"not null"`
	PeriodEnd    time.Time       `gorm:"not null"`
	IssuedAt     time.Time       `gorm:"not null"`
	DueDate      time.Time       `gorm:"not null;index:idx_invoice_due"`
	Status       string          `gorm:"not null;size:20;index:idx_invoice_status"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}
