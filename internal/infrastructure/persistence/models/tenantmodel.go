package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TenantModel is the persistence model for tenant subscription state. It is
// the anti-corruption layer between the tenant aggregate and the database.
type TenantModel struct {
	ID                uint            `gorm:"primarykey"`
	SID               string          `gorm:"uniqueIndex;not null;size:50"`
	Name              string          `gorm:"not null;size:255"`
	Plan              string          `gorm:"not null;size:20;index:idx_plan"`
	BillingCycle      string          `gorm:"not null;size:20"`
	Status            string          `gorm:"not null;size:20;index:idx_status"`
	SubscriptionStart time.Time       `gorm:"not null"`
	SubscriptionEnd   time.Time       `gorm:"not null;index:idx_subscription_end"`
	IsInTrial         bool            `gorm:"not null;default:false;index:idx_in_trial"`
	TrialEndsAt       *time.Time
	AutoRenew         bool            `gorm:"not null;default:false"`
	MonthlyRevenue    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CanceledAt        *time.Time
	CancelReason      *string `gorm:"size:500"`
	Version           int     `gorm:"not null;default:1"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// BeforeCreate hook for GORM
func (t *TenantModel) BeforeCreate(tx *gorm.DB) error {
	if t.Version == 0 {
		t.Version = 1
	}
	return nil
}
