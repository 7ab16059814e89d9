package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubscriptionHistoryModel is the persistence model for the append-only
// subscription audit trail.
type SubscriptionHistoryModel struct {
	ID         uint   `gorm:"primarykey"`
	TenantID   uint   `gorm:"not null;index:idx_tenant_history"`
	ChangeType string `gorm:"not null;size:30;index:idx_change_type"`
	FromPlan   string `gorm:"not null;size:20"`
	ToPlan     string `gorm:"not null;size:20"`
	ChangedBy  string `gorm:"not null;size:100"`
	Metadata   datatypes.JSON
	CreatedAt  time.Time `gorm:"index:idx_history_created"`
}

// TableName specifies the table name for GORM
func (SubscriptionHistoryModel) TableName() string {
	return "subscription_history"
}
