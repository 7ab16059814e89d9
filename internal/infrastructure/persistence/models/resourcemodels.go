package models

import (
	"time"

	"gorm.io/gorm"
)

// VehicleModel is the minimal fleet vehicle record the billing engine needs
// for plan-limit checks.
type VehicleModel struct {
	ID           uint   `gorm:"primarykey"`
	TenantID     uint   `gorm:"not null;index:idx_vehicle_tenant"`
	Registration string `gorm:"not null;size:50"`
	Make         string `gorm:"size:100"`
	Model        string `gorm:"size:100"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (VehicleModel) TableName() string {
	return "vehicles"
}

// UserModel is the minimal tenant user record the billing engine needs for
// plan-limit checks.
type UserModel struct {
	ID        uint   `gorm:"primarykey"`
	TenantID  uint   `gorm:"not null;index:idx_user_tenant"`
	Email     string `gorm:"not null;size:255"`
	Name      string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// DriverModel is the minimal driver record the billing engine needs for
// plan-limit checks.
type DriverModel struct {
	ID        uint   `gorm:"primarykey"`
	TenantID  uint   `gorm:"not null;index:idx_driver_tenant"`
	Name      string `gorm:"not null;size:255"`
	LicenseNo string `gorm:"size:50"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (DriverModel) TableName() string {
	return "drivers"
}
