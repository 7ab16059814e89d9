package migration

import (
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.TenantModel{},
		&models.SubscriptionHistoryModel{},
		&models.PlanConfigModel{},
		&models.InvoiceModel{},
		&models.IncomeModel{},
		&models.ExpenseModel{},
		&models.VehicleModel{},
		&models.UserModel{},
		&models.DriverModel{},
	}
}
