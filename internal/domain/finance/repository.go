package finance

import (
	"context"
	"time"
)

// IncomeRepository persists income records. Range queries are inclusive of
// both bounds.
type IncomeRepository interface {
	Create(ctx context.Context, income *Income) error
	ListByTenantAndRange(ctx context.Context, tenantID uint, start, end time.Time) ([]*Income, error)
	ListByVehicleAndRange(ctx context.Context, tenantID, vehicleID uint, start, end time.Time) ([]*Income, error)
}

// ExpenseRepository persists expense records and their approval state.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) error
	GetByID(ctx context.Context, expenseID uint) (*Expense, error)
	Update(ctx context.Context, expense *Expense) error
	ListByTenantAndRange(ctx context.Context, tenantID uint, start, end time.Time) ([]*Expense, error)
	ListByVehicleAndRange(ctx context.Context, tenantID, vehicleID uint, start, end time.Time) ([]*Expense, error)
}
