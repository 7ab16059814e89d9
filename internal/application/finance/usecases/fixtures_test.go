package usecases

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/finance"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeIncomeRepo struct {
	incomes []*finance.Income
	nextID  uint
	fail    error
}

func (r *fakeIncomeRepo) Create(ctx context.Context, income *finance.Income) error {
	if r.fail != nil {
		return r.fail
	}
	r.nextID++
	if err := income.SetID(r.nextID); err != nil {
		return err
	}
	r.incomes = append(r.incomes, income)
	return nil
}

func (r *fakeIncomeRepo) ListByTenantAndRange(ctx context.Context, tenantID uint, start, end time.Time) ([]*finance.Income, error) {
	var matched []*finance.Income
	for _, inc := range r.incomes {
		if inc.TenantID() == tenantID && !inc.Date().Before(start) && !inc.Date().After(end) {
			matched = append(matched, inc)
		}
	}
	return matched, nil
}

func (r *fakeIncomeRepo) ListByVehicleAndRange(ctx context.Context, tenantID, vehicleID uint, start, end time.Time) ([]*finance.Income, error) {
	var matched []*finance.Income
	for _, inc := range r.incomes {
		if inc.TenantID() != tenantID || inc.VehicleID() == nil || *inc.VehicleID() != vehicleID {
			continue
		}
		if !inc.Date().Before(start) && !inc.Date().After(end) {
			matched = append(matched, inc)
		}
	}
	return matched, nil
}

type fakeExpenseRepo struct {
	expenses []*finance.Expense
	nextID   uint
	fail     error
}

func (r *fakeExpenseRepo) Create(ctx context.Context, expense *finance.Expense) error {
	if r.fail != nil {
		return r.fail
	}
	r.nextID++
	if err := expense.SetID(r.nextID); err != nil {
		return err
	}
	r.expenses = append(r.expenses, expense)
	return nil
}

func (r *fakeExpenseRepo) GetByID(ctx context.Context, expenseID uint) (*finance.Expense, error) {
	for _, exp := range r.expenses {
		if exp.ID() == expenseID {
			return exp, nil
		}
	}
	return nil, nil
}

func (r *fakeExpenseRepo) Update(ctx context.Context, expense *finance.Expense) error {
	for i, exp := range r.expenses {
		if exp.ID() == expense.ID() {
			r.expenses[i] = expense
			return nil
		}
	}
	return nil
}

func (r *fakeExpenseRepo) ListByTenantAndRange(ctx context.Context, tenantID uint, start, end time.Time) ([]*finance.Expense, error) {
	var matched []*finance.Expense
	for _, exp := range r.expenses {
		if exp.TenantID() == tenantID && !exp.Date().Before(start) && !exp.Date().After(end) {
			matched = append(matched, exp)
		}
	}
	return matched, nil
}

func (r *fakeExpenseRepo) ListByVehicleAndRange(ctx context.Context, tenantID, vehicleID uint, start, end time.Time) ([]*finance.Expense, error) {
	var matched []*finance.Expense
	for _, exp := range r.expenses {
		if exp.TenantID() != tenantID || exp.VehicleID() == nil || *exp.VehicleID() != vehicleID {
			continue
		}
		if !exp.Date().Before(start) && !exp.Date().After(end) {
			matched = append(matched, exp)
		}
	}
	return matched, nil
}

func seedIncome(t *testing.T, repo *fakeIncomeRepo, amount string, date time.Time, source string, vehicleID *uint) {
	inc, err := finance.NewIncome(1, decimal.RequireFromString(amount), date, source, vehicleID, date)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), inc))
}

func seedExpense(t *testing.T, repo *fakeExpenseRepo, amount string, date time.Time, category string, vehicleID *uint, status finance.ExpenseStatus) *finance.Expense {
	exp, err := finance.NewExpense(1, decimal.RequireFromString(amount), date, category, vehicleID, date)
	require.NoError(t, err)
	switch status {
	case finance.ExpenseApproved:
		require.NoError(t, exp.Approve(date))
	case finance.ExpenseRejected:
		require.NoError(t, exp.Reject(date))
	}
	require.NoError(t, repo.Create(context.Background(), exp))
	return exp
}
