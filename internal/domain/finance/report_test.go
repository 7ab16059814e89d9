package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func income(t *testing.T, amount, source string, date time.Time) *Income {
	inc, err := NewIncome(1, decimal.RequireFromString(amount), date, source, nil, date)
	require.NoError(t, err)
	return inc
}

func expense(t *testing.T, amount, category string, date time.Time, status ExpenseStatus) *Expense {
	exp, err := NewExpense(1, decimal.RequireFromString(amount), date, category, nil, date)
	require.NoError(t, err)
	switch status {
	case ExpenseApproved:
		require.NoError(t, exp.Approve(date))
	case ExpenseRejected:
		require.NoError(t, exp.Reject(date))
	}
	return exp
}

func TestBuildProfitLossReport(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	day := start.Add(12 * time.Hour)

	t.Run("counts only approved expenses", func(t *testing.T) {
		incomes := []*Income{
			income(t, "500.00", "delivery", day),
			income(t, "250.00", "rental", day),
			income(t, "100.00", "delivery", day.AddDate(0, 0, 5)),
		}
		expenses := []*Expense{
			expense(t, "200.00", "fuel", day, ExpenseApproved),
			expense(t, "999.00", "maintenance", day, ExpensePending),
			expense(t, "999.00", "maintenance", day, ExpenseRejected),
			expense(t, "50.00", "fuel", day, ExpenseApproved),
		}

		report := BuildProfitLossReport(start, end, incomes, expenses)

		assert.True(t, report.TotalIncome.Equal(decimal.RequireFromString("850.00")))
		assert.True(t, report.TotalExpenses.Equal(decimal.RequireFromString("250.00")))
		assert.True(t, report.NetProfit.Equal(decimal.RequireFromString("600.00")))
		assert.True(t, report.IncomeBySource["delivery"].Equal(decimal.RequireFromString("600.00")))
		assert.True(t, report.IncomeBySource["rental"].Equal(decimal.RequireFromString("250.00")))
		assert.True(t, report.ExpensesByCategory["fuel"].Equal(decimal.RequireFromString("250.00")))
		_, ok := report.ExpensesByCategory["maintenance"]
		assert.False(t, ok)

		// 600/850 = 70.588... -> 70.59%
		assert.True(t, report.ProfitMargin.Equal(decimal.RequireFromString("70.59")), "margin = %s", report.ProfitMargin)
	})

	t.Run("margin is zero when income is zero", func(t *testing.T) {
		expenses := []*Expense{expense(t, "100.00", "fuel", day, ExpenseApproved)}

		report := BuildProfitLossReport(start, end, nil, expenses)

		assert.True(t, report.TotalIncome.IsZero())
		assert.True(t, report.NetProfit.Equal(decimal.RequireFromString("-100.00")))
		assert.True(t, report.ProfitMargin.IsZero())
	})

	t.Run("empty range yields an all-zero report", func(t *testing.T) {
		report := BuildProfitLossReport(start, end, nil, nil)

		assert.True(t, report.TotalIncome.IsZero())
		assert.True(t, report.TotalExpenses.IsZero())
		assert.True(t, report.NetProfit.IsZero())
		assert.Empty(t, report.IncomeBySource)
	})
}

func TestBuildCashFlowReport(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

	t.Run("buckets by calendar day and runs the balance", func(t *testing.T) {
		incomes := []*Income{
			income(t, "100.00", "delivery", time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
			income(t, "50.00", "delivery", time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)),
			income(t, "200.00", "rental", time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)),
		}
		// Pending expenses still move cash.
		expenses := []*Expense{
			expense(t, "40.00", "fuel", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), ExpensePending),
			expense(t, "60.00", "fuel", time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC), ExpenseApproved),
		}

		report := BuildCashFlowReport(start, end, decimal.RequireFromString("1000.00"), incomes, expenses)

		assert.True(t, report.TotalIncome.Equal(decimal.RequireFromString("350.00")))
		assert.True(t, report.TotalExpenses.Equal(decimal.RequireFromString("100.00")))
		assert.True(t, report.ClosingBalance.Equal(decimal.RequireFromString("1250.00")))

		require.Len(t, report.Days, 3)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), report.Days[0].Date)
		assert.True(t, report.Days[0].Income.Equal(decimal.RequireFromString("150.00")))
		assert.True(t, report.Days[0].Expenses.Equal(decimal.RequireFromString("40.00")))
		assert.True(t, report.Days[0].Net.Equal(decimal.RequireFromString("110.00")))

		assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), report.Days[1].Date)
		assert.True(t, report.Days[1].Net.Equal(decimal.RequireFromString("200.00")))

		assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), report.Days[2].Date)
		assert.True(t, report.Days[2].Net.Equal(decimal.RequireFromString("-60.00")))
	})

	t.Run("no activity keeps the opening balance", func(t *testing.T) {
		report := BuildCashFlowReport(start, end, decimal.RequireFromString("500.00"), nil, nil)

		assert.True(t, report.ClosingBalance.Equal(decimal.RequireFromString("500.00")))
		assert.Empty(t, report.Days)
	})
}

func TestBuildVehicleProfitabilityReport(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	day := start.Add(6 * time.Hour)

	incomes := []*Income{
		income(t, "400.00", "delivery", day),
	}
	expenses := []*Expense{
		expense(t, "150.00", "fuel", day, ExpenseApproved),
		expense(t, "500.00", "maintenance", day, ExpensePending),
	}

	report := BuildVehicleProfitabilityReport(7, start, end, incomes, expenses)

	assert.Equal(t, uint(7), report.VehicleID)
	assert.True(t, report.TotalIncome.Equal(decimal.RequireFromString("400.00")))
	assert.True(t, report.TotalExpenses.Equal(decimal.RequireFromString("150.00")))
	assert.True(t, report.NetProfit.Equal(decimal.RequireFromString("250.00")))
	assert.True(t, report.ProfitMargin.Equal(decimal.RequireFromString("62.50")), "margin = %s", report.ProfitMargin)
}

func TestBuildFinancialSummary(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	day := start.Add(6 * time.Hour)

	incomes := []*Income{income(t, "300.00", "delivery", day)}
	expenses := []*Expense{
		expense(t, "100.00", "fuel", day, ExpenseApproved),
		expense(t, "25.00", "parking", day, ExpensePending),
		expense(t, "75.00", "repairs", day, ExpensePending),
		expense(t, "999.00", "misc", day, ExpenseRejected),
	}

	summary := BuildFinancialSummary(start, end, incomes, expenses)

	require.NotNil(t, summary.ProfitLoss)
	assert.True(t, summary.ProfitLoss.TotalExpenses.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, 2, summary.PendingExpenseCount)
	assert.True(t, summary.PendingExpenseTotal.Equal(decimal.RequireFromString("100.00")))
}
