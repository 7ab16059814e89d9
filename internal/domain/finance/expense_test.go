package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var financeNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func mustExpense(t *testing.T, amount string) *Expense {
	exp, err := NewExpense(1, decimal.RequireFromString(amount), financeNow, "fuel", nil, financeNow)
	require.NoError(t, err)
	return exp
}

func TestNewExpense(t *testing.T) {
	t.Run("starts pending", func(t *testing.T) {
		vehicleID := uint(7)
		exp, err := NewExpense(1, decimal.RequireFromString("45.50"), financeNow, "maintenance", &vehicleID, financeNow)
		require.NoError(t, err)

		assert.Equal(t, ExpensePending, exp.Status())
		assert.False(t, exp.IsApproved())
		assert.Equal(t, "maintenance", exp.Category())
		require.NotNil(t, exp.VehicleID())
		assert.Equal(t, uint(7), *exp.VehicleID())
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := NewExpense(1, decimal.Zero, financeNow, "fuel", nil, financeNow)
		assert.ErrorIs(t, err, ErrNonPositiveAmount)

		_, err = NewExpense(1, decimal.RequireFromString("-10"), financeNow, "fuel", nil, financeNow)
		assert.ErrorIs(t, err, ErrNonPositiveAmount)
	})

	t.Run("rejects missing category", func(t *testing.T) {
		_, err := NewExpense(1, decimal.RequireFromString("10"), financeNow, "", nil, financeNow)
		assert.Error(t, err)
	})
}

func TestExpense_ApprovalWorkflow(t *testing.T) {
	t.Run("approve a pending expense", func(t *testing.T) {
		exp := mustExpense(t, "45.50")

		require.NoError(t, exp.Approve(financeNow.Add(time.Hour)))
		assert.Equal(t, ExpenseApproved, exp.Status())
		assert.True(t, exp.IsApproved())
	})

	t.Run("reject a pending expense", func(t *testing.T) {
		exp := mustExpense(t, "45.50")

		require.NoError(t, exp.Reject(financeNow.Add(time.Hour)))
		assert.Equal(t, ExpenseRejected, exp.Status())
		assert.False(t, exp.IsApproved())
	})

	t.Run("decisions are final", func(t *testing.T) {
		approved := mustExpense(t, "10")
		require.NoError(t, approved.Approve(financeNow))
		assert.ErrorIs(t, approved.Approve(financeNow), ErrExpenseNotPending)
		assert.ErrorIs(t, approved.Reject(financeNow), ErrExpenseNotPending)

		rejected := mustExpense(t, "10")
		require.NoError(t, rejected.Reject(financeNow))
		assert.ErrorIs(t, rejected.Approve(financeNow), ErrExpenseNotPending)
	})
}

func TestNewIncome(t *testing.T) {
	t.Run("creates a valid record", func(t *testing.T) {
		inc, err := NewIncome(1, decimal.RequireFromString("120.00"), financeNow, "delivery", nil, financeNow)
		require.NoError(t, err)
		assert.Equal(t, "delivery", inc.Source())
		assert.True(t, inc.Amount().Equal(decimal.RequireFromString("120.00")))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := NewIncome(1, decimal.Zero, financeNow, "delivery", nil, financeNow)
		assert.ErrorIs(t, err, ErrNonPositiveAmount)
	})

	t.Run("rejects missing source", func(t *testing.T) {
		_, err := NewIncome(1, decimal.RequireFromString("10"), financeNow, "", nil, financeNow)
		assert.Error(t, err)
	})
}

func TestParseExpenseStatus(t *testing.T) {
	status, err := ParseExpenseStatus(" Approved ")
	require.NoError(t, err)
	assert.Equal(t, ExpenseApproved, status)

	_, err = ParseExpenseStatus("settled")
	assert.Error(t, err)
}
