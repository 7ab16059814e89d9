package tenant

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestTenant(t *testing.T) *Tenant {
	tn, err := NewTenant("Acme Logistics", testNow)
	require.NoError(t, err)
	require.NoError(t, tn.SetID(1))
	return tn
}

func TestNewTenant(t *testing.T) {
	tn, err := NewTenant("Acme Logistics", testNow)
	require.NoError(t, err)

	assert.NotEmpty(t, tn.SID())
	assert.Equal(t, billing.TierFree, tn.Plan())
	assert.Equal(t, billing.CycleMonthly, tn.BillingCycle())
	assert.Equal(t, StatusActive, tn.Status())
	assert.Equal(t, testNow, tn.SubscriptionStart())
	assert.Equal(t, testNow.AddDate(0, 1, 0), tn.SubscriptionEnd())
	assert.False(t, tn.IsInTrial())
	assert.False(t, tn.AutoRenew())
	assert.Equal(t, 1, tn.Version())

	_, err = NewTenant("", testNow)
	assert.Error(t, err)
}

func TestTenant_StartTrial(t *testing.T) {
	t.Run("starts a trial and moves the window", func(t *testing.T) {
		tn := newTestTenant(t)

		err := tn.StartTrial(testNow, 30)
		require.NoError(t, err)

		assert.True(t, tn.IsInTrial())
		require.NotNil(t, tn.TrialEndsAt())
		assert.Equal(t, testNow.AddDate(0, 0, 30), *tn.TrialEndsAt())
		assert.Equal(t, testNow.AddDate(0, 0, 30), tn.SubscriptionEnd())
		assert.Equal(t, billing.TierFree, tn.Plan())
		assert.Equal(t, 2, tn.Version())
	})

	t.Run("rejects a second trial", func(t *testing.T) {
		tn := newTestTenant(t)
		require.NoError(t, tn.StartTrial(testNow, 30))

		err := tn.StartTrial(testNow.AddDate(0, 0, 1), 30)
		assert.ErrorIs(t, err, ErrAlreadyInTrial)
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		tn := newTestTenant(t)
		assert.Error(t, tn.StartTrial(testNow, 0))
		assert.Error(t, tn.StartTrial(testNow, -7))
	})
}

func TestTenant_EndTrial(t *testing.T) {
	t.Run("converts to the given plan", func(t *testing.T) {
		tn := newTestTenant(t)
		require.NoError(t, tn.StartTrial(testNow, 30))

		err := tn.EndTrial(billing.TierBasic, testNow.AddDate(0, 0, 10))
		require.NoError(t, err)

		assert.False(t, tn.IsInTrial())
		assert.Nil(t, tn.TrialEndsAt())
		assert.Equal(t, billing.TierBasic, tn.Plan())
	})

	t.Run("rejects when not in trial", func(t *testing.T) {
		tn := newTestTenant(t)
		assert.ErrorIs(t, tn.EndTrial(billing.TierBasic, testNow), ErrNotInTrial)
	})
}

func TestTenant_ChangePlan(t *testing.T) {
	t.Run("changes plan and cycle", func(t *testing.T) {
		tn := newTestTenant(t)

		err := tn.ChangePlan(billing.TierPremium, billing.CycleYearly, testNow)
		require.NoError(t, err)

		assert.Equal(t, billing.TierPremium, tn.Plan())
		assert.Equal(t, billing.CycleYearly, tn.BillingCycle())
		assert.Equal(t, 2, tn.Version())
	})

	t.Run("cycle-only change is allowed", func(t *testing.T) {
		tn := newTestTenant(t)

		err := tn.ChangePlan(billing.TierFree, billing.CycleYearly, testNow)
		require.NoError(t, err)
		assert.Equal(t, billing.CycleYearly, tn.BillingCycle())
	})

	t.Run("no-op change is rejected", func(t *testing.T) {
		tn := newTestTenant(t)
		err := tn.ChangePlan(billing.TierFree, billing.CycleMonthly, testNow)
		assert.ErrorIs(t, err, ErrSamePlanAndCycle)
	})
}

func TestTenant_Cancel(t *testing.T) {
	t.Run("end-of-period cancellation only disables auto-renew", func(t *testing.T) {
		tn := newTestTenant(t)
		require.NoError(t, tn.ChangePlan(billing.TierBasic, billing.CycleMonthly, testNow))

		err := tn.Cancel("too expensive", false, testNow)
		require.NoError(t, err)

		assert.Equal(t, StatusActive, tn.Status())
		assert.Equal(t, billing.TierBasic, tn.Plan())
		assert.False(t, tn.AutoRenew())
		assert.Nil(t, tn.CanceledAt())
		require.NotNil(t, tn.CancelReason())
		assert.Equal(t, "too expensive", *tn.CancelReason())
	})

	t.Run("immediate cancellation drops to free now", func(t *testing.T) {
		tn := newTestTenant(t)
		require.NoError(t, tn.ChangePlan(billing.TierPremium, billing.CycleMonthly, testNow))

		err := tn.Cancel("", true, testNow)
		require.NoError(t, err)

		assert.Equal(t, StatusCanceled, tn.Status())
		assert.Equal(t, billing.TierFree, tn.Plan())
		require.NotNil(t, tn.CanceledAt())
		assert.Equal(t, testNow, *tn.CanceledAt())
		assert.Nil(t, tn.CancelReason())
	})

	t.Run("canceling a canceled subscription is rejected", func(t *testing.T) {
		tn := newTestTenant(t)
		require.NoError(t, tn.Cancel("", true, testNow))

		err := tn.Cancel("", true, testNow)
		assert.ErrorIs(t, err, ErrCancelNotAllowed)
	})
}

func TestTenant_Reactivate(t *testing.T) {
	t.Run("restores a canceled subscription", func(t *testing.T) {
		tn := newTestTenant(t)
		require.NoError(t, tn.Cancel("churn", true, testNow))

		later := testNow.AddDate(0, 2, 0)
		price := decimal.RequireFromString("29.99")

		err := tn.Reactivate(billing.TierBasic, price, later)
		require.NoError(t, err)

		assert.Equal(t, StatusActive, tn.Status())
		assert.Equal(t, billing.TierBasic, tn.Plan())
		assert.True(t, tn.AutoRenew())
		assert.Nil(t, tn.CanceledAt())
		assert.Nil(t, tn.CancelReason())
		assert.True(t, tn.MonthlyRevenue().Equal(price))
		assert.Equal(t, later, tn.SubscriptionStart())
		assert.Equal(t, later.AddDate(0, 1, 0), tn.SubscriptionEnd())
	})

	t.Run("rejects when not canceled", func(t *testing.T) {
		tn := newTestTenant(t)
		err := tn.Reactivate(billing.TierBasic, decimal.Zero, testNow)
		assert.ErrorIs(t, err, ErrNotCanceled)
	})
}

func TestTenant_Renew(t *testing.T) {
	t.Run("advances the window by one cycle", func(t *testing.T) {
		tn := newTestTenant(t)
		require.NoError(t, tn.Cancel("", true, testNow))
		require.NoError(t, tn.Reactivate(billing.TierBasic, decimal.Zero, testNow))

		oldEnd := tn.SubscriptionEnd()
		err := tn.Renew(oldEnd)
		require.NoError(t, err)

		assert.Equal(t, oldEnd, tn.SubscriptionStart())
		assert.Equal(t, oldEnd.AddDate(0, 1, 0), tn.SubscriptionEnd())
	})

	t.Run("rejects when auto-renew is off", func(t *testing.T) {
		tn := newTestTenant(t)
		err := tn.Renew(testNow)
		assert.ErrorIs(t, err, ErrAutoRenewDisabled)
	})
}

func TestReconstruct(t *testing.T) {
	t.Run("round-trips persisted state", func(t *testing.T) {
		reason := "churn"
		canceledAt := testNow.AddDate(0, 0, -1)

		tn, err := Reconstruct(ReconstructParams{
			ID:                42,
			SID:               "tn_abc123",
			Name:              "Acme Logistics",
			Plan:              billing.TierPremium,
			BillingCycle:      billing.CycleYearly,
			Status:            StatusCanceled,
			SubscriptionStart: testNow.AddDate(-1, 0, 0),
			SubscriptionEnd:   testNow,
			AutoRenew:         false,
			MonthlyRevenue:    decimal.RequireFromString("99.99"),
			CanceledAt:        &canceledAt,
			CancelReason:      &reason,
			Version:           7,
			CreatedAt:         testNow.AddDate(-1, 0, 0),
			UpdatedAt:         canceledAt,
		})
		require.NoError(t, err)

		assert.Equal(t, uint(42), tn.ID())
		assert.Equal(t, StatusCanceled, tn.Status())
		assert.Equal(t, 7, tn.Version())
	})

	t.Run("suspended status round-trips", func(t *testing.T) {
		tn, err := Reconstruct(ReconstructParams{
			ID:                1,
			SID:               "tn_x",
			Name:              "n",
			Plan:              billing.TierBasic,
			BillingCycle:      billing.CycleMonthly,
			Status:            StatusSuspended,
			SubscriptionStart: testNow,
			SubscriptionEnd:   testNow.AddDate(0, 1, 0),
			MonthlyRevenue:    decimal.Zero,
			Version:           1,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusSuspended, tn.Status())
	})

	t.Run("rejects invalid state", func(t *testing.T) {
		_, err := Reconstruct(ReconstructParams{ID: 0})
		assert.Error(t, err)

		_, err = Reconstruct(ReconstructParams{ID: 1, Plan: "enterprise"})
		assert.Error(t, err)
	})
}
