package usecases

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/clock"
	apperrors "github.com/manyinyire/fleetbackend-sub002/internal/shared/errors"
)

func TestCancelSubscriptionUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	newFixture := func(tn *tenant.Tenant) (*CancelSubscriptionUseCase, *fakeTenantRepo, *fakeHistoryRepo) {
		tenants := newFakeTenantRepo(tn)
		history := &fakeHistoryRepo{}
		uc := NewCancelSubscriptionUseCase(tenants, history, fakeTxManager{}, clock.Fixed(testNow), testLogger())
		return uc, tenants, history
	}

	t.Run("immediate cancellation drops the plan", func(t *testing.T) {
		uc, tenants, history := newFixture(seedTenant(t, billing.TierPremium))

		err := uc.Execute(ctx, CancelSubscriptionCommand{
			TenantID:  1,
			Immediate: true,
			Reason:    "switching providers",
			ActorID:   "admin@acme.test",
		})
		require.NoError(t, err)

		tn := tenants.tenants[1]
		assert.Equal(t, tenant.StatusCanceled, tn.Status())
		assert.Equal(t, billing.TierFree, tn.Plan())

		entry := history.last(t)
		assert.Equal(t, tenant.ChangeCancellation, entry.ChangeType())
		assert.Equal(t, billing.TierPremium, entry.FromPlan())
		assert.Equal(t, billing.TierFree, entry.ToPlan())
		assert.Equal(t, true, entry.Metadata()["immediate"])
		assert.Equal(t, "switching providers", entry.Metadata()["reason"])
	})

	t.Run("end-of-period cancellation keeps the plan until renewal", func(t *testing.T) {
		uc, tenants, history := newFixture(seedTenant(t, billing.TierPremium))

		err := uc.Execute(ctx, CancelSubscriptionCommand{TenantID: 1})
		require.NoError(t, err)

		tn := tenants.tenants[1]
		assert.Equal(t, tenant.StatusActive, tn.Status())
		assert.Equal(t, billing.TierPremium, tn.Plan())
		assert.False(t, tn.AutoRenew())

		entry := history.last(t)
		assert.Equal(t, billing.TierPremium, entry.ToPlan())
		assert.Equal(t, false, entry.Metadata()["immediate"])
	})

	t.Run("double cancellation is rejected", func(t *testing.T) {
		tn := seedTenant(t, billing.TierPremium)
		require.NoError(t, tn.Cancel("", true, testNow.AddDate(0, 0, -1)))
		uc, _, _ := newFixture(tn)

		err := uc.Execute(ctx, CancelSubscriptionCommand{TenantID: 1, Immediate: true})
		assert.True(t, apperrors.IsInvalidStateError(err))
	})
}

func TestReactivateSubscriptionUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	newFixture := func(tn *tenant.Tenant) (*ReactivateSubscriptionUseCase, *fakeTenantRepo, *fakeHistoryRepo) {
		tenants := newFakeTenantRepo(tn)
		history := &fakeHistoryRepo{}
		uc := NewReactivateSubscriptionUseCase(tenants, history, billing.NewCatalog(nil), fakeTxManager{}, clock.Fixed(testNow), testLogger())
		return uc, tenants, history
	}

	canceledTenant := func(t *testing.T) *tenant.Tenant {
		tn := seedTenant(t, billing.TierPremium)
		require.NoError(t, tn.Cancel("churn", true, testNow.AddDate(0, 0, -7)))
		return tn
	}

	t.Run("restores onto the new plan with catalog revenue", func(t *testing.T) {
		uc, tenants, history := newFixture(canceledTenant(t))

		err := uc.Execute(ctx, ReactivateSubscriptionCommand{TenantID: 1, NewPlan: billing.TierBasic, ActorID: "admin@acme.test"})
		require.NoError(t, err)

		tn := tenants.tenants[1]
		assert.Equal(t, tenant.StatusActive, tn.Status())
		assert.Equal(t, billing.TierBasic, tn.Plan())
		assert.True(t, tn.AutoRenew())
		assert.True(t, tn.MonthlyRevenue().Equal(decimal.RequireFromString("29.99")))
		assert.Equal(t, testNow, tn.SubscriptionStart())

		entry := history.last(t)
		assert.Equal(t, tenant.ChangeReactivation, entry.ChangeType())
		assert.Equal(t, billing.TierFree, entry.FromPlan())
		assert.Equal(t, billing.TierBasic, entry.ToPlan())
	})

	t.Run("rejects an active subscription", func(t *testing.T) {
		uc, _, _ := newFixture(seedTenant(t, billing.TierBasic))

		err := uc.Execute(ctx, ReactivateSubscriptionCommand{TenantID: 1, NewPlan: billing.TierBasic})
		assert.True(t, apperrors.IsInvalidStateError(err))
	})

	t.Run("rejects an invalid plan", func(t *testing.T) {
		uc, _, _ := newFixture(canceledTenant(t))

		err := uc.Execute(ctx, ReactivateSubscriptionCommand{TenantID: 1, NewPlan: billing.PlanTier("enterprise")})
		assert.True(t, apperrors.IsValidationError(err))
	})
}

func TestRenewSubscriptionUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	newFixture := func(tn *tenant.Tenant) (*RenewSubscriptionUseCase, *fakeTenantRepo, *fakeHistoryRepo, *fakeInvoiceGenerator) {
		tenants := newFakeTenantRepo(tn)
		history := &fakeHistoryRepo{}
		invoices := &fakeInvoiceGenerator{}
		uc := NewRenewSubscriptionUseCase(tenants, history, billing.NewCatalog(nil), invoices, fakeTxManager{}, clock.Fixed(testNow), testLogger())
		return uc, tenants, history, invoices
	}

	renewableTenant := func(t *testing.T) *tenant.Tenant {
		tn := seedTenant(t, billing.TierBasic)
		require.NoError(t, tn.Cancel("", true, testNow.AddDate(0, -1, -3)))
		require.NoError(t, tn.Reactivate(billing.TierBasic, decimal.RequireFromString("29.99"), testNow.AddDate(0, -1, 0)))
		return tn
	}

	t.Run("advances the window and invoices the cycle price", func(t *testing.T) {
		tn := renewableTenant(t)
		oldEnd := tn.SubscriptionEnd()
		uc, tenants, history, _ := newFixture(tn)

		result, err := uc.Execute(ctx, RenewSubscriptionCommand{TenantID: 1})
		require.NoError(t, err)

		assert.True(t, result.Invoice.Amount.Equal(decimal.RequireFromString("29.99")))
		assert.Equal(t, oldEnd, tenants.tenants[1].SubscriptionStart())
		assert.Equal(t, oldEnd.AddDate(0, 1, 0), tenants.tenants[1].SubscriptionEnd())

		entry := history.last(t)
		assert.Equal(t, tenant.ChangeRenewal, entry.ChangeType())
		assert.Equal(t, tenant.SystemActor, entry.ChangedBy())
		assert.Equal(t, result.Invoice.SID, entry.Metadata()["invoice_sid"])
	})

	t.Run("rejects when auto-renew is off", func(t *testing.T) {
		uc, _, history, _ := newFixture(seedTenant(t, billing.TierBasic))

		_, err := uc.Execute(ctx, RenewSubscriptionCommand{TenantID: 1})
		assert.True(t, apperrors.IsInvalidStateError(err))
		assert.Empty(t, history.entries)
	})

	t.Run("unknown tenant yields not found", func(t *testing.T) {
		uc, _, _, _ := newFixture(seedTenant(t, billing.TierBasic))

		_, err := uc.Execute(ctx, RenewSubscriptionCommand{TenantID: 99})
		assert.True(t, apperrors.IsNotFoundError(err))
	})
}

func TestValidatePlanLimitsUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	newFixture := func(tn *tenant.Tenant, counts ResourceCounts) *ValidatePlanLimitsUseCase {
		return NewValidatePlanLimitsUseCase(newFakeTenantRepo(tn), billing.NewCatalog(nil), &fakeResourceCounter{counts: counts}, testLogger())
	}

	t.Run("within limits on the current plan", func(t *testing.T) {
		uc := newFixture(seedTenant(t, billing.TierBasic), ResourceCounts{Vehicles: 10, Users: 5, Drivers: 20})

		result, err := uc.Execute(ctx, ValidatePlanLimitsCommand{TenantID: 1})
		require.NoError(t, err)

		assert.Equal(t, billing.TierBasic, result.Plan)
		assert.True(t, result.WithinLimit)
		assert.Empty(t, result.Violations)
	})

	t.Run("reports each exceeded limit", func(t *testing.T) {
		// Free caps at 5 vehicles, 3 users, 10 drivers.
		uc := newFixture(seedTenant(t, billing.TierBasic), ResourceCounts{Vehicles: 10, Users: 5, Drivers: 8})

		result, err := uc.Execute(ctx, ValidatePlanLimitsCommand{TenantID: 1, TargetPlan: billing.TierFree})
		require.NoError(t, err)

		assert.Equal(t, billing.TierFree, result.Plan)
		assert.False(t, result.WithinLimit)
		require.Len(t, result.Violations, 2)
		assert.Contains(t, result.Violations[0], "Vehicles limit exceeded: 10/5")
		assert.Contains(t, result.Violations[1], "Users limit exceeded: 5/3")
	})

	t.Run("premium is unlimited", func(t *testing.T) {
		uc := newFixture(seedTenant(t, billing.TierPremium), ResourceCounts{Vehicles: 9000, Users: 9000, Drivers: 9000})

		result, err := uc.Execute(ctx, ValidatePlanLimitsCommand{TenantID: 1})
		require.NoError(t, err)
		assert.True(t, result.WithinLimit)
	})

	t.Run("invalid target plan is rejected", func(t *testing.T) {
		uc := newFixture(seedTenant(t, billing.TierBasic), ResourceCounts{})

		_, err := uc.Execute(ctx, ValidatePlanLimitsCommand{TenantID: 1, TargetPlan: billing.PlanTier("enterprise")})
		assert.True(t, apperrors.IsValidationError(err))
	})
}
