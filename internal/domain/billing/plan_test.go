package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type erroringSource struct{}

func (erroringSource) GetOverride(ctx context.Context, tier PlanTier) (*PlanConfig, error) {
	return nil, errors.New("store unavailable")
}

func TestCatalog_GetPlanConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("serves defaults without a source", func(t *testing.T) {
		catalog := NewCatalog(nil)

		cfg := catalog.GetPlanConfig(ctx, TierBasic)
		assert.Equal(t, TierBasic, cfg.Tier)
		assert.True(t, cfg.MonthlyPrice.Equal(decimal.RequireFromString("29.99")))
		assert.Equal(t, 25, cfg.Limits.MaxVehicles)
	})

	t.Run("override wins over default", func(t *testing.T) {
		override := &PlanConfig{
			Tier:         TierBasic,
			DisplayName:  "Basic (promo)",
			MonthlyPrice: decimal.RequireFromString("19.99"),
			YearlyPrice:  decimal.RequireFromString("199.90"),
			Limits:       PlanLimits{MaxVehicles: 30, MaxUsers: 12, MaxDrivers: 60},
		}
		catalog := NewCatalog(&stubConfigSource{configs: map[PlanTier]*PlanConfig{TierBasic: override}})

		cfg := catalog.GetPlanConfig(ctx, TierBasic)
		assert.Equal(t, "Basic (promo)", cfg.DisplayName)
		assert.True(t, cfg.MonthlyPrice.Equal(decimal.RequireFromString("19.99")))

		// Tiers without an override still resolve to defaults.
		premium := catalog.GetPlanConfig(ctx, TierPremium)
		assert.True(t, premium.MonthlyPrice.Equal(decimal.RequireFromString("99.99")))
	})

	t.Run("source failure falls back to defaults", func(t *testing.T) {
		catalog := NewCatalog(erroringSource{})

		cfg := catalog.GetPlanConfig(ctx, TierPremium)
		assert.True(t, cfg.MonthlyPrice.Equal(decimal.RequireFromString("99.99")))
	})

	t.Run("unknown tier falls back to free", func(t *testing.T) {
		catalog := NewCatalog(nil)

		cfg := catalog.GetPlanConfig(ctx, PlanTier("enterprise"))
		assert.Equal(t, TierFree, cfg.Tier)
	})
}

func TestCatalog_ListPlanConfigs(t *testing.T) {
	catalog := NewCatalog(nil)

	configs := catalog.ListPlanConfigs(context.Background())
	require.Len(t, configs, 3)
	assert.Equal(t, TierFree, configs[0].Tier)
	assert.Equal(t, TierBasic, configs[1].Tier)
	assert.Equal(t, TierPremium, configs[2].Tier)
}

func TestPlanConfig_Price(t *testing.T) {
	cfg := PlanConfig{
		MonthlyPrice: decimal.RequireFromString("29.99"),
		YearlyPrice:  decimal.RequireFromString("299.90"),
	}

	assert.True(t, cfg.Price(CycleMonthly).Equal(decimal.RequireFromString("29.99")))
	assert.True(t, cfg.Price(CycleYearly).Equal(decimal.RequireFromString("299.90")))
}

func TestParsePlanTier(t *testing.T) {
	tier, err := ParsePlanTier("  Premium ")
	require.NoError(t, err)
	assert.Equal(t, TierPremium, tier)

	_, err = ParsePlanTier("")
	assert.Error(t, err)

	_, err = ParsePlanTier("enterprise")
	assert.Error(t, err)
}

func TestPlanTier_Ordering(t *testing.T) {
	assert.True(t, TierFree.IsUpgradeTo(TierBasic))
	assert.True(t, TierBasic.IsUpgradeTo(TierPremium))
	assert.True(t, TierPremium.IsDowngradeTo(TierFree))
	assert.False(t, TierBasic.IsUpgradeTo(TierBasic))
	assert.False(t, TierBasic.IsDowngradeTo(TierBasic))
}

func TestParseBillingCycle(t *testing.T) {
	cycle, err := ParseBillingCycle("YEARLY")
	require.NoError(t, err)
	assert.Equal(t, CycleYearly, cycle)

	_, err = ParseBillingCycle("weekly")
	assert.Error(t, err)
}

func TestBillingCycle_NextBillingDate(t *testing.T) {
	date := func(year int, month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}

	jan31 := date(2025, time.January, 31)

	// Calendar arithmetic: Jan 31 + 1 month normalizes to Mar 3 (non-leap).
	assert.Equal(t, date(2025, time.March, 3), CycleMonthly.NextBillingDate(jan31))
	assert.Equal(t, date(2026, time.January, 31), CycleYearly.NextBillingDate(jan31))

	// Leap year: Feb 29 + 1 year normalizes to Mar 1.
	assert.Equal(t, date(2025, time.March, 1), CycleYearly.NextBillingDate(date(2024, time.February, 29)))
}
