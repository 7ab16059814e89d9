package billing

import (
	"context"

	"github.com/shopspring/decimal"
)

// Unlimited is the sentinel for a limit with no cap.
const Unlimited = -1

// PlanLimits caps tenant resource counts per tier.
type PlanLimits struct {
	MaxVehicles int `json:"max_vehicles"`
	MaxUsers    int `json:"max_users"`
	MaxDrivers  int `json:"max_drivers"`
}

// PlanConfig holds pricing and limits for a tier. Owned by the admin
// configuration surface; read-only from the billing engine's perspective.
type PlanConfig struct {
	Tier         PlanTier        `json:"tier"`
	DisplayName  string          `json:"display_name"`
	Description  string          `json:"description"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	YearlyPrice  decimal.Decimal `json:"yearly_price"`
	Features     []string        `json:"features"`
	Limits       PlanLimits      `json:"limits"`
}

// Price selects the price for the given billing cycle.
func (p PlanConfig) Price(cycle BillingCycle) decimal.Decimal {
	if cycle == CycleYearly {
		return p.YearlyPrice
	}
	return p.MonthlyPrice
}

func defaultPlanConfigs() map[PlanTier]PlanConfig {
	return map[PlanTier]PlanConfig{
		TierFree: {
			Tier:         TierFree,
			DisplayName:  "Free",
			Description:  "Starter plan for small fleets",
			MonthlyPrice: decimal.Zero,
			YearlyPrice:  decimal.Zero,
			Features:     []string{"vehicle_tracking", "driver_records"},
			Limits:       PlanLimits{MaxVehicles: 5, MaxUsers: 3, MaxDrivers: 10},
		},
		TierBasic: {
			Tier:         TierBasic,
			DisplayName:  "Basic",
			Description:  "Growing fleets with financial tracking",
			MonthlyPrice: decimal.RequireFromString("29.99"),
			YearlyPrice:  decimal.RequireFromString("299.90"),
			Features:     []string{"vehicle_tracking", "driver_records", "financial_reports", "invoicing"},
			Limits:       PlanLimits{MaxVehicles: 25, MaxUsers: 10, MaxDrivers: 50},
		},
		TierPremium: {
			Tier:         TierPremium,
			DisplayName:  "Premium",
			Description:  "Unlimited fleet operations",
			MonthlyPrice: decimal.RequireFromString("99.99"),
			YearlyPrice:  decimal.RequireFromString("999.90"),
			Features:     []string{"vehicle_tracking", "driver_records", "financial_reports", "invoicing", "priority_support", "white_label"},
			Limits:       PlanLimits{MaxVehicles: Unlimited, MaxUsers: Unlimited, MaxDrivers: Unlimited},
		},
	}
}

// ConfigSource looks up admin-configured plan overrides. A nil override with
// nil error means no override exists for the tier.
type ConfigSource interface {
	GetOverride(ctx context.Context, tier PlanTier) (*PlanConfig, error)
}

// Catalog resolves a plan tier to its pricing and limits. Overrides win over
// the hardcoded defaults; defaults guarantee total coverage over the known
// tiers, so resolution never fails.
type Catalog struct {
	source   ConfigSource
	defaults map[PlanTier]PlanConfig
}

// NewCatalog creates a Catalog. source may be nil, in which case only the
// defaults are served.
func NewCatalog(source ConfigSource) *Catalog {
	return &Catalog{
		source:   source,
		defaults: defaultPlanConfigs(),
	}
}

// GetPlanConfig returns the configuration for a tier. Unknown tiers fall back
// to the free defaults; validating tier strings is the caller's concern.
func (c *Catalog) GetPlanConfig(ctx context.Context, tier PlanTier) PlanConfig {
	if c.source != nil {
		override, err := c.source.GetOverride(ctx, tier)
		if err == nil && override != nil {
			return *override
		}
	}

	if cfg, ok := c.defaults[tier]; ok {
		return cfg
	}
	return c.defaults[TierFree]
}

// ListPlanConfigs returns the configuration for every known tier in rank order.
func (c *Catalog) ListPlanConfigs(ctx context.Context) []PlanConfig {
	tiers := AllPlanTiers()
	configs := make([]PlanConfig, 0, len(tiers))
	for _, tier := range tiers {
		configs = append(configs, c.GetPlanConfig(ctx, tier))
	}
	return configs
}
