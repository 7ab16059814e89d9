package billing

import (
	"fmt"
	"strings"
)

// PlanTier identifies a service tier. Tiers are ordered; plan changes are
// classified as upgrades or downgrades by comparing ranks.
type PlanTier string

const (
	TierFree    PlanTier = "free"
	TierBasic   PlanTier = "basic"
	TierPremium PlanTier = "premium"
)

var ValidPlanTiers = map[PlanTier]bool{
	TierFree:    true,
	TierBasic:   true,
	TierPremium: true,
}

var planTierRanks = map[PlanTier]int{
	TierFree:    0,
	TierBasic:   1,
	TierPremium: 2,
}

// AllPlanTiers lists the known tiers in ascending rank order.
func AllPlanTiers() []PlanTier {
	return []PlanTier{TierFree, TierBasic, TierPremium}
}

// ParsePlanTier parses and validates a plan tier string.
func ParsePlanTier(value string) (PlanTier, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	tier := PlanTier(normalized)

	if normalized == "" {
		return "", fmt.Errorf("plan tier cannot be empty")
	}
	if !ValidPlanTiers[tier] {
		return "", fmt.Errorf("invalid plan tier: %s", value)
	}

	return tier, nil
}

func (t PlanTier) String() string {
	return string(t)
}

func (t PlanTier) IsValid() bool {
	return ValidPlanTiers[t]
}

// Rank returns the ordinal position of the tier (free < basic < premium).
func (t PlanTier) Rank() int {
	return planTierRanks[t]
}

// IsUpgradeTo reports whether moving from t to target raises the tier rank.
func (t PlanTier) IsUpgradeTo(target PlanTier) bool {
	return target.Rank() > t.Rank()
}

// IsDowngradeTo reports whether moving from t to target lowers the tier rank.
func (t PlanTier) IsDowngradeTo(target PlanTier) bool {
	return target.Rank() < t.Rank()
}
