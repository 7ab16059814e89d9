package billing

import (
	"fmt"
	"strings"
	"time"
)

// BillingCycle is the recurrence period for subscription charges.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

var ValidBillingCycles = map[BillingCycle]bool{
	CycleMonthly: true,
	CycleYearly:  true,
}

// ParseBillingCycle parses and validates a billing cycle string.
func ParseBillingCycle(value string) (BillingCycle, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	cycle := BillingCycle(normalized)

	if normalized == "" {
		return "", fmt.Errorf("billing cycle cannot be empty")
	}
	if !ValidBillingCycles[cycle] {
		return "", fmt.Errorf("invalid billing cycle: %s", value)
	}

	return cycle, nil
}

func (b BillingCycle) String() string {
	return string(b)
}

func (b BillingCycle) IsValid() bool {
	return ValidBillingCycles[b]
}

// NextBillingDate returns the end of the period starting at from. Calendar
// arithmetic, so monthly periods are 28-31 days and yearly periods cover
// leap years correctly.
func (b BillingCycle) NextBillingDate(from time.Time) time.Time {
	switch b {
	case CycleMonthly:
		return from.AddDate(0, 1, 0)
	case CycleYearly:
		return from.AddDate(1, 0, 0)
	default:
		return time.Time{}
	}
}
