package billing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/manyinyire/fleetbackend-sub002/internal/shared/biztime"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/clock"
)

var (
	// ErrInvalidPeriod is returned when the subscription window is degenerate.
	ErrInvalidPeriod = errors.New("subscription period end must be after period start")
)

// ProrationResult is the transient adjustment computed for a mid-cycle plan
// switch. Amounts are rounded half-up to 2 decimal places; CreditAmount is
// never negative.
type ProrationResult struct {
	DaysRemaining int             `json:"days_remaining"`
	TotalDays     int             `json:"total_days"`
	UnusedAmount  decimal.Decimal `json:"unused_amount"`
	NewAmount     decimal.Decimal `json:"new_amount"`
	CreditAmount  decimal.Decimal `json:"credit_amount"`
}

// ProrationCalculator computes day-prorated credit when a tenant switches
// plans mid-period. The clock is injected so tests can pin "now".
type ProrationCalculator struct {
	catalog *Catalog
	clock   clock.Clock
}

// NewProrationCalculator creates a ProrationCalculator.
func NewProrationCalculator(catalog *Catalog, clk clock.Clock) *ProrationCalculator {
	if clk == nil {
		clk = clock.System()
	}
	return &ProrationCalculator{catalog: catalog, clock: clk}
}

// Calculate prorates a plan change over the current subscription window.
//
// Per-day rates for both plans are derived from the calendar length of the
// window and kept at full precision; only the final amounts are rounded.
// Upgrades (new amount exceeds unused amount) yield zero credit.
func (c *ProrationCalculator) Calculate(
	ctx context.Context,
	currentPlan, newPlan PlanTier,
	cycle BillingCycle,
	periodStart, periodEnd time.Time,
) (*ProrationResult, error) {
	if !periodEnd.After(periodStart) {
		return nil, ErrInvalidPeriod
	}

	totalDays := biztime.WholeDaysBetween(periodStart, periodEnd)
	if totalDays <= 0 {
		return nil, ErrInvalidPeriod
	}

	now := c.clock.Now()
	daysRemaining := biztime.WholeDaysBetween(now, periodEnd)
	if daysRemaining < 0 {
		daysRemaining = 0
	}
	if daysRemaining > totalDays {
		daysRemaining = totalDays
	}

	oldPrice := c.catalog.GetPlanConfig(ctx, currentPlan).Price(cycle)
	newPrice := c.catalog.GetPlanConfig(ctx, newPlan).Price(cycle)

	days := decimal.NewFromInt(int64(daysRemaining))
	total := decimal.NewFromInt(int64(totalDays))

	unused := oldPrice.Div(total).Mul(days)
	newAmount := newPrice.Div(total).Mul(days)

	credit := unused.Sub(newAmount)
	if credit.IsNegative() {
		credit = decimal.Zero
	}

	return &ProrationResult{
		DaysRemaining: daysRemaining,
		TotalDays:     totalDays,
		UnusedAmount:  unused.Round(2),
		NewAmount:     newAmount.Round(2),
		CreditAmount:  credit.Round(2),
	}, nil
}
