package tenant

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/id"
)

// Tenant is the subscription aggregate root for an organization account.
// Subscription state is mutated only through the transition methods below;
// every mutation bumps the version used for optimistic locking.
type Tenant struct {
	id                uint
	sid               string
	name              string
	plan              billing.PlanTier
	billingCycle      billing.BillingCycle
	status            Status
	subscriptionStart time.Time
	subscriptionEnd   time.Time
	isInTrial         bool
	trialEndsAt       *time.Time
	autoRenew         bool
	monthlyRevenue    decimal.Decimal
	canceledAt        *time.Time
	cancelReason      *string
	version           int
	createdAt         time.Time
	updatedAt         time.Time
}

// NewTenant creates a tenant on the free plan with a monthly cycle. The
// subscription window starts at now and runs one cycle.
func NewTenant(name string, now time.Time) (*Tenant, error) {
	if name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}

	sid, err := id.NewTenantSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tenant SID: %w", err)
	}

	return &Tenant{
		sid:               sid,
		name:              name,
		plan:              billing.TierFree,
		billingCycle:      billing.CycleMonthly,
		status:            StatusActive,
		subscriptionStart: now,
		subscriptionEnd:   billing.CycleMonthly.NextBillingDate(now),
		autoRenew:         false,
		monthlyRevenue:    decimal.Zero,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// ReconstructParams carries persisted state back into the aggregate.
type ReconstructParams struct {
	ID                uint
	SID               string
	Name              string
	Plan              billing.PlanTier
	BillingCycle      billing.BillingCycle
	Status            Status
	SubscriptionStart time.Time
	SubscriptionEnd   time.Time
	IsInTrial         bool
	TrialEndsAt       *time.Time
	AutoRenew         bool
	MonthlyRevenue    decimal.Decimal
	CanceledAt        *time.Time
	CancelReason      *string
	Version           int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Reconstruct rebuilds a tenant from persistence.
func Reconstruct(p ReconstructParams) (*Tenant, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}
	if !p.Plan.IsValid() {
		return nil, fmt.Errorf("invalid plan tier: %s", p.Plan)
	}
	if !p.BillingCycle.IsValid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", p.BillingCycle)
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, p.Status)
	}

	return &Tenant{
		id:                p.ID,
		sid:               p.SID,
		name:              p.Name,
		plan:              p.Plan,
		billingCycle:      p.BillingCycle,
		status:            p.Status,
		subscriptionStart: p.SubscriptionStart,
		subscriptionEnd:   p.SubscriptionEnd,
		isInTrial:         p.IsInTrial,
		trialEndsAt:       p.TrialEndsAt,
		autoRenew:         p.AutoRenew,
		monthlyRevenue:    p.MonthlyRevenue,
		canceledAt:        p.CanceledAt,
		cancelReason:      p.CancelReason,
		version:           p.Version,
		createdAt:         p.CreatedAt,
		updatedAt:         p.UpdatedAt,
	}, nil
}

func (t *Tenant) ID() uint                           { return t.id }
func (t *Tenant) SID() string                        { return t.sid }
func (t *Tenant) Name() string                       { return t.name }
func (t *Tenant) Plan() billing.PlanTier             { return t.plan }
func (t *Tenant) BillingCycle() billing.BillingCycle { return t.billingCycle }
func (t *Tenant) Status() Status                     { return t.status }
func (t *Tenant) SubscriptionStart() time.Time       { return t.subscriptionStart }
func (t *Tenant) SubscriptionEnd() time.Time         { return t.subscriptionEnd }
func (t *Tenant) IsInTrial() bool                    { return t.isInTrial }
func (t *Tenant) TrialEndsAt() *time.Time            { return t.trialEndsAt }
func (t *Tenant) AutoRenew() bool                    { return t.autoRenew }
func (t *Tenant) MonthlyRevenue() decimal.Decimal    { return t.monthlyRevenue }
func (t *Tenant) CanceledAt() *time.Time             { return t.canceledAt }
func (t *Tenant) CancelReason() *string              { return t.cancelReason }
func (t *Tenant) Version() int                       { return t.version }
func (t *Tenant) CreatedAt() time.Time               { return t.createdAt }
func (t *Tenant) UpdatedAt() time.Time               { return t.updatedAt }

// SetID sets the tenant ID (only for persistence layer use).
func (t *Tenant) SetID(tenantID uint) error {
	if t.id != 0 {
		return fmt.Errorf("tenant ID is already set")
	}
	if tenantID == 0 {
		return fmt.Errorf("tenant ID cannot be zero")
	}
	t.id = tenantID
	return nil
}

func (t *Tenant) touch(now time.Time) {
	t.updatedAt = now
	t.version++
}

// StartTrial puts the tenant on a free-plan trial ending durationDays from
// now. A tenant already mid-trial cannot start another one.
func (t *Tenant) StartTrial(now time.Time, durationDays int) error {
	if t.isInTrial {
		return ErrAlreadyInTrial
	}
	if durationDays <= 0 {
		return fmt.Errorf("trial duration must be positive")
	}

	trialEnd := now.AddDate(0, 0, durationDays)

	t.plan = billing.TierFree
	t.isInTrial = true
	t.status = StatusActive
	t.trialEndsAt = &trialEnd
	t.subscriptionStart = now
	t.subscriptionEnd = trialEnd
	t.touch(now)

	return nil
}

// EndTrial converts a trial to the given plan.
func (t *Tenant) EndTrial(conversionPlan billing.PlanTier, now time.Time) error {
	if !t.isInTrial {
		return ErrNotInTrial
	}

	t.isInTrial = false
	t.plan = conversionPlan
	t.trialEndsAt = nil
	t.touch(now)

	return nil
}

// ChangePlan switches the tenant to a new plan and/or billing cycle. A no-op
// change is rejected rather than silently accepted.
func (t *Tenant) ChangePlan(newPlan billing.PlanTier, newCycle billing.BillingCycle, now time.Time) error {
	if newPlan == t.plan && newCycle == t.billingCycle {
		return ErrSamePlanAndCycle
	}

	t.plan = newPlan
	t.billingCycle = newCycle
	t.touch(now)

	return nil
}

// Cancel cancels the subscription. An immediate cancellation drops the tenant
// to the free plan now; otherwise only auto-renewal is switched off and the
// subscription runs out at the period end.
func (t *Tenant) Cancel(reason string, immediate bool, now time.Time) error {
	if t.status == StatusCanceled {
		return ErrCancelNotAllowed
	}

	t.autoRenew = false
	if reason != "" {
		t.cancelReason = &reason
	}

	if immediate {
		t.status = StatusCanceled
		t.plan = billing.TierFree
		t.canceledAt = &now
	}

	t.touch(now)
	return nil
}

// Reactivate restores a canceled subscription onto newPlan. monthlyRevenue is
// the catalog monthly price for the new plan.
func (t *Tenant) Reactivate(newPlan billing.PlanTier, monthlyRevenue decimal.Decimal, now time.Time) error {
	if t.status != StatusCanceled {
		return ErrNotCanceled
	}

	t.status = StatusActive
	t.plan = newPlan
	t.autoRenew = true
	t.canceledAt = nil
	t.cancelReason = nil
	t.monthlyRevenue = monthlyRevenue
	t.subscriptionStart = now
	t.subscriptionEnd = t.billingCycle.NextBillingDate(now)
	t.touch(now)

	return nil
}

// Renew advances the subscription window by one billing cycle.
func (t *Tenant) Renew(now time.Time) error {
	if !t.autoRenew {
		return ErrAutoRenewDisabled
	}

	t.subscriptionStart = t.subscriptionEnd
	t.subscriptionEnd = t.billingCycle.NextBillingDate(t.subscriptionEnd)
	t.touch(now)

	return nil
}

// SetMonthlyRevenue records the recognized monthly revenue for the tenant.
func (t *Tenant) SetMonthlyRevenue(amount decimal.Decimal, now time.Time) {
	t.monthlyRevenue = amount
	t.touch(now)
}
