package usecases

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeTenantRepo struct {
	tenants map[uint]*tenant.Tenant
	updated int
	failGet error
}

func newFakeTenantRepo(tenants ...*tenant.Tenant) *fakeTenantRepo {
	repo := &fakeTenantRepo{tenants: make(map[uint]*tenant.Tenant)}
	for _, t := range tenants {
		repo.tenants[t.ID()] = t
	}
	return repo
}

func (r *fakeTenantRepo) Create(ctx context.Context, t *tenant.Tenant) error {
	id := uint(len(r.tenants) + 1)
	if err := t.SetID(id); err != nil {
		return err
	}
	r.tenants[id] = t
	return nil
}

func (r *fakeTenantRepo) GetByID(ctx context.Context, tenantID uint) (*tenant.Tenant, error) {
	if r.failGet != nil {
		return nil, r.failGet
	}
	return r.tenants[tenantID], nil
}

func (r *fakeTenantRepo) GetBySID(ctx context.Context, sid string) (*tenant.Tenant, error) {
	for _, t := range r.tenants {
		if t.SID() == sid {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTenantRepo) Update(ctx context.Context, t *tenant.Tenant) error {
	if _, ok := r.tenants[t.ID()]; !ok {
		return fmt.Errorf("tenant %d not found", t.ID())
	}
	r.tenants[t.ID()] = t
	r.updated++
	return nil
}

func (r *fakeTenantRepo) ListDueForRenewal(ctx context.Context, asOf time.Time) ([]*tenant.Tenant, error) {
	var due []*tenant.Tenant
	for _, t := range r.tenants {
		if t.Status() == tenant.StatusActive && t.AutoRenew() && !t.SubscriptionEnd().After(asOf) {
			due = append(due, t)
		}
	}
	return due, nil
}

func (r *fakeTenantRepo) ListExpiredTrials(ctx context.Context, asOf time.Time) ([]*tenant.Tenant, error) {
	var expired []*tenant.Tenant
	for _, t := range r.tenants {
		if t.IsInTrial() && t.TrialEndsAt() != nil && !t.TrialEndsAt().After(asOf) {
			expired = append(expired, t)
		}
	}
	return expired, nil
}

type fakeHistoryRepo struct {
	entries []*tenant.HistoryEntry
}

func (r *fakeHistoryRepo) Append(ctx context.Context, entry *tenant.HistoryEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeHistoryRepo) ListByTenantID(ctx context.Context, tenantID uint) ([]*tenant.HistoryEntry, error) {
	var entries []*tenant.HistoryEntry
	for _, e := range r.entries {
		if e.TenantID() == tenantID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (r *fakeHistoryRepo) last(t *testing.T) *tenant.HistoryEntry {
	require.NotEmpty(t, r.entries)
	return r.entries[len(r.entries)-1]
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeInvoiceGenerator struct {
	requests []InvoiceRequest
	fail     error
}

func (g *fakeInvoiceGenerator) GenerateInvoice(ctx context.Context, req InvoiceRequest) (*Invoice, error) {
	if g.fail != nil {
		return nil, g.fail
	}
	g.requests = append(g.requests, req)
	return &Invoice{
		SID:          fmt.Sprintf("inv_%06d", len(g.requests)),
		TenantID:     req.TenantID,
		Amount:       req.Amount,
		Plan:         req.Plan,
		BillingCycle: req.BillingCycle,
		PeriodStart:  req.PeriodStart,
		PeriodEnd:    req.PeriodEnd,
		IssuedAt:     testNow,
		DueDate:      testNow.AddDate(0, 0, 14),
		Status:       "pending",
	}, nil
}

type fakeResourceCounter struct {
	counts ResourceCounts
	fail   error
}

func (c *fakeResourceCounter) CountResources(ctx context.Context, tenantID uint) (ResourceCounts, error) {
	if c.fail != nil {
		return ResourceCounts{}, c.fail
	}
	return c.counts, nil
}

// seedTenant builds a persisted-looking tenant on the given plan.
func seedTenant(t *testing.T, plan billing.PlanTier) *tenant.Tenant {
	tn, err := tenant.NewTenant("Acme Logistics", testNow.AddDate(0, -1, 0))
	require.NoError(t, err)
	require.NoError(t, tn.SetID(1))
	if plan != billing.TierFree {
		require.NoError(t, tn.ChangePlan(plan, billing.CycleMonthly, testNow.AddDate(0, -1, 0)))
	}
	return tn
}
