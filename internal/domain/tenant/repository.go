package tenant

import (
	"context"
	"time"
)

// Repository persists tenant aggregates. GetByID returns (nil, nil) when the
// tenant does not exist; Update must fail on a stale aggregate version.
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, tenantID uint) (*Tenant, error)
	GetBySID(ctx context.Context, sid string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error

	// ListDueForRenewal returns active tenants with auto-renew enabled whose
	// subscription window ends at or before asOf.
	ListDueForRenewal(ctx context.Context, asOf time.Time) ([]*Tenant, error)

	// ListExpiredTrials returns tenants still flagged in-trial whose trial
	// ended at or before asOf.
	ListExpiredTrials(ctx context.Context, asOf time.Time) ([]*Tenant, error)
}

// HistoryRepository appends and reads the immutable subscription audit trail.
type HistoryRepository interface {
	Append(ctx context.Context, entry *HistoryEntry) error
	ListByTenantID(ctx context.Context, tenantID uint) ([]*HistoryEntry, error)
}
