package usecases

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
)

// Invoice is the collaborator-owned record returned by invoice generation.
type Invoice struct {
	SID          string               `json:"sid"`
	TenantID     uint                 `json:"tenant_id"`
	Amount       decimal.Decimal      `json:"amount"`
	Plan         billing.PlanTier     `json:"plan"`
	BillingCycle billing.BillingCycle `json:"billing_cycle"`
	PeriodStart  time.Time            `json:"period_start"`
	PeriodEnd    time.Time            `json:"period_end"`
	IssuedAt     time.Time            `json:"issued_at"`
	DueDate      time.Time            `json:"due_date"`
	Status       string               `json:"status"`
}

// InvoiceRequest describes the invoice a state transition needs.
type InvoiceRequest struct {
	TenantID     uint
	Amount       decimal.Decimal
	Plan         billing.PlanTier
	BillingCycle billing.BillingCycle
	PeriodStart  time.Time
	PeriodEnd    time.Time
}

// InvoiceGenerator is the external invoicing collaborator. It persists the
// invoice and triggers downstream delivery.
type InvoiceGenerator interface {
	GenerateInvoice(ctx context.Context, req InvoiceRequest) (*Invoice, error)
}

// ResourceCounts is a tenant's current resource usage.
type ResourceCounts struct {
	Vehicles int
	Users    int
	Drivers  int
}

// ResourceCounter reads current resource counts for plan-limit checks.
type ResourceCounter interface {
	CountResources(ctx context.Context, tenantID uint) (ResourceCounts, error)
}

// TxManager wraps a read-modify-write plus history append in one database
// transaction.
type TxManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
