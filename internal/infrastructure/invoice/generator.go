package invoice

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	subusecases "github.com/manyinyire/fleetbackend-sub002/internal/application/subscription/usecases"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/email"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/models"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/clock"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/db"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/id"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

const (
	StatusPending = "pending"

	dateLayout = "2006-01-02"
)

// EmailSender delivers invoice notifications. Delivery is best-effort; a
// failed send never fails the billing transaction.
type EmailSender interface {
	SendInvoiceEmail(to string, n email.InvoiceNotification) error
}

// Generator persists invoices and triggers notification delivery. It
// implements the invoice collaborator the subscription use cases depend on.
type Generator struct {
	db      *gorm.DB
	sender  EmailSender
	dueDays int
	clock   clock.Clock
	logger  logger.Interface
}

// NewGenerator creates a Generator. sender may be nil when email delivery is
// disabled.
func NewGenerator(gormDB *gorm.DB, sender EmailSender, dueDays int, clk clock.Clock, logger logger.Interface) *Generator {
	return &Generator{
		db:      gormDB,
		sender:  sender,
		dueDays: dueDays,
		clock:   clk,
		logger:  logger,
	}
}

func (g *Generator) GenerateInvoice(ctx context.Context, req subusecases.InvoiceRequest) (*subusecases.Invoice, error) {
	sid, err := id.NewInvoiceSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice SID: %w", err)
	}

	issuedAt := g.clock.Now()
	dueDate := issuedAt.AddDate(0, 0, g.dueDays)

	model := &models.InvoiceModel{
		SID:          sid,
		TenantID:     req.TenantID,
		Amount:       req.Amount,
		Plan:         req.Plan.String(),
		BillingCycle: req.BillingCycle.String(),
		PeriodStart:  req.PeriodStart,
		PeriodEnd:    req.PeriodEnd,
		IssuedAt:     issuedAt,
		DueDate:      dueDate,
		Status:       StatusPending,
	}

	if err := db.GetTxFromContext(ctx, g.db).Create(model).Error; err != nil {
		g.logger.Errorw("failed to create invoice in database", "tenant_id", req.TenantID, "error", err)
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	invoice := &subusecases.Invoice{
		SID:          sid,
		TenantID:     req.TenantID,
		Amount:       req.Amount,
		Plan:         req.Plan,
		BillingCycle: req.BillingCycle,
		PeriodStart:  req.PeriodStart,
		PeriodEnd:    req.PeriodEnd,
		IssuedAt:     issuedAt,
		DueDate:      dueDate,
		Status:       StatusPending,
	}

	g.notify(ctx, invoice)

	g.logger.Infow("invoice generated",
		"invoice_sid", sid,
		"tenant_id", req.TenantID,
		"amount", req.Amount,
		"due_date", dueDate.Format(dateLayout),
	)

	return invoice, nil
}

// notify sends the invoice email to the tenant's primary contact. Lookup or
// delivery failures are logged and swallowed.
func (g *Generator) notify(ctx context.Context, invoice *subusecases.Invoice) {
	if g.sender == nil {
		return
	}

	var tenantModel models.TenantModel
	if err := db.GetTxFromContext(ctx, g.db).First(&tenantModel, invoice.TenantID).Error; err != nil {
		g.logger.Warnw("invoice email skipped, tenant lookup failed", "tenant_id", invoice.TenantID, "error", err)
		return
	}

	var user models.UserModel
	if err := db.GetTxFromContext(ctx, g.db).
		Where("tenant_id = ?", invoice.TenantID).
		Order("id ASC").
		First(&user).Error; err != nil {
		g.logger.Warnw("invoice email skipped, no tenant contact", "tenant_id", invoice.TenantID, "error", err)
		return
	}

	notification := email.InvoiceNotification{
		TenantName:  tenantModel.Name,
		InvoiceSID:  invoice.SID,
		Amount:      invoice.Amount,
		Plan:        invoice.Plan.String(),
		DueDate:     invoice.DueDate.Format(dateLayout),
		PeriodStart: invoice.PeriodStart.Format(dateLayout),
		PeriodEnd:   invoice.PeriodEnd.Format(dateLayout),
	}

	if err := g.sender.SendInvoiceEmail(user.Email, notification); err != nil {
		g.logger.Warnw("invoice email delivery failed", "invoice_sid", invoice.SID, "error", err)
	}
}
