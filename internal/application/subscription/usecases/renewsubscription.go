package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/clock"
	apperrors "github.com/manyinyire/fleetbackend-sub002/internal/shared/errors"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

type RenewSubscriptionCommand struct {
	TenantID uint
	ActorID  string
}

type RenewSubscriptionResult struct {
	Invoice *Invoice `json:"invoice"`
}

type RenewSubscriptionUseCase struct {
	tenants   tenant.Repository
	history   tenant.HistoryRepository
	catalog   *billing.Catalog
	invoices  InvoiceGenerator
	txManager TxManager
	clock     clock.Clock
	logger    logger.Interface
}

func NewRenewSubscriptionUseCase(
	tenants tenant.Repository,
	history tenant.HistoryRepository,
	catalog *billing.Catalog,
	invoices InvoiceGenerator,
	txManager TxManager,
	clk clock.Clock,
	logger logger.Interface,
) *RenewSubscriptionUseCase {
	return &RenewSubscriptionUseCase{
		tenants:   tenants,
		history:   history,
		catalog:   catalog,
		invoices:  invoices,
		txManager: txManager,
		clock:     clk,
		logger:    logger,
	}
}

func (uc *RenewSubscriptionUseCase) Execute(ctx context.Context, cmd RenewSubscriptionCommand) (*RenewSubscriptionResult, error) {
	actor := cmd.ActorID
	if actor == "" {
		actor = tenant.SystemActor
	}

	var result *RenewSubscriptionResult

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.tenants.GetByID(txCtx, cmd.TenantID)
		if err != nil {
			uc.logger.Errorw("failed to get tenant", "error", err, "tenant_id", cmd.TenantID)
			return fmt.Errorf("failed to get tenant: %w", err)
		}
		if t == nil {
			return apperrors.NewNotFoundError("Tenant not found")
		}

		now := uc.clock.Now()
		if err := t.Renew(now); err != nil {
			if errors.Is(err, tenant.ErrAutoRenewDisabled) {
				return apperrors.NewInvalidStateError("Auto-renewal is disabled")
			}
			return apperrors.NewValidationError(err.Error())
		}

		amount := uc.catalog.GetPlanConfig(txCtx, t.Plan()).Price(t.BillingCycle())

		invoice, err := uc.invoices.GenerateInvoice(txCtx, InvoiceRequest{
			TenantID:     t.ID(),
			Amount:       amount,
			Plan:         t.Plan(),
			BillingCycle: t.BillingCycle(),
			PeriodStart:  t.SubscriptionStart(),
			PeriodEnd:    t.SubscriptionEnd(),
		})
		if err != nil {
			uc.logger.Errorw("invoice generation failed", "error", err, "tenant_id", cmd.TenantID)
			return fmt.Errorf("failed to generate invoice: %w", err)
		}

		entry, err := tenant.NewHistoryEntry(t.ID(), tenant.ChangeRenewal, t.Plan(), t.Plan(), actor, now)
		if err != nil {
			return fmt.Errorf("failed to build history entry: %w", err)
		}
		entry.AddMetadata("invoice_sid", invoice.SID)
		entry.AddMetadata("period_end", t.SubscriptionEnd().Format("2006-01-02"))

		if err := uc.tenants.Update(txCtx, t); err != nil {
			uc.logger.Errorw("failed to update tenant", "error", err, "tenant_id", cmd.TenantID)
			return fmt.Errorf("failed to update tenant: %w", err)
		}
		if err := uc.history.Append(txCtx, entry); err != nil {
			uc.logger.Errorw("failed to append subscription history", "error", err, "tenant_id", cmd.TenantID)
			return fmt.Errorf("failed to append history: %w", err)
		}

		result = &RenewSubscriptionResult{Invoice: invoice}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("subscription renewed",
		"tenant_id", cmd.TenantID,
		"invoice_amount", result.Invoice.Amount,
	)

	return result, nil
}
