package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/clock"
	apperrors "github.com/manyinyire/fleetbackend-sub002/internal/shared/errors"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

type ChangePlanCommand struct {
	TenantID     uint
	TargetPlan   billing.PlanTier
	BillingCycle *billing.BillingCycle
	Prorate      bool
	ActorID      string
}

type ChangePlanResult struct {
	Invoice   *Invoice                 `json:"invoice"`
	Proration *billing.ProrationResult `json:"proration,omitempty"`
}

type ChangePlanUseCase struct {
	tenants   tenant.Repository
	history   tenant.HistoryRepository
	catalog   *billing.Catalog
	prorator  *billing.ProrationCalculator
	invoices  InvoiceGenerator
	txManager TxManager
	clock     clock.Clock
	logger    logger.Interface
}

func NewChangePlanUseCase(
	tenants tenant.Repository,
	history tenant.HistoryRepository,
	catalog *billing.Catalog,
	prorator *billing.ProrationCalculator,
	invoices InvoiceGenerator,
	txManager TxManager,
	clk clock.Clock,
	logger logger.Interface,
) *ChangePlanUseCase {
	return &ChangePlanUseCase{
		tenants:   tenants,
		history:   history,
		catalog:   catalog,
		prorator:  prorator,
		invoices:  invoices,
		txManager: txManager,
		clock:     clk,
		logger:    logger,
	}
}

func (uc *ChangePlanUseCase) Execute(ctx context.Context, cmd ChangePlanCommand) (*ChangePlanResult, error) {
	if !cmd.TargetPlan.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid plan tier: %s", cmd.TargetPlan))
	}
	if cmd.BillingCycle != nil && !cmd.BillingCycle.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid billing cycle: %s", *cmd.BillingCycle))
	}

	var result *ChangePlanResult

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.tenants.GetByID(txCtx, cmd.TenantID)
		if err != nil {
			uc.logger.Errorw("failed to get tenant", "error", err, "tenant_id", cmd.TenantID)
			return fmt.Errorf("failed to get tenant: %w", err)
		}
		if t == nil {
			return apperrors.NewNotFoundError("Tenant not found")
		}

		fromPlan := t.Plan()
		fromCycle := t.BillingCycle()
		newCycle := fromCycle
		if cmd.BillingCycle != nil {
			newCycle = *cmd.BillingCycle
		}

		changeType := uc.classify(txCtx, fromPlan, fromCycle, cmd.TargetPlan, newCycle)

		var proration *billing.ProrationResult
		if cmd.Prorate {
			proration, err = uc.prorator.Calculate(txCtx, fromPlan, cmd.TargetPlan, fromCycle, t.SubscriptionStart(), t.SubscriptionEnd())
			if err != nil {
				uc.logger.Errorw("proration calculation failed", "error", err, "tenant_id", cmd.TenantID)
				return apperrors.NewValidationError(err.Error())
			}
		}

		now := uc.clock.Now()
		if err := t.ChangePlan(cmd.TargetPlan, newCycle, now); err != nil {
			if errors.Is(err, tenant.ErrSamePlanAndCycle) {
				return apperrors.NewInvalidStateError("Already on target plan and billing cycle")
			}
			return apperrors.NewValidationError(err.Error())
		}

		// Invoice the new plan at full price for the cycle; a proration
		// credit is applied against it, floored at zero.
		amount := uc.catalog.GetPlanConfig(txCtx, cmd.TargetPlan).Price(newCycle)
		if proration != nil {
			amount = amount.Sub(proration.CreditAmount)
			if amount.IsNegative() {
				amount = decimal.Zero
			}
		}

		invoice, err := uc.invoices.GenerateInvoice(txCtx, InvoiceRequest{
			TenantID:     t.ID(),
			Amount:       amount,
			Plan:         cmd.TargetPlan,
			BillingCycle: newCycle,
			PeriodStart:  t.SubscriptionStart(),
			PeriodEnd:    t.SubscriptionEnd(),
		})
		if err != nil {
			uc.logger.Errorw("invoice generation failed", "error", err, "tenant_id", cmd.TenantID)
			return fmt.Errorf("failed to generate invoice: %w", err)
		}

		entry, err := tenant.NewHistoryEntry(t.ID(), changeType, fromPlan, cmd.TargetPlan, cmd.ActorID, now)
		if err != nil {
			return fmt.Errorf("failed to build history entry: %w", err)
		}
		entry.AddMetadata("from_cycle", fromCycle.String())
		entry.AddMetadata("to_cycle", newCycle.String())
		entry.AddMetadata("invoice_sid", invoice.SID)
		if proration != nil {
			entry.AddMetadata("credit_amount", proration.CreditAmount.String())
		}

		if err := uc.tenants.Update(txCtx, t); err != nil {
			uc.logger.Errorw("failed to update tenant", "error", err, "tenant_id", cmd.TenantID)
			return fmt.Errorf("failed to update tenant: %w", err)
		}
		if err := uc.history.Append(txCtx, entry); err != nil {
			uc.logger.Errorw("failed to append subscription history", "error", err, "tenant_id", cmd.TenantID)
			return fmt.Errorf("failed to append history: %w", err)
		}

		result = &ChangePlanResult{Invoice: invoice, Proration: proration}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("plan changed",
		"tenant_id", cmd.TenantID,
		"target_plan", cmd.TargetPlan,
		"prorate", cmd.Prorate,
		"invoice_amount", result.Invoice.Amount,
	)

	return result, nil
}

// classify labels the change by tier rank; a cycle-only change at the same
// rank is labeled by comparing the effective prices of the two selections.
func (uc *ChangePlanUseCase) classify(ctx context.Context, fromPlan billing.PlanTier, fromCycle billing.BillingCycle, toPlan billing.PlanTier, toCycle billing.BillingCycle) tenant.ChangeType {
	switch {
	case fromPlan.IsUpgradeTo(toPlan):
		return tenant.ChangeUpgrade
	case fromPlan.IsDowngradeTo(toPlan):
		return tenant.ChangeDowngrade
	}

	oldPrice := uc.catalog.GetPlanConfig(ctx, fromPlan).Price(fromCycle)
	newPrice := uc.catalog.GetPlanConfig(ctx, toPlan).Price(toCycle)
	if newPrice.GreaterThan(oldPrice) {
		return tenant.ChangeUpgrade
	}
	return tenant.ChangeDowngrade
}
