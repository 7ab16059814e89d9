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

type ReactivateSubscriptionCommand struct {
	TenantID uint
	NewPlan  billing.PlanTier
	ActorID  string
}

type ReactivateSubscriptionUseCase struct {
	tenants   tenant.Repository
	history   tenant.HistoryRepository
	catalog   *billing.Catalog
	txManager TxManager
	clock     clock.Clock
	logger    logger.Interface
}

func NewReactivateSubscriptionUseCase(
	tenants tenant.Repository,
	history tenant.HistoryRepository,
	catalog *billing.Catalog,
	txManager TxManager,
	clk clock.Clock,
	logger logger.Interface,
) *ReactivateSubscriptionUseCase {
	return &ReactivateSubscriptionUseCase{
		tenants:   tenants,
		history:   history,
		catalog:   catalog,
		txManager: txManager,
		clock:     clk,
		logger:    logger,
	}
}

func (uc *ReactivateSubscriptionUseCase) Execute(ctx context.Context, cmd ReactivateSubscriptionCommand) error {
	if !cmd.NewPlan.IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("invalid plan tier: %s", cmd.NewPlan))
	}

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
		monthlyPrice := uc.catalog.GetPlanConfig(txCtx, cmd.NewPlan).MonthlyPrice

		now := uc.clock.Now()
		if err := t.Reactivate(cmd.NewPlan, monthlyPrice, now); err != nil {
			if errors.Is(err, tenant.ErrNotCanceled) {
				return apperrors.NewInvalidStateError("Subscription is not canceled")
			}
			return apperrors.NewValidationError(err.Error())
		}

		entry, err := tenant.NewHistoryEntry(t.ID(), tenant.ChangeReactivation, fromPlan, cmd.NewPlan, cmd.ActorID, now)
		if err != nil {
			return fmt.Errorf("failed to build history entry: %w", err)
		}

		if err := uc.tenants.Update(txCtx, t); err != nil {
			uc.logger.Errorw("failed to update tenant", "error", err, "tenant_id", cmd.TenantID)
			return fmt.Errorf("failed to update tenant: %w", err)
		}
		if err := uc.history.Append(txCtx, entry); err != nil {
			uc.logger.Errorw("failed to append subscription history", "error", err, "tenant_id", cmd.TenantID)
			return fmt.Errorf("failed to append history: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	uc.logger.Infow("subscription reactivated",
		"tenant_id", cmd.TenantID,
		"new_plan", cmd.NewPlan,
	)

	return nil
}
