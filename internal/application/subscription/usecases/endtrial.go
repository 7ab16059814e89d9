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

type EndTrialCommand struct {
	TenantID       uint
	ConversionPlan billing.PlanTier
}

type EndTrialUseCase struct {
	tenants   tenant.Repository
	history   tenant.HistoryRepository
	txManager TxManager
	clock     clock.Clock
	logger    logger.Interface
}

func NewEndTrialUseCase(
	tenants tenant.Repository,
	history tenant.HistoryRepository,
	txManager TxManager,
	clk clock.Clock,
	logger logger.Interface,
) *EndTrialUseCase {
	return &EndTrialUseCase{
		tenants:   tenants,
		history:   history,
		txManager: txManager,
		clock:     clk,
		logger:    logger,
	}
}

func (uc *EndTrialUseCase) Execute(ctx context.Context, cmd EndTrialCommand) error {
	conversionPlan := cmd.ConversionPlan
	if conversionPlan == "" {
		conversionPlan = billing.TierFree
	}
	if !conversionPlan.IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("invalid plan tier: %s", conversionPlan))
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
		now := uc.clock.Now()
		if err := t.EndTrial(conversionPlan, now); err != nil {
			if errors.Is(err, tenant.ErrNotInTrial) {
				return apperrors.NewInvalidStateError("Tenant is not in trial")
			}
			return apperrors.NewValidationError(err.Error())
		}

		entry, err := tenant.NewHistoryEntry(t.ID(), tenant.ChangeTrialEnd, fromPlan, conversionPlan, tenant.SystemActor, now)
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

	uc.logger.Infow("trial ended",
		"tenant_id", cmd.TenantID,
		"conversion_plan", conversionPlan,
	)

	return nil
}
