package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/clock"
	apperrors "github.com/manyinyire/fleetbackend-sub002/internal/shared/errors"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	TenantID  uint
	Immediate bool
	Reason    string
	ActorID   string
}

type CancelSubscriptionUseCase struct {
	tenants   tenant.Repository
	history   tenant.HistoryRepository
	txManager TxManager
	clock     clock.Clock
	logger    logger.Interface
}

func NewCancelSubscriptionUseCase(
	tenants tenant.Repository,
	history tenant.HistoryRepository,
	txManager TxManager,
	clk clock.Clock,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		tenants:   tenants,
		history:   history,
		txManager: txManager,
		clock:     clk,
		logger:    logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) error {
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
		if err := t.Cancel(cmd.Reason, cmd.Immediate, now); err != nil {
			if errors.Is(err, tenant.ErrCancelNotAllowed) {
				return apperrors.NewInvalidStateError("Subscription is already canceled")
			}
			return apperrors.NewValidationError(err.Error())
		}

		entry, err := tenant.NewHistoryEntry(t.ID(), tenant.ChangeCancellation, fromPlan, t.Plan(), cmd.ActorID, now)
		if err != nil {
			return fmt.Errorf("failed to build history entry: %w", err)
		}
		entry.AddMetadata("immediate", cmd.Immediate)
		if cmd.Reason != "" {
			entry.AddMetadata("reason", cmd.Reason)
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

	uc.logger.Infow("subscription canceled",
		"tenant_id", cmd.TenantID,
		"immediate", cmd.Immediate,
	)

	return nil
}
