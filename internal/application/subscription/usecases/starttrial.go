package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/clock"
	apperrors "github.com/manyinyire/fleetbackend-sub002/internal/shared/errors"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

// DefaultTrialDays is the trial length used when a command does not specify one.
const DefaultTrialDays = 30

type StartTrialCommand struct {
	TenantID     uint
	DurationDays int
}

type StartTrialResult struct {
	TenantID    uint      `json:"tenant_id"`
	TrialEndsAt time.Time `json:"trial_ends_at"`
}

type StartTrialUseCase struct {
	tenants   tenant.Repository
	history   tenant.HistoryRepository
	txManager TxManager
	clock     clock.Clock
	logger    logger.Interface
}

func NewStartTrialUseCase(
	tenants tenant.Repository,
	history tenant.HistoryRepository,
	txManager TxManager,
	clk clock.Clock,
	logger logger.Interface,
) *StartTrialUseCase {
	return &StartTrialUseCase{
		tenants:   tenants,
		history:   history,
		txManager: txManager,
		clock:     clk,
		logger:    logger,
	}
}

func (uc *StartTrialUseCase) Execute(ctx context.Context, cmd StartTrialCommand) (*StartTrialResult, error) {
	durationDays := cmd.DurationDays
	if durationDays == 0 {
		durationDays = DefaultTrialDays
	}

	var result *StartTrialResult

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
		if err := t.StartTrial(now, durationDays); err != nil {
			if errors.Is(err, tenant.ErrAlreadyInTrial) {
				return apperrors.NewInvalidStateError("Tenant is already in trial")
			}
			return apperrors.NewValidationError(err.Error())
		}

		entry, err := tenant.NewHistoryEntry(t.ID(), tenant.ChangeTrialStart, billing.TierFree, billing.TierFree, tenant.SystemActor, now)
		if err != nil {
			return fmt.Errorf("failed to build history entry: %w", err)
		}
		entry.AddMetadata("duration_days", durationDays)

		if err := uc.tenants.Update(txCtx, t); err != nil {
			uc.logger.Errorw("failed to update tenant", "error", err, "tenant_id", cmd.TenantID)
			return fmt.Errorf("failed to update tenant: %w", err)
		}
		if err := uc.history.Append(txCtx, entry); err != nil {
			uc.logger.Errorw("failed to append subscription history", "error", err, "tenant_id", cmd.TenantID)
			return fmt.Errorf("failed to append history: %w", err)
		}

		result = &StartTrialResult{
			TenantID:    t.ID(),
			TrialEndsAt: *t.TrialEndsAt(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("trial started",
		"tenant_id", cmd.TenantID,
		"duration_days", durationDays,
		"trial_ends_at", result.TrialEndsAt,
	)

	return result, nil
}
