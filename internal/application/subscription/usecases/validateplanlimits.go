package usecases

import (
	"context"
	"fmt"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	apperrors "github.com/manyinyire/fleetbackend-sub002/internal/shared/errors"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

type ValidatePlanLimitsCommand struct {
	TenantID uint
	// TargetPlan validates against a prospective plan instead of the
	// tenant's current one. Empty means current.
	TargetPlan billing.PlanTier
}

type ValidatePlanLimitsResult struct {
	Plan        billing.PlanTier `json:"plan"`
	WithinLimit bool             `json:"within_limit"`
	Violations  []string         `json:"violations"`
}

type ValidatePlanLimitsUseCase struct {
	tenants tenant.Repository
	catalog *billing.Catalog
	counter ResourceCounter
	logger  logger.Interface
}

func NewValidatePlanLimitsUseCase(
	tenants tenant.Repository,
	catalog *billing.Catalog,
	counter ResourceCounter,
	logger logger.Interface,
) *ValidatePlanLimitsUseCase {
	return &ValidatePlanLimitsUseCase{
		tenants: tenants,
		catalog: catalog,
		counter: counter,
		logger:  logger,
	}
}

func (uc *ValidatePlanLimitsUseCase) Execute(ctx context.Context, cmd ValidatePlanLimitsCommand) (*ValidatePlanLimitsResult, error) {
	t, err := uc.tenants.GetByID(ctx, cmd.TenantID)
	if err != nil {
		uc.logger.Errorw("failed to get tenant", "error", err, "tenant_id", cmd.TenantID)
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	if t == nil {
		return nil, apperrors.NewNotFoundError("Tenant not found")
	}

	plan := t.Plan()
	if cmd.TargetPlan != "" {
		if !cmd.TargetPlan.IsValid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid plan tier: %s", cmd.TargetPlan))
		}
		plan = cmd.TargetPlan
	}

	counts, err := uc.counter.CountResources(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to count tenant resources", "error", err, "tenant_id", cmd.TenantID)
		return nil, fmt.Errorf("failed to count resources: %w", err)
	}

	limits := uc.catalog.GetPlanConfig(ctx, plan).Limits

	var violations []string
	if v := checkLimit("Vehicles", counts.Vehicles, limits.MaxVehicles); v != "" {
		violations = append(violations, v)
	}
	if v := checkLimit("Users", counts.Users, limits.MaxUsers); v != "" {
		violations = append(violations, v)
	}
	if v := checkLimit("Drivers", counts.Drivers, limits.MaxDrivers); v != "" {
		violations = append(violations, v)
	}

	return &ValidatePlanLimitsResult{
		Plan:        plan,
		WithinLimit: len(violations) == 0,
		Violations:  violations,
	}, nil
}

// checkLimit returns a violation message when current exceeds limit.
// A negative limit means unlimited.
func checkLimit(resource string, current, limit int) string {
	if limit < 0 || current <= limit {
		return ""
	}
	return fmt.Sprintf("%s limit exceeded: %d/%d", resource, current, limit)
}
