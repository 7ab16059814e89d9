package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
	"github.com/manyinyire/fleetbackend-sub002/internal/domain/tenant"
	"github.com/manyinyire/fleetbackend-sub002/internal/infrastructure/persistence/models"
	apperrors "github.com/manyinyire/fleetbackend-sub002/internal/shared/errors"
	"github.com/manyinyire/fleetbackend-sub002/internal/shared/logger"
)

var repoNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gormDB.AutoMigrate(
		&models.TenantModel{},
		&models.SubscriptionHistoryModel{},
		&models.IncomeModel{},
		&models.ExpenseModel{},
	))

	return gormDB
}

func discardLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func createTestTenant(t *testing.T, repo tenant.Repository) *tenant.Tenant {
	tn, err := tenant.NewTenant("Acme Logistics", repoNow)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tn))
	return tn
}

func TestTenantRepository_CreateAndGet(t *testing.T) {
	repo := NewTenantRepository(setupTestDB(t), discardLogger())
	ctx := context.Background()

	created := createTestTenant(t, repo)
	require.NotZero(t, created.ID())

	t.Run("get by ID round-trips the aggregate", func(t *testing.T) {
		loaded, err := repo.GetByID(ctx, created.ID())
		require.NoError(t, err)
		require.NotNil(t, loaded)

		assert.Equal(t, created.SID(), loaded.SID())
		assert.Equal(t, "Acme Logistics", loaded.Name())
		assert.Equal(t, billing.TierFree, loaded.Plan())
		assert.Equal(t, tenant.StatusActive, loaded.Status())
		assert.Equal(t, 1, loaded.Version())
		assert.True(t, loaded.MonthlyRevenue().IsZero())
	})

	t.Run("get by SID", func(t *testing.T) {
		loaded, err := repo.GetBySID(ctx, created.SID())
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, created.ID(), loaded.ID())
	})

	t.Run("missing tenant returns nil without error", func(t *testing.T) {
		loaded, err := repo.GetByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, loaded)

		loaded, err = repo.GetBySID(ctx, "tn_missing")
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})
}

func TestTenantRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a state transition", func(t *testing.T) {
		repo := NewTenantRepository(setupTestDB(t), discardLogger())
		tn := createTestTenant(t, repo)

		require.NoError(t, tn.ChangePlan(billing.TierPremium, billing.CycleYearly, repoNow.Add(time.Hour)))
		require.NoError(t, repo.Update(ctx, tn))

		loaded, err := repo.GetByID(ctx, tn.ID())
		require.NoError(t, err)
		assert.Equal(t, billing.TierPremium, loaded.Plan())
		assert.Equal(t, billing.CycleYearly, loaded.BillingCycle())
		assert.Equal(t, 2, loaded.Version())
	})

	t.Run("stale version loses the optimistic lock", func(t *testing.T) {
		repo := NewTenantRepository(setupTestDB(t), discardLogger())
		tn := createTestTenant(t, repo)

		// Two copies loaded at version 1; the second write must conflict.
		first, err := repo.GetByID(ctx, tn.ID())
		require.NoError(t, err)
		second, err := repo.GetByID(ctx, tn.ID())
		require.NoError(t, err)

		require.NoError(t, first.ChangePlan(billing.TierBasic, billing.CycleMonthly, repoNow.Add(time.Hour)))
		require.NoError(t, repo.Update(ctx, first))

		require.NoError(t, second.ChangePlan(billing.TierPremium, billing.CycleMonthly, repoNow.Add(time.Hour)))
		err = repo.Update(ctx, second)
		require.Error(t, err)

		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)

		loaded, err := repo.GetByID(ctx, tn.ID())
		require.NoError(t, err)
		assert.Equal(t, billing.TierBasic, loaded.Plan())
	})
}

func TestTenantRepository_ListDueForRenewal(t *testing.T) {
	repo := NewTenantRepository(setupTestDB(t), discardLogger())
	ctx := context.Background()

	// Due: active, auto-renew on, window ended.
	due := createTestTenant(t, repo)
	require.NoError(t, due.Cancel("", true, repoNow.AddDate(0, -3, 0)))
	require.NoError(t, due.Reactivate(billing.TierBasic, decimal.RequireFromString("29.99"), repoNow.AddDate(0, -2, 0)))
	require.NoError(t, repo.Update(ctx, due))

	// Not due: auto-renew off.
	noRenew := createTestTenant(t, repo)
	require.NoError(t, noRenew.Cancel("churn", false, repoNow.AddDate(0, -2, 0)))
	require.NoError(t, repo.Update(ctx, noRenew))

	// Not due: window still open.
	future := createTestTenant(t, repo)
	require.NoError(t, future.Cancel("", true, repoNow.AddDate(0, -1, 0)))
	require.NoError(t, future.Reactivate(billing.TierPremium, decimal.RequireFromString("99.99"), repoNow))
	require.NoError(t, repo.Update(ctx, future))

	listed, err := repo.ListDueForRenewal(ctx, repoNow)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, due.ID(), listed[0].ID())
}

func TestTenantRepository_ListExpiredTrials(t *testing.T) {
	repo := NewTenantRepository(setupTestDB(t), discardLogger())
	ctx := context.Background()

	expired := createTestTenant(t, repo)
	require.NoError(t, expired.StartTrial(repoNow.AddDate(0, 0, -40), 30))
	require.NoError(t, repo.Update(ctx, expired))

	ongoing := createTestTenant(t, repo)
	require.NoError(t, ongoing.StartTrial(repoNow.AddDate(0, 0, -5), 30))
	require.NoError(t, repo.Update(ctx, ongoing))

	// A tenant that never started a trial is ignored.
	createTestTenant(t, repo)

	listed, err := repo.ListExpiredTrials(ctx, repoNow)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, expired.ID(), listed[0].ID())
}

func TestHistoryRepository_AppendAndList(t *testing.T) {
	gormDB := setupTestDB(t)
	tenants := NewTenantRepository(gormDB, discardLogger())
	history := NewHistoryRepository(gormDB, discardLogger())
	ctx := context.Background()

	tn := createTestTenant(t, tenants)

	first, err := tenant.NewHistoryEntry(tn.ID(), tenant.ChangeTrialStart, billing.TierFree, billing.TierFree, "", repoNow)
	require.NoError(t, err)
	first.AddMetadata("duration_days", 30)
	require.NoError(t, history.Append(ctx, first))

	second, err := tenant.NewHistoryEntry(tn.ID(), tenant.ChangeTrialEnd, billing.TierFree, billing.TierBasic, "", repoNow.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.NoError(t, history.Append(ctx, second))

	t.Run("lists newest first with metadata intact", func(t *testing.T) {
		entries, err := history.ListByTenantID(ctx, tn.ID())
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, tenant.ChangeTrialEnd, entries[0].ChangeType())
		assert.Equal(t, tenant.ChangeTrialStart, entries[1].ChangeType())
		assert.Equal(t, tenant.SystemActor, entries[1].ChangedBy())

		// JSON round-trip turns the int into a float64.
		assert.EqualValues(t, 30, entries[1].Metadata()["duration_days"])
	})

	t.Run("unknown tenant lists nothing", func(t *testing.T) {
		entries, err := history.ListByTenantID(ctx, 9999)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
