package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
)

func TestNewHistoryEntry(t *testing.T) {
	t.Run("creates a valid entry", func(t *testing.T) {
		entry, err := NewHistoryEntry(1, ChangeUpgrade, billing.TierBasic, billing.TierPremium, "admin@acme.test", testNow)
		require.NoError(t, err)

		assert.Equal(t, uint(1), entry.TenantID())
		assert.Equal(t, ChangeUpgrade, entry.ChangeType())
		assert.Equal(t, billing.TierBasic, entry.FromPlan())
		assert.Equal(t, billing.TierPremium, entry.ToPlan())
		assert.Equal(t, "admin@acme.test", entry.ChangedBy())
		assert.Equal(t, testNow, entry.CreatedAt())
	})

	t.Run("empty actor defaults to system", func(t *testing.T) {
		entry, err := NewHistoryEntry(1, ChangeRenewal, billing.TierBasic, billing.TierBasic, "", testNow)
		require.NoError(t, err)
		assert.Equal(t, SystemActor, entry.ChangedBy())
	})

	t.Run("rejects zero tenant ID", func(t *testing.T) {
		_, err := NewHistoryEntry(0, ChangeUpgrade, billing.TierFree, billing.TierBasic, "", testNow)
		assert.Error(t, err)
	})

	t.Run("rejects unknown change type", func(t *testing.T) {
		_, err := NewHistoryEntry(1, ChangeType("plan_shuffle"), billing.TierFree, billing.TierBasic, "", testNow)
		assert.ErrorIs(t, err, ErrInvalidChangeType)
	})
}

func TestHistoryEntry_Metadata(t *testing.T) {
	entry, err := NewHistoryEntry(1, ChangeCancellation, billing.TierPremium, billing.TierFree, "", testNow)
	require.NoError(t, err)

	entry.AddMetadata("reason", "too expensive")
	entry.AddMetadata("immediate", true)

	metadata := entry.Metadata()
	assert.Equal(t, "too expensive", metadata["reason"])
	assert.Equal(t, true, metadata["immediate"])

	// The returned map is a copy; mutating it does not leak back in.
	metadata["reason"] = "changed my mind"
	assert.Equal(t, "too expensive", entry.Metadata()["reason"])
}

func TestReconstructHistoryEntry(t *testing.T) {
	t.Run("round-trips persisted state", func(t *testing.T) {
		entry, err := ReconstructHistoryEntry(
			9, 1, ChangeDowngrade, billing.TierPremium, billing.TierBasic, "admin@acme.test",
			map[string]interface{}{"credit": "35.00"}, testNow,
		)
		require.NoError(t, err)

		assert.Equal(t, uint(9), entry.ID())
		assert.Equal(t, "35.00", entry.Metadata()["credit"])
	})

	t.Run("nil metadata becomes an empty map", func(t *testing.T) {
		entry, err := ReconstructHistoryEntry(9, 1, ChangeRenewal, billing.TierBasic, billing.TierBasic, SystemActor, nil, testNow)
		require.NoError(t, err)
		assert.NotNil(t, entry.Metadata())
		assert.Empty(t, entry.Metadata())
	})

	t.Run("rejects zero IDs", func(t *testing.T) {
		_, err := ReconstructHistoryEntry(0, 1, ChangeRenewal, billing.TierBasic, billing.TierBasic, SystemActor, nil, testNow)
		assert.Error(t, err)

		_, err = ReconstructHistoryEntry(9, 0, ChangeRenewal, billing.TierBasic, billing.TierBasic, SystemActor, nil, testNow)
		assert.Error(t, err)
	})
}
