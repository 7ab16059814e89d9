package tenant

import (
	"errors"
	"time"

	"github.com/manyinyire/fleetbackend-sub002/internal/domain/billing"
)

// ChangeType classifies a subscription history entry.
type ChangeType string

const (
	ChangeTrialStart   ChangeType = "trial_start"
	ChangeTrialEnd     ChangeType = "trial_end"
	ChangeUpgrade      ChangeType = "upgrade"
	ChangeDowngrade    ChangeType = "downgrade"
	ChangeRenewal      ChangeType = "renewal"
	ChangeCancellation ChangeType = "cancellation"
	ChangeReactivation ChangeType = "reactivation"
)

var ValidChangeTypes = map[ChangeType]bool{
	ChangeTrialStart:   true,
	ChangeTrialEnd:     true,
	ChangeUpgrade:      true,
	ChangeDowngrade:    true,
	ChangeRenewal:      true,
	ChangeCancellation: true,
	ChangeReactivation: true,
}

// SystemActor is recorded as changed_by for transitions not initiated by a user.
const SystemActor = "system"

var ErrInvalidChangeType = errors.New("invalid change type")

// HistoryEntry is an immutable audit record appended on every subscription
// state transition.
type HistoryEntry struct {
	id         uint
	tenantID   uint
	changeType ChangeType
	fromPlan   billing.PlanTier
	toPlan     billing.PlanTier
	changedBy  string
	metadata   map[string]interface{}
	createdAt  time.Time
}

// NewHistoryEntry creates a history entry for a transition.
func NewHistoryEntry(tenantID uint, changeType ChangeType, fromPlan, toPlan billing.PlanTier, changedBy string, now time.Time) (*HistoryEntry, error) {
	if tenantID == 0 {
		return nil, errors.New("tenant ID cannot be zero")
	}
	if !ValidChangeTypes[changeType] {
		return nil, ErrInvalidChangeType
	}
	if changedBy == "" {
		changedBy = SystemActor
	}

	return &HistoryEntry{
		tenantID:   tenantID,
		changeType: changeType,
		fromPlan:   fromPlan,
		toPlan:     toPlan,
		changedBy:  changedBy,
		metadata:   make(map[string]interface{}),
		createdAt:  now,
	}, nil
}

// ReconstructHistoryEntry rebuilds a history entry from persistence.
func ReconstructHistoryEntry(
	entryID, tenantID uint,
	changeType ChangeType,
	fromPlan, toPlan billing.PlanTier,
	changedBy string,
	metadata map[string]interface{},
	createdAt time.Time,
) (*HistoryEntry, error) {
	if entryID == 0 {
		return nil, errors.New("history ID cannot be zero")
	}
	if tenantID == 0 {
		return nil, errors.New("tenant ID cannot be zero")
	}
	if !ValidChangeTypes[changeType] {
		return nil, ErrInvalidChangeType
	}
	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &HistoryEntry{
		id:         entryID,
		tenantID:   tenantID,
		changeType: changeType,
		fromPlan:   fromPlan,
		toPlan:     toPlan,
		changedBy:  changedBy,
		metadata:   metadata,
		createdAt:  createdAt,
	}, nil
}

// AddMetadata attaches contextual data (cancel reason, proration figures)
// before the entry is persisted.
func (h *HistoryEntry) AddMetadata(key string, value interface{}) {
	if h.metadata == nil {
		h.metadata = make(map[string]interface{})
	}
	h.metadata[key] = value
}

func (h *HistoryEntry) ID() uint                   { return h.id }
func (h *HistoryEntry) TenantID() uint             { return h.tenantID }
func (h *HistoryEntry) ChangeType() ChangeType     { return h.changeType }
func (h *HistoryEntry) FromPlan() billing.PlanTier { return h.fromPlan }
func (h *HistoryEntry) ToPlan() billing.PlanTier   { return h.toPlan }
func (h *HistoryEntry) ChangedBy() string          { return h.changedBy }
func (h *HistoryEntry) CreatedAt() time.Time       { return h.createdAt }

// Metadata returns a copy of the metadata map.
func (h *HistoryEntry) Metadata() map[string]interface{} {
	metadata := make(map[string]interface{}, len(h.metadata))
	for k, v := range h.metadata {
		metadata[k] = v
	}
	return metadata
}
