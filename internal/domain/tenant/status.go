package tenant

import (
	"fmt"
	"strings"
)

// Status is the tenant subscription status. SUSPENDED is set by external
// billing-failure handling; the state machine here never enters it on its own
// but must round-trip it from persistence.
type Status string

const (
	StatusActive    Status = "active"
	StatusCanceled  Status = "canceled"
	StatusSuspended Status = "suspended"
)

var ValidStatuses = map[Status]bool{
	StatusActive:    true,
	StatusCanceled:  true,
	StatusSuspended: true,
}

// ParseStatus parses and validates a status string.
func ParseStatus(value string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	status := Status(normalized)

	if normalized == "" {
		return "", fmt.Errorf("status cannot be empty")
	}
	if !ValidStatuses[status] {
		return "", fmt.Errorf("invalid subscription status: %s", value)
	}

	return status, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return ValidStatuses[s]
}
