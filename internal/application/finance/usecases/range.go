package usecases

import (
	"time"

	"github.com/manyinyire/fleetbackend-sub002/internal/shared/biztime"
	apperrors "github.com/manyinyire/fleetbackend-sub002/internal/shared/errors"
)

// normalizeRange widens a report range to whole days in UTC and validates
// its ordering.
func normalizeRange(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("Report range requires both start and end dates")
	}

	start = biztime.StartOfDayUTC(start)
	end = biztime.EndOfDayUTC(end)
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("Report end date must not precede start date")
	}
	return start, end, nil
}
