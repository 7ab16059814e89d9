package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWholeDaysBetween(t *testing.T) {
	a := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, WholeDaysBetween(a, a))
	assert.Equal(t, 10, WholeDaysBetween(a, a.AddDate(0, 0, 10)))
	assert.Equal(t, -3, WholeDaysBetween(a, a.AddDate(0, 0, -3)))

	// Partial days truncate.
	assert.Equal(t, 0, WholeDaysBetween(a, a.Add(23*time.Hour)))
	assert.Equal(t, 1, WholeDaysBetween(a, a.Add(25*time.Hour)))
}

func TestTruncateToDayUTC(t *testing.T) {
	in := time.Date(2025, 6, 10, 22, 45, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), TruncateToDayUTC(in))

	// Non-UTC instants are converted first.
	harare := time.FixedZone("CAT", 2*60*60)
	late := time.Date(2025, 6, 11, 1, 30, 0, 0, harare) // 23:30 UTC the day before
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), TruncateToDayUTC(late))
}

func TestDayBoundsInBizTimezone(t *testing.T) {
	// Africa/Harare is UTC+2 with no DST.
	require.NoError(t, Init(""))

	in := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	start := StartOfDayUTC(in)
	assert.Equal(t, time.Date(2025, 6, 9, 22, 0, 0, 0, time.UTC), start)

	end := EndOfDayUTC(in)
	assert.Equal(t, time.Date(2025, 6, 10, 21, 59, 59, 999999999, time.UTC), end)
}

func TestParseDateInBizTimezone(t *testing.T) {
	require.NoError(t, Init(""))

	parsed, err := ParseDateInBizTimezone("2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 9, 22, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDateInBizTimezone("10/06/2025")
	assert.Error(t, err)

	_, err = ParseDateInBizTimezone("")
	assert.Error(t, err)
}
