package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedEngine(now time.Time) *Engine {
	return &Engine{now: func() time.Time { return now }}
}

func TestParseDateRangeDefaults(t *testing.T) {
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	e := fixedEngine(now)

	from, to, err := e.ParseDateRange("", "")
	require.NoError(t, err)
	assert.Equal(t, time.Unix(0, 0).UTC(), from)
	assert.Equal(t, now, to)
}

func TestParseDateRangePlainDates(t *testing.T) {
	e := fixedEngine(time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC))

	from, to, err := e.ParseDateRange("2025-01-01", "2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), from)
	// A plain-date upper bound covers the entire final day.
	assert.Equal(t, time.Date(2025, time.January, 31, 23, 59, 59, 999999999, time.UTC), to)
}

func TestParseDateRangeRFC3339(t *testing.T) {
	e := fixedEngine(time.Now())

	from, to, err := e.ParseDateRange("2025-01-01T08:00:00Z", "2025-01-01T17:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 8, from.Hour())
	assert.Equal(t, 17, to.Hour())
	assert.Equal(t, 30, to.Minute())
}

func TestParseDateRangeRejectsGarbage(t *testing.T) {
	e := fixedEngine(time.Now())

	_, _, err := e.ParseDateRange("yesterday", "")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, _, err = e.ParseDateRange("", "01/31/2025")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestParseDateRangeRejectsInverted(t *testing.T) {
	e := fixedEngine(time.Now())

	_, _, err := e.ParseDateRange("2025-02-01", "2025-01-01")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
