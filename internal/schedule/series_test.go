package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandSeries_Weekly(t *testing.T) {
	from := time.Date(2025, 6, 3, 19, 0, 0, 0, time.UTC) // Tuesday

	got, err := ExpandSeries("FREQ=WEEKLY;COUNT=3", from, 10)

	require.NoError(t, err)
	want := []time.Time{from, from.AddDate(0, 0, 7), from.AddDate(0, 0, 14)}
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "occurrence %d: want %s, got %s", i, want[i], got[i])
	}
}

func TestExpandSeries_CapsUnboundedRules(t *testing.T) {
	from := time.Date(2025, 6, 3, 19, 0, 0, 0, time.UTC)

	got, err := ExpandSeries("RRULE:FREQ=DAILY", from, 0)
	require.NoError(t, err)
	assert.Len(t, got, MaxSeriesLength)

	got, err = ExpandSeries("FREQ=DAILY", from, 4)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestExpandSeries_InvalidRule(t *testing.T) {
	_, err := ExpandSeries("NOT_A_RULE", time.Now(), 5)
	assert.Error(t, err)
}
