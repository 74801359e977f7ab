package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineSplitRoundtrip(t *testing.T) {
	at, err := Combine("2024-01-01", "14:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC), at)

	date, clock := Split(at)
	assert.Equal(t, "2024-01-01", date)
	assert.Equal(t, "14:30", clock)
}

func TestCombineRejectsBadInput(t *testing.T) {
	_, err := Combine("01/01/2024", "14:30")
	assert.Error(t, err)
	_, err = Combine("2024-01-01", "2:30 PM")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 30, m)

	_, _, err = ParseClock("25:00")
	assert.Error(t, err)
}

func TestClockConversions(t *testing.T) {
	assert.Equal(t, "2:30 PM", To12Hour("14:30"))
	assert.Equal(t, "9:00 AM", To12Hour("09:00"))
	assert.Equal(t, "12:00 PM", To12Hour("12:00"))
	assert.Equal(t, "12:00 AM", To12Hour("00:00"))
	assert.Equal(t, "garbage", To12Hour("garbage"))

	assert.Equal(t, "14:30", To24Hour("2:30 PM"))
	assert.Equal(t, "00:15", To24Hour("12:15 AM"))
	assert.Equal(t, "garbage", To24Hour("garbage"))
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2024-01-29", 7)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-05", got)

	// 2024 is a leap year.
	got, err = AddDays("2024-02-28", 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", got)

	_, err = AddDays("not-a-date", 1)
	assert.Error(t, err)
}

func TestWeekdayName(t *testing.T) {
	at, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "Monday", WeekdayName(at))
}
