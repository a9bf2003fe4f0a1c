package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelIsTerminal(t *testing.T) {
	a := &Appointment{}
	require.True(t, a.IsActive())

	require.NoError(t, a.Cancel())
	assert.True(t, a.Cancelled)
	assert.False(t, a.IsActive())

	err := a.Cancel()
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.True(t, a.Cancelled)
}

func TestIsValidSlotTime(t *testing.T) {
	for _, label := range SlotTimes {
		assert.True(t, IsValidSlotTime(label), label)
	}

	invalid := []string{
		"",
		"10:00",
		"10:00 am",
		"10:15 AM",
		"09:00 AM",
		"09:00 PM",
		"1:00 PM",
	}
	for _, label := range invalid {
		assert.False(t, IsValidSlotTime(label), label)
	}
}

func TestSlotTimesAreHalfHourly(t *testing.T) {
	// 10:00 AM through 08:30 PM inclusive is 22 half-hour slots.
	assert.Len(t, SlotTimes, 22)
	assert.Equal(t, "10:00 AM", SlotTimes[0])
	assert.Equal(t, "08:30 PM", SlotTimes[len(SlotTimes)-1])
}

func TestIsValidSlotDate(t *testing.T) {
	assert.True(t, IsValidSlotDate("2026-09-01"))
	assert.True(t, IsValidSlotDate("2026-12-31"))

	invalid := []string{
		"",
		"2026-13-01",
		"2026-02-30",
		"01-09-2026",
		"2026/09/01",
		"tomorrow",
	}
	for _, date := range invalid {
		assert.False(t, IsValidSlotDate(date), date)
	}
}
