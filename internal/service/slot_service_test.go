package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutordesk/tutordesk/internal/model"
)

func mondaySchedule(intervals ...model.Interval) []model.WeekDay {
	schedule := make([]model.WeekDay, 0, len(model.Weekdays))
	for _, name := range model.Weekdays {
		day := model.WeekDay{Day: name, Active: false, Intervals: []model.Interval{}}
		if name == "Monday" {
			day.Active = true
			day.Intervals = intervals
		}
		schedule = append(schedule, day)
	}
	return schedule
}

// 2024-01-01 is a Monday.
var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func slotTimes(slots []model.Slot, date string) []string {
	var times []string
	for _, s := range slots {
		if s.Date == date {
			times = append(times, s.Time)
		}
	}
	sort.Strings(times)
	return times
}

func TestGenerateSlotsWholeHours(t *testing.T) {
	schedule := mondaySchedule(model.Interval{Start: "09:00", End: "12:00"})

	slots := GenerateSlots(schedule, nil, monday, 7)

	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, slotTimes(slots, "2024-01-01"))
	for _, s := range slots {
		assert.True(t, s.Generated)
		assert.Equal(t, model.GeneratedSlotID(s.Date, s.Time), s.ID)
	}
}

func TestGenerateSlotsIdempotent(t *testing.T) {
	schedule := mondaySchedule(
		model.Interval{Start: "09:00", End: "12:00"},
		model.Interval{Start: "14:00", End: "16:00"},
	)
	manual := []model.Slot{{ID: "man-1", Date: "2024-01-03", Time: "10:00"}}

	first := GenerateSlots(schedule, manual, monday, 30)
	second := GenerateSlots(schedule, manual, monday, 30)

	assert.Equal(t, first, second)
}

func TestGenerateSlotsManualWins(t *testing.T) {
	schedule := mondaySchedule(model.Interval{Start: "09:00", End: "12:00"})
	manual := []model.Slot{{ID: "man-1", Date: "2024-01-01", Time: "10:00", BookedBy: "Alice"}}

	slots := GenerateSlots(schedule, manual, monday, 7)

	var at []model.Slot
	for _, s := range slots {
		if s.Date == "2024-01-01" && s.Time == "10:00" {
			at = append(at, s)
		}
	}
	require.Len(t, at, 1)
	assert.Equal(t, "man-1", at[0].ID)
	assert.False(t, at[0].Generated)
}

func TestGenerateSlotsPartialHourTruncated(t *testing.T) {
	// The 11:30 remainder is not emitted; only whole hours bounded by
	// the end hour.
	schedule := mondaySchedule(model.Interval{Start: "09:00", End: "11:30"})

	slots := GenerateSlots(schedule, nil, monday, 1)

	assert.Equal(t, []string{"09:00", "10:00"}, slotTimes(slots, "2024-01-01"))
}

func TestGenerateSlotsStartMinuteOffset(t *testing.T) {
	schedule := mondaySchedule(model.Interval{Start: "09:30", End: "12:00"})

	slots := GenerateSlots(schedule, nil, monday, 1)

	assert.Equal(t, []string{"09:30", "10:30", "11:30"}, slotTimes(slots, "2024-01-01"))
}

func TestGenerateSlotsInactiveDaySkipped(t *testing.T) {
	schedule := mondaySchedule(model.Interval{Start: "09:00", End: "12:00"})
	for i := range schedule {
		schedule[i].Active = false
	}

	slots := GenerateSlots(schedule, nil, monday, 30)

	assert.Empty(t, slots)
}

func TestGenerateSlotsWindowBounds(t *testing.T) {
	schedule := mondaySchedule(model.Interval{Start: "09:00", End: "10:00"})

	// A 30-day window starting Monday contains five Mondays.
	slots := GenerateSlots(schedule, nil, monday, 30)

	assert.Len(t, slots, 5)
}

func TestAddManualSlotRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.slots.AddManual(ctx, "2024-01-01", "14:00")
	require.NoError(t, err)

	_, err = env.slots.AddManual(ctx, "2024-01-01", "14:00")
	assert.Error(t, err)
}

func TestRemoveManualSlotRefusesBooked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	slot, err := env.slots.AddManual(ctx, "2024-01-01", "14:00")
	require.NoError(t, err)

	studentID := env.addStudent(t, "Alice")
	_, err = env.bookings.CreateSingle(ctx, CreateBookingInput{
		StudentID: studentID, Date: "2024-01-01", Time: "14:00", Subject: "Maths GCSE",
	})
	require.NoError(t, err)

	err = env.slots.RemoveManual(ctx, slot.ID)
	assert.Error(t, err)
}
