package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutordesk/tutordesk/internal/model"
	"github.com/tutordesk/tutordesk/internal/store"
)

func TestGetScheduleBackfillsSevenDays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Store only holds two days; the rest must be backfilled in fixed
	// weekday order.
	partial := []model.WeekDay{
		{Day: "Wednesday", Active: true, Intervals: []model.Interval{{Start: "10:00", End: "14:00"}}},
		{Day: "Monday", Active: true, Intervals: []model.Interval{{Start: "09:00", End: "12:00"}}},
	}
	require.NoError(t, env.store.Save(ctx, store.ColSchedule, partial))

	schedule, err := env.schedule.Get(ctx)
	require.NoError(t, err)

	require.Len(t, schedule, 7)
	for i, name := range model.Weekdays {
		assert.Equal(t, name, schedule[i].Day)
	}
	assert.True(t, schedule[0].Active)  // Monday kept
	assert.True(t, schedule[2].Active)  // Wednesday kept
	assert.False(t, schedule[1].Active) // Tuesday backfilled inactive
}

func TestToggleDayActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	schedule, err := env.schedule.ToggleDayActive(ctx, "Tuesday")
	require.NoError(t, err)
	assert.True(t, schedule[1].Active)

	schedule, err = env.schedule.ToggleDayActive(ctx, "Tuesday")
	require.NoError(t, err)
	assert.False(t, schedule[1].Active)
	require.Len(t, schedule, 7)
}

func TestToggleUnknownDayFails(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.schedule.ToggleDayActive(context.Background(), "Funday")
	assert.Error(t, err)
}

func TestIntervalMutations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	schedule, err := env.schedule.AddInterval(ctx, "Monday")
	require.NoError(t, err)
	require.Len(t, schedule[0].Intervals, 2) // default + added

	schedule, err = env.schedule.UpdateInterval(ctx, "Monday", 1, "start", "13:00")
	require.NoError(t, err)
	assert.Equal(t, "13:00", schedule[0].Intervals[1].Start)

	schedule, err = env.schedule.UpdateInterval(ctx, "Monday", 1, "end", "15:00")
	require.NoError(t, err)
	assert.Equal(t, "15:00", schedule[0].Intervals[1].End)

	schedule, err = env.schedule.RemoveInterval(ctx, "Monday", 0)
	require.NoError(t, err)
	require.Len(t, schedule[0].Intervals, 1)
	assert.Equal(t, "13:00", schedule[0].Intervals[0].Start)
}

func TestUpdateIntervalValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.schedule.UpdateInterval(ctx, "Monday", 5, "start", "09:00")
	assert.Error(t, err)

	_, err = env.schedule.UpdateInterval(ctx, "Monday", 0, "middle", "09:00")
	assert.Error(t, err)
}
