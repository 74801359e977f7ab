package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tutordesk/tutordesk/internal/apperr"
	"github.com/tutordesk/tutordesk/internal/events"
	"github.com/tutordesk/tutordesk/internal/model"
	"github.com/tutordesk/tutordesk/internal/store"
)

// ScheduleService owns the weekly availability model: seven weekday
// entries, always complete and in fixed order. Every mutation writes
// the whole document back.
type ScheduleService struct {
	store     store.Store
	broadcast events.Broadcaster
	logger    *zap.Logger
}

func NewScheduleService(st store.Store, broadcast events.Broadcaster, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{store: st, broadcast: broadcast, logger: logger}
}

// Get returns the weekly schedule, backfilling any missing weekday
// with the inactive default so callers always see seven days.
func (s *ScheduleService) Get(ctx context.Context) ([]model.WeekDay, error) {
	var stored []model.WeekDay
	if err := s.store.Load(ctx, store.ColSchedule, &stored); err != nil {
		return nil, fmt.Errorf("load weekly schedule: %w", err)
	}
	return normalizeSchedule(stored), nil
}

// ToggleDayActive flips a day's active flag.
func (s *ScheduleService) ToggleDayActive(ctx context.Context, day string) ([]model.WeekDay, error) {
	return s.mutate(ctx, day, func(d *model.WeekDay) error {
		d.Active = !d.Active
		return nil
	})
}

// AddInterval appends a fresh default interval to a day.
func (s *ScheduleService) AddInterval(ctx context.Context, day string) ([]model.WeekDay, error) {
	return s.mutate(ctx, day, func(d *model.WeekDay) error {
		d.Intervals = append(d.Intervals, model.Interval{Start: "09:00", End: "10:00"})
		return nil
	})
}

// UpdateInterval sets the start or end of one interval. No overlap
// validation between intervals; the teacher is trusted.
func (s *ScheduleService) UpdateInterval(ctx context.Context, day string, index int, field, value string) ([]model.WeekDay, error) {
	return s.mutate(ctx, day, func(d *model.WeekDay) error {
		if index < 0 || index >= len(d.Intervals) {
			return &apperr.ValidationError{Field: "interval", Reason: fmt.Sprintf("index %d out of range", index)}
		}
		switch field {
		case "start":
			d.Intervals[index].Start = value
		case "end":
			d.Intervals[index].End = value
		default:
			return &apperr.ValidationError{Field: "field", Reason: "must be start or end"}
		}
		return nil
	})
}

// RemoveInterval deletes one interval from a day.
func (s *ScheduleService) RemoveInterval(ctx context.Context, day string, index int) ([]model.WeekDay, error) {
	return s.mutate(ctx, day, func(d *model.WeekDay) error {
		if index < 0 || index >= len(d.Intervals) {
			return &apperr.ValidationError{Field: "interval", Reason: fmt.Sprintf("index %d out of range", index)}
		}
		d.Intervals = append(d.Intervals[:index], d.Intervals[index+1:]...)
		return nil
	})
}

func (s *ScheduleService) mutate(ctx context.Context, day string, fn func(*model.WeekDay) error) ([]model.WeekDay, error) {
	var stored []model.WeekDay
	if err := s.store.Load(ctx, store.ColSchedule, &stored); err != nil {
		return nil, fmt.Errorf("load weekly schedule: %w", err)
	}
	schedule := normalizeSchedule(stored)

	found := false
	for i := range schedule {
		if schedule[i].Day == day {
			if err := fn(&schedule[i]); err != nil {
				return nil, err
			}
			found = true
			break
		}
	}
	if !found {
		return nil, &apperr.ValidationError{Field: "day", Reason: fmt.Sprintf("unknown weekday %q", day)}
	}

	if err := s.store.Save(ctx, store.ColSchedule, schedule); err != nil {
		return nil, fmt.Errorf("save weekly schedule: %w", err)
	}
	s.broadcast.Changed(string(store.ColSchedule))

	s.logger.Info("Weekly schedule updated", zap.String("day", day))
	return schedule, nil
}

// normalizeSchedule rebuilds the fixed seven-day document from
// whatever was stored, backfilling missing days and dropping strays.
func normalizeSchedule(stored []model.WeekDay) []model.WeekDay {
	byDay := make(map[string]model.WeekDay, len(stored))
	for _, d := range stored {
		byDay[d.Day] = d
	}

	out := make([]model.WeekDay, 0, len(model.Weekdays))
	for _, name := range model.Weekdays {
		if d, ok := byDay[name]; ok {
			if d.Intervals == nil {
				d.Intervals = []model.Interval{}
			}
			out = append(out, d)
			continue
		}
		out = append(out, model.DefaultWeekDay(name))
	}
	return out
}
