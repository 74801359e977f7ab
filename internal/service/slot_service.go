package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutordesk/tutordesk/internal/apperr"
	"github.com/tutordesk/tutordesk/internal/events"
	"github.com/tutordesk/tutordesk/internal/model"
	"github.com/tutordesk/tutordesk/internal/store"
	"github.com/tutordesk/tutordesk/internal/timeutil"
)

// DefaultWindowDays is the rolling future window slots are generated
// over.
const DefaultWindowDays = 30

// GenerateSlots expands the weekly schedule into concrete one-hour
// slots over the window starting at windowStart, merged with the
// persisted slots. Persisted slots always win at the same (date, time).
// Output is deterministic: identical inputs yield an identical set.
//
// Intervals ending on a partial hour are truncated to whole hours: one
// slot per whole hour from the start hour up to but not including the
// end hour, at the interval's start-minute offset.
func GenerateSlots(schedule []model.WeekDay, persisted []model.Slot, windowStart time.Time, windowDays int) []model.Slot {
	byDay := make(map[string]model.WeekDay, len(schedule))
	for _, d := range schedule {
		byDay[d.Day] = d
	}

	taken := make(map[string]bool, len(persisted))
	out := make([]model.Slot, 0, len(persisted))
	for _, s := range persisted {
		taken[s.Date+" "+s.Time] = true
		out = append(out, s)
	}

	for i := 0; i < windowDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		date := day.Format(timeutil.DateLayout)

		entry, ok := byDay[timeutil.WeekdayName(day)]
		if !ok || !entry.Active {
			continue
		}

		for _, iv := range entry.Intervals {
			startHour, startMinute, err := timeutil.ParseClock(iv.Start)
			if err != nil {
				continue
			}
			endHour, _, err := timeutil.ParseClock(iv.End)
			if err != nil {
				continue
			}

			for h := startHour; h < endHour; h++ {
				clock := fmt.Sprintf("%02d:%02d", h, startMinute)
				if taken[date+" "+clock] {
					continue
				}
				out = append(out, model.Slot{
					ID:        model.GeneratedSlotID(date, clock),
					Date:      date,
					Time:      clock,
					Generated: true,
				})
			}
		}
	}

	return out
}

// SlotService produces the merged slot view and manages the persisted
// slot records (manually added slots plus claimed generated ones).
type SlotService struct {
	store     store.Store
	schedule  *ScheduleService
	broadcast events.Broadcaster
	logger    *zap.Logger

	now func() time.Time
}

func NewSlotService(st store.Store, schedule *ScheduleService, broadcast events.Broadcaster, logger *zap.Logger) *SlotService {
	return &SlotService{
		store:     st,
		schedule:  schedule,
		broadcast: broadcast,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns the merged slot view over the default rolling window
// starting today. Generated slots are recomputed on every call.
func (s *SlotService) List(ctx context.Context) ([]model.Slot, error) {
	schedule, err := s.schedule.Get(ctx)
	if err != nil {
		return nil, err
	}

	var persisted []model.Slot
	if err := s.store.Load(ctx, store.ColManualSlots, &persisted); err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}

	return GenerateSlots(schedule, persisted, s.now(), DefaultWindowDays), nil
}

// AddManual creates a manually added open slot. It takes precedence
// over any generated slot at the same (date, time).
func (s *SlotService) AddManual(ctx context.Context, date, clock string) (*model.Slot, error) {
	if _, err := timeutil.Combine(date, clock); err != nil {
		return nil, &apperr.ValidationError{Field: "date/time", Reason: err.Error()}
	}

	var persisted []model.Slot
	if err := s.store.Load(ctx, store.ColManualSlots, &persisted); err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}

	for _, sl := range persisted {
		if sl.Date == date && sl.Time == clock {
			return nil, &apperr.ConflictError{Date: date, Time: clock}
		}
	}

	slot := model.Slot{
		ID:   "man-" + uuid.NewString(),
		Date: date,
		Time: clock,
	}
	persisted = append(persisted, slot)

	if err := s.store.Save(ctx, store.ColManualSlots, persisted); err != nil {
		return nil, fmt.Errorf("save slots: %w", err)
	}
	s.broadcast.Changed(string(store.ColManualSlots))

	s.logger.Info("Manual slot added",
		zap.String("slot_id", slot.ID),
		zap.String("date", date),
		zap.String("time", clock),
	)
	return &slot, nil
}

// RemoveManual deletes a persisted slot. Booked slots cannot be
// removed; cancel or reschedule the booking instead.
func (s *SlotService) RemoveManual(ctx context.Context, slotID string) error {
	var persisted []model.Slot
	if err := s.store.Load(ctx, store.ColManualSlots, &persisted); err != nil {
		return fmt.Errorf("load slots: %w", err)
	}

	idx := -1
	for i, sl := range persisted {
		if sl.ID == slotID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperr.ErrSlotNotFound
	}
	if !persisted[idx].Free() {
		return &apperr.PolicyViolation{Rule: "cannot remove a booked slot"}
	}

	persisted = append(persisted[:idx], persisted[idx+1:]...)

	if err := s.store.Save(ctx, store.ColManualSlots, persisted); err != nil {
		return fmt.Errorf("save slots: %w", err)
	}
	s.broadcast.Changed(string(store.ColManualSlots))

	s.logger.Info("Manual slot removed", zap.String("slot_id", slotID))
	return nil
}

// claimSlot marks the persisted slot at (date, time) as booked by the
// student, creating a persisted record when only a generated slot
// exists there. Returns the updated collection.
func claimSlot(persisted []model.Slot, date, clock, studentName string) []model.Slot {
	for i := range persisted {
		if persisted[i].Date == date && persisted[i].Time == clock {
			persisted[i].BookedBy = studentName
			return persisted
		}
	}
	return append(persisted, model.Slot{
		ID:       model.GeneratedSlotID(date, clock),
		Date:     date,
		Time:     clock,
		BookedBy: studentName,
	})
}

// releaseSlot frees the persisted slot at (date, time). Records that
// only existed to claim a generated slot are dropped entirely so the
// generator takes over again.
func releaseSlot(persisted []model.Slot, date, clock string) []model.Slot {
	for i := range persisted {
		if persisted[i].Date == date && persisted[i].Time == clock {
			if persisted[i].ID == model.GeneratedSlotID(date, clock) {
				return append(persisted[:i], persisted[i+1:]...)
			}
			persisted[i].BookedBy = ""
			return persisted
		}
	}
	return persisted
}

// slotTaken reports whether a persisted slot at (date, time) is held
// by someone.
func slotTaken(persisted []model.Slot, date, clock string) bool {
	for _, sl := range persisted {
		if sl.Date == date && sl.Time == clock && !sl.Free() {
			return true
		}
	}
	return false
}
