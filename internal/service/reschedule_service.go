package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tutordesk/tutordesk/internal/apperr"
	"github.com/tutordesk/tutordesk/internal/events"
	"github.com/tutordesk/tutordesk/internal/model"
	"github.com/tutordesk/tutordesk/internal/notify"
	"github.com/tutordesk/tutordesk/internal/store"
	"github.com/tutordesk/tutordesk/internal/timeutil"
)

// RescheduleService runs the negotiation state machine over bookings:
// a proposal from either side parks the booking in a pending state
// until the counterpart approves or denies it. A booking carries at
// most one active proposal; the original slot stays held until the
// negotiation resolves.
type RescheduleService struct {
	store     store.Store
	broadcast events.Broadcaster
	notifier  notify.Notifier
	logger    *zap.Logger
}

func NewRescheduleService(st store.Store, broadcast events.Broadcaster, notifier notify.Notifier, logger *zap.Logger) *RescheduleService {
	return &RescheduleService{store: st, broadcast: broadcast, notifier: notifier, logger: logger}
}

// ProposeSingle is the teacher proposing a new date/time for one
// booking. The booking moves to pending_student_approval; its slot is
// not released until the student answers.
func (s *RescheduleService) ProposeSingle(ctx context.Context, bookingID, newDate, newTime string) (*model.Booking, error) {
	if _, err := timeutil.Combine(newDate, newTime); err != nil {
		return nil, &apperr.ValidationError{Field: "date/time", Reason: err.Error()}
	}

	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	target := findBooking(bookings, bookingID)
	if err := proposable(target); err != nil {
		return nil, err
	}

	target.Status = model.BookingStatusPendingStudentApproval
	target.TeacherProposed = &model.TeacherProposal{
		OriginalDate: target.Date,
		OriginalTime: target.Time,
		NewDate:      newDate,
		NewTime:      newTime,
	}

	if err := s.saveBookings(ctx, bookings); err != nil {
		return nil, err
	}
	s.notifyStudent(ctx, target.StudentID, func(st model.Student) {
		s.notifier.SendRescheduleRequest(ctx, st, *target, notify.InitiatorTeacher)
	})

	s.logger.Info("Reschedule proposed",
		zap.String("booking_id", bookingID),
		zap.String("new_date", newDate),
		zap.String("new_time", newTime),
	)
	return target, nil
}

// ProposeSeries shifts an entire series: the delta between the
// anchor's proposed and original date/time is applied to every series
// booking dated on or after the anchor. Every shifted target is
// conflict-checked before any booking is touched; a clash anywhere
// rejects the whole operation.
func (s *RescheduleService) ProposeSeries(ctx context.Context, anchorID, newDate, newTime string) ([]model.Booking, error) {
	newAt, err := timeutil.Combine(newDate, newTime)
	if err != nil {
		return nil, &apperr.ValidationError{Field: "date/time", Reason: err.Error()}
	}

	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	anchor := findBooking(bookings, anchorID)
	if err := proposable(anchor); err != nil {
		return nil, err
	}
	if !anchor.InSeries() {
		return nil, &apperr.ValidationError{Field: "booking", Reason: "not part of a recurring series"}
	}

	origAt, err := timeutil.Combine(anchor.Date, anchor.Time)
	if err != nil {
		return nil, fmt.Errorf("parse anchor date/time: %w", err)
	}
	delta := newAt.Sub(origAt)

	var slots []model.Slot
	if err := s.store.Load(ctx, store.ColManualSlots, &slots); err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}

	// First pass: compute every shifted target and reject on any
	// conflict before mutating. Members of the series itself are
	// moving, so they do not count as conflicts.
	type shift struct {
		booking *model.Booking
		date    string
		time    string
	}
	var shifts []shift
	moving := make(map[string]bool)
	for i := range bookings {
		b := &bookings[i]
		if b.RecurringID != anchor.RecurringID || b.Date < anchor.Date || !b.Active() {
			continue
		}
		if b.HasProposal() && b.ID != anchor.ID {
			return nil, &apperr.PolicyViolation{Rule: fmt.Sprintf("booking %s already has a pending proposal", b.ID)}
		}

		at, err := timeutil.Combine(b.Date, b.Time)
		if err != nil {
			return nil, fmt.Errorf("parse series date/time: %w", err)
		}
		date, clock := timeutil.Split(at.Add(delta))
		shifts = append(shifts, shift{booking: b, date: date, time: clock})
		moving[b.Date+" "+b.Time] = true
	}

	for _, sh := range shifts {
		key := sh.date + " " + sh.time
		if moving[key] {
			continue
		}
		for i := range bookings {
			b := &bookings[i]
			if b.Active() && b.RecurringID != anchor.RecurringID && b.Date == sh.date && b.Time == sh.time {
				return nil, &apperr.ConflictError{Date: sh.date, Time: sh.time, Week: sh.booking.SeriesIndex}
			}
		}
		if slotTaken(slots, sh.date, sh.time) {
			return nil, &apperr.ConflictError{Date: sh.date, Time: sh.time, Week: sh.booking.SeriesIndex}
		}
	}

	affected := make([]model.Booking, 0, len(shifts))
	for _, sh := range shifts {
		sh.booking.Status = model.BookingStatusPendingStudentApproval
		sh.booking.TeacherProposed = &model.TeacherProposal{
			OriginalDate: sh.booking.Date,
			OriginalTime: sh.booking.Time,
			NewDate:      sh.date,
			NewTime:      sh.time,
		}
		affected = append(affected, *sh.booking)
	}

	if err := s.saveBookings(ctx, bookings); err != nil {
		return nil, err
	}
	s.notifyStudent(ctx, anchor.StudentID, func(st model.Student) {
		s.notifier.SendRescheduleRequest(ctx, st, *anchor, notify.InitiatorTeacher)
	})

	s.logger.Info("Series reschedule proposed",
		zap.String("recurring_id", anchor.RecurringID),
		zap.Duration("delta", delta),
		zap.Int("affected", len(affected)),
	)
	return affected, nil
}

// Request is the student-initiated path: the booking parks in
// pending_reschedule and the requested slot is held until the teacher
// answers.
func (s *RescheduleService) Request(ctx context.Context, bookingID, newDate, newTime string) (*model.Booking, error) {
	if _, err := timeutil.Combine(newDate, newTime); err != nil {
		return nil, &apperr.ValidationError{Field: "date/time", Reason: err.Error()}
	}

	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	target := findBooking(bookings, bookingID)
	if err := proposable(target); err != nil {
		return nil, err
	}
	if occupied(bookings, newDate, newTime) {
		return nil, &apperr.ConflictError{Date: newDate, Time: newTime}
	}

	var slots []model.Slot
	if err := s.store.Load(ctx, store.ColManualSlots, &slots); err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	if slotTaken(slots, newDate, newTime) {
		return nil, &apperr.ConflictError{Date: newDate, Time: newTime}
	}

	target.Status = model.BookingStatusPendingReschedule
	target.RequestedDate = newDate
	target.RequestedTime = newTime
	target.RequestedSlotID = model.GeneratedSlotID(newDate, newTime)

	if err := s.saveBookings(ctx, bookings); err != nil {
		return nil, err
	}
	// Hold the requested slot so nobody else books it mid-negotiation.
	slots = claimSlot(slots, newDate, newTime, target.Student)
	if err := s.saveSlots(ctx, slots); err != nil {
		return nil, err
	}

	s.notifyStudent(ctx, target.StudentID, func(st model.Student) {
		s.notifier.SendRescheduleRequest(ctx, st, *target, notify.InitiatorStudent)
	})

	s.logger.Info("Reschedule requested",
		zap.String("booking_id", bookingID),
		zap.String("requested_date", newDate),
		zap.String("requested_time", newTime),
	)
	return target, nil
}

// Approve accepts a student-proposed reschedule: the old slot is
// released and the booking's identity moves to the requested slot.
func (s *RescheduleService) Approve(ctx context.Context, bookingID string) (*model.Booking, error) {
	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	target := findBooking(bookings, bookingID)
	if target == nil {
		return nil, apperr.ErrBookingNotFound
	}
	if target.Status != model.BookingStatusPendingReschedule || target.RequestedDate == "" {
		return nil, &apperr.PolicyViolation{Rule: "booking has no student reschedule request pending"}
	}

	oldDate, oldTime := target.Date, target.Time

	target.ID = target.RequestedSlotID
	target.Date = target.RequestedDate
	target.Time = target.RequestedTime
	target.Status = model.BookingStatusConfirmed
	target.RequestedDate = ""
	target.RequestedTime = ""
	target.RequestedSlotID = ""

	if err := s.saveBookings(ctx, bookings); err != nil {
		return nil, err
	}

	var slots []model.Slot
	if err := s.store.Load(ctx, store.ColManualSlots, &slots); err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	slots = releaseSlot(slots, oldDate, oldTime)
	slots = claimSlot(slots, target.Date, target.Time, target.Student)
	if err := s.saveSlots(ctx, slots); err != nil {
		return nil, err
	}

	s.notifyStudent(ctx, target.StudentID, func(st model.Student) {
		s.notifier.SendRescheduleResponse(ctx, st, *target, notify.OutcomeApproved)
	})

	s.logger.Info("Reschedule approved",
		zap.String("booking_id", target.ID),
		zap.String("date", target.Date),
		zap.String("time", target.Time),
	)
	return target, nil
}

// Deny rejects a student-proposed reschedule: the held requested slot
// is released and the booking keeps its original date and time.
func (s *RescheduleService) Deny(ctx context.Context, bookingID string) (*model.Booking, error) {
	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	target := findBooking(bookings, bookingID)
	if target == nil {
		return nil, apperr.ErrBookingNotFound
	}
	if target.Status != model.BookingStatusPendingReschedule || target.RequestedDate == "" {
		return nil, &apperr.PolicyViolation{Rule: "booking has no student reschedule request pending"}
	}

	reqDate, reqTime := target.RequestedDate, target.RequestedTime

	target.Status = model.BookingStatusConfirmed
	target.RequestedDate = ""
	target.RequestedTime = ""
	target.RequestedSlotID = ""

	if err := s.saveBookings(ctx, bookings); err != nil {
		return nil, err
	}

	var slots []model.Slot
	if err := s.store.Load(ctx, store.ColManualSlots, &slots); err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	slots = releaseSlot(slots, reqDate, reqTime)
	if err := s.saveSlots(ctx, slots); err != nil {
		return nil, err
	}

	s.notifyStudent(ctx, target.StudentID, func(st model.Student) {
		s.notifier.SendRescheduleResponse(ctx, st, *target, notify.OutcomeDenied)
	})

	s.logger.Info("Reschedule denied", zap.String("booking_id", bookingID))
	return target, nil
}

// AcceptProposal applies a teacher-initiated proposal after the
// student agrees: the old slot is released, the new one claimed and
// the booking moves to the proposed date/time.
func (s *RescheduleService) AcceptProposal(ctx context.Context, bookingID string) (*model.Booking, error) {
	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	target := findBooking(bookings, bookingID)
	if target == nil {
		return nil, apperr.ErrBookingNotFound
	}
	if target.Status != model.BookingStatusPendingStudentApproval || target.TeacherProposed == nil {
		return nil, &apperr.PolicyViolation{Rule: "booking has no teacher proposal pending"}
	}

	var slots []model.Slot
	if err := s.store.Load(ctx, store.ColManualSlots, &slots); err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}

	// The target may have been taken since the proposal was made, by a
	// booking or by a slot held for another in-flight reschedule.
	p := target.TeacherProposed
	for i := range bookings {
		b := &bookings[i]
		if b.ID != target.ID && b.Active() && b.Date == p.NewDate && b.Time == p.NewTime {
			return nil, &apperr.ConflictError{Date: p.NewDate, Time: p.NewTime}
		}
	}
	if slotTaken(slots, p.NewDate, p.NewTime) {
		return nil, &apperr.ConflictError{Date: p.NewDate, Time: p.NewTime}
	}

	target.Date = p.NewDate
	target.Time = p.NewTime
	target.Status = model.BookingStatusConfirmed
	target.TeacherProposed = nil

	if err := s.saveBookings(ctx, bookings); err != nil {
		return nil, err
	}

	slots = releaseSlot(slots, p.OriginalDate, p.OriginalTime)
	slots = claimSlot(slots, target.Date, target.Time, target.Student)
	if err := s.saveSlots(ctx, slots); err != nil {
		return nil, err
	}

	s.notifyStudent(ctx, target.StudentID, func(st model.Student) {
		s.notifier.SendRescheduleResponse(ctx, st, *target, notify.OutcomeApproved)
	})

	s.logger.Info("Teacher proposal accepted",
		zap.String("booking_id", bookingID),
		zap.String("date", target.Date),
		zap.String("time", target.Time),
	)
	return target, nil
}

// DeclineProposal rejects a teacher-initiated proposal; the booking
// reverts to its original date and time.
func (s *RescheduleService) DeclineProposal(ctx context.Context, bookingID string) (*model.Booking, error) {
	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}

	target := findBooking(bookings, bookingID)
	if target == nil {
		return nil, apperr.ErrBookingNotFound
	}
	if target.Status != model.BookingStatusPendingStudentApproval || target.TeacherProposed == nil {
		return nil, &apperr.PolicyViolation{Rule: "booking has no teacher proposal pending"}
	}

	target.Status = model.BookingStatusConfirmed
	target.TeacherProposed = nil

	if err := s.saveBookings(ctx, bookings); err != nil {
		return nil, err
	}

	s.notifyStudent(ctx, target.StudentID, func(st model.Student) {
		s.notifier.SendRescheduleResponse(ctx, st, *target, notify.OutcomeDenied)
	})

	s.logger.Info("Teacher proposal declined", zap.String("booking_id", bookingID))
	return target, nil
}

// proposable checks a booking can enter a new negotiation.
func proposable(b *model.Booking) error {
	switch {
	case b == nil:
		return apperr.ErrBookingNotFound
	case b.Status == model.BookingStatusCancelled:
		return &apperr.PolicyViolation{Rule: "cannot reschedule a cancelled booking"}
	case b.HasProposal():
		return &apperr.PolicyViolation{Rule: "booking already has a pending proposal"}
	}
	return nil
}

func (s *RescheduleService) loadBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := s.store.Load(ctx, store.ColBookings, &bookings); err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	return bookings, nil
}

func (s *RescheduleService) saveBookings(ctx context.Context, bookings []model.Booking) error {
	if err := s.store.Save(ctx, store.ColBookings, bookings); err != nil {
		return fmt.Errorf("save bookings: %w", err)
	}
	s.broadcast.Changed(string(store.ColBookings))
	return nil
}

func (s *RescheduleService) saveSlots(ctx context.Context, slots []model.Slot) error {
	if err := s.store.Save(ctx, store.ColManualSlots, slots); err != nil {
		return fmt.Errorf("save slots: %w", err)
	}
	s.broadcast.Changed(string(store.ColManualSlots))
	return nil
}

func (s *RescheduleService) notifyStudent(ctx context.Context, studentID string, send func(model.Student)) {
	var students []model.Student
	if err := s.store.Load(ctx, store.ColStudents, &students); err != nil {
		s.logger.Warn("Failed to load students for notification", zap.Error(err))
		return
	}
	for _, st := range students {
		if st.ID == studentID {
			send(st)
			return
		}
	}
}
