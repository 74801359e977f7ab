package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutordesk/tutordesk/internal/apperr"
	"github.com/tutordesk/tutordesk/internal/events"
	"github.com/tutordesk/tutordesk/internal/model"
	"github.com/tutordesk/tutordesk/internal/notify"
	"github.com/tutordesk/tutordesk/internal/pricing"
	"github.com/tutordesk/tutordesk/internal/store"
	"github.com/tutordesk/tutordesk/internal/timeutil"
)

// CancelMode selects how far a cancellation reaches.
type CancelMode string

const (
	CancelSingle CancelMode = "single"
	CancelSeries CancelMode = "series"
)

// CreateBookingInput carries the caller-supplied fields for a new
// booking. Type defaults to lesson when empty.
type CreateBookingInput struct {
	StudentID string
	Date      string
	Time      string
	Subject   string
	Type      model.BookingType
}

// BookingService is the booking ledger: single and recurring-series
// creation, conflict detection, cancellation and payment bookkeeping.
// Conflicts and validation failures are detected before any mutation;
// notifications fire only after a successful save.
type BookingService struct {
	store     store.Store
	broadcast events.Broadcaster
	notifier  notify.Notifier
	logger    *zap.Logger
}

func NewBookingService(st store.Store, broadcast events.Broadcaster, notifier notify.Notifier, logger *zap.Logger) *BookingService {
	return &BookingService{store: st, broadcast: broadcast, notifier: notifier, logger: logger}
}

// List returns every booking in the ledger.
func (s *BookingService) List(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := s.store.Load(ctx, store.ColBookings, &bookings); err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	return bookings, nil
}

// Get returns one booking by id.
func (s *BookingService) Get(ctx context.Context, bookingID string) (*model.Booking, error) {
	bookings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		if bookings[i].ID == bookingID {
			return &bookings[i], nil
		}
	}
	return nil, apperr.ErrBookingNotFound
}

// CreateSingle appends one confirmed booking, priced at the subject's
// hourly rate (consultations are free), and claims its slot. Fails
// with a ConflictError when any non-cancelled booking already occupies
// the (date, time).
func (s *BookingService) CreateSingle(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if err := validateBookingInput(in); err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = model.BookingTypeLesson
	}

	student, err := s.findStudent(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var slots []model.Slot
	if err := s.store.Load(ctx, store.ColManualSlots, &slots); err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	// A held slot counts as taken even before its booking moves there:
	// an in-flight reschedule keeps its requested slot claimed.
	if occupied(bookings, in.Date, in.Time) || slotTaken(slots, in.Date, in.Time) {
		return nil, &apperr.ConflictError{Date: in.Date, Time: in.Time}
	}

	cost := pricing.HourlyRate(in.Subject)
	if in.Type == model.BookingTypeConsultation {
		cost = 0
	}

	booking := model.Booking{
		ID:        "bk-" + uuid.NewString(),
		StudentID: student.ID,
		Student:   student.Name,
		Date:      in.Date,
		Time:      in.Time,
		Subject:   in.Subject,
		Type:      in.Type,
		Status:    model.BookingStatusConfirmed,
		Cost:      cost,
		Payment:   model.PaymentDue,
	}
	bookings = append(bookings, booking)

	if err := s.saveBookings(ctx, bookings); err != nil {
		return nil, err
	}
	if err := s.claimSlots(ctx, student.Name, bookingKey{in.Date, in.Time}); err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("student", student.Name),
		zap.String("date", in.Date),
		zap.String("time", in.Time),
	)
	return &booking, nil
}

// CreateSeries books weekCount lessons at 7-day increments from
// startDate, all sharing one recurring id. The whole series is checked
// for conflicts up front; any clash aborts the operation with the week
// that failed and nothing is committed. A 10-week series is priced as
// a bundle: the first booking carries the full pack price, the other
// nine cost zero and are marked "In bundle".
func (s *BookingService) CreateSeries(ctx context.Context, in CreateBookingInput, weekCount int) ([]model.Booking, error) {
	if err := validateBookingInput(in); err != nil {
		return nil, err
	}
	if weekCount < 1 {
		return nil, &apperr.ValidationError{Field: "weekCount", Reason: "must be at least 1"}
	}

	student, err := s.findStudent(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var slots []model.Slot
	if err := s.store.Load(ctx, store.ColManualSlots, &slots); err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}

	// All-or-nothing: check every target week before touching anything.
	dates := make([]string, weekCount)
	for week := 1; week <= weekCount; week++ {
		date, err := timeutil.AddDays(in.Date, (week-1)*7)
		if err != nil {
			return nil, &apperr.ValidationError{Field: "date", Reason: err.Error()}
		}
		if occupied(bookings, date, in.Time) || slotTaken(slots, date, in.Time) {
			return nil, &apperr.ConflictError{Date: date, Time: in.Time, Week: week}
		}
		dates[week-1] = date
	}

	recurringID := uuid.NewString()
	bundle := weekCount == pricing.BundleSize

	created := make([]model.Booking, 0, weekCount)
	keys := make([]bookingKey, 0, weekCount)
	for week := 1; week <= weekCount; week++ {
		cost := pricing.HourlyRate(in.Subject)
		payment := model.PaymentDue
		if bundle {
			if week == 1 {
				cost = pricing.BundlePrice(in.Subject)
			} else {
				cost = 0
				payment = model.PaymentInBundle
			}
		}

		booking := model.Booking{
			ID:          "bk-" + uuid.NewString(),
			StudentID:   student.ID,
			Student:     student.Name,
			Date:        dates[week-1],
			Time:        in.Time,
			Subject:     in.Subject,
			Type:        model.BookingTypeLesson,
			Status:      model.BookingStatusConfirmed,
			Cost:        cost,
			Payment:     payment,
			RecurringID: recurringID,
			SeriesIndex: week,
			TotalSeries: weekCount,
		}
		created = append(created, booking)
		keys = append(keys, bookingKey{booking.Date, booking.Time})
	}

	bookings = append(bookings, created...)
	if err := s.saveBookings(ctx, bookings); err != nil {
		return nil, err
	}
	if err := s.claimSlots(ctx, student.Name, keys...); err != nil {
		return nil, err
	}

	s.logger.Info("Recurring series created",
		zap.String("recurring_id", recurringID),
		zap.String("student", student.Name),
		zap.Int("weeks", weekCount),
		zap.Bool("bundle", bundle),
	)
	return created, nil
}

// Cancel cancels one booking or, in series mode, every booking in its
// series dated on or after it. Bookings in a fully paid 10-pack cannot
// be cancelled at all; rescheduling is the only permitted remediation.
func (s *BookingService) Cancel(ctx context.Context, bookingID string, mode CancelMode) error {
	bookings, err := s.List(ctx)
	if err != nil {
		return err
	}

	target := findBooking(bookings, bookingID)
	if target == nil {
		return apperr.ErrBookingNotFound
	}
	if target.Status == model.BookingStatusCancelled {
		return &apperr.PolicyViolation{Rule: "booking is already cancelled"}
	}
	if s.paidBundleMember(bookings, target) {
		return &apperr.PolicyViolation{Rule: "a fully paid 10-pack booking can only be rescheduled, not cancelled"}
	}

	var cancelled []model.Booking
	var freed []bookingKey
	for i := range bookings {
		b := &bookings[i]
		hit := b.ID == target.ID ||
			(mode == CancelSeries && target.InSeries() && b.RecurringID == target.RecurringID && b.Date >= target.Date)
		if !hit || b.Status == model.BookingStatusCancelled {
			continue
		}
		b.Status = model.BookingStatusCancelled
		freed = append(freed, bookingKey{b.Date, b.Time})
		// An in-flight reschedule dies with the booking; a slot held for
		// the requested time must not stay claimed.
		if b.RequestedDate != "" {
			freed = append(freed, bookingKey{b.RequestedDate, b.RequestedTime})
		}
		b.RequestedDate = ""
		b.RequestedTime = ""
		b.RequestedSlotID = ""
		b.TeacherProposed = nil
		cancelled = append(cancelled, *b)
	}

	if err := s.saveBookings(ctx, bookings); err != nil {
		return err
	}
	if err := s.releaseSlots(ctx, freed...); err != nil {
		return err
	}

	student, err := s.findStudent(ctx, target.StudentID)
	if err == nil {
		for _, b := range cancelled {
			s.notifier.SendCancellationNotice(ctx, *student, b)
		}
	}

	s.logger.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("mode", string(mode)),
		zap.Int("affected", len(cancelled)),
	)
	return nil
}

// SetPayment updates a booking's payment status.
func (s *BookingService) SetPayment(ctx context.Context, bookingID string, status model.PaymentStatus) error {
	switch status {
	case model.PaymentDue, model.PaymentPaid, model.PaymentInBundle, model.PaymentDueException, model.PaymentRefunded:
	default:
		return &apperr.ValidationError{Field: "payment_status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	bookings, err := s.List(ctx)
	if err != nil {
		return err
	}
	target := findBooking(bookings, bookingID)
	if target == nil {
		return apperr.ErrBookingNotFound
	}
	target.Payment = status

	if err := s.saveBookings(ctx, bookings); err != nil {
		return err
	}

	s.logger.Info("Booking payment updated",
		zap.String("booking_id", bookingID),
		zap.String("status", string(status)),
	)
	return nil
}

// paidBundleMember reports whether the booking belongs to a 10-pack
// whose first-by-date member has been paid.
func (s *BookingService) paidBundleMember(bookings []model.Booking, b *model.Booking) bool {
	if !b.InSeries() || b.TotalSeries != pricing.BundleSize {
		return false
	}

	members := seriesMembers(bookings, b.RecurringID)
	if len(members) == 0 {
		return false
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Date < members[j].Date })
	return members[0].Payment == model.PaymentPaid
}

func (s *BookingService) findStudent(ctx context.Context, studentID string) (*model.Student, error) {
	if studentID == "" {
		return nil, &apperr.ValidationError{Field: "student", Reason: "required"}
	}

	var students []model.Student
	if err := s.store.Load(ctx, store.ColStudents, &students); err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	for i := range students {
		if students[i].ID == studentID {
			return &students[i], nil
		}
	}
	return nil, apperr.ErrStudentNotFound
}

func (s *BookingService) saveBookings(ctx context.Context, bookings []model.Booking) error {
	if err := s.store.Save(ctx, store.ColBookings, bookings); err != nil {
		return fmt.Errorf("save bookings: %w", err)
	}
	s.broadcast.Changed(string(store.ColBookings))
	return nil
}

type bookingKey struct {
	date string
	time string
}

func (s *BookingService) claimSlots(ctx context.Context, studentName string, keys ...bookingKey) error {
	var slots []model.Slot
	if err := s.store.Load(ctx, store.ColManualSlots, &slots); err != nil {
		return fmt.Errorf("load slots: %w", err)
	}
	for _, k := range keys {
		slots = claimSlot(slots, k.date, k.time, studentName)
	}
	if err := s.store.Save(ctx, store.ColManualSlots, slots); err != nil {
		return fmt.Errorf("save slots: %w", err)
	}
	s.broadcast.Changed(string(store.ColManualSlots))
	return nil
}

func (s *BookingService) releaseSlots(ctx context.Context, keys ...bookingKey) error {
	var slots []model.Slot
	if err := s.store.Load(ctx, store.ColManualSlots, &slots); err != nil {
		return fmt.Errorf("load slots: %w", err)
	}
	for _, k := range keys {
		slots = releaseSlot(slots, k.date, k.time)
	}
	if err := s.store.Save(ctx, store.ColManualSlots, slots); err != nil {
		return fmt.Errorf("save slots: %w", err)
	}
	s.broadcast.Changed(string(store.ColManualSlots))
	return nil
}

func validateBookingInput(in CreateBookingInput) error {
	switch {
	case in.StudentID == "":
		return &apperr.ValidationError{Field: "student", Reason: "required"}
	case in.Date == "":
		return &apperr.ValidationError{Field: "date", Reason: "required"}
	case in.Time == "":
		return &apperr.ValidationError{Field: "time", Reason: "required"}
	case in.Subject == "":
		return &apperr.ValidationError{Field: "subject", Reason: "required"}
	}
	if _, err := timeutil.Combine(in.Date, in.Time); err != nil {
		return &apperr.ValidationError{Field: "date/time", Reason: err.Error()}
	}
	return nil
}

// occupied reports whether any non-cancelled booking holds (date, time).
func occupied(bookings []model.Booking, date, clock string) bool {
	for i := range bookings {
		if bookings[i].Active() && bookings[i].Date == date && bookings[i].Time == clock {
			return true
		}
	}
	return false
}

func findBooking(bookings []model.Booking, id string) *model.Booking {
	for i := range bookings {
		if bookings[i].ID == id {
			return &bookings[i]
		}
	}
	return nil
}

func seriesMembers(bookings []model.Booking, recurringID string) []model.Booking {
	var members []model.Booking
	for _, b := range bookings {
		if b.RecurringID == recurringID {
			members = append(members, b)
		}
	}
	return members
}

// futureOf reports whether the booking starts after now.
func futureOf(b model.Booking, now time.Time) bool {
	t, err := timeutil.Combine(b.Date, b.Time)
	if err != nil {
		return false
	}
	return t.After(now)
}
