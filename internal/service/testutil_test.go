package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutordesk/tutordesk/internal/events"
	"github.com/tutordesk/tutordesk/internal/model"
	"github.com/tutordesk/tutordesk/internal/notify"
	"github.com/tutordesk/tutordesk/internal/store"
)

// recordingNotifier captures outbound notices so tests can assert on
// side effects without a real collaborator.
type recordingNotifier struct {
	cancellations []model.Booking
	requests      []model.Booking
	responses     []model.Booking
	outcomes      []notify.Outcome
	refunds       []model.SessionEntry
}

func (n *recordingNotifier) SendCancellationNotice(_ context.Context, _ model.Student, b model.Booking) {
	n.cancellations = append(n.cancellations, b)
}

func (n *recordingNotifier) SendRescheduleRequest(_ context.Context, _ model.Student, b model.Booking, _ notify.Initiator) {
	n.requests = append(n.requests, b)
}

func (n *recordingNotifier) SendRescheduleResponse(_ context.Context, _ model.Student, b model.Booking, o notify.Outcome) {
	n.responses = append(n.responses, b)
	n.outcomes = append(n.outcomes, o)
}

func (n *recordingNotifier) SendRefundNotice(_ context.Context, _ model.Student, e model.SessionEntry) {
	n.refunds = append(n.refunds, e)
}

type testEnv struct {
	store       *store.MemoryStore
	notifier    *recordingNotifier
	schedule    *ScheduleService
	slots       *SlotService
	bookings    *BookingService
	reschedules *RescheduleService
	sessions    *SessionService
	students    *StudentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.NewMemoryStore()
	broadcast := events.NewLocalBroadcaster()
	notifier := &recordingNotifier{}
	logger := zap.NewNop()

	schedule := NewScheduleService(st, broadcast, logger)
	return &testEnv{
		store:       st,
		notifier:    notifier,
		schedule:    schedule,
		slots:       NewSlotService(st, schedule, broadcast, logger),
		bookings:    NewBookingService(st, broadcast, notifier, logger),
		reschedules: NewRescheduleService(st, broadcast, notifier, logger),
		sessions:    NewSessionService(st, broadcast, notifier, logger),
		students:    NewStudentService(st, broadcast, logger),
	}
}

// addStudent seeds the roster and returns the new student's id.
func (e *testEnv) addStudent(t *testing.T, name string) string {
	t.Helper()
	student, err := e.students.Create(context.Background(), name, "", "")
	require.NoError(t, err)
	return student.ID
}

// loadSlots returns the persisted slot records.
func (e *testEnv) loadSlots(t *testing.T) []model.Slot {
	t.Helper()
	var slots []model.Slot
	require.NoError(t, e.store.Load(context.Background(), store.ColManualSlots, &slots))
	return slots
}

// slotAt finds the persisted slot at (date, time), or nil.
func (e *testEnv) slotAt(t *testing.T, date, clock string) *model.Slot {
	t.Helper()
	for _, s := range e.loadSlots(t) {
		if s.Date == date && s.Time == clock {
			return &s
		}
	}
	return nil
}
