// Package notify is the outbound-notification collaborator. Every call
// is fire-and-forget: failures are logged at the implementation and
// never surface to the mutation that triggered them.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/tutordesk/tutordesk/internal/model"
)

// Initiator identifies which side proposed a reschedule.
type Initiator string

const (
	InitiatorTeacher Initiator = "teacher"
	InitiatorStudent Initiator = "student"
)

// Outcome is the resolution of a reschedule negotiation.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeDenied   Outcome = "denied"
)

type Notifier interface {
	SendCancellationNotice(ctx context.Context, student model.Student, booking model.Booking)
	SendRescheduleRequest(ctx context.Context, student model.Student, booking model.Booking, initiator Initiator)
	SendRescheduleResponse(ctx context.Context, student model.Student, booking model.Booking, outcome Outcome)
	SendRefundNotice(ctx context.Context, student model.Student, session model.SessionEntry)
}

// LogNotifier records every notice in the log. Used when no Telegram
// token is configured, and by tests.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendCancellationNotice(_ context.Context, student model.Student, booking model.Booking) {
	n.logger.Info("Cancellation notice",
		zap.String("student", student.Name),
		zap.String("date", booking.Date),
		zap.String("time", booking.Time),
	)
}

func (n *LogNotifier) SendRescheduleRequest(_ context.Context, student model.Student, booking model.Booking, initiator Initiator) {
	n.logger.Info("Reschedule request",
		zap.String("student", student.Name),
		zap.String("initiator", string(initiator)),
		zap.String("booking_id", booking.ID),
	)
}

func (n *LogNotifier) SendRescheduleResponse(_ context.Context, student model.Student, booking model.Booking, outcome Outcome) {
	n.logger.Info("Reschedule response",
		zap.String("student", student.Name),
		zap.String("outcome", string(outcome)),
		zap.String("booking_id", booking.ID),
	)
}

func (n *LogNotifier) SendRefundNotice(_ context.Context, student model.Student, session model.SessionEntry) {
	n.logger.Info("Refund notice",
		zap.String("student", student.Name),
		zap.String("date", session.Date),
		zap.Int("amount", session.Cost),
	)
}
