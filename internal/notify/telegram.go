package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/tutordesk/tutordesk/internal/model"
	"github.com/tutordesk/tutordesk/internal/timeutil"
)

// TelegramNotifier delivers notices to the student's linked Telegram
// chat. Students without a linked chat are skipped silently.
type TelegramNotifier struct {
	bot    *bot.Bot
	logger *zap.Logger
}

func NewTelegramNotifier(token string, logger *zap.Logger) (*TelegramNotifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: b, logger: logger}, nil
}

func (n *TelegramNotifier) SendCancellationNotice(ctx context.Context, student model.Student, booking model.Booking) {
	text := fmt.Sprintf("Your %s lesson on %s at %s has been cancelled.",
		booking.Subject, booking.Date, timeutil.To12Hour(booking.Time))
	n.send(ctx, student, text)
}

func (n *TelegramNotifier) SendRescheduleRequest(ctx context.Context, student model.Student, booking model.Booking, initiator Initiator) {
	var text string
	if initiator == InitiatorTeacher && booking.TeacherProposed != nil {
		p := booking.TeacherProposed
		text = fmt.Sprintf("Your teacher proposes moving your %s lesson from %s %s to %s %s. Please approve or decline.",
			booking.Subject, p.OriginalDate, timeutil.To12Hour(p.OriginalTime), p.NewDate, timeutil.To12Hour(p.NewTime))
	} else {
		text = fmt.Sprintf("Reschedule requested for your %s lesson on %s at %s.",
			booking.Subject, booking.Date, timeutil.To12Hour(booking.Time))
	}
	n.send(ctx, student, text)
}

func (n *TelegramNotifier) SendRescheduleResponse(ctx context.Context, student model.Student, booking model.Booking, outcome Outcome) {
	var text string
	if outcome == OutcomeApproved {
		text = fmt.Sprintf("Your reschedule was approved. New lesson time: %s at %s.",
			booking.Date, timeutil.To12Hour(booking.Time))
	} else {
		text = fmt.Sprintf("Your reschedule request was declined. Your lesson stays on %s at %s.",
			booking.Date, timeutil.To12Hour(booking.Time))
	}
	n.send(ctx, student, text)
}

func (n *TelegramNotifier) SendRefundNotice(ctx context.Context, student model.Student, session model.SessionEntry) {
	text := fmt.Sprintf("A refund of %d has been issued for your %s session on %s.",
		session.Cost, session.Subject, session.Date)
	n.send(ctx, student, text)
}

func (n *TelegramNotifier) send(ctx context.Context, student model.Student, text string) {
	if student.ChatID == 0 {
		return
	}

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: student.ChatID,
		Text:   text,
	})
	if err != nil {
		// Best-effort delivery; the originating mutation has already
		// been applied.
		n.logger.Warn("Failed to send telegram notice",
			zap.String("student", student.Name),
			zap.Error(err),
		)
	}
}
