package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutordesk/tutordesk/internal/apperr"
	"github.com/tutordesk/tutordesk/internal/events"
	"github.com/tutordesk/tutordesk/internal/model"
	"github.com/tutordesk/tutordesk/internal/notify"
	"github.com/tutordesk/tutordesk/internal/pricing"
	"github.com/tutordesk/tutordesk/internal/store"
)

// FeedbackInput holds the feedback form fields. Topic, WentWell and
// ToImprove are required; Focus and NextSteps are optional.
type FeedbackInput struct {
	Topic     string
	WentWell  string
	ToImprove string
	Focus     string
	NextSteps string
}

// SessionService keeps the append-only session log and the
// pending-feedback queue that must be drained into it.
type SessionService struct {
	store     store.Store
	broadcast events.Broadcaster
	notifier  notify.Notifier
	logger    *zap.Logger
}

func NewSessionService(st store.Store, broadcast events.Broadcaster, notifier notify.Notifier, logger *zap.Logger) *SessionService {
	return &SessionService{store: st, broadcast: broadcast, notifier: notifier, logger: logger}
}

// History returns the session log.
func (s *SessionService) History(ctx context.Context) ([]model.SessionEntry, error) {
	var entries []model.SessionEntry
	if err := s.store.Load(ctx, store.ColSessions, &entries); err != nil {
		return nil, fmt.Errorf("load session history: %w", err)
	}
	return entries, nil
}

// PendingFeedback returns the queue of lessons awaiting feedback.
func (s *SessionService) PendingFeedback(ctx context.Context) ([]model.PendingFeedback, error) {
	var items []model.PendingFeedback
	if err := s.store.Load(ctx, store.ColPendingFeedback, &items); err != nil {
		return nil, fmt.Errorf("load pending feedback: %w", err)
	}
	return items, nil
}

// EnqueuePendingFeedback records a lesson that ended without feedback
// being captured. Duplicate (roomID, date) pairs are ignored.
func (s *SessionService) EnqueuePendingFeedback(ctx context.Context, item model.PendingFeedback) error {
	if item.RoomID == "" || item.Date == "" {
		return &apperr.ValidationError{Field: "room/date", Reason: "required"}
	}

	items, err := s.PendingFeedback(ctx)
	if err != nil {
		return err
	}
	for _, existing := range items {
		if existing.RoomID == item.RoomID && existing.Date == item.Date {
			return nil
		}
	}

	items = append(items, item)
	if err := s.store.Save(ctx, store.ColPendingFeedback, items); err != nil {
		return fmt.Errorf("save pending feedback: %w", err)
	}
	s.broadcast.Changed(string(store.ColPendingFeedback))

	s.logger.Info("Pending feedback enqueued",
		zap.String("room_id", item.RoomID),
		zap.String("date", item.Date),
	)
	return nil
}

// CompleteFeedback turns a pending-feedback item into an immutable
// session log entry and removes it from the queue. Cost defaults to
// the subject's hourly rate when not already known.
func (s *SessionService) CompleteFeedback(ctx context.Context, roomID, date string, in FeedbackInput) (*model.SessionEntry, error) {
	if strings.TrimSpace(in.Topic) == "" {
		return nil, &apperr.ValidationError{Field: "topic", Reason: "required"}
	}
	if strings.TrimSpace(in.WentWell) == "" {
		return nil, &apperr.ValidationError{Field: "wentWell", Reason: "required"}
	}
	if strings.TrimSpace(in.ToImprove) == "" {
		return nil, &apperr.ValidationError{Field: "toImprove", Reason: "required"}
	}

	items, err := s.PendingFeedback(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, item := range items {
		if item.RoomID == roomID && item.Date == date {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperr.ErrFeedbackNotFound
	}
	pending := items[idx]

	entry := model.SessionEntry{
		ID:          "ses-" + uuid.NewString(),
		RoomID:      pending.RoomID,
		StudentID:   pending.StudentID,
		StudentName: pending.StudentName,
		Date:        pending.Date,
		Subject:     pending.Subject,
		Topic:       in.Topic,
		WentWell:    in.WentWell,
		ToImprove:   in.ToImprove,
		Focus:       in.Focus,
		NextSteps:   in.NextSteps,
		Cost:        pricing.HourlyRate(pending.Subject),
		Payment:     model.PaymentDue,
	}

	entries, err := s.History(ctx)
	if err != nil {
		return nil, err
	}
	entries = append(entries, entry)
	if err := s.store.Save(ctx, store.ColSessions, entries); err != nil {
		return nil, fmt.Errorf("save session history: %w", err)
	}

	items = append(items[:idx], items[idx+1:]...)
	if err := s.store.Save(ctx, store.ColPendingFeedback, items); err != nil {
		return nil, fmt.Errorf("save pending feedback: %w", err)
	}
	s.broadcast.Changed(string(store.ColSessions))
	s.broadcast.Changed(string(store.ColPendingFeedback))

	s.logger.Info("Session feedback completed",
		zap.String("session_id", entry.ID),
		zap.String("room_id", roomID),
		zap.String("date", date),
	)
	return &entry, nil
}

// SetPayment transitions a session entry's payment status. This is the
// only mutation allowed on the log; a refund notifies the student.
func (s *SessionService) SetPayment(ctx context.Context, sessionID string, status model.PaymentStatus) error {
	switch status {
	case model.PaymentPaid, model.PaymentRefunded, model.PaymentDue, model.PaymentDueException:
	default:
		return &apperr.ValidationError{Field: "payment_status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	entries, err := s.History(ctx)
	if err != nil {
		return err
	}

	var target *model.SessionEntry
	for i := range entries {
		if entries[i].ID == sessionID {
			target = &entries[i]
			break
		}
	}
	if target == nil {
		return apperr.ErrSessionNotFound
	}
	target.Payment = status

	if err := s.store.Save(ctx, store.ColSessions, entries); err != nil {
		return fmt.Errorf("save session history: %w", err)
	}
	s.broadcast.Changed(string(store.ColSessions))

	if status == model.PaymentRefunded {
		var students []model.Student
		if err := s.store.Load(ctx, store.ColStudents, &students); err == nil {
			for _, st := range students {
				if st.ID == target.StudentID {
					s.notifier.SendRefundNotice(ctx, st, *target)
					break
				}
			}
		}
	}

	s.logger.Info("Session payment updated",
		zap.String("session_id", sessionID),
		zap.String("status", string(status)),
	)
	return nil
}
