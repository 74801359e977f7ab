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
)

// StudentService manages the roster. The student id is the canonical
// key; booking records only carry the name as a display copy, so a
// rename refreshes it everywhere.
type StudentService struct {
	store     store.Store
	broadcast events.Broadcaster
	logger    *zap.Logger
}

func NewStudentService(st store.Store, broadcast events.Broadcaster, logger *zap.Logger) *StudentService {
	return &StudentService{store: st, broadcast: broadcast, logger: logger}
}

func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	if err := s.store.Load(ctx, store.ColStudents, &students); err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	return students, nil
}

func (s *StudentService) Create(ctx context.Context, name, email, subject string) (*model.Student, error) {
	if name == "" {
		return nil, &apperr.ValidationError{Field: "name", Reason: "required"}
	}

	students, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	student := model.Student{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Subject:   subject,
		CreatedAt: time.Now(),
	}
	students = append(students, student)

	if err := s.store.Save(ctx, store.ColStudents, students); err != nil {
		return nil, fmt.Errorf("save students: %w", err)
	}
	s.broadcast.Changed(string(store.ColStudents))

	s.logger.Info("Student added",
		zap.String("student_id", student.ID),
		zap.String("name", name),
	)
	return &student, nil
}

// Rename updates the student's display name and refreshes the
// denormalized copy on every booking referencing them.
func (s *StudentService) Rename(ctx context.Context, studentID, name string) (*model.Student, error) {
	if name == "" {
		return nil, &apperr.ValidationError{Field: "name", Reason: "required"}
	}

	students, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var target *model.Student
	for i := range students {
		if students[i].ID == studentID {
			target = &students[i]
			break
		}
	}
	if target == nil {
		return nil, apperr.ErrStudentNotFound
	}
	target.Name = name

	if err := s.store.Save(ctx, store.ColStudents, students); err != nil {
		return nil, fmt.Errorf("save students: %w", err)
	}

	var bookings []model.Booking
	if err := s.store.Load(ctx, store.ColBookings, &bookings); err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	changed := false
	for i := range bookings {
		if bookings[i].StudentID == studentID {
			bookings[i].Student = name
			changed = true
		}
	}
	if changed {
		if err := s.store.Save(ctx, store.ColBookings, bookings); err != nil {
			return nil, fmt.Errorf("save bookings: %w", err)
		}
		s.broadcast.Changed(string(store.ColBookings))
	}
	s.broadcast.Changed(string(store.ColStudents))

	s.logger.Info("Student renamed",
		zap.String("student_id", studentID),
		zap.String("name", name),
	)
	return target, nil
}

// LinkChat attaches a Telegram chat id so the student receives
// notices.
func (s *StudentService) LinkChat(ctx context.Context, studentID string, chatID int64) error {
	students, err := s.List(ctx)
	if err != nil {
		return err
	}

	for i := range students {
		if students[i].ID == studentID {
			students[i].ChatID = chatID
			if err := s.store.Save(ctx, store.ColStudents, students); err != nil {
				return fmt.Errorf("save students: %w", err)
			}
			s.broadcast.Changed(string(store.ColStudents))
			return nil
		}
	}
	return apperr.ErrStudentNotFound
}
