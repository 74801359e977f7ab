package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tutordesk/tutordesk/internal/model"
	"github.com/tutordesk/tutordesk/internal/service"
	"github.com/tutordesk/tutordesk/internal/store"
	"github.com/tutordesk/tutordesk/internal/timeutil"
)

// Scheduler runs the background housekeeping tasks: pushing dirty
// collections to the remote store and sweeping past lessons into the
// pending-feedback queue.
type Scheduler struct {
	replicated *store.ReplicatedStore
	bookings   *service.BookingService
	sessions   *service.SessionService
	logger     *zap.Logger
	stopChan   chan struct{}
}

// NewScheduler creates the scheduler. replicated may be nil when no
// remote store is configured; the sync task is skipped then.
func NewScheduler(replicated *store.ReplicatedStore, bookings *service.BookingService, sessions *service.SessionService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		replicated: replicated,
		bookings:   bookings,
		sessions:   sessions,
		logger:     logger,
		stopChan:   make(chan struct{}),
	}
}

// Start launches the background tasks.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	if s.replicated != nil {
		go s.runSyncTask(ctx)
	}
	go s.runFeedbackSweep(ctx)
}

// Stop stops the background tasks.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runSyncTask periodically retries replication of collections whose
// remote write failed.
func (s *Scheduler) runSyncTask(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.replicated.Sync(ctx); err != nil {
				s.logger.Warn("Remote sync failed, will retry", zap.Error(err))
			}
		case <-s.stopChan:
			s.logger.Info("Sync task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Sync task cancelled")
			return
		}
	}
}

// runFeedbackSweep enqueues pending-feedback items for past lessons
// that never made it into the session log.
func (s *Scheduler) runFeedbackSweep(ctx context.Context) {
	s.sweepFeedback(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweepFeedback(ctx)
		case <-s.stopChan:
			s.logger.Info("Feedback sweep stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Feedback sweep cancelled")
			return
		}
	}
}

func (s *Scheduler) sweepFeedback(ctx context.Context) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		s.logger.Error("Feedback sweep: load bookings", zap.Error(err))
		return
	}
	history, err := s.sessions.History(ctx)
	if err != nil {
		s.logger.Error("Feedback sweep: load history", zap.Error(err))
		return
	}

	logged := make(map[string]bool, len(history))
	for _, e := range history {
		logged[e.RoomID+" "+e.Date] = true
		logged[e.StudentID+" "+e.Date] = true
	}

	today := time.Now().Format(timeutil.DateLayout)
	enqueued := 0
	for _, b := range bookings {
		if b.Status != model.BookingStatusConfirmed || b.Type == model.BookingTypeConsultation {
			continue
		}
		if b.Date >= today {
			continue
		}
		if logged[b.ID+" "+b.Date] || logged[b.StudentID+" "+b.Date] {
			continue
		}

		err := s.sessions.EnqueuePendingFeedback(ctx, model.PendingFeedback{
			RoomID:      b.ID,
			StudentID:   b.StudentID,
			StudentName: b.Student,
			Subject:     b.Subject,
			Date:        b.Date,
		})
		if err != nil {
			s.logger.Warn("Feedback sweep: enqueue failed",
				zap.String("booking_id", b.ID),
				zap.Error(err),
			)
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		s.logger.Info("Feedback sweep completed", zap.Int("enqueued", enqueued))
	}
}
