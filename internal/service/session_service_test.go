package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutordesk/tutordesk/internal/apperr"
	"github.com/tutordesk/tutordesk/internal/model"
)

func pendingItem(roomID, date, subject string) model.PendingFeedback {
	return model.PendingFeedback{
		RoomID:      roomID,
		StudentID:   "st-1",
		StudentName: "Alice",
		Subject:     subject,
		Date:        date,
	}
}

func TestEnqueuePendingFeedbackDedup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.sessions.EnqueuePendingFeedback(ctx, pendingItem("room-1", "2024-01-01", "Maths GCSE")))
	require.NoError(t, env.sessions.EnqueuePendingFeedback(ctx, pendingItem("room-1", "2024-01-01", "Maths GCSE")))
	require.NoError(t, env.sessions.EnqueuePendingFeedback(ctx, pendingItem("room-1", "2024-01-08", "Maths GCSE")))

	items, err := env.sessions.PendingFeedback(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCompleteFeedback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.sessions.EnqueuePendingFeedback(ctx, pendingItem("room-1", "2024-01-01", "Physics A-Level")))

	entry, err := env.sessions.CompleteFeedback(ctx, "room-1", "2024-01-01", FeedbackInput{
		Topic:     "Projectile motion",
		WentWell:  "Solid grasp of components",
		ToImprove: "Units discipline",
		NextSteps: "Past paper Q3-Q6",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice", entry.StudentName)
	assert.Equal(t, 40, entry.Cost, "cost derives from the subject's hourly rate")
	assert.Equal(t, model.PaymentDue, entry.Payment)

	history, err := env.sessions.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entry.ID, history[0].ID)

	// Completing removes the queue item.
	items, err := env.sessions.PendingFeedback(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCompleteFeedbackRequiredFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.sessions.EnqueuePendingFeedback(ctx, pendingItem("room-1", "2024-01-01", "Maths GCSE")))

	cases := []FeedbackInput{
		{WentWell: "ok", ToImprove: "ok"},
		{Topic: "ok", ToImprove: "ok"},
		{Topic: "ok", WentWell: "ok"},
		{Topic: "  ", WentWell: "ok", ToImprove: "ok"},
	}
	for _, in := range cases {
		_, err := env.sessions.CompleteFeedback(ctx, "room-1", "2024-01-01", in)
		assert.True(t, apperr.IsValidation(err), "input %+v", in)
	}

	// Nothing consumed by the failed attempts.
	items, err := env.sessions.PendingFeedback(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCompleteFeedbackUnknownRoom(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sessions.CompleteFeedback(context.Background(), "room-9", "2024-01-01", FeedbackInput{
		Topic: "t", WentWell: "w", ToImprove: "i",
	})
	assert.ErrorIs(t, err, apperr.ErrFeedbackNotFound)
}

func TestSessionRefundNotifiesStudent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	student, err := env.students.Create(ctx, "Alice", "", "")
	require.NoError(t, err)

	require.NoError(t, env.sessions.EnqueuePendingFeedback(ctx, model.PendingFeedback{
		RoomID: "room-1", StudentID: student.ID, StudentName: "Alice",
		Subject: "Maths GCSE", Date: "2024-01-01",
	}))
	entry, err := env.sessions.CompleteFeedback(ctx, "room-1", "2024-01-01", FeedbackInput{
		Topic: "Algebra", WentWell: "Factorising", ToImprove: "Surds",
	})
	require.NoError(t, err)

	require.NoError(t, env.sessions.SetPayment(ctx, entry.ID, model.PaymentRefunded))

	history, err := env.sessions.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentRefunded, history[0].Payment)
	require.Len(t, env.notifier.refunds, 1)
	assert.Equal(t, entry.ID, env.notifier.refunds[0].ID)
}

func TestSessionSetPaymentRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)

	err := env.sessions.SetPayment(context.Background(), "ses-1", model.PaymentStatus("comped"))
	assert.True(t, apperr.IsValidation(err))
}

func TestSessionSetPaymentUnknownEntry(t *testing.T) {
	env := newTestEnv(t)

	err := env.sessions.SetPayment(context.Background(), "ses-missing", model.PaymentPaid)
	assert.ErrorIs(t, err, apperr.ErrSessionNotFound)
}
