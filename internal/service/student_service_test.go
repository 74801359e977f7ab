package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutordesk/tutordesk/internal/apperr"
)

func TestCreateStudentRequiresName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.students.Create(context.Background(), "", "a@b.com", "Maths GCSE")
	assert.True(t, apperr.IsValidation(err))
}

func TestRenameRefreshesBookingCopies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addStudent(t, "Alice")
	bob := env.addStudent(t, "Bob")

	aliceBooking := bookLesson(t, env, alice, "2024-01-01", "14:00")
	bobBooking := bookLesson(t, env, bob, "2024-01-01", "15:00")

	renamed, err := env.students.Rename(ctx, alice, "Alicia")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", renamed.Name)

	got, err := env.bookings.Get(ctx, aliceBooking.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Student)

	// Other students' bookings untouched.
	got, err = env.bookings.Get(ctx, bobBooking.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Student)
}

func TestRenameUnknownStudent(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.students.Rename(context.Background(), "missing", "Nobody")
	assert.ErrorIs(t, err, apperr.ErrStudentNotFound)
}

func TestLinkChat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addStudent(t, "Alice")

	require.NoError(t, env.students.LinkChat(ctx, alice, 42))

	students, err := env.students.List(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, int64(42), students[0].ChatID)

	assert.ErrorIs(t, env.students.LinkChat(ctx, "missing", 1), apperr.ErrStudentNotFound)
}
