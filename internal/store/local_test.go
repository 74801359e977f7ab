package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestLocalStoreRoundtripAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "dashboard.json")
	ctx := context.Background()

	st, err := OpenLocalStore(path)
	require.NoError(t, err)

	want := []fixture{{Name: "alpha", Count: 1}, {Name: "beta", Count: 2}}
	require.NoError(t, st.Save(ctx, ColBookings, want))
	require.NoError(t, st.Close())

	reopened, err := OpenLocalStore(path)
	require.NoError(t, err)

	var got []fixture
	require.NoError(t, reopened.Load(ctx, ColBookings, &got))
	assert.Equal(t, want, got)
}

func TestLocalStoreMissingCollectionLeavesOutUntouched(t *testing.T) {
	st, err := OpenLocalStore(filepath.Join(t.TempDir(), "dashboard.json"))
	require.NoError(t, err)

	var got []fixture
	require.NoError(t, st.Load(context.Background(), ColSessions, &got))
	assert.Nil(t, got)
}

func TestLocalStoreCollectionsIsolated(t *testing.T) {
	st, err := OpenLocalStore(filepath.Join(t.TempDir(), "dashboard.json"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, ColBookings, []fixture{{Name: "booking"}}))
	require.NoError(t, st.Save(ctx, ColStudents, []fixture{{Name: "student"}}))

	var bookings, students []fixture
	require.NoError(t, st.Load(ctx, ColBookings, &bookings))
	require.NoError(t, st.Load(ctx, ColStudents, &students))
	assert.Equal(t, "booking", bookings[0].Name)
	assert.Equal(t, "student", students[0].Name)
}

func TestLocalStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := OpenLocalStore(path)
	assert.Error(t, err)
}
