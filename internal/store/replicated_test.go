package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flakyStore wraps a MemoryStore and fails saves on demand.
type flakyStore struct {
	*MemoryStore
	failing bool
}

func (s *flakyStore) Save(ctx context.Context, c Collection, doc any) error {
	if s.failing {
		return errors.New("connection refused")
	}
	return s.MemoryStore.Save(ctx, c, doc)
}

func TestReplicatedStoreMirrorsSaves(t *testing.T) {
	local := NewMemoryStore()
	remote := &flakyStore{MemoryStore: NewMemoryStore()}
	rs := NewReplicatedStore(local, remote, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, rs.Save(ctx, ColBookings, []fixture{{Name: "alpha"}}))

	var got []fixture
	require.NoError(t, remote.Load(ctx, ColBookings, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "alpha", got[0].Name)
}

func TestReplicatedStoreLocalWinsWhenRemoteDown(t *testing.T) {
	local := NewMemoryStore()
	remote := &flakyStore{MemoryStore: NewMemoryStore(), failing: true}
	rs := NewReplicatedStore(local, remote, zap.NewNop())
	ctx := context.Background()

	// The save must succeed even though the remote is down.
	require.NoError(t, rs.Save(ctx, ColBookings, []fixture{{Name: "alpha"}}))

	var localDoc []fixture
	require.NoError(t, rs.Load(ctx, ColBookings, &localDoc))
	require.Len(t, localDoc, 1)

	var remoteDoc []fixture
	require.NoError(t, remote.Load(ctx, ColBookings, &remoteDoc))
	assert.Empty(t, remoteDoc)
}

func TestReplicatedStoreSyncDrainsDirty(t *testing.T) {
	local := NewMemoryStore()
	remote := &flakyStore{MemoryStore: NewMemoryStore(), failing: true}
	rs := NewReplicatedStore(local, remote, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, rs.Save(ctx, ColBookings, []fixture{{Name: "alpha"}}))
	require.NoError(t, rs.Save(ctx, ColStudents, []fixture{{Name: "beta"}}))

	// Still down: sync reports the outage.
	assert.Error(t, rs.Sync(ctx))

	remote.failing = false
	require.NoError(t, rs.Sync(ctx))

	var bookings, students []fixture
	require.NoError(t, remote.Load(ctx, ColBookings, &bookings))
	require.NoError(t, remote.Load(ctx, ColStudents, &students))
	assert.Len(t, bookings, 1)
	assert.Len(t, students, 1)

	// Nothing left to push.
	assert.Empty(t, rs.pendingCollections())
}
