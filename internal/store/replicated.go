package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tutordesk/tutordesk/internal/apperr"
)

// ReplicatedStore reads and writes the local store and mirrors every
// save to the remote with a bounded timeout. A failed remote write is
// logged as remote-unavailable and the collection is marked dirty for
// the next sync sweep; the local write has already succeeded and the
// operation never fails because of the remote.
type ReplicatedStore struct {
	local  Store
	remote Store
	logger *zap.Logger

	timeout time.Duration

	mu    sync.Mutex
	dirty map[Collection]bool
}

func NewReplicatedStore(local, remote Store, logger *zap.Logger) *ReplicatedStore {
	return &ReplicatedStore{
		local:   local,
		remote:  remote,
		logger:  logger,
		timeout: 5 * time.Second,
		dirty:   make(map[Collection]bool),
	}
}

func (s *ReplicatedStore) Load(ctx context.Context, c Collection, out any) error {
	return s.local.Load(ctx, c, out)
}

func (s *ReplicatedStore) Save(ctx context.Context, c Collection, doc any) error {
	if err := s.local.Save(ctx, c, doc); err != nil {
		return err
	}

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if err := s.remote.Save(rctx, c, doc); err != nil {
		s.markDirty(c)
		s.logger.Warn("Remote replication failed, keeping local copy authoritative",
			zap.String("collection", string(c)),
			zap.Error(fmt.Errorf("%w: %v", apperr.ErrRemoteUnavailable, err)),
		)
		return nil
	}

	s.clearDirty(c)
	return nil
}

func (s *ReplicatedStore) Close() error {
	if err := s.local.Close(); err != nil {
		return err
	}
	return s.remote.Close()
}

// Sync pushes every dirty collection to the remote. Called by the
// background scheduler; safe to call at any time.
func (s *ReplicatedStore) Sync(ctx context.Context) error {
	for _, c := range s.pendingCollections() {
		var doc json.RawMessage
		if err := s.local.Load(ctx, c, &doc); err != nil {
			return fmt.Errorf("sync read %s: %w", c, err)
		}
		if doc == nil {
			s.clearDirty(c)
			continue
		}

		rctx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.remote.Save(rctx, c, doc)
		cancel()
		if err != nil {
			return fmt.Errorf("sync %s: %w: %v", c, apperr.ErrRemoteUnavailable, err)
		}

		s.clearDirty(c)
		s.logger.Info("Collection replicated to remote", zap.String("collection", string(c)))
	}
	return nil
}

func (s *ReplicatedStore) pendingCollections() []Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Collection
	for c, d := range s.dirty {
		if d {
			out = append(out, c)
		}
	}
	return out
}

func (s *ReplicatedStore) markDirty(c Collection) {
	s.mu.Lock()
	s.dirty[c] = true
	s.mu.Unlock()
}

func (s *ReplicatedStore) clearDirty(c Collection) {
	s.mu.Lock()
	delete(s.dirty, c)
	s.mu.Unlock()
}
