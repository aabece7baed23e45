package session

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/storage"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

// StorageKey is the key the session collection is persisted under
const StorageKey = "sessions"

// Repository persists the session collection as a single blob. It does no
// locking of its own; Manager serializes access.
type Repository struct {
	kv storage.Store
}

// NewRepository creates a repository over kv
func NewRepository(kv storage.Store) *Repository {
	return &Repository{kv: kv}
}

// List returns every session, newest first
func (r *Repository) List(ctx context.Context) ([]types.Session, error) {
	sessions, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return types.SortNewestFirst(sessions), nil
}

// Get returns the session with id
func (r *Repository) Get(ctx context.Context, id string) (types.Session, bool, error) {
	sessions, err := r.load(ctx)
	if err != nil {
		return types.Session{}, false, err
	}
	for _, s := range sessions {
		if s.ID == id {
			return s, true, nil
		}
	}
	return types.Session{}, false, nil
}

// InsertOrReplace drops any session with the same id, prepends s and
// applies retention. It returns how many sessions remain and how many
// were evicted.
func (r *Repository) InsertOrReplace(ctx context.Context, s types.Session, limit int) (stored, evicted int, err error) {
	sessions, err := r.load(ctx)
	if err != nil {
		return 0, 0, err
	}

	next := make([]types.Session, 0, len(sessions)+1)
	next = append(next, s)
	for _, existing := range sessions {
		if existing.ID != s.ID {
			next = append(next, existing)
		}
	}

	kept := ApplyRetention(next, limit)
	if err := r.save(ctx, kept); err != nil {
		return 0, 0, err
	}
	return len(kept), len(next) - len(kept), nil
}

// Delete removes the session with id and returns the number removed
func (r *Repository) Delete(ctx context.Context, id string) (int, error) {
	sessions, err := r.load(ctx)
	if err != nil {
		return 0, err
	}

	next := make([]types.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.ID != id {
			next = append(next, s)
		}
	}
	removed := len(sessions) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := r.save(ctx, next); err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *Repository) load(ctx context.Context) ([]types.Session, error) {
	var sessions []types.Session
	if _, err := storage.GetJSON(ctx, r.kv, StorageKey, &sessions); err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	return sessions, nil
}

func (r *Repository) save(ctx context.Context, sessions []types.Session) error {
	if sessions == nil {
		sessions = []types.Session{}
	}
	if err := storage.SetJSON(ctx, r.kv, StorageKey, sessions); err != nil {
		return fmt.Errorf("failed to persist sessions: %w", err)
	}
	return nil
}
