// Package services contains the application services of the userdesk client:
// the persisted overlay of local edits and deletions, the browse-mode pager,
// the full-collection search, the mutation handlers that tie them to the
// remote directory, and session handling.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/dmitrijs2005/userdesk/internal/dbx"
	"github.com/dmitrijs2005/userdesk/internal/logging"
)

// OverlayStore owns the overlay. Every mutation is persisted before it
// becomes visible in memory; a failed write leaves the overlay unchanged.
//
// Contract:
//   - Load: re-read the persisted overlay; absent or malformed entries load
//     as empty. Never fails.
//   - RecordEdit: replace the patch of id (no field-level merge).
//   - RecordDeletion: tombstone id and discard its patch. Idempotent.
//   - Clear: drop every tombstone and patch (session end). The extra keys are
//     deleted in the same transaction; on failure nothing is removed.
//   - Apply: reconcile remote users with the current overlay.
type OverlayStore interface {
	Load(ctx context.Context) models.Overlay
	RecordEdit(ctx context.Context, id int, patch models.EditPatch) error
	RecordDeletion(ctx context.Context, id int) error
	Clear(ctx context.Context, extraKeys ...string) error
	Apply(users []models.User) []models.User
	Snapshot() models.Overlay
}

type overlayStore struct {
	db  *sql.DB
	log logging.Logger

	mu      sync.RWMutex
	overlay models.Overlay
}

// NewOverlayStore binds the store to db and loads the persisted overlay.
func NewOverlayStore(ctx context.Context, db *sql.DB, log logging.Logger) OverlayStore {
	s := &overlayStore{db: db, log: log, overlay: models.NewOverlay()}
	s.Load(ctx)
	return s
}

func (s *overlayStore) Load(ctx context.Context) models.Overlay {
	repo := metadata.NewSQLiteRepository(s.db)

	loaded := models.NewOverlay()

	var ids []int
	if s.read(ctx, repo, common.DeletedUserIDsKey, &ids) {
		for _, id := range ids {
			loaded.Deleted[id] = struct{}{}
		}
	}

	var edits map[int]models.EditPatch
	if s.read(ctx, repo, common.EditedUsersKey, &edits) {
		for id, p := range edits {
			loaded.Edits[id] = p
		}
	}

	s.mu.Lock()
	s.overlay = loaded
	s.mu.Unlock()

	s.log.Debug(ctx, "overlay loaded", "deleted", len(loaded.Deleted), "edited", len(loaded.Edits))
	return loaded.Clone()
}

// read decodes key into dst and reports whether it succeeded.
func (s *overlayStore) read(ctx context.Context, repo metadata.Repository, key string, dst any) bool {
	raw, err := repo.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return false
	}
	if err != nil {
		s.log.Warn(ctx, "overlay entry unreadable, treating as empty", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn(ctx, "overlay entry malformed, treating as empty", "key", key, "error", err)
		return false
	}
	return true
}

func (s *overlayStore) RecordEdit(ctx context.Context, id int, patch models.EditPatch) error {
	if id < 1 {
		return common.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.overlay.Clone()
	next.Edits[id] = patch

	if err := s.persist(ctx, next, common.EditedUsersKey); err != nil {
		return fmt.Errorf("record edit of user %d: %w", id, err)
	}
	s.overlay = next
	return nil
}

func (s *overlayStore) RecordDeletion(ctx context.Context, id int) error {
	if id < 1 {
		return common.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, edited := s.overlay.Edits[id]
	if s.overlay.IsDeleted(id) && !edited {
		return nil
	}

	next := s.overlay.Clone()
	next.Deleted[id] = struct{}{}
	delete(next.Edits, id)

	if err := s.persist(ctx, next, common.DeletedUserIDsKey, common.EditedUsersKey); err != nil {
		return fmt.Errorf("record deletion of user %d: %w", id, err)
	}
	s.overlay = next
	return nil
}

func (s *overlayStore) Clear(ctx context.Context, extraKeys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := append([]string{common.DeletedUserIDsKey, common.EditedUsersKey}, extraKeys...)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, keys...)
	})
	if err != nil {
		return fmt.Errorf("clear overlay: %w", err)
	}
	s.overlay = models.NewOverlay()
	return nil
}

func (s *overlayStore) Apply(users []models.User) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlay.Apply(users)
}

func (s *overlayStore) Snapshot() models.Overlay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlay.Clone()
}

// persist writes the named entries of next in a single transaction.
func (s *overlayStore) persist(ctx context.Context, next models.Overlay, keys ...string) error {
	values := make(map[string][]byte, len(keys))
	for _, key := range keys {
		var (
			b   []byte
			err error
		)
		switch key {
		case common.DeletedUserIDsKey:
			b, err = json.Marshal(next.DeletedIDs())
		case common.EditedUsersKey:
			b, err = json.Marshal(next.Edits)
		default:
			err = fmt.Errorf("unknown overlay key %q", key)
		}
		if err != nil {
			return err
		}
		values[key] = b
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for _, key := range keys {
			if err := repo.Set(ctx, key, values[key]); err != nil {
				return err
			}
		}
		return nil
	})
}
