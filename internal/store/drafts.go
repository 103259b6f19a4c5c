package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"selfemploy/internal/logging"
	"selfemploy/internal/onboarding"
)

// SaveDraft stores the in-progress wizard, replacing any previous draft.
func (s *Store) SaveDraft(ctx context.Context, snap onboarding.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO onboarding_draft (id, snapshot_json, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			snapshot_json = excluded.snapshot_json,
			updated_at = excluded.updated_at`,
		string(data), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	logging.StoreDebug("saved draft at step %s", snap.Step)
	return nil
}

// LoadDraft returns the stored draft; ok is false when there is none.
func (s *Store) LoadDraft(ctx context.Context) (snap onboarding.Snapshot, ok bool, err error) {
	var data string
	err = s.db.QueryRowContext(ctx, `SELECT snapshot_json FROM onboarding_draft WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return onboarding.Snapshot{}, false, nil
	}
	if err != nil {
		return onboarding.Snapshot{}, false, fmt.Errorf("failed to load draft: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return onboarding.Snapshot{}, false, fmt.Errorf("failed to parse draft: %w", err)
	}
	return snap, true, nil
}

// ClearDraft removes the stored draft, if any.
func (s *Store) ClearDraft(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM onboarding_draft`); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}
