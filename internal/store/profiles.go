package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"selfemploy/internal/logging"
	"selfemploy/internal/onboarding"
	"selfemploy/internal/taxyear"
)

// Profile is a stored onboarding result.
type Profile struct {
	ID        string
	Summary   onboarding.Summary
	CreatedAt time.Time
}

// SaveProfile stores summary as a new profile.
func (s *Store) SaveProfile(ctx context.Context, summary onboarding.Summary) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertProfile(ctx, s.db, summary)
}

// CompleteOnboarding stores summary and discards the draft in one transaction.
func (s *Store) CompleteOnboarding(ctx context.Context, summary onboarding.Summary) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Profile{}, err
	}
	defer tx.Rollback()

	p, err := s.insertProfile(ctx, tx, summary)
	if err != nil {
		return Profile{}, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM onboarding_draft"); err != nil {
		return Profile{}, fmt.Errorf("failed to clear draft: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Profile{}, fmt.Errorf("failed to commit profile: %w", err)
	}
	return p, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insertProfile(ctx context.Context, db execer, summary onboarding.Summary) (Profile, error) {
	p := Profile{
		ID:        uuid.NewString(),
		Summary:   summary,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO profiles (id, user_name, utr, tax_year, business_type, welcome,
			skipped, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, summary.UserName, summary.UTR, summary.TaxYear.String(), string(summary.BusinessType),
		summary.PersonalizedWelcome, summary.Skipped, formatTime(summary.CompletedAt), formatTime(p.CreatedAt))
	if err != nil {
		logging.StoreError("failed to save profile: %v", err)
		return Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	logging.Store("saved profile %s (skipped=%v)", p.ID, summary.Skipped)
	return p, nil
}

const profileColumns = `id, user_name, utr, tax_year, business_type, welcome, skipped, completed_at, created_at`

// LatestProfile returns the most recently created profile or ErrNotFound.
func (s *Store) LatestProfile(ctx context.Context) (Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

// GetProfile returns the profile with id or ErrNotFound.
func (s *Store) GetProfile(ctx context.Context, id string) (Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

// ListProfiles returns all profiles, newest first.
func (s *Store) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (Profile, error) {
	var (
		p                      Profile
		year, business         string
		completedAt, createdAt string
	)
	err := row.Scan(&p.ID, &p.Summary.UserName, &p.Summary.UTR, &year, &business,
		&p.Summary.PersonalizedWelcome, &p.Summary.Skipped, &completedAt, &createdAt)
	if err != nil {
		return Profile{}, err
	}
	if p.Summary.TaxYear, err = taxyear.Parse(year); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", p.ID, err)
	}
	p.Summary.BusinessType = onboarding.BusinessType(business)
	if p.Summary.CompletedAt, err = parseTime(completedAt); err != nil {
		return Profile{}, fmt.Errorf("profile %s: completed_at: %w", p.ID, err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return Profile{}, fmt.Errorf("profile %s: created_at: %w", p.ID, err)
	}
	return p, nil
}
