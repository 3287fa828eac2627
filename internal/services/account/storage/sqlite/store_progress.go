package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AddProgress records one country unlock for a user.
//
// The (user, country) pair is the primary key; re-adding an existing pair is
// a silent no-op via INSERT OR IGNORE. Country identifiers are opaque
// tokens; the empty string is a valid token like any other.
func (s *Store) AddProgress(ctx context.Context, userID int64, countryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO progress (user_id, country_id) VALUES (?, ?)`,
		userID,
		countryID,
	)
	if err != nil {
		return fmt.Errorf("add progress: %w", err)
	}
	return nil
}

// RemoveProgress deletes one country unlock; absence is not an error.
func (s *Store) RemoveProgress(ctx context.Context, userID int64, countryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM progress WHERE user_id = ? AND country_id = ?`,
		userID,
		countryID,
	)
	if err != nil {
		return fmt.Errorf("remove progress: %w", err)
	}
	return nil
}

// ListProgress returns the user's unlocked countries sorted lexicographically.
func (s *Store) ListProgress(ctx context.Context, userID int64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT country_id FROM progress WHERE user_id = ? ORDER BY country_id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var countries []string
	for rows.Next() {
		var countryID string
		if err := rows.Scan(&countryID); err != nil {
			return nil, fmt.Errorf("list progress: %w", err)
		}
		countries = append(countries, countryID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return countries, nil
}

// HasProgress reports whether the (user, country) pair exists. An unknown
// token, the empty string included, is simply false.
func (s *Store) HasProgress(ctx context.Context, userID int64, countryID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}

	var found int
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT 1 FROM progress WHERE user_id = ? AND country_id = ?`,
		userID,
		countryID,
	).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("has progress: %w", err)
	}
	return true, nil
}
