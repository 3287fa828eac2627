package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/databasteknik25/maze/internal/services/account/storage"
)

// ImportSnapshot inserts legacy snapshot rows in one transaction.
//
// Users go first so score and progress foreign keys resolve, each user's
// embedded progress follows, then all scores. Snapshot ids are preserved.
// User and progress rows whose primary key already exists are skipped,
// never overwritten; a duplicate score id is a plain insert failure. Any
// failure rolls back the entire import.
func (s *Store) ImportSnapshot(ctx context.Context, users []storage.SnapshotUser, scores []storage.SnapshotScore) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, record := range users {
		username := strings.TrimSpace(record.Username)
		if username == "" {
			return fmt.Errorf("snapshot user %d: username is required", record.ID)
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO users (id, username, pw_salt, pw_hash, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			record.ID,
			username,
			record.Salt,
			record.Hash,
			toUnix(record.CreatedAt),
		); err != nil {
			return fmt.Errorf("import snapshot user %d: %w", record.ID, err)
		}
		for _, countryID := range record.Progress {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT OR IGNORE INTO progress (user_id, country_id) VALUES (?, ?)`,
				record.ID,
				countryID,
			); err != nil {
				return fmt.Errorf("import snapshot progress %d/%s: %w", record.ID, countryID, err)
			}
		}
	}

	for _, score := range scores {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO scores (id, user_id, level, time_sec, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			score.ID,
			score.UserID,
			score.Level,
			score.TimeSec,
			toUnix(score.CreatedAt),
		); err != nil {
			return fmt.Errorf("import snapshot score %d: %w", score.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot import: %w", err)
	}
	return nil
}
