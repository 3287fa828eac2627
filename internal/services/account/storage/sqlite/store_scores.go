package sqlite

import (
	"context"
	"fmt"

	"github.com/databasteknik25/maze/internal/services/account/storage"
)

// RecordScore inserts one immutable level-completion row.
//
// Values are stored as given; the store does not judge level or time ranges.
func (s *Store) RecordScore(ctx context.Context, score storage.Score) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO scores (user_id, level, time_sec, created_at)
		 VALUES (?, ?, ?, ?)`,
		score.UserID,
		score.Level,
		score.TimeSec,
		toUnix(score.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

// TopTimes returns each user's best time at a level, fastest first.
//
// Users with no score at the level are excluded. The order among users with
// equal best times follows SQLite's grouping order and is not specified.
func (s *Store) TopTimes(ctx context.Context, level int64, limit int) ([]storage.LevelTime, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT u.username, MIN(s.time_sec) AS best
		 FROM scores s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.level = ?
		 GROUP BY s.user_id
		 ORDER BY best ASC
		 LIMIT ?`,
		level,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top times: %w", err)
	}
	defer rows.Close()

	times := make([]storage.LevelTime, 0, limit)
	for rows.Next() {
		var entry storage.LevelTime
		if err := rows.Scan(&entry.Username, &entry.TimeSec); err != nil {
			return nil, fmt.Errorf("top times: %w", err)
		}
		times = append(times, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top times: %w", err)
	}
	return times, nil
}
