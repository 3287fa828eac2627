// Package storage defines persistence contracts for account service state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/databasteknik25/maze/internal/services/account/user"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateUsername indicates the unique username constraint was violated.
//
// It is the storage-level outcome for both pre-checked duplicates and
// concurrent inserts that lose the UNIQUE race.
var ErrDuplicateUsername = errors.New("username already exists")

// Score stores one immutable level-completion event.
type Score struct {
	ID        int64
	UserID    int64
	Level     int64
	TimeSec   int64
	CreatedAt time.Time
}

// LevelTime is one leaderboard entry: a user's best time at a level.
type LevelTime struct {
	Username string
	TimeSec  int64
}

// SnapshotUser is one user record from a legacy snapshot, with its
// embedded set of unlocked countries. IDs are preserved as-is.
type SnapshotUser struct {
	ID        int64
	Username  string
	Salt      []byte
	Hash      []byte
	CreatedAt time.Time
	Progress  []string
}

// SnapshotScore is one score record from a legacy snapshot.
type SnapshotScore struct {
	ID        int64
	UserID    int64
	Level     int64
	TimeSec   int64
	CreatedAt time.Time
}

// UserStore persists account identity records.
type UserStore interface {
	// CreateUser inserts a new user and returns its assigned id.
	// The record's ID field is ignored; the store assigns identifiers.
	CreateUser(ctx context.Context, record user.User) (int64, error)
	// GetUserByUsername returns the user with the exact username.
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	// DeleteUser removes a user; scores and progress cascade away with it.
	DeleteUser(ctx context.Context, userID int64) error
	// CountUsers returns the total number of user rows.
	CountUsers(ctx context.Context) (int64, error)
}

// ScoreStore persists immutable level-completion events.
type ScoreStore interface {
	RecordScore(ctx context.Context, score Score) error
	// TopTimes returns each user's best time at a level, fastest first,
	// truncated to limit rows.
	TopTimes(ctx context.Context, level int64, limit int) ([]LevelTime, error)
}

// ProgressStore persists the per-user set of unlocked countries.
type ProgressStore interface {
	// AddProgress records an unlock; re-adding an existing pair is a no-op.
	AddProgress(ctx context.Context, userID int64, countryID string) error
	// RemoveProgress deletes an unlock; absence is not an error.
	RemoveProgress(ctx context.Context, userID int64, countryID string) error
	// ListProgress returns the user's unlocked countries in lexical order.
	ListProgress(ctx context.Context, userID int64) ([]string, error)
	// HasProgress reports whether the (user, country) pair exists.
	HasProgress(ctx context.Context, userID int64, countryID string) (bool, error)
}

// SnapshotImporter applies one legacy snapshot atomically.
type SnapshotImporter interface {
	// ImportSnapshot inserts users, their embedded progress, then scores in
	// a single transaction. Duplicate user and progress keys are ignored,
	// never overwritten; a duplicate score id is a failure. Any failure
	// rolls the whole import back.
	ImportSnapshot(ctx context.Context, users []SnapshotUser, scores []SnapshotScore) error
}

// Store is the full persistence contract the account service runs on.
type Store interface {
	UserStore
	ScoreStore
	ProgressStore
	SnapshotImporter
}
