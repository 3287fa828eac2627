// Package sqlite provides a SQLite-backed account storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/databasteknik25/maze/internal/platform/storage/sqlitemigrate"
	"github.com/databasteknik25/maze/internal/services/account/storage"
	"github.com/databasteknik25/maze/internal/services/account/storage/sqlite/migrations"
	"github.com/databasteknik25/maze/internal/services/account/user"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists account state in SQLite.
//
// A single database file backs users, scores, and progress so the
// user-to-owned-rows cascade stays inside one transaction boundary.
type Store struct {
	sqlDB *sql.DB
}

// Timestamps are stored as whole seconds since epoch, matching the
// pre-relational snapshot format so imported rows compare equal.
func toUnix(value time.Time) int64 {
	return value.UTC().Unix()
}

func fromUnix(value int64) time.Time {
	return time.Unix(value, 0).UTC()
}

// Open opens an account SQLite store and applies embedded migrations.
//
// Schema creation is idempotent: re-opening an existing database is a no-op
// for already-applied migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateUser inserts a new user row and returns the assigned id.
func (s *Store) CreateUser(ctx context.Context, record user.User) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	username := strings.TrimSpace(record.Username)
	if username == "" {
		return 0, fmt.Errorf("username is required")
	}
	if len(record.Salt) == 0 || len(record.Hash) == 0 {
		return 0, fmt.Errorf("credential digest is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (username, pw_salt, pw_hash, created_at)
		 VALUES (?, ?, ?, ?)`,
		username,
		record.Salt,
		record.Hash,
		toUnix(record.CreatedAt),
	)
	if err != nil {
		if isUsernameUniqueViolation(err) {
			return 0, storage.ErrDuplicateUsername
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user id: %w", err)
	}
	return id, nil
}

// GetUserByUsername returns the user with the exact (case-sensitive) username.
// A blank username matches no row and reports ErrNotFound like any other miss.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}
	if s == nil || s.sqlDB == nil {
		return user.User{}, fmt.Errorf("storage is not configured")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return user.User{}, storage.ErrNotFound
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, username, pw_salt, pw_hash, created_at
		 FROM users
		 WHERE username = ?`,
		username,
	)
	var record user.User
	var createdAt int64
	err := row.Scan(
		&record.ID,
		&record.Username,
		&record.Salt,
		&record.Hash,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, storage.ErrNotFound
		}
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	record.CreatedAt = fromUnix(createdAt)
	return record, nil
}

// DeleteUser removes a user row; owned scores and progress cascade away.
func (s *Store) DeleteUser(ctx context.Context, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	_, err := s.sqlDB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// CountUsers returns the total number of user rows.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	var count int64
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func isUsernameUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "users.username")
}

var _ storage.Store = (*Store)(nil)
