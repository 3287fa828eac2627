// Package app exposes the public account, score, and progress operations.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/databasteknik25/maze/internal/platform/errors"
	"github.com/databasteknik25/maze/internal/services/account/password"
	"github.com/databasteknik25/maze/internal/services/account/storage"
	"github.com/databasteknik25/maze/internal/services/account/user"
)

// DefaultTopTimesLimit bounds leaderboard queries when no limit is given.
const DefaultTopTimesLimit = 10

var (
	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = apperrors.New(apperrors.CodeUsernameTaken, "username is taken")
	// ErrUserNotFound indicates no account matches the username.
	ErrUserNotFound = apperrors.New(apperrors.CodeUserNotFound, "user not found")
	// ErrWrongPassword indicates the credentials did not match.
	ErrWrongPassword = apperrors.New(apperrors.CodeWrongPassword, "wrong password")
)

// Service implements the account and progress operations over a store.
//
// Every operation is a self-contained unit of work: it borrows a pooled
// connection for its statements and holds no state across calls.
type Service struct {
	store storage.Store
	now   func() time.Time
}

// NewService creates a Service over the given store.
func NewService(store storage.Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// NewServiceWithClock creates a Service with an injected clock for tests.
func NewServiceWithClock(store storage.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store: store,
		now:   now,
	}
}

// CreateUser registers a new account and returns its id.
//
// Validation failures never touch storage. A duplicate username is reported
// as ErrUsernameTaken whether it is caught by the pre-check or by the UNIQUE
// constraint when a concurrent insert wins the race.
func (s *Service) CreateUser(ctx context.Context, username, pass string) (int64, error) {
	creds, err := user.NormalizeCredentials(user.Credentials{Username: username, Password: pass})
	if err != nil {
		return 0, err
	}

	_, err = s.store.GetUserByUsername(ctx, creds.Username)
	if err == nil {
		return 0, ErrUsernameTaken
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("check username: %w", err)
	}

	salt, err := password.NewSalt()
	if err != nil {
		return 0, err
	}
	record := user.User{
		Username:  creds.Username,
		Salt:      salt,
		Hash:      password.Hash(creds.Password, salt),
		CreatedAt: s.now(),
	}
	id, err := s.store.CreateUser(ctx, record)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateUsername) {
			return 0, ErrUsernameTaken
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// VerifyUser checks a credential pair and returns the matching user id.
//
// Repeated failures are not throttled; the caller is a trusted local game
// process, not a network client.
func (s *Service) VerifyUser(ctx context.Context, username, pass string) (int64, error) {
	record, err := s.store.GetUserByUsername(ctx, user.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("verify user: %w", err)
	}
	if !password.Verify(pass, record.Salt, record.Hash) {
		return 0, ErrWrongPassword
	}
	return record.ID, nil
}

// RecordScore stores one level-completion time for a user.
//
// Level and time values are recorded as-is; validating them is the caller's
// responsibility.
func (s *Service) RecordScore(ctx context.Context, userID, level, timeSec int64) error {
	err := s.store.RecordScore(ctx, storage.Score{
		UserID:    userID,
		Level:     level,
		TimeSec:   timeSec,
		CreatedAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

// TopTimes returns the fastest best-times for a level, ascending.
//
// A non-positive limit falls back to DefaultTopTimesLimit. The order among
// entries with equal times is implementation-defined.
func (s *Service) TopTimes(ctx context.Context, level int64, limit int) ([]storage.LevelTime, error) {
	if limit <= 0 {
		limit = DefaultTopTimesLimit
	}
	times, err := s.store.TopTimes(ctx, level, limit)
	if err != nil {
		return nil, fmt.Errorf("top times: %w", err)
	}
	return times, nil
}

// AddCountryProgress marks a country as unlocked for a user. Idempotent.
func (s *Service) AddCountryProgress(ctx context.Context, userID int64, countryID string) error {
	if err := s.store.AddProgress(ctx, userID, countryID); err != nil {
		return fmt.Errorf("add country progress: %w", err)
	}
	return nil
}

// RemoveCountryProgress clears a country unlock for a user. Idempotent.
func (s *Service) RemoveCountryProgress(ctx context.Context, userID int64, countryID string) error {
	if err := s.store.RemoveProgress(ctx, userID, countryID); err != nil {
		return fmt.Errorf("remove country progress: %w", err)
	}
	return nil
}

// Progress returns the user's unlocked countries in lexical order.
func (s *Service) Progress(ctx context.Context, userID int64) ([]string, error) {
	countries, err := s.store.ListProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("progress: %w", err)
	}
	return countries, nil
}

// HasAccess reports whether the user has unlocked the country.
func (s *Service) HasAccess(ctx context.Context, userID int64, countryID string) (bool, error) {
	ok, err := s.store.HasProgress(ctx, userID, countryID)
	if err != nil {
		return false, fmt.Errorf("has access: %w", err)
	}
	return ok, nil
}

// UserIDByUsername looks up a user id by trimmed username.
//
// Unlike VerifyUser this is a plain query, not a security gate: absence is
// reported as ok=false, never as an error.
func (s *Service) UserIDByUsername(ctx context.Context, username string) (int64, bool, error) {
	record, err := s.store.GetUserByUsername(ctx, user.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("user id by username: %w", err)
	}
	return record.ID, true, nil
}

// DeleteUser purges an account; its scores and progress cascade away.
//
// Not part of normal gameplay flow, provided for store maintenance.
func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
