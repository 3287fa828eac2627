package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/databasteknik25/maze/internal/services/account/storage"
)

// Legacy snapshot DTOs. The structure mirrors the pre-relational flat-file
// export: a users list with embedded progress, and a scores list. Required
// fields are pointers so absence is detectable, not defaulted.
type snapshotFile struct {
	Users  []snapshotUser  `json:"users"`
	Scores []snapshotScore `json:"scores"`
}

type snapshotUser struct {
	ID        *int64   `json:"id"`
	Username  *string  `json:"username"`
	Salt      []byte   `json:"pw_salt"`
	Hash      []byte   `json:"pw_hash"`
	CreatedAt *int64   `json:"created_at"`
	Progress  []string `json:"progress"`
}

type snapshotScore struct {
	ID        *int64 `json:"id"`
	UserID    *int64 `json:"user_id"`
	Level     *int64 `json:"level"`
	TimeSec   *int64 `json:"time_sec"`
	CreatedAt *int64 `json:"created_at"`
}

// ImportLegacySnapshot migrates a legacy flat-file snapshot into the store.
//
// It runs only when the store has zero users and a snapshot exists at path,
// which makes it naturally idempotent across repeated startups. The import
// is best-effort by design: a missing, malformed, or structurally wrong
// snapshot is logged and swallowed so a broken legacy artifact never blocks
// startup. The return value reports whether an import was applied.
func (s *Service) ImportLegacySnapshot(ctx context.Context, path string) bool {
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		log.Printf("legacy snapshot: count users: %v", err)
		return false
	}
	if count != 0 {
		return false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("legacy snapshot: read %s: %v", path, err)
		}
		return false
	}

	users, scores, err := parseSnapshot(raw, s.now)
	if err != nil {
		log.Printf("legacy snapshot: skipping %s: %v", path, err)
		return false
	}

	if err := s.store.ImportSnapshot(ctx, users, scores); err != nil {
		log.Printf("legacy snapshot: import %s: %v", path, err)
		return false
	}
	log.Printf("legacy snapshot: imported %d users, %d scores from %s", len(users), len(scores), path)
	return true
}

// parseSnapshot validates the snapshot structure and converts it to storage
// records. Any missing required field rejects the whole snapshot; a partial
// import is never produced.
func parseSnapshot(raw []byte, now func() time.Time) ([]storage.SnapshotUser, []storage.SnapshotScore, error) {
	var file snapshotFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, nil, fmt.Errorf("decode snapshot: %w", err)
	}

	users := make([]storage.SnapshotUser, 0, len(file.Users))
	for i, record := range file.Users {
		if record.ID == nil {
			return nil, nil, fmt.Errorf("user %d: missing id", i)
		}
		if record.Username == nil || *record.Username == "" {
			return nil, nil, fmt.Errorf("user %d: missing username", i)
		}
		if len(record.Salt) == 0 {
			return nil, nil, fmt.Errorf("user %d: missing pw_salt", i)
		}
		if len(record.Hash) == 0 {
			return nil, nil, fmt.Errorf("user %d: missing pw_hash", i)
		}
		createdAt := now()
		if record.CreatedAt != nil {
			createdAt = time.Unix(*record.CreatedAt, 0).UTC()
		}
		users = append(users, storage.SnapshotUser{
			ID:        *record.ID,
			Username:  *record.Username,
			Salt:      record.Salt,
			Hash:      record.Hash,
			CreatedAt: createdAt,
			Progress:  record.Progress,
		})
	}

	scores := make([]storage.SnapshotScore, 0, len(file.Scores))
	for i, record := range file.Scores {
		if record.ID == nil {
			return nil, nil, fmt.Errorf("score %d: missing id", i)
		}
		if record.UserID == nil {
			return nil, nil, fmt.Errorf("score %d: missing user_id", i)
		}
		if record.Level == nil {
			return nil, nil, fmt.Errorf("score %d: missing level", i)
		}
		if record.TimeSec == nil {
			return nil, nil, fmt.Errorf("score %d: missing time_sec", i)
		}
		createdAt := now()
		if record.CreatedAt != nil {
			createdAt = time.Unix(*record.CreatedAt, 0).UTC()
		}
		scores = append(scores, storage.SnapshotScore{
			ID:        *record.ID,
			UserID:    *record.UserID,
			Level:     *record.Level,
			TimeSec:   *record.TimeSec,
			CreatedAt: createdAt,
		})
	}

	return users, scores, nil
}
