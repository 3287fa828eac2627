// Package maintenance implements the operator command for the account store.
package maintenance

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/databasteknik25/maze/internal/platform/config"
	"github.com/databasteknik25/maze/internal/services/account/app"
	"github.com/databasteknik25/maze/internal/services/account/storage/sqlite"
)

// Config holds maintenance command configuration.
type Config struct {
	DBPath       string        `env:"MAZE_DB_PATH"`
	SnapshotPath string        `env:"MAZE_LEGACY_SNAPSHOT_PATH"`
	Timeout      time.Duration `env:"MAZE_MAINTENANCE_TIMEOUT" envDefault:"1m"`
	SkipImport   bool
	Level        int64
	Limit        int
	DeleteUserID int64
	JSONOutput   bool
}

// ParseConfig parses environment defaults and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "maze.db")
	}
	if cfg.SnapshotPath == "" {
		cfg.SnapshotPath = filepath.Join("data", "legacy_snapshot.json")
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to account sqlite database (default: MAZE_DB_PATH or data/maze.db)")
	fs.StringVar(&cfg.SnapshotPath, "snapshot-path", cfg.SnapshotPath, "path to legacy snapshot (default: MAZE_LEGACY_SNAPSHOT_PATH or data/legacy_snapshot.json)")
	fs.BoolVar(&cfg.SkipImport, "skip-import", false, "do not attempt the one-shot legacy snapshot import")
	fs.Int64Var(&cfg.Level, "level", -1, "print the leaderboard for this level (-1 = none)")
	fs.IntVar(&cfg.Limit, "limit", app.DefaultTopTimesLimit, "max leaderboard rows to print")
	fs.Int64Var(&cfg.DeleteUserID, "delete-user", 0, "purge this user id and its scores and progress (0 = none)")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output a JSON report")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Report is the maintenance command output.
type Report struct {
	DBPath    string      `json:"db_path"`
	Users     int64       `json:"users"`
	Imported  bool        `json:"imported"`
	Level     *int64      `json:"level,omitempty"`
	TopTimes  []LevelTime `json:"top_times,omitempty"`
	DeletedID int64       `json:"deleted_user_id,omitempty"`
}

// LevelTime is one leaderboard row in the report.
type LevelTime struct {
	Username string `json:"username"`
	TimeSec  int64  `json:"time_sec"`
}

// Run executes the maintenance command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open account store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(errOut, "close account store: %v\n", err)
		}
	}()

	service := app.NewService(store)

	report := Report{DBPath: cfg.DBPath}
	if !cfg.SkipImport {
		report.Imported = service.ImportLegacySnapshot(ctx, cfg.SnapshotPath)
	}

	if cfg.DeleteUserID != 0 {
		if err := service.DeleteUser(ctx, cfg.DeleteUserID); err != nil {
			return fmt.Errorf("delete user %d: %w", cfg.DeleteUserID, err)
		}
		report.DeletedID = cfg.DeleteUserID
	}

	report.Users, err = store.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}

	if cfg.Level >= 0 {
		times, err := service.TopTimes(ctx, cfg.Level, cfg.Limit)
		if err != nil {
			return fmt.Errorf("top times for level %d: %w", cfg.Level, err)
		}
		level := cfg.Level
		report.Level = &level
		report.TopTimes = make([]LevelTime, 0, len(times))
		for _, entry := range times {
			report.TopTimes = append(report.TopTimes, LevelTime{Username: entry.Username, TimeSec: entry.TimeSec})
		}
	}

	if cfg.JSONOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	fmt.Fprintf(out, "db: %s\n", report.DBPath)
	fmt.Fprintf(out, "users: %d\n", report.Users)
	if report.Imported {
		fmt.Fprintln(out, "legacy snapshot imported")
	}
	if report.DeletedID != 0 {
		fmt.Fprintf(out, "deleted user %d\n", report.DeletedID)
	}
	if report.Level != nil {
		fmt.Fprintf(out, "top times for level %d:\n", *report.Level)
		for i, entry := range report.TopTimes {
			fmt.Fprintf(out, "%3d. %-24s %ds\n", i+1, entry.Username, entry.TimeSec)
		}
	}
	return nil
}
