package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/m3rciful/carta/core/logger"
)

// RunMigrations applies every pending up migration found at the root of src.
func RunMigrations(ctx context.Context, cfg Config, src fs.FS) error {
	if err := WaitForPostgres(ctx, cfg.DSN(), 30*time.Second); err != nil {
		logger.LogEvent(ctx, logger.MIG, slog.LevelError, "db.migrate",
			slog.String("status", "fail"), slog.String("cause", "not_ready"), logger.ErrAttr(err))
		return fmt.Errorf("database not ready: %w", err)
	}

	files := listMigrationFiles(src)
	logger.LogEvent(ctx, logger.MIG, slog.LevelDebug, "db.migrate.resolve",
		slog.Int("count", len(files)),
		slog.Any("messages", files),
	)

	driver, err := iofs.New(src, ".")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", driver, cfg.URL())
	if err != nil {
		logger.LogEvent(ctx, logger.MIG, slog.LevelError, "db.migrate",
			slog.String("status", "fail"), slog.String("cause", "init"), logger.ErrAttr(err))
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer m.Close()

	fromVer, _, _ := m.Version()

	start := time.Now()
	upErr := m.Up()
	took := logger.Took(start)

	switch {
	case upErr == nil:
	case errors.Is(upErr, migrate.ErrNoChange):
		logger.LogEvent(ctx, logger.MIG, slog.LevelInfo, "db.migrate",
			slog.String("status", "ok"),
			slog.String("outcome", "skip"),
			slog.Uint64("from_ver", uint64(fromVer)),
			slog.Uint64("to_ver", uint64(fromVer)),
			slog.Duration("duration", took),
		)
		return nil
	default:
		logger.LogEvent(ctx, logger.MIG, slog.LevelError, "db.migrate",
			slog.String("status", "fail"),
			slog.Duration("duration", took),
			logger.ErrAttr(upErr),
		)
		return fmt.Errorf("migration execution failed: %w", upErr)
	}

	toVer, _, _ := m.Version()
	applied := selectApplied(files, uint64(fromVer), uint64(toVer))
	logger.LogEvent(ctx, logger.MIG, slog.LevelInfo, "db.migrate",
		slog.String("status", "ok"),
		slog.Uint64("from_ver", uint64(fromVer)),
		slog.Uint64("to_ver", uint64(toVer)),
		slog.Int("count", len(applied)),
		slog.String("messages", logger.SummarizeStrings(applied, 6)),
		slog.Duration("duration", took),
	)
	return nil
}

func listMigrationFiles(src fs.FS) []string {
	entries, err := fs.ReadDir(src, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name := e.Name(); strings.HasSuffix(name, ".up.sql") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func parseVersion(name string) uint64 {
	head, _, _ := strings.Cut(name, "_")
	v, _ := strconv.ParseUint(head, 10, 64)
	return v
}

func selectApplied(files []string, from, to uint64) []string {
	var out []string
	for _, f := range files {
		if v := parseVersion(f); v > from && v <= to {
			out = append(out, f)
		}
	}
	return out
}
