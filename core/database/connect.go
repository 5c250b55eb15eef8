package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/m3rciful/carta/core/logger"
)

const connectTimeout = 5 * time.Second

// Connect opens the database connection, configures the pool, and verifies connectivity.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	base := []slog.Attr{
		slog.String("host", cfg.Host),
		slog.String("port", cfg.Port),
		slog.String("db", cfg.Name),
	}

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		logger.LogEvent(ctx, logger.DB, slog.LevelError, "db.connect",
			append(base, slog.String("status", "fail"), slog.Duration("duration", logger.Took(start)), logger.ErrAttr(err))...)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)
	db.SetConnMaxIdleTime(5 * time.Minute)

	logger.LogEvent(ctx, logger.DB, slog.LevelInfo, "db.connect",
		append(base,
			slog.String("status", "ok"),
			slog.Int("pool_open", cfg.MaxConnections),
			slog.Duration("duration", logger.Took(start)),
		)...)
	return db, nil
}

// WaitForPostgres pings dsn every two seconds until it answers, ctx ends or timeout passes.
func WaitForPostgres(ctx context.Context, dsn string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		lastErr := db.PingContext(ctx)
		if lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout reached waiting for database: %w", lastErr)
		case <-ticker.C:
		}
	}
}
