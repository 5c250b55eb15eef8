package bootstrap

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/carta/core/config"
	coredatabase "github.com/m3rciful/carta/core/database"
	"github.com/m3rciful/carta/core/logger"
)

// Options control the startup pipeline shared by the binaries.
type Options struct {
	Config *coreconfig.Config
	// Database is nil when the configured backend needs no SQL database.
	Database   *coredatabase.Config
	Migrations fs.FS
	Modules    Modules

	LoggerInit func(*coreconfig.Config) error
	Connect    func(context.Context, coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(context.Context, coredatabase.Config, fs.FS) error
}

// Result exposes infrastructure initialized by the pipeline.
type Result struct {
	// DB is nil when Options.Database was nil.
	DB *sqlx.DB
}

// Close releases what Run opened.
func (r *Result) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

// Run initializes the logger and, when a database is configured, connects,
// applies migrations and runs the seeders.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	if opts.Database == nil {
		if len(opts.Modules.Seeders) > 0 {
			return nil, fmt.Errorf("bootstrap: seeders need a database")
		}
		return &Result{}, nil
	}

	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	db, err := connect(ctx, *opts.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	if opts.Migrations != nil {
		migrate := opts.Migrate
		if migrate == nil {
			migrate = coredatabase.RunMigrations
		}
		if err := migrate(ctx, *opts.Database, opts.Migrations); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
		}
	}

	for i, s := range opts.Modules.Seeders {
		if err := s.Seed(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap: seeder %d failed: %w", i, err)
		}
	}
	return &Result{DB: db}, nil
}
