package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m3rciful/carta/core/bootstrap"
	"github.com/m3rciful/carta/core/buildinfo"
	coreconfig "github.com/m3rciful/carta/core/config"
	"github.com/m3rciful/carta/core/logger"
	coretelegram "github.com/m3rciful/carta/core/telegram"
	"github.com/m3rciful/carta/internal/admin"
	"github.com/m3rciful/carta/internal/catalog"
	"github.com/m3rciful/carta/internal/display"
	"github.com/m3rciful/carta/internal/metrics"
	"github.com/m3rciful/carta/internal/session"
	"github.com/m3rciful/carta/internal/storage/document"
	"github.com/m3rciful/carta/internal/storage/postgres"
	"github.com/m3rciful/carta/internal/web"
	"github.com/m3rciful/carta/migrations"
)

// App holds the wired components for one process.
type App struct {
	cfg      *Config
	infra    *bootstrap.Result
	repo     catalog.Repository
	redis    *redis.Client
	sessions session.Store
	engine   *admin.Engine
	builder  *display.Builder
	renderer *display.Renderer
	server   *web.Server
}

// Bootstrap runs the startup pipeline for cfg and wires the application.
func Bootstrap(ctx context.Context, cfg *Config) (*App, error) {
	opts := bootstrap.Options{Config: &cfg.Config}
	if cfg.Storage.Backend == admin.BackendPostgres {
		opts.Database = &cfg.Database
		opts.Migrations = migrations.FS
		if cfg.Storage.SeedFile != "" {
			opts.Modules.Seeders = append(opts.Modules.Seeders, DocumentSeeder(cfg.Storage.SeedFile, postgres.SeedOptions{
				Source:         cfg.Storage.SeedFile,
				InferAllergens: true,
			}))
		}
	}
	infra, err := bootstrap.Run(ctx, opts)
	if err != nil {
		return nil, err
	}
	a, err := New(ctx, cfg, infra)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	return a, nil
}

// New wires the application on top of already initialized infrastructure.
func New(ctx context.Context, cfg *Config, infra *bootstrap.Result) (*App, error) {
	if infra == nil {
		infra = &bootstrap.Result{}
	}
	a := &App{cfg: cfg, infra: infra}

	repo, err := a.newRepository()
	if err != nil {
		return nil, err
	}
	a.repo = repo

	if err := a.newSessions(ctx); err != nil {
		return nil, err
	}

	a.engine, err = admin.New(admin.Options{
		Repository: a.repo,
		Sessions:   a.sessions,
		Backend:    cfg.Storage.Backend,
		AdminID:    cfg.Telegram.AdminID,
	})
	if err != nil {
		a.closeRedis()
		return nil, err
	}

	a.builder, err = display.NewBuilder(display.Options{
		DefaultLocale:       catalog.Locale(cfg.Display.DefaultLanguage),
		InferAllergens:      cfg.Display.InferAllergens,
		MilkSupplementPrice: cfg.Display.MilkSupplementPrice,
	})
	if err != nil {
		a.closeRedis()
		return nil, err
	}
	a.renderer, err = display.NewRenderer()
	if err != nil {
		a.closeRedis()
		return nil, err
	}

	logger.Info(ctx, "app", "app.wire",
		slog.String("status", "ok"),
		slog.String("backend", cfg.Storage.Backend),
		slog.String("mode", cfg.Telegram.RunMode),
	)
	return a, nil
}

func (a *App) newRepository() (catalog.Repository, error) {
	switch a.cfg.Storage.Backend {
	case admin.BackendGitHub:
		gh := a.cfg.Storage.GitHub
		store, err := document.NewGitHubStore(document.GitHubOptions{
			Repo:    gh.Repo,
			Path:    gh.Path,
			Branch:  gh.Branch,
			Token:   gh.Token,
			BaseURL: gh.APIURL,
		})
		if err != nil {
			return nil, err
		}
		return document.NewRepository(store), nil
	case admin.BackendFile:
		return document.NewRepository(document.NewFileStore(a.cfg.Storage.File)), nil
	case admin.BackendPostgres:
		if a.infra.DB == nil {
			return nil, fmt.Errorf("app: postgres backend without a database connection")
		}
		return postgres.NewRepository(a.infra.DB), nil
	}
	return nil, fmt.Errorf("app: unknown storage backend %q", a.cfg.Storage.Backend)
}

func (a *App) newSessions(ctx context.Context) error {
	if a.cfg.Session.Backend != SessionRedis {
		a.sessions = session.NewMemoryStore(a.cfg.Session.TTL)
		return nil
	}
	client, err := session.NewRedisClient(ctx, a.cfg.Redis)
	if err != nil {
		return err
	}
	a.redis = client
	a.sessions = session.NewRedisStore(client, a.cfg.Session.TTL)
	return nil
}

// TelegramRunOptions registers the admin engine and hooks the web server
// into the bot lifecycle.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	routes, err := a.engine.Routes(reg, metrics.IncUpdate)
	if err != nil {
		return coretelegram.RunOptions{}, err
	}
	return coretelegram.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(),
		Routes:      routes,
		OnStart:     a.start,
		OnStop:      a.stop,
	}, nil
}

// WebOptions builds the web server options; bot is nil outside webhook mode.
func (a *App) WebOptions(bot web.Bot) web.Options {
	opts := web.Options{
		Catalog:     a.repo,
		Builder:     a.builder,
		Renderer:    a.renderer,
		Bot:         bot,
		WebhookPath: a.cfg.Webhook.Path,
		Metrics:     promhttp.Handler(),
		Checks:      map[string]web.Check{},
	}
	if db := a.infra.DB; db != nil {
		opts.Checks["database"] = func(ctx context.Context) error { return db.PingContext(ctx) }
	}
	if rc := a.redis; rc != nil {
		opts.Checks["redis"] = func(ctx context.Context) error { return rc.Ping(ctx).Err() }
	}
	return opts
}

func (a *App) start(_ context.Context, rt *coretelegram.Runtime) error {
	metrics.MustRegister()
	metrics.SetBuildInfo(buildinfo.Version, buildinfo.Commit)

	var bot web.Bot
	if rt.Mode() == coreconfig.RunModeWebhook {
		bot = rt
	}
	srv, err := web.New(a.WebOptions(bot))
	if err != nil {
		return err
	}
	if err := srv.Start(a.cfg.HTTP.Addr()); err != nil {
		return err
	}
	a.server = srv
	return nil
}

func (a *App) stop(ctx context.Context, _ *coretelegram.Runtime) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Close releases the redis client and the database.
func (a *App) Close() error {
	a.closeRedis()
	return a.infra.Close()
}

func (a *App) closeRedis() {
	if a.redis != nil {
		_ = a.redis.Close()
		a.redis = nil
	}
}

// DocumentSeeder imports the menu document at path into postgres.
func DocumentSeeder(path string, opts postgres.SeedOptions) bootstrap.Seeder {
	return bootstrap.SeederFunc(func(ctx context.Context, db *sqlx.DB) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read seed document: %w", err)
		}
		_, err = postgres.NewSeeder(db).Seed(ctx, data, opts)
		return err
	})
}
