package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreconfig "github.com/m3rciful/carta/core/config"
	"github.com/m3rciful/carta/core/logger"
	coretelegram "github.com/m3rciful/carta/core/telegram"
)

// ConfigCarrier exposes access to the embedded core configuration.
type ConfigCarrier interface {
	CoreConfig() *coreconfig.Config
}

// TelegramApp is what the runner needs from a bootstrapped application.
type TelegramApp interface {
	TelegramRunOptions() (coretelegram.RunOptions, error)
	Close() error
}

// Options describe how to load configuration, bootstrap the app, and run the bot.
type Options struct {
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig func(path string) (ConfigCarrier, error)
	Bootstrap  func(ctx context.Context, cfg ConfigCarrier) (TelegramApp, error)

	ShutdownLogger func() error
	RunTelegram    func(ctx context.Context, opts coretelegram.RunOptions) error
}

// ConfigPath resolves the config file from env, falling back to def.
func ConfigPath(env, def string) string {
	if env == "" {
		env = "CONFIG_PATH"
	}
	if p := os.Getenv(env); p != "" {
		return p
	}
	return def
}

// Run loads configuration, bootstraps the app and serves until SIGINT or SIGTERM.
func Run(opts Options) error {
	if opts.LoadConfig == nil {
		return fmt.Errorf("cmd: LoadConfig is required")
	}
	if opts.Bootstrap == nil {
		return fmt.Errorf("cmd: Bootstrap is required")
	}

	cfgPath := ConfigPath(opts.ConfigEnvVar, opts.DefaultConfigPath)
	if cfgPath == "" {
		return fmt.Errorf("cmd: config path not provided")
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := opts.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("cmd: failed to load config: %w", err)
	}
	if cfg.CoreConfig() == nil {
		return fmt.Errorf("cmd: loaded config is missing core configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownLogger := opts.ShutdownLogger
	if shutdownLogger == nil {
		shutdownLogger = logger.Shutdown
	}
	defer func() {
		if err := shutdownLogger(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	application, err := opts.Bootstrap(ctx, cfg)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap failed: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn(context.Background(), "app", "app.close",
				slog.String("status", "fail"), logger.ErrAttr(err))
		}
	}()

	runOpts, err := application.TelegramRunOptions()
	if err != nil {
		return fmt.Errorf("cmd: telegram options build failed: %w", err)
	}

	startedAt := time.Now()
	prevStart := runOpts.OnStart
	runOpts.OnStart = func(ctx context.Context, rt *coretelegram.Runtime) error {
		if prevStart != nil {
			if err := prevStart(ctx, rt); err != nil {
				return err
			}
		}
		logger.Info(ctx, "app", "app.ready",
			slog.String("status", "ok"),
			slog.String("mode", rt.Mode()),
			slog.Duration("duration", time.Since(startedAt)),
		)
		return nil
	}

	prevStop := runOpts.OnStop
	runOpts.OnStop = func(ctx context.Context, rt *coretelegram.Runtime) error {
		logger.Info(ctx, "app", "app.shutdown", slog.String("status", "ok"))
		if prevStop != nil {
			return prevStop(ctx, rt)
		}
		return nil
	}

	run := opts.RunTelegram
	if run == nil {
		run = coretelegram.RunTelegram
	}
	return run(ctx, runOpts)
}
