package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/carta/core/config"
	"github.com/m3rciful/carta/core/logger"
	tghelpers "github.com/m3rciful/carta/core/telegram/helpers"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  tele.MiddlewareFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of NewRuntime and RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry

	Middlewares []Middleware
	Routes      []Route

	// Client overrides the Bot API HTTP client; nil selects BuildHTTPClient.
	Client *http.Client
	// Offline skips getMe and the command menu upload.
	Offline bool

	OnStart func(ctx context.Context, rt *Runtime) error
	OnStop  func(ctx context.Context, rt *Runtime) error
}

// Runtime owns the bot. Updates are handled synchronously: ProcessUpdate
// returns once every handler for the update has finished.
type Runtime struct {
	Bot      *tele.Bot
	Registry *Registry

	mode   string
	secret string
}

// NewRuntime builds the bot and wires middlewares and routes.
func NewRuntime(opts RunOptions) (*Runtime, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("telegram: nil config provided")
	}
	cfg := opts.Config
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}
	client := opts.Client
	if client == nil {
		client = BuildHTTPClient()
	}

	settings := tele.Settings{
		Token:       cfg.Telegram.Token,
		URL:         cfg.Telegram.APIURL,
		Client:      client,
		Synchronous: true,
		Offline:     opts.Offline,
		OnError:     logBotError,
	}
	if cfg.Telegram.RunMode == coreconfig.RunModeLongpoll {
		timeout := cfg.Telegram.LongPollTimeoutSeconds
		if timeout <= 0 {
			timeout = 10
		}
		settings.Poller = &tele.LongPoller{Timeout: time.Duration(timeout) * time.Second}
	}

	start := time.Now()
	bot, err := tele.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %w", logger.RedactErr(err))
	}

	// middleware is bound at Handle time, so Use must come first
	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	for _, route := range opts.Routes {
		if route.Endpoint == nil || route.Handler == nil {
			continue
		}
		bot.Handle(route.Endpoint, route.Handler)
	}
	if !opts.Offline {
		InitBotCommands(bot, reg)
	}

	logger.LogEvent(context.Background(), logger.TG, slog.LevelInfo, "tg.mode",
		slog.String("status", "ok"),
		slog.String("mode", cfg.Telegram.RunMode),
		slog.String("public_url", cfg.Webhook.URL),
		slog.Duration("duration", logger.Took(start)),
	)
	return &Runtime{Bot: bot, Registry: reg, mode: cfg.Telegram.RunMode, secret: cfg.Webhook.Secret}, nil
}

// Mode returns the configured run mode.
func (rt *Runtime) Mode() string { return rt.mode }

// SecretToken is the value Telegram must echo in X-Telegram-Bot-Api-Secret-Token; empty disables the check.
func (rt *Runtime) SecretToken() string { return rt.secret }

// ProcessUpdate runs every handler for upd to completion.
func (rt *Runtime) ProcessUpdate(upd tele.Update) {
	rt.Bot.ProcessUpdate(upd)
}

// SetWebhook registers url with Telegram and returns the raw API response.
func (rt *Runtime) SetWebhook(url string) ([]byte, error) {
	payload := map[string]any{"url": url}
	if rt.secret != "" {
		payload["secret_token"] = rt.secret
	}
	data, err := rt.Bot.Raw("setWebhook", payload)
	return data, logger.RedactErr(err)
}

// WebhookInfo returns the raw getWebhookInfo response.
func (rt *Runtime) WebhookInfo() ([]byte, error) {
	data, err := rt.Bot.Raw("getWebhookInfo", nil)
	return data, logger.RedactErr(err)
}

// RunTelegram builds the runtime, calls OnStart, then serves until ctx is done.
// In long-poll mode the bot pulls updates itself; in webhook mode updates
// arrive through ProcessUpdate from whatever HTTP server OnStart started.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := NewRuntime(opts)
	if err != nil {
		return err
	}
	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			return err
		}
	}

	if rt.mode == coreconfig.RunModeLongpoll {
		if err := rt.Bot.RemoveWebhook(); err != nil {
			logger.LogEvent(ctx, logger.TG, slog.LevelWarn, "tg.delete_webhook",
				slog.String("status", "fail"), logger.ErrAttr(err))
		}
		done := make(chan struct{})
		go func() {
			rt.Bot.Start()
			close(done)
		}()
		select {
		case <-ctx.Done():
			rt.Bot.Stop()
			<-done
		case <-done:
		}
	} else {
		<-ctx.Done()
	}

	if opts.OnStop != nil {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := opts.OnStop(stopCtx, rt); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func logBotError(err error, c tele.Context) {
	ctx := context.Background()
	if c != nil {
		ctx = tghelpers.BuildContext(c)
	}
	logger.LogEvent(ctx, logger.TG, slog.LevelError, "tg.error",
		slog.String("status", "fail"),
		logger.ErrAttr(err),
	)
}
