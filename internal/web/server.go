// Package web serves the public menu page, the Telegram webhook and the
// operational endpoints.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carta/core/logger"
	"github.com/m3rciful/carta/internal/catalog"
	"github.com/m3rciful/carta/internal/display"
)

// Bot is the part of the Telegram runtime the webhook needs.
type Bot interface {
	ProcessUpdate(upd tele.Update)
	SecretToken() string
	SetWebhook(url string) ([]byte, error)
	WebhookInfo() ([]byte, error)
}

// CatalogSource loads the whole catalog for one page render.
type CatalogSource interface {
	Catalog(ctx context.Context) (catalog.Catalog, error)
}

// Check reports the health of one dependency.
type Check func(ctx context.Context) error

// Options wires the server.
type Options struct {
	Catalog  CatalogSource
	Builder  *display.Builder
	Renderer *display.Renderer
	// Bot may be nil; the webhook route is then not mounted.
	Bot         Bot
	WebhookPath string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	Checks  map[string]Check
}

// Server owns the router and the listener.
type Server struct {
	opts Options
	mux  http.Handler
	srv  *http.Server
}

// New validates opts and builds the router.
func New(opts Options) (*Server, error) {
	if opts.Catalog == nil || opts.Builder == nil || opts.Renderer == nil {
		return nil, fmt.Errorf("web: catalog, builder and renderer are required")
	}
	if opts.WebhookPath == "" {
		opts.WebhookPath = "/api/telegram"
	}
	s := &Server{opts: opts}
	s.mux = s.mount()
	return s, nil
}

func (s *Server) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.menuHandler)
	r.Get("/healthz", s.healthHandler)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
	if s.opts.Bot != nil {
		r.Post(s.opts.WebhookPath, s.updateHandler)
		r.Get(s.opts.WebhookPath, s.webhookAdminHandler)
	}
	return r
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Start listens on addr and serves in the background. It returns once the
// listener is bound so bind errors surface to the caller.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("web: listen %s: %w", addr, err)
	}
	s.srv = &http.Server{
		Handler:      s.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}
	logger.LogEvent(context.Background(), logger.HTTP, slog.LevelInfo, "http.start",
		slog.String("status", "ok"),
		slog.String("listen", ln.Addr().String()),
	)
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogEvent(context.Background(), logger.HTTP, slog.LevelError, "http.serve",
				slog.String("status", "fail"), logger.ErrAttr(err))
		}
	}()
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	err := s.srv.Shutdown(ctx)
	logger.LogEvent(ctx, logger.HTTP, slog.LevelInfo, "http.stop", slog.String("status", statusOf(err)))
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusOf(err error) string {
	if err != nil {
		return "fail"
	}
	return "ok"
}
