package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carta/core/logger"
	"github.com/m3rciful/carta/internal/metrics"
)

const (
	secretHeader   = "X-Telegram-Bot-Api-Secret-Token"
	maxUpdateBytes = 1 << 20
)

func (s *Server) menuHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	loc := s.opts.Builder.ResolveLocale(r.URL.Query().Get("lang"))
	c, err := s.opts.Catalog.Catalog(ctx)
	if err != nil {
		logger.LogEvent(ctx, logger.HTTP, slog.LevelError, "http.menu",
			slog.String("status", "fail"),
			slog.String("lang", string(loc)),
			logger.ErrAttr(err),
		)
		http.Error(w, "menu temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.opts.Renderer.Render(w, s.opts.Builder.Build(c, loc)); err != nil {
		logger.LogEvent(ctx, logger.HTTP, slog.LevelError, "http.menu",
			slog.String("status", "fail"),
			slog.String("lang", string(loc)),
			logger.ErrAttr(err),
		)
		http.Error(w, "menu temporarily unavailable", http.StatusInternalServerError)
		return
	}
	metrics.IncPageRender(string(loc))
}

type healthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := healthResponse{Status: "healthy"}
	code := http.StatusOK
	if len(s.opts.Checks) > 0 {
		resp.Services = make(map[string]string, len(s.opts.Checks))
	}
	for name, check := range s.opts.Checks {
		if err := check(ctx); err != nil {
			resp.Services[name] = "error"
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Services[name] = "ok"
	}
	writeJSON(w, code, resp)
}

// updateHandler feeds one webhook delivery to the bot and waits for it.
// Telegram retries anything but 2xx, so malformed bodies are acknowledged too.
func (s *Server) updateHandler(w http.ResponseWriter, r *http.Request) {
	if secret := s.opts.Bot.SecretToken(); secret != "" && r.Header.Get(secretHeader) != secret {
		logger.LogEvent(r.Context(), logger.TG, slog.LevelWarn, "tg.webhook",
			slog.String("status", "rejected"),
			slog.String("cause", "secret_mismatch"),
		)
		// not a Telegram delivery, so the always-ok acknowledgement does not apply
		writeJSON(w, http.StatusUnauthorized, map[string]bool{"ok": false})
		return
	}

	var upd tele.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBytes)).Decode(&upd); err != nil {
		ctx := logger.WithRID(r.Context(), uuid.NewString())
		logger.LogEvent(ctx, logger.TG, slog.LevelWarn, "tg.webhook",
			slog.String("status", "invalid"),
			logger.ErrAttr(err),
		)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	s.opts.Bot.ProcessUpdate(upd)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// webhookAdminHandler serves ?action=setup&url=... and ?action=info.
func (s *Server) webhookAdminHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch q.Get("action") {
	case "setup":
		url := q.Get("url")
		if url == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing ?url= parameter"})
			return
		}
		raw, err := s.opts.Bot.SetWebhook(url)
		logger.LogEvent(r.Context(), logger.TG, levelOf(err), "tg.set_webhook",
			slog.String("status", statusOf(err)),
			slog.String("public_url", url),
			logger.ErrAttr(err),
		)
		s.passthrough(w, raw, err)
	case "info":
		raw, err := s.opts.Bot.WebhookInfo()
		s.passthrough(w, raw, err)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "Bot webhook active"})
	}
}

func (s *Server) passthrough(w http.ResponseWriter, raw []byte, err error) {
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": logger.RedactErr(err).Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func levelOf(err error) slog.Level {
	if err != nil {
		return slog.LevelError
	}
	return slog.LevelInfo
}
