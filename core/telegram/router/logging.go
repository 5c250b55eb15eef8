package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carta/core/logger"
	tghelpers "github.com/m3rciful/carta/core/telegram/helpers"
	"github.com/m3rciful/carta/core/telegram/middleware"
)

// HandledFunc observes every routed update once its handler returns.
// kind is "command", "callback" or "text".
type HandledFunc func(kind, outcome string)

type summary struct {
	kind      string
	name      string
	start     time.Time
	onHandled HandledFunc
	extras    []slog.Attr
}

func handleWithSummary(c tele.Context, s summary, fn func() error) error {
	tghelpers.WithHandler(c, s.name)
	err := fn()
	outcome := logHandlerSummary(c, s, err)
	if s.onHandled != nil {
		s.onHandled(s.kind, outcome)
	}
	return err
}

func logHandlerSummary(c tele.Context, s summary, err error) string {
	ctx := tghelpers.WithHandler(c, s.name)
	msgs, kb := middleware.GetCounters(c)

	status := "ok"
	if err != nil {
		status = "fail"
	}
	outcome := tghelpers.Outcome(c)
	if outcome == "" {
		outcome = status
	}

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("handler", s.name),
		slog.String("outcome", outcome),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Duration("duration", logger.Took(s.start)),
	}
	if err != nil {
		attrs = append(attrs,
			logger.ErrAttr(err),
			slog.String("err_code", deriveErrorCode(err)),
		)
	}
	attrs = append(attrs, s.extras...)

	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelWarn
	}
	logger.LogEvent(ctx, logger.TG, level, "handler.handled", attrs...)
	return outcome
}

func normalizeHandlerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}

func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	type coder interface{ Code() string }
	var c coder
	if errors.As(err, &c) {
		if code := strings.TrimSpace(c.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Name() != "" {
		return strings.ToUpper(t.Name())
	}
	return "UNKNOWN_ERROR"
}
