package router

import (
	"context"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carta/core/logger"
	tg "github.com/m3rciful/carta/core/telegram"
	"github.com/m3rciful/carta/core/telegram/middleware"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	Access    middleware.AccessOptions
	OnHandled HandledFunc
}

// CommandRoutes binds every registered command behind the access check.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}
	guard := middleware.AdminOnlyMiddleware(opts.Access)

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for name, def := range reg.Commands() {
		h := guard(def.Handler)
		handlerName := normalizeHandlerName(name)
		routes = append(routes, tg.Route{
			Endpoint: name,
			Handler: func(c tele.Context) error {
				s := summary{kind: "command", name: handlerName, start: time.Now(), onHandled: opts.OnHandled}
				return handleWithSummary(c, s, func() error { return h(c) })
			},
		})
	}

	logger.LogEvent(context.Background(), logger.TWire, slog.LevelInfo, "tg.wire",
		slog.String("status", "ok"),
		slog.Int("commands", len(reg.Commands())),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)
	return routes
}
