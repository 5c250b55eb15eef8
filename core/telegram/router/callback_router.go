package router

import (
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/carta/core/telegram"
	"github.com/m3rciful/carta/core/telegram/callbacks"
	"github.com/m3rciful/carta/core/telegram/middleware"
)

// CallbackOptions customises access control for callbacks.
type CallbackOptions struct {
	Access    middleware.AccessOptions
	OnHandled HandledFunc
}

// CallbackRoute returns a handler that routes callbacks through the registry
// by tag. Every callback is answered before the access check so the client
// spinner stops even for rejected senders.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	guard := middleware.AdminOnlyMiddleware(opts.Access)

	handler := func(c tele.Context) error {
		if c.Callback() == nil {
			return nil
		}
		_ = c.Respond()

		p := callbacks.FromContext(c)
		s := summary{
			kind:      "callback",
			name:      "callback." + normalizeHandlerName(p.Tag),
			start:     time.Now(),
			onHandled: opts.OnHandled,
			extras:    []slog.Attr{slog.String("cb_key", p.Tag)},
		}

		h, ok := reg.GetCallback(p.Tag)
		if !ok || h == nil {
			h = reg.CallbackNotFound()
			if h == nil {
				h = func(c tele.Context) error { return nil }
			}
			s.extras = append(s.extras, slog.String("reason", "not_found"))
		}
		return handleWithSummary(c, s, func() error { return guard(h)(c) })
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: handler}
}
