package router

import (
	"context"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/carta/core/telegram"
	tghelpers "github.com/m3rciful/carta/core/telegram/helpers"
	"github.com/m3rciful/carta/core/telegram/middleware"
)

// Conversation is the multi-step dialog that claims free text while a chat
// has a pending question.
type Conversation interface {
	InProgress(ctx context.Context, chatID int64) bool
	HandleReply(c tele.Context) error
}

// TextOptions controls access for text updates.
type TextOptions struct {
	Access    middleware.AccessOptions
	OnHandled HandledFunc
}

// TextRoutes builds the OnText handler. Order: slash commands, the pending
// conversation, then the registry text fallback. Text without a leading
// slash never resolves to a command.
func TextRoutes(conv Conversation, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		s := summary{kind: "text", start: time.Now(), onHandled: opts.OnHandled}
		if !opts.Access.Allowed(c) {
			s.name = "rejected"
			tghelpers.SetOutcome(c, "rejected")
			return handleWithSummary(c, s, func() error {
				if opts.Access.OnReject != nil {
					return opts.Access.OnReject(c)
				}
				return nil
			})
		}

		if reg != nil && strings.HasPrefix(strings.TrimSpace(c.Text()), "/") {
			if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil {
				s.kind, s.name = "command", normalizeHandlerName(key)
				return handleWithSummary(c, s, func() error { return cmd.Handler(c) })
			}
		}

		if conv != nil && conv.InProgress(tghelpers.BuildContext(c), tghelpers.ChatID(c)) {
			s.name = "conversation"
			return handleWithSummary(c, s, func() error { return conv.HandleReply(c) })
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				s.name = "fallback"
				return handleWithSummary(c, s, func() error { return fb(c) })
			}
		}
		s.name = "unknown_text"
		tghelpers.SetOutcome(c, "skip")
		return handleWithSummary(c, s, func() error { return nil })
	}

	return []tg.Route{{Endpoint: tele.OnText, Handler: handler}}
}
