package helpers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carta/core/logger"
)

const (
	contextKey = "logger_ctx"
	outcomeKey = "outcome"
)

// StoreContext attaches reusable context to tele.Context for downstream helpers.
func StoreContext(c tele.Context, ctx context.Context) {
	if c == nil || ctx == nil {
		return
	}
	c.Set(contextKey, ctx)
}

// ContextFrom returns the context stored by StoreContext.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	if ctx, ok := c.Get(contextKey).(context.Context); ok {
		return ctx, true
	}
	return nil, false
}

// BuildContext returns the update's context, creating one enriched with rid
// and update/user/chat ids on first use.
func BuildContext(c tele.Context) context.Context {
	if cached, ok := ContextFrom(c); ok {
		return cached
	}

	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	updateID := c.Update().ID

	rid, _ := c.Get("rid").(string)
	if rid == "" {
		rid = logger.BuildRID(updateID, chatID, userID)
	}

	ctx := logger.WithRID(context.Background(), rid)
	ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.TG)
	StoreContext(c, ctx)
	return ctx
}

// WithHandler enriches stored context with handler metadata for downstream logs.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler == "" {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	StoreContext(c, ctx)
	return ctx
}

// SetOutcome overrides the outcome reported by the handler summary.
func SetOutcome(c tele.Context, outcome string) {
	c.Set(outcomeKey, outcome)
}

// Outcome returns the value set by SetOutcome.
func Outcome(c tele.Context) string {
	s, _ := c.Get(outcomeKey).(string)
	return s
}

// ChatID returns the chat of the update, falling back to the sender.
func ChatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if user := c.Sender(); user != nil {
		return user.ID
	}
	return 0
}
