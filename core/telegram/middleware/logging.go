package middleware

import (
	"context"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carta/core/logger"
	"github.com/m3rciful/carta/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/carta/core/telegram/helpers"
)

// LoggerMiddleware sets the rid and logging context for the update and logs
// a sampled receipt line.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		var chatID, userID int64
		chat, user := c.Chat(), c.Sender()
		if chat != nil {
			chatID = chat.ID
		}
		if user != nil {
			userID = user.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())

		ctx := logger.WithRID(context.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.TG)
		tghelpers.StoreContext(c, ctx)

		if logger.ShouldSampleDebug() {
			attrs := []slog.Attr{slog.String("status", "ok")}
			if user != nil && user.LanguageCode != "" {
				attrs = append(attrs, slog.String("lang", user.LanguageCode))
			}
			switch {
			case upd.Callback != nil:
				p := callbacks.Parse(upd.Callback.Data)
				attrs = append(attrs,
					slog.String("cb_key", logger.SanitizeLimit(p.Tag, 16)),
					slog.String("payload", logger.SanitizeLimit(upd.Callback.Data, 64)),
				)
			case upd.Message != nil:
				if t := c.Text(); t != "" {
					attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
				}
			}
			logger.LogEvent(ctx, logger.TG, slog.LevelDebug, "update.received", attrs...)
		}
		return next(c)
	}
}
