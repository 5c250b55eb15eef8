package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carta/core/logger"
	tghelpers "github.com/m3rciful/carta/core/telegram/helpers"
)

// RecoverMiddleware turns a handler panic into an error so one bad update cannot stop the bot.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
				logger.LogEvent(tghelpers.BuildContext(c), logger.TG, slog.LevelError, "tg.panic",
					slog.String("status", "fail"),
					logger.ErrAttr(err),
					slog.String("stack", logger.SanitizeLimit(string(debug.Stack()), 4096)),
				)
			}
		}()
		return next(c)
	}
}
