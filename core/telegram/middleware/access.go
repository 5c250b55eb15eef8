package middleware

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/carta/core/telegram/helpers"
)

// AccessOptions restricts handlers to a single admin.
type AccessOptions struct {
	// AdminID of 0 lets everyone through.
	AdminID  int64
	OnReject tele.HandlerFunc
}

// Allowed reports whether the update's sender may use the bot.
func (o AccessOptions) Allowed(c tele.Context) bool {
	if o.AdminID == 0 {
		return true
	}
	if user := c.Sender(); user != nil {
		return user.ID == o.AdminID
	}
	return tghelpers.ChatID(c) == o.AdminID
}

// AdminOnlyMiddleware ensures that only the admin user can invoke downstream handlers.
func AdminOnlyMiddleware(opts AccessOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !opts.Allowed(c) {
				tghelpers.SetOutcome(c, "rejected")
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
