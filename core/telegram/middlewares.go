package telegram

import "github.com/m3rciful/carta/core/telegram/middleware"

// DefaultMiddlewares builds the shared middleware chain: panic recovery,
// per-update logging context and outbound message counters.
func DefaultMiddlewares() []Middleware {
	return []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "counters", Use: middleware.CountersMiddleware},
	}
}
