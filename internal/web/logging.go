package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/m3rciful/carta/core/logger"
)

// requestLogger writes one http.request line per request. Successful
// requests are logged at debug level and sampled.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logger.WithRID(r.Context(), middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		level := slog.LevelDebug
		status := "ok"
		switch {
		case code >= 500:
			level, status = slog.LevelError, "fail"
		case code >= 400:
			level, status = slog.LevelWarn, "rejected"
		}
		if level == slog.LevelDebug && !logger.ShouldSampleDebug() {
			return
		}
		logger.LogEvent(ctx, logger.HTTP, level, "http.request",
			slog.String("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("http_code", code),
			slog.Duration("duration", logger.Took(start)),
		)
	})
}
