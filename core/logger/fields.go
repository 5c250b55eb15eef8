package logger

import "strings"

var allowedLevels = map[string]string{
	"debug":   "DEBUG",
	"info":    "INFO",
	"warn":    "WARN",
	"warning": "WARN",
	"error":   "ERROR",
}

var allowedOutcome = map[string]struct{}{
	"ok":        {},
	"fail":      {},
	"rejected":  {},
	"invalid":   {},
	"not_found": {},
	"conflict":  {},
	"skip":      {},
}

func normalizeLevel(level string) string {
	if level == "" {
		return "INFO"
	}
	if mapped, ok := allowedLevels[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

func normalizeOutcome(outcome string) (string, bool) {
	outcome = strings.ToLower(strings.TrimSpace(outcome))
	_, ok := allowedOutcome[outcome]
	return outcome, ok
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"handler",
	"cb_key",
	"action",
	"category",
	"locator",
	"pending",
	"outcome",
	"duration_ms",
	"messages",
	"kb",
	"backend",
	"revision",
	"count",
	"lang",
	"method",
	"path",
	"http_code",
	"mode",
	"listen",
	"public_url",
	"db",
	"host",
	"port",
	"err",
	"err_code",
	"cause",
}
