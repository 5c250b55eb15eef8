package logger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	tsLayout = "2006-01-02T15:04:05.000Z07:00"
)

type handlerConfig struct {
	level    slog.Leveler
	writer   *asyncWriter
	format   logFormat
	keyOrder []string
}

// structuredHandler renders records as single-line JSON or key=value text with a stable key order.
type structuredHandler struct {
	cfg    handlerConfig
	attrs  []slog.Attr
	groups []string
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	if cfg.level == nil {
		cfg.level = slog.LevelInfo
	}
	if len(cfg.keyOrder) == 0 {
		cfg.keyOrder = append([]string(nil), defaultKeyOrder...)
	}
	return &structuredHandler{cfg: cfg}
}

// Enabled reports whether level passes the configured threshold.
func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.level.Level()
}

// Handle renders r and hands the line to the async writer.
func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg.writer == nil {
		return errors.New("logger: writer not initialized")
	}

	fields := make(map[string]any, 16)
	ts := r.Time.UTC()
	fields["ts"] = ts.Truncate(time.Millisecond).Format(tsLayout)
	fields["level"] = normalizeLevel(r.Level.String())
	if h.cfg.format == formatJSON {
		fields["ts_unix_nano"] = ts.UnixNano()
	}

	for _, a := range h.attrs {
		h.put(fields, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.put(fields, a)
		return true
	})
	fillFromContext(ctx, fields)
	h.finish(fields, r.Message)

	var line []byte
	if h.cfg.format == formatJSON {
		var err error
		if line, err = renderJSON(fields, h.cfg.keyOrder); err != nil {
			return err
		}
	} else {
		line = renderKV(fields, h.cfg.keyOrder)
	}
	return h.cfg.writer.Write(append(line, '\n'))
}

// WithAttrs returns a copy of the handler carrying attrs on every record.
func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup returns a copy of the handler that prefixes keys with name.
func (h *structuredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func (h *structuredHandler) put(fields map[string]any, a slog.Attr) {
	walkAttr(strings.Join(h.groups, "."), a, func(key string, v slog.Value) {
		if k, val, ok := normalizeAttr(key, v); ok {
			fields[k] = val
		}
	})
}

// finish fills required keys, compacts the rid and drops empty or invalid enumerations.
func (h *structuredHandler) finish(fields map[string]any, msg string) {
	if rid, ok := fields["rid"].(string); ok && rid != "" {
		if compact := CompactRID(rid); compact != rid {
			if _, seen := fields["rid_full"]; !seen && h.cfg.format == formatJSON {
				fields["rid_full"] = rid
			}
			fields["rid"] = compact
		}
	}
	if ev, _ := fields["event"].(string); ev == "" {
		if msg == "" {
			msg = "unknown"
		}
		fields["event"] = msg
	}
	if comp, _ := fields["component"].(string); comp == "" {
		fields["component"] = "app"
	}
	if o, ok := fields["outcome"].(string); ok {
		if norm, valid := normalizeOutcome(o); valid {
			fields["outcome"] = norm
		} else {
			delete(fields, "outcome")
		}
	}
	if e, ok := fields["err"].(string); ok {
		fields["err"] = Redact(e)
	}
	for k, v := range fields {
		switch val := v.(type) {
		case nil:
			delete(fields, k)
		case string:
			if val == "" {
				delete(fields, k)
			}
		}
	}
}

func walkAttr(prefix string, a slog.Attr, fn func(string, slog.Value)) {
	key := a.Key
	switch {
	case key == "":
		key = prefix
	case prefix != "":
		key = prefix + "." + key
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, child := range v.Group() {
			walkAttr(key, child, fn)
		}
		return
	}
	if key != "" {
		fn(key, v)
	}
}

// durationKey maps "duration" to "duration_ms" and "x" to "x_ms".
func durationKey(key string) string {
	switch {
	case key == "duration":
		return "duration_ms"
	case strings.HasSuffix(key, "_ms"):
		return key
	default:
		return key + "_ms"
	}
}

func normalizeAttr(key string, v slog.Value) (string, any, bool) {
	switch v.Kind() {
	case slog.KindString:
		return key, strings.TrimSpace(v.String()), true
	case slog.KindBool:
		return key, v.Bool(), true
	case slog.KindInt64:
		return key, v.Int64(), true
	case slog.KindUint64:
		if u := v.Uint64(); u <= math.MaxInt64 {
			return key, int64(u), true
		}
		return key, v.Uint64(), true
	case slog.KindFloat64:
		return key, v.Float64(), true
	case slog.KindDuration:
		return durationKey(key), RoundMS(v.Duration()).Milliseconds(), true
	case slog.KindTime:
		return key, v.Time().UTC().Format(time.RFC3339Nano), true
	}
	switch x := v.Any().(type) {
	case nil:
		return key, nil, false
	case error:
		return key, x.Error(), true
	case time.Duration:
		return durationKey(key), RoundMS(x).Milliseconds(), true
	case []string:
		return key, SummarizeStrings(x, 8), true
	case fmt.Stringer:
		return key, x.String(), true
	default:
		return key, fmt.Sprint(x), true
	}
}

// SummarizeStrings joins up to max values with commas and notes how many were dropped.
func SummarizeStrings(values []string, max int) string {
	if len(values) == 0 {
		return ""
	}
	if max <= 0 || len(values) <= max {
		return strings.Join(values, ",")
	}
	return strings.Join(values[:max], ",") + fmt.Sprintf(",+%d", len(values)-max)
}

func sortedKeys(fields map[string]any, order []string) []string {
	keys := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, k := range order {
		if _, ok := fields[k]; ok {
			if _, dup := seen[k]; dup {
				continue
			}
			keys = append(keys, k)
			seen[k] = struct{}{}
		}
	}
	rest := make([]string, 0, len(fields)-len(keys))
	for k := range fields {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func renderJSON(fields map[string]any, order []string) ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range sortedKeys(fields, order) {
		data, err := json.Marshal(fields[k])
		if err != nil {
			return nil, fmt.Errorf("logger: encode %s: %w", k, err)
		}
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(k))
		b.WriteByte(':')
		b.Write(data)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func renderKV(fields map[string]any, order []string) []byte {
	var b strings.Builder
	for i, k := range sortedKeys(fields, order) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(kvValue(fields[k]))
	}
	return []byte(b.String())
}

func kvValue(v any) string {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	if strings.IndexFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) >= 0 {
		return strconv.Quote(s)
	}
	return s
}

func fillFromContext(ctx context.Context, fields map[string]any) {
	if ctx == nil {
		return
	}
	setIfMissing := func(key string, val any, empty bool) {
		if empty {
			return
		}
		if _, ok := fields[key]; !ok {
			fields[key] = val
		}
	}
	rid := RIDFrom(ctx)
	setIfMissing("rid", rid, rid == "")
	uid := UserIDFrom(ctx)
	setIfMissing("user_id", uid, uid == 0)
	cid := ChatIDFrom(ctx)
	setIfMissing("chat_id", cid, cid == 0)
	upd := UpdateIDFrom(ctx)
	setIfMissing("update_id", upd, upd == 0)
	hid := HandlerFrom(ctx)
	setIfMissing("handler", hid, hid == "")
}
