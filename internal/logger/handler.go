package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type paint func(format string, a ...interface{}) string

var (
	levelBadges = map[slog.Level]struct {
		label string
		paint paint
	}{
		slog.LevelDebug: {"DBG", color.HiBlackString},
		slog.LevelInfo:  {"INF", color.CyanString},
		slog.LevelWarn:  {"WRN", color.YellowString},
		slog.LevelError: {"ERR", color.RedString},
	}

	// keyPalette groups the keys the pipeline logs by what they describe:
	// failures, timings, counters, identifiers and AI usage.
	keyPalette = map[string]paint{
		"error":  color.RedString,
		"err":    color.RedString,
		"reason": color.RedString,

		"duration_ms": color.MagentaString,
		"duration":    color.MagentaString,
		"delay_ms":    color.MagentaString,
		"attempt":     color.MagentaString,

		"count":         color.GreenString,
		"total":         color.GreenString,
		"commits_count": color.GreenString,
		"changes_count": color.GreenString,

		"repo":         color.BlueString,
		"repo_url":     color.BlueString,
		"sha":          color.BlueString,
		"changelog_id": color.BlueString,
		"request_id":   color.BlueString,
		"route":        color.BlueString,
		"method":       color.BlueString,

		"category":           color.CyanString,
		"operation":          color.CyanString,
		"model":              color.YellowString,
		"total_tokens":       color.YellowString,
		"estimated_cost_usd": color.YellowString,
	}
)

// PrettyHandler is a slog.Handler for human-friendly terminal output.
// Attributes bound with WithAttrs are rendered once, under the groups open
// at the time they were bound.
type PrettyHandler struct {
	opts   *slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	bound  string
	prefix string
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{opts: opts, mu: &sync.Mutex{}, w: w}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelWarn
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05.000")))
		buf.WriteByte(' ')
	}
	buf.WriteString(badge(r.Level))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.WriteString(h.bound)

	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&buf, h.prefix, a)
		return true
	})

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			buf.WriteByte(' ')
			buf.WriteString(color.HiBlackString("%s:%d", filepath.Base(frame.File), frame.Line))
		}
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var buf bytes.Buffer
	buf.WriteString(h.bound)
	for _, a := range attrs {
		appendAttr(&buf, h.prefix, a)
	}
	next := *h
	next.bound = buf.String()
	return &next
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func badge(level slog.Level) string {
	if b, ok := levelBadges[level]; ok {
		return b.paint(b.label)
	}
	return level.String()
}

// appendAttr writes " key=value". Group values are flattened into dotted keys.
func appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(buf, inner, ga)
		}
		return
	}

	key := prefix + a.Key
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\n\"=") {
		val = strconv.Quote(val)
	}

	buf.WriteByte(' ')
	buf.WriteString(colorFor(a.Key, a.Value)("%s=%s", key, val))
}

// colorFor picks the palette by the bare key so grouped keys keep their colour.
// HTTP statuses are coloured by class.
func colorFor(key string, v slog.Value) paint {
	if key == "status" {
		code := int64(0)
		switch v.Kind() {
		case slog.KindInt64:
			code = v.Int64()
		case slog.KindUint64:
			code = int64(v.Uint64())
		}
		switch {
		case code >= 500:
			return color.RedString
		case code >= 400:
			return color.YellowString
		case code >= 200:
			return color.GreenString
		}
	}
	if p, ok := keyPalette[key]; ok {
		return p
	}
	return color.HiBlackString
}
