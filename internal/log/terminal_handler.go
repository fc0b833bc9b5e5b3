package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset  = "\033[0m"
	ansiDim    = "\033[2m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiCyan   = "\033[36m"
)

// componentKey is rendered as a tag in front of the message.
const componentKey = "component"

// TerminalHandler writes one human readable line per record, coloured unless
// NO_COLOR is set:
//
//	15:04:05.000 INF [pages] sidebar reordered nodes=42
//
// Attributes added through WithAttrs are formatted once, when the derived
// handler is created.
type TerminalHandler struct {
	w         io.Writer
	mu        *sync.Mutex
	level     slog.Leveler
	colour    bool
	component string
	prefix    string
	groups    []string
}

func newTerminalHandler(w io.Writer, opts *slog.HandlerOptions) *TerminalHandler {
	h := &TerminalHandler{w: w, mu: &sync.Mutex{}, level: slog.LevelInfo}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	_, noColour := os.LookupEnv("NO_COLOR")
	h.colour = !noColour
	return h
}

func (h *TerminalHandler) clone() *TerminalHandler {
	c := *h
	c.groups = append([]string(nil), h.groups...)
	return &c
}

// Enabled reports whether records at level are written.
func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record as one line.
func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	var attrs bytes.Buffer
	attrs.WriteString(h.prefix)
	component := h.component
	r.Attrs(func(a slog.Attr) bool {
		if name, ok := h.componentOf(a); ok {
			component = name
			return true
		}
		h.writeAttr(&attrs, a, h.groups)
		return true
	})

	var line bytes.Buffer
	line.Grow(64 + attrs.Len())
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	h.paint(&line, ansiDim, ts.Format("15:04:05.000"))
	line.WriteByte(' ')
	style, label := levelStyle(r.Level)
	h.paint(&line, style, label)
	line.WriteByte(' ')
	if component != "" {
		h.paint(&line, ansiBlue, "["+component+"]")
		line.WriteByte(' ')
	}
	h.paint(&line, ansiBold, r.Message)
	line.Write(attrs.Bytes())
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(line.Bytes())
	return err
}

// WithAttrs returns a handler that writes attrs on every record.
func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	c := h.clone()
	var buf bytes.Buffer
	buf.WriteString(h.prefix)
	for _, a := range attrs {
		if name, ok := c.componentOf(a); ok {
			c.component = name
			continue
		}
		c.writeAttr(&buf, a, c.groups)
	}
	c.prefix = buf.String()
	return c
}

// WithGroup returns a handler that qualifies later keys with name.
func (h *TerminalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.groups = append(c.groups, name)
	return c
}

// componentOf reports whether a is an ungrouped component attribute.
func (h *TerminalHandler) componentOf(a slog.Attr) (string, bool) {
	if a.Key != componentKey || len(h.groups) > 0 || a.Value.Kind() != slog.KindString {
		return "", false
	}
	return a.Value.String(), true
}

func (h *TerminalHandler) paint(buf *bytes.Buffer, style, text string) {
	if h.colour {
		buf.WriteString(style)
		buf.WriteString(text)
		buf.WriteString(ansiReset)
		return
	}
	buf.WriteString(text)
}

func (h *TerminalHandler) writeAttr(buf *bytes.Buffer, a slog.Attr, groups []string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			groups = append(groups[:len(groups):len(groups)], a.Key)
		}
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, ga, groups)
		}
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	buf.WriteByte(' ')
	h.paint(buf, ansiDim, key+"=")
	buf.WriteString(formatValue(a.Value))
}

func levelStyle(level slog.Level) (string, string) {
	switch {
	case level < slog.LevelInfo:
		return ansiCyan, "DBG"
	case level < slog.LevelWarn:
		return ansiGreen, "INF"
	case level < slog.LevelError:
		return ansiYellow, "WRN"
	default:
		return ansiRed, "ERR"
	}
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return quoteIfNeeded(v.String())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return fmt.Sprintf("%q", err.Error())
		}
		return quoteIfNeeded(v.String())
	}
	return v.String()
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"\\=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
