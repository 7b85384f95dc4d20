package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles render
// through a renderer bound to the handler's writer, so output that is not a
// terminal carries no escape sequences.
type palette struct {
	key, str, num, yes, no, dur, when, null lipgloss.Style
	levels                                  map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	style := func(color string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(color))
	}

	return palette{
		key:  style("8"),
		str:  style("6"),
		num:  style("3"),
		yes:  style("2"),
		no:   style("1"),
		dur:  style("5"),
		when: style("4"),
		null: style("8"),
		levels: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): style("5"),
			slog.LevelDebug:        style("4"),
			slog.LevelInfo:         style("2"),
			slog.LevelWarn:         style("3"),
			slog.LevelError:        style("1").Bold(true),
		},
	}
}

func (p palette) level(l slog.Level) string {
	name := strings.ToUpper(Level(l).String())

	switch {
	case l >= slog.LevelError:
		return p.levels[slog.LevelError].Render(name)
	case l >= slog.LevelWarn:
		return p.levels[slog.LevelWarn].Render(name)
	case l >= slog.LevelInfo:
		return p.levels[slog.LevelInfo].Render(name)
	case l >= slog.LevelDebug:
		return p.levels[slog.LevelDebug].Render(name)
	default:
		return p.levels[slog.Level(LevelTrace)].Render(name)
	}
}

// value renders a resolved attribute value.
func (p palette) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())
	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())
	case slog.KindTime:
		return p.when.Render(v.Time().Format(time.RFC3339))
	case slog.KindAny:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		if err, ok := v.Any().(error); ok {
			return p.no.Render(err.Error())
		}

		return p.str.Render(fmt.Sprint(v.Any()))
	default:
		return p.str.Render(v.String())
	}
}

// prettyHandler holds the state shared by the pretty text and JSON
// handlers: options, the writer and its lock, and attributes added with
// WithAttrs and WithGroup.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	palette    palette
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	group      string
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) prettyHandler {
	if formatTime == nil {
		formatTime = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		palette:    newPalette(w),
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	h.attrs = h.attrs[:len(h.attrs):len(h.attrs)]
	for _, a := range attrs {
		h.attrs = appendAttr(h.attrs, h.group, a)
	}

	return h
}

func (h prettyHandler) withGroup(name string) prettyHandler {
	if name == "" {
		return h
	}

	if h.group != "" {
		name = h.group + "." + name
	}

	h.group = name

	return h
}

// fields flattens the record into ordered key/value pairs: time, level,
// source, message, handler attributes, then record attributes.
func (h prettyHandler) fields(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			out = append(out, slog.String(slog.TimeKey, ts))
		}
	}

	out = append(out, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			out = append(out,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	out = append(out, slog.String(slog.MessageKey, r.Message))
	out = append(out, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		out = appendAttr(out, h.group, a)

		return true
	})

	return out
}

// appendAttr resolves a and appends it, flattening groups into dotted keys.
func appendAttr(out []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return out
	}

	if prefix != "" {
		a.Key = prefix + "." + a.Key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, g := range a.Value.Group() {
			out = appendAttr(out, a.Key, g)
		}

		return out
	}

	return append(out, a)
}

func (h prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h prettyHandler) render(a slog.Attr) string {
	if level, ok := a.Value.Any().(slog.Level); ok && a.Key == slog.LevelKey {
		return h.palette.level(level)
	}

	return h.palette.value(a.Value)
}

// prettyTextHandler writes one line per record as key=value pairs with
// unquoted values.
type prettyTextHandler struct{ prettyHandler }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{newPrettyHandler(w, opts, formatTime)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.palette.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.render(a))
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes each record as an indented object with unquoted
// values.
type prettyJSONHandler struct{ prettyHandler }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyHandler(w, opts, formatTime)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	buf.WriteString("{\n")

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(h.palette.key.Render(a.Key))
		buf.WriteString(": ")
		buf.WriteString(h.render(a))
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
