package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/jpx/lang"
)

// Input and output document formats.
const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// sniffSize is how much of an input is inspected to detect its format.
const sniffSize = 512

// Decode reads every document in src.
//
// A JSON input may hold a stream of values and a YAML input may hold several
// documents; each becomes one element of the result. With [FormatAuto], the
// format is chosen by file extension, then by the first non-blank byte.
// Numbers decode as float64 and mapping keys as strings.
func Decode(ctx context.Context, src Source, format string) ([]any, error) {
	r := bufio.NewReader(src)

	if format == FormatAuto || format == "" {
		format = detectFormat(src.Name, r)
	}

	var (
		docs []any
		next func(*any) error
	)

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()

		next = func(v *any) error { return dec.DecodeContext(ctx, v) }

	case FormatYAML:
		dec := yaml.NewDecoder(r)

		next = func(v *any) error { return dec.DecodeContext(ctx, v) }

	default:
		return nil, ErrDecodeInput.
			With(slog.String("file", src.Name), slog.String("format", format))
	}

	for {
		var doc any

		err := next(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}

		if err != nil {
			return nil, ErrDecodeInput.
				With(slog.String("file", src.Name), slog.String("format", format)).
				Wrap(err)
		}

		docs = append(docs, lang.Normalize(doc))
	}
}

// detectFormat guesses the format of an input from its name, then from its
// leading content.
func detectFormat(name string, r *bufio.Reader) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}

	head, _ := r.Peek(sniffSize)

	head = bytes.TrimLeft(head, " \t\r\n")
	if len(head) > 0 && (head[0] == '{' || head[0] == '[' || head[0] == '"') {
		return FormatJSON
	}

	return FormatYAML
}

// Encoder writes search results in one output format.
type Encoder struct {
	Format string
	Indent int
	Raw    bool
}

// Encode writes v followed by a newline.
func (enc Encoder) Encode(ctx context.Context, w io.Writer, v any) error {
	var err error

	switch {
	case enc.Raw:
		err = lang.FormatRaw(w, v)
	case enc.Format == FormatYAML:
		err = lang.FormatYAML(ctx, w, v, enc.Indent)
	default:
		err = lang.FormatJSON(w, v, enc.Indent)
	}

	if err != nil {
		return ErrWriteOutput.With(slog.String("format", enc.Format)).Wrap(err)
	}

	return nil
}
