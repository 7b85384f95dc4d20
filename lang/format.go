package lang

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// FormatJSON writes a search result as JSON followed by a newline. An
// indent of zero writes compact output.
func FormatJSON(w io.Writer, v any, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	return enc.Encode(v)
}

// FormatYAML writes a search result as YAML. An indent of zero writes flow
// style. Integral numbers are written without a fractional part.
func FormatYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	opts := []yaml.EncodeOption{yaml.UseJSONMarshaler(), yaml.AutoInt()}
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// FormatRaw writes strings without quoting and anything else as compact
// JSON, each followed by a newline.
func FormatRaw(w io.Writer, v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(w, s)

		return err
	}

	return FormatJSON(w, v, 0)
}
