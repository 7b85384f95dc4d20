package lang

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ardnew/jpx/lang/types"
)

func TestFormatJSON(t *testing.T) {
	re, err := types.CompileRegexp("a", "i")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		value  any
		indent int
		want   string
	}{
		{"compact", map[string]any{"b": []any{1.0, true}, "a": "<b>"}, 0, `{"a":"<b>","b":[1,true]}` + "\n"},
		{"indented", []any{1.0, "x"}, 2, "[\n  1,\n  \"x\"\n]\n"},
		{"null", nil, 0, "null\n"},
		{"regexp", re, 0, `"/a/i"` + "\n"},
		{"closure", types.NewClosure(nil, nil), 0, "null\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			if err := FormatJSON(&buf, tt.value, tt.indent); err != nil {
				t.Fatalf("FormatJSON() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("FormatJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatYAML(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	if err := FormatYAML(ctx, &buf, map[string]any{"name": "x", "size": 2.0}, 2); err != nil {
		t.Fatalf("FormatYAML() error = %v", err)
	}

	if got, want := buf.String(), "name: x\nsize: 2\n"; got != want {
		t.Errorf("FormatYAML() = %q, want %q", got, want)
	}

	buf.Reset()

	if err := FormatYAML(ctx, &buf, []any{1.0, "x"}, 0); err != nil {
		t.Fatalf("FormatYAML(flow) error = %v", err)
	}

	if got := buf.String(); !strings.HasPrefix(got, "[") || strings.Contains(got, "\n-") {
		t.Errorf("FormatYAML(flow) = %q, want a flow sequence", got)
	}
}

func TestFormatRaw(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"plain \"text\"", "plain \"text\"\n"},
		{1.5, "1.5\n"},
		{[]any{"a"}, `["a"]` + "\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		if err := FormatRaw(&buf, tt.value); err != nil {
			t.Fatalf("FormatRaw() error = %v", err)
		}

		if got := buf.String(); got != tt.want {
			t.Errorf("FormatRaw(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
