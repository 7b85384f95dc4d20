package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func source(name, content string) Source {
	return Source{ReadCloser: io.NopCloser(strings.NewReader(content)), Name: name}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		format  string
		content string
		want    []any
	}{
		{
			name:    "json_by_extension",
			file:    "doc.json",
			format:  FormatAuto,
			content: `{"a": [1, 2.5], "b": null}`,
			want:    []any{map[string]any{"a": []any{1.0, 2.5}, "b": nil}},
		},
		{
			name:    "json_stream",
			file:    "-",
			format:  FormatJSON,
			content: "1\n\"two\"\n[true]\n",
			want:    []any{1.0, "two", []any{true}},
		},
		{
			name:    "yaml_by_content",
			file:    "-",
			format:  FormatAuto,
			content: "name: jpx\ncount: 3\ntags: [a, b]\n",
			want: []any{map[string]any{
				"name":  "jpx",
				"count": 3.0,
				"tags":  []any{"a", "b"},
			}},
		},
		{
			name:    "yaml_documents",
			file:    "docs.yml",
			format:  FormatAuto,
			content: "a: 1\n---\na: 2\n",
			want:    []any{map[string]any{"a": 1.0}, map[string]any{"a": 2.0}},
		},
		{
			name:    "explicit_yaml_overrides_extension",
			file:    "doc.json",
			format:  FormatYAML,
			content: "- x\n- y\n",
			want:    []any{[]any{"x", "y"}},
		},
		{
			name:    "empty_input",
			file:    "-",
			format:  FormatJSON,
			content: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode(context.Background(), source(tt.file, tt.content), tt.format)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	t.Parallel()

	_, err := Decode(context.Background(), source("bad.json", `{"a":`), FormatAuto)
	if !errors.Is(err, ErrDecodeInput) {
		t.Errorf("Decode() error = %v, want %v", err, ErrDecodeInput)
	}
}

func TestEncoder(t *testing.T) {
	t.Parallel()

	value := map[string]any{"a": []any{1.0, "<b>"}}

	tests := []struct {
		name string
		enc  Encoder
		in   any
		want string
	}{
		{"json_compact", Encoder{Format: FormatJSON}, value, "{\"a\":[1,\"<b>\"]}\n"},
		{"json_indent", Encoder{Format: FormatJSON, Indent: 2}, []any{1.0}, "[\n  1\n]\n"},
		{"raw_string", Encoder{Format: FormatJSON, Raw: true}, "plain", "plain\n"},
		{"raw_other", Encoder{Format: FormatJSON, Raw: true}, []any{"x"}, "[\"x\"]\n"},
		{"yaml_block", Encoder{Format: FormatYAML, Indent: 2}, map[string]any{"a": "x"}, "a: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := tt.enc.Encode(context.Background(), &buf, tt.in); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}
