package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

// initContext parses args against a small flag set whose config file is
// confPath.
func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli struct {
		Level   string   `default:"info" help:"Log level"`
		Verbose bool     `               help:"Enable verbose output"`
		Count   int      `               help:"Number of items"`
		Library []string `               help:"Library files"`
		Output  string   `               help:"Output file"`
	}

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), ktx)
}

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		setup   func(t *testing.T, path string) // setup function to prepare test
		wantErr error
	}{
		{
			name: "create_new_config",
		},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "fail_without_force",
			setup: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			ctx := initContext(t, confPath, "--verbose")

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() unexpected error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, content)
			}

			if got["verbose"] != true {
				t.Errorf("verbose = %v, want true\n%s", got["verbose"], content)
			}
		})
	}
}

// TestInitBuildConfig tests that buildConfig records set flags in
// declaration order and omits unset ones.
func TestInitBuildConfig(t *testing.T) {
	t.Parallel()

	ctx := initContext(t, "unused",
		"--verbose", "--count=5", "--library=a.yaml", "--library=b.yaml")

	got := (&Init{}).buildConfig(ctx)

	want := yaml.MapSlice{
		{Key: "level", Value: "info"},
		{Key: "verbose", Value: true},
		{Key: "count", Value: 5},
		{Key: "library", Value: []string{"a.yaml", "b.yaml"}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("buildConfig() mismatch (-want +got):\n%s", diff)
	}
}

// TestConfigValue tests conversion of flag values.
func TestConfigValue(t *testing.T) {
	t.Parallel()

	type level string

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bool", false, false},
		{"string", "text", "text"},
		{"empty_string", "", nil},
		{"int", 42, 42},
		{"strings", []string{"a"}, []string{"a"}},
		{"empty_strings", []string{}, nil},
		{"named_string", level("debug"), "debug"},
		{"version", kong.VersionFlag(false), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, configValue(tt.in)); diff != "" {
				t.Errorf("configValue(%#v) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

// TestInitWithInvalidPath tests init with an invalid file path.
func TestInitWithInvalidPath(t *testing.T) {
	t.Parallel()

	ctx := initContext(t, "/nonexistent/directory/config.yaml")

	err := (&Init{}).Run(ctx)
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Init.Run() error = %v, want %v", err, ErrWriteConfig)
	}
}
