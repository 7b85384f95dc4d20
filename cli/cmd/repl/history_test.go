package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistoryWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "  ", "b", "c", "a"} {
		if _, err := h.Write(line); err != nil {
			t.Fatalf("Write(%q) error = %v", line, err)
		}
	}

	want := []string{"b", "c", "a"}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	// The file holds the same entries after the duplicate forced a rewrite.
	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries() = %v, want %v", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	if mode := info.Mode().Perm(); mode != historyFileMode {
		t.Errorf("file mode = %v, want %v", mode, historyFileMode)
	}
}

func TestHistoryLoadMissing(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "missing"))
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistoryLoadSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte("one\n\n  \ntwo\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got, want := h.Entries(), []string{"one", "two"}; !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestHistoryInMemory(t *testing.T) {
	h := NewHistory("")
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := h.Write("x"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}

func TestHistoryGetLine(t *testing.T) {
	h := NewHistory("")
	_, _ = h.Write("first")
	_, _ = h.Write("second")

	tests := []struct {
		name    string
		index   int
		want    string
		wantErr error
	}{
		{"oldest", 0, "first", nil},
		{"newest", 1, "second", nil},
		{"negative", -1, "", ErrOutOfBounds},
		{"past_end", 2, "", ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.GetLine(tt.index)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetLine(%d) error = %v, want %v", tt.index, err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("GetLine(%d) = %q, want %q", tt.index, got, tt.want)
			}
		})
	}
}
