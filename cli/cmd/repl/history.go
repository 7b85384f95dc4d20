package repl

import (
	"bufio"
	"os"
	"slices"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// historyFileMode is the permission mode of the history file.
const historyFileMode os.FileMode = 0o600

// History manages input history with file persistence.
type History struct {
	path    string
	entries []string
	mu      sync.RWMutex
}

// NewHistory creates a new History instance with the given file path.
// An empty path keeps history in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads history entries from the history file.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		h.entries = append(h.entries, line)
	}

	return scanner.Err()
}

// Write appends a new entry to the history.
// If a duplicate entry exists, the old one is removed.
func (h *History) Write(entry string) (int, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Skip if same as last entry
	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return len(entry), nil
	}

	// Remove any existing duplicate entry
	i := slices.Index(h.entries, entry)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, entry)

	if h.path == "" {
		return len(entry), nil
	}

	// If we removed a duplicate, rewrite the entire file
	// Otherwise, just append
	if i >= 0 {
		return h.rewriteFile()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, historyFileMode)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return file.WriteString(entry + "\n")
}

// GetLine retrieves a historic line by index.
// Index 0 is the oldest entry.
func (h *History) GetLine(i int) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return "", ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns all history entries.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// rewriteFile rewrites the entire history file with current entries.
// Must be called with h.mu held.
func (h *History) rewriteFile() (int, error) {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, historyFileMode)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	totalBytes := 0

	for _, entry := range h.entries {
		n, err := file.WriteString(entry + "\n")
		if err != nil {
			return totalBytes, err
		}

		totalBytes += n
	}

	return totalBytes, nil
}
