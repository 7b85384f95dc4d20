package cli

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/grafana/regexp"

	"github.com/ardnew/jpx/pkg"
)

const (
	// baseConfig is the base name of the configuration files.
	baseConfig = "config"

	// baseLibrary is the name of the function-library directory within the
	// configuration directory.
	baseLibrary = "lib"
)

var defaultDirMode os.FileMode = 0o700

// executableRules rewrite the executable's base name into the identifier
// used for directories and environment variables. They apply in order.
var executableRules = []struct {
	pattern *regexp.Regexp
	replace string
}{
	{regexp.MustCompile(`^__debug_bin\d*$`), pkg.Name}, // dlv output
	{regexp.MustCompile(`^\.+`), ""},
}

// basePrefix names the per-user configuration and cache directories. It is
// the executable's base name without extension, so a renamed or symlinked
// binary keeps its own configuration.
var basePrefix = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	id := filepath.Base(exe)
	id = strings.TrimSuffix(id, filepath.Ext(id))

	for _, rule := range executableRules {
		id = rule.pattern.ReplaceAllString(id, rule.replace)
	}

	if id == "" {
		id = pkg.Name
	}

	return id
})

// userDir returns <base>/<basePrefix>, where base comes from primary or,
// failing that, from hidden under the home directory, or finally the
// working directory.
func userDir(primary func() (string, error), hidden string) string {
	dir, err := primary()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

var (
	configDir = sync.OnceValue(func() string { return userDir(os.UserConfigDir, ".config") })
	cacheDir  = sync.OnceValue(func() string { return userDir(os.UserCacheDir, ".cache") })
)

// configPath joins elem onto the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration, library and cache
// directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), configPath(baseLibrary), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
