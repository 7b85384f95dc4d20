package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jpx/lang"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type engineKey struct{}

// WithEngine returns a new context.Context carrying the engine commands
// evaluate expressions with.
func WithEngine(ctx context.Context, e *lang.Engine) context.Context {
	return context.WithValue(ctx, engineKey{}, e)
}

// EngineFrom returns the engine stored by [WithEngine], or a new engine with
// only the built-in functions.
func EngineFrom(ctx context.Context) *lang.Engine {
	if e, ok := ctx.Value(engineKey{}).(*lang.Engine); ok && e != nil {
		return e
	}

	return lang.New()
}

// Var returns the kong variable named id, if a kong.Context is stored in ctx.
func Var(ctx context.Context, id string) (string, bool) {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return "", false
	}

	v, ok := ktx.Model.Vars()[id]

	return v, ok
}

// stdout returns the writer a command prints results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// Source is a named input stream.
type Source struct {
	io.ReadCloser

	Name string
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// StdinSource is the path that selects standard input.
const StdinSource = "-"

// OpenSources opens each input path once.
//
// Paths that resolve to the same file, through symlinks or relative and
// absolute spellings, are opened once. Every occurrence of "-" collapses to a
// single stdin source placed last so it reads after all regular files. With
// no paths, stdin is the only source.
func OpenSources(paths []string) ([]Source, error) {
	if len(paths) == 0 {
		return []Source{stdinSource()}, nil
	}

	srcs := make([]Source, 0, len(paths))
	seen := make(map[fileKey]struct{})

	stdinKey, hasStdinKey := fileKey{}, false

	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, hasStdinKey = makeFileKey(info)
	}

	hasStdin := false

	for _, path := range paths {
		if path == StdinSource {
			hasStdin = true

			continue
		}

		src, key, ok, err := openUniqueFile(path, seen)
		if err != nil {
			closeSources(srcs)

			return nil, ErrReadInput.With(slog.String("file", path)).Wrap(err)
		}

		if !ok {
			continue
		}

		// Stdin may be named as a file, such as /dev/stdin.
		if hasStdinKey && key == stdinKey {
			_ = src.Close()
			hasStdin = true

			continue
		}

		srcs = append(srcs, src)
	}

	if hasStdin {
		srcs = append(srcs, stdinSource())
	}

	return srcs, nil
}

func stdinSource() Source {
	return Source{ReadCloser: io.NopCloser(os.Stdin), Name: StdinSource}
}

func closeSources(srcs []Source) {
	for _, src := range srcs {
		_ = src.Close()
	}
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Reports false without error when the file is a duplicate.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (src Source, key fileKey, ok bool, err error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return src, key, false, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return src, key, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return src, key, false, err
	}

	if key, ok = makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return src, key, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return src, key, false, err
	}

	return Source{ReadCloser: file, Name: path}, key, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
