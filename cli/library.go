package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/mung"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/jpx/cli/cmd"
	"github.com/ardnew/jpx/lang"
	"github.com/ardnew/jpx/lang/types"
	"github.com/ardnew/jpx/log"
	"github.com/ardnew/jpx/pkg"
)

// libraryEnv returns the name of the environment variable listing
// function-library directories.
func libraryEnv() string { return pkg.EnvPrefix() + "LIBRARY_PATH" }

// libraryPath returns the directories searched for function libraries: the
// entries of list, then dir. Duplicate and nonexistent directories are
// dropped.
func libraryPath(list, dir string) []string {
	delim := string(os.PathListSeparator)

	// Prefix items are prepended one at a time.
	prefix := filepath.SplitList(list)
	slices.Reverse(prefix)

	joined := mung.Make(
		mung.WithSubjectItems(dir),
		mung.WithDelim(delim),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(isDir),
	).String()

	if joined == "" {
		return nil
	}

	return strings.Split(joined, delim)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// libraryFiles returns the YAML files directly within each directory of
// path, in path order and then by name.
func libraryFiles(path []string) []string {
	var files []string

	for _, dir := range path {
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Warn("skipping library directory",
				slog.String("dir", dir), slog.Any("error", err))

			continue
		}

		for _, entry := range entries {
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".yaml", ".yml":
				if !entry.IsDir() {
					files = append(files, filepath.Join(dir, entry.Name()))
				}
			}
		}
	}

	return files
}

// loadLibrary registers every name: expression entry of the YAML file at
// path with engine, in file order.
//
// When shadow is true, a name that is already defined is skipped with a
// warning instead of failing, so libraries loaded earlier take precedence.
func loadLibrary(ctx context.Context, engine *lang.Engine, path string, shadow bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return cmd.ErrLibrary.With(slog.String("file", path)).Wrap(err)
	}

	var defs yaml.MapSlice
	if err := yaml.UnmarshalContext(ctx, data, &defs); err != nil {
		return cmd.ErrLibrary.With(slog.String("file", path)).Wrap(err)
	}

	for _, def := range defs {
		name := fmt.Sprint(def.Key)

		expr, ok := def.Value.(string)
		if !ok {
			return cmd.ErrLibrary.With(
				slog.String("file", path),
				slog.String("name", name),
				slog.String("type", fmt.Sprintf("%T", def.Value)),
			)
		}

		err := engine.Define(ctx, name, expr)
		if shadow && errors.Is(err, types.ErrRedefined) {
			log.WarnContext(ctx, "library function shadowed",
				slog.String("file", path), slog.String("name", name))

			continue
		}

		if err != nil {
			return cmd.ErrLibrary.
				With(slog.String("file", path), slog.String("name", name)).
				Wrap(err)
		}
	}

	log.DebugContext(ctx, "loaded library",
		slog.String("file", path), slog.Int("functions", len(defs)))

	return nil
}

// loadLibraries loads the explicitly named library files, then every
// library in the search path.
func loadLibraries(ctx context.Context, engine *lang.Engine, explicit, path []string) error {
	for _, file := range explicit {
		if err := loadLibrary(ctx, engine, file, false); err != nil {
			return err
		}
	}

	for _, file := range libraryFiles(path) {
		if err := loadLibrary(ctx, engine, file, true); err != nil {
			return err
		}
	}

	return nil
}
