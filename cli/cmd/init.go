package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/jpx/lang"
	"github.com/ardnew/jpx/log"
	"github.com/ardnew/jpx/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// configFileMode is the permission mode of a generated configuration file.
const configFileMode os.FileMode = 0o600

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath, ok := Var(ctx, ConfigIdentifier)
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalContext(ctx, i.buildConfig(ctx),
		yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	err = os.WriteFile(confPath, data, configFileMode)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildConfig collects the current value of every global flag, in
// declaration order.
func (i *Init) buildConfig(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return nil
	}

	var entries yaml.MapSlice

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := configValue(ktx.FlagValue(flag))
		if val != nil {
			entries = append(entries, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return entries
}

// configValue returns the configuration value for a flag value, or nil if it
// is unset.
func configValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case string:
		if v == "" {
			return nil
		}

		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	case bool, int, int64, uint, uint64, float64:
		return v

	case kong.VersionFlag:
		return nil

	default:
		return lang.Normalize(v)
	}
}
