package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/jpx/lang/types"
	"github.com/ardnew/jpx/log"
)

// resolve is a [kong.ConfigurationLoader] that parses YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// The YAML document is converted as follows:
//   - Top-level keys name flags, with hyphens or underscores
//     (e.g., "log-level" or "log_level")
//   - Nested mappings are flattened by joining keys with hyphens, so
//     "log: {level: debug}" sets --log-level
//   - Sequences set repeatable flags
//   - Numbers are passed to Kong in their decimal string form
//
// Example config file:
//
//	log:
//	  level: debug
//	  format: json
//	library:
//	  - ~/lib/jpx/strings.yaml
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--log-format=json
//	--library=~/lib/jpx/strings.yaml
//
// Command-line flags override config file values. A file that is not valid
// YAML is ignored with a warning.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		log.Warn("ignoring invalid configuration", slog.Any("error", err))

		return config{}, nil
	}

	cfg := make(config, len(doc))
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// flatten adds each entry of m to c, joining nested keys with hyphens.
func (c config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if nested, ok := val.(map[string]any); ok {
			c.flatten(key, nested)

			continue
		}

		c[key] = flagValue(val)
	}
}

// flagValue converts a decoded YAML value to a form Kong can parse.
// Kong requires numbers as strings for parsing.
func flagValue(val any) any {
	switch v := val.(type) {
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case nil, bool, string:
		return v
	default:
		if f, ok := types.ToFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}

		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config keys may use
	// underscores. Try both forms.
	name := flag.Name

	if value, ok := c[name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(name, "-", "_")]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(name, "_", "-")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
