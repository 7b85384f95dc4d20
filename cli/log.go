package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jpx/log"
)

// logFormat and logLevel reconfigure the default logger as soon as Kong
// decodes them, before any command runs.
type logFormat string

func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

type logLevel string

func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevel}"  enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"${logFormat}" enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                               help:"Set timestamp format."`
	Caller     bool      `default:"false"                                 help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                  help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevel":      log.DefaultLevel.String(),
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormat":     log.DefaultFormat.String(),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// earlyFlag applies one logger flag during [logConfig.scan]. Exactly one
// of value or toggle is set.
type earlyFlag struct {
	value  func(string)
	toggle func(bool)
}

func (f *logConfig) earlyFlags() map[string]earlyFlag {
	return map[string]earlyFlag{
		"level": {value: func(s string) { _ = f.Level.UnmarshalText([]byte(s)) }},
		"format": {value: func(s string) { _ = f.Format.UnmarshalText([]byte(s)) }},
		"pretty": {toggle: func(on bool) {
			f.Pretty = on
			log.Config(log.WithPretty(on))
		}},
		"caller": {toggle: func(on bool) {
			f.Caller = on
			log.Config(log.WithCaller(on))
		}},
	}
}

// scan applies logger flags found in args before Kong parses them, so that
// messages logged while loading configuration and function libraries
// already honor the requested level and format. Scanning stops at "--",
// after which arguments are expressions and documents.
func (f *logConfig) scan(args []string) {
	flags := f.earlyFlags()

	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		name, negated, ok := logFlagName(args[i])
		if !ok {
			continue
		}

		name, value, assigned := strings.Cut(name, "=")

		flag, ok := flags[name]
		if !ok {
			continue
		}

		if flag.value != nil {
			if negated {
				continue
			}

			if !assigned && i+1 < len(args) && args[i+1] != "" &&
				!strings.HasPrefix(args[i+1], "-") {
				i++
				value = args[i]
			}

			flag.value(value)

			continue
		}

		on := true

		if assigned {
			b, err := strconv.ParseBool(value)
			if err != nil {
				continue
			}

			on = b
		}

		flag.toggle(on != negated)
	}
}

// logFlagName strips the --log- or --no-log- prefix from arg.
func logFlagName(arg string) (name string, negated, ok bool) {
	if name, ok = strings.CutPrefix(arg, "--log-"); ok {
		return name, false, true
	}

	if name, ok = strings.CutPrefix(arg, "--no-log-"); ok {
		return name, true, true
	}

	return "", false, false
}
