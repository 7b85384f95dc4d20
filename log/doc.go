// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("search finished", slog.Int("results", n))
//
// A zero [Logger] discards everything. Library types hold one and log
// through it unconditionally; callers that want output pass a configured
// logger in.
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Package Logger
//
// The package-level functions ([Info], [DebugContext] and so on) write to a
// default logger on standard error. [Config] replaces its configuration;
// the command line does this once flags are parsed.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is rendered as TRACE. Messages
// below the configured level are discarded.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON]. With [WithPretty] enabled, text
// output drops value quoting and JSON output is indented, and both are
// styled when writing to a terminal.
package log
