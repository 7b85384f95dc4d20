// Package cli contains the command line interface for jpx.
//
// # Usage
//
// The default command evaluates an expression against each JSON or YAML
// document read from the named files, or from stdin:
//
//	jpx 'people[?age > `30`].name' people.json
//	kubectl get pods -o json | jpx -o yaml 'items[*].metadata.name'
//
// The remaining commands inspect expressions and the function table:
//
//	jpx tokens 'a.b | length(@)'
//	jpx ast 'sort_by(people, &age)'
//	jpx functions sort
//	jpx repl people.json
//	jpx init
//
// # Function Libraries
//
// A library is a YAML mapping of function names to expressions. Each entry
// is registered as though the expression called define():
//
//	adults: "[?age >= `18`]"
//	names: "[*].name"
//
// Libraries named with --library load first and must not redefine a function.
// Then every *.yaml file in each directory of $JPX_LIBRARY_PATH, followed by
// ~/.config/jpx/lib, loads in order; a function an earlier library already
// defined is skipped with a warning.
//
// # Configuration
//
// Flag defaults are read from ~/.config/jpx/config.yaml (see [resolve]) and
// ~/.config/jpx/config.json. Command-line flags override both. The init
// command writes the current flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o jpx .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/jpx/pprof)
//
// # Examples
//
//	# Debug logging with CPU profiling
//	jpx --log-level=debug --pprof-mode=cpu 'length(@)' big.json
//
//	# Define a helper function for one search
//	jpx -d 'ages=[*].age' 'max(ages(people))' people.json
package cli
