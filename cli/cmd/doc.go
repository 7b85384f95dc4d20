// Package cmd implements the jpx subcommands: search, tokens, ast,
// functions, and init.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// ([WithContext]) and the expression engine ([WithEngine]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
