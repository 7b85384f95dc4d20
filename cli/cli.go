package cli

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/jpx/cli/cmd"
	"github.com/ardnew/jpx/cli/cmd/repl"
	"github.com/ardnew/jpx/lang"
	"github.com/ardnew/jpx/log"
	"github.com/ardnew/jpx/pkg"
)

// CLI is the top-level command-line interface for jpx.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version   kong.VersionFlag `help:"Print version and exit"                    short:"V"`
	Library   []string         `help:"Load function library file(s)"             short:"L" type:"existingfile"`
	MaxDepth  int              `help:"Maximum expression nesting depth (0=none)"           default:"${maxDepth}"`
	CacheSize int              `help:"Compiled expression cache size (0=none)"             default:"${cacheSize}"`

	Search    cmd.Search    `cmd:"" default:"withargs" help:"Evaluate an expression against JSON or YAML documents"`
	Tokens    cmd.Tokens    `cmd:""                    help:"Print the tokens of an expression"`
	AST       cmd.AST       `cmd:""                    help:"Print the syntax tree of an expression" name:"ast"`
	Functions cmd.Functions `cmd:""                    help:"List callable functions"`
	Repl      repl.Repl     `cmd:""                    help:"Query a document interactively"`
	Init      cmd.Init      `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the jpx CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
		"cacheSize":          strconv.Itoa(lang.DefaultCacheSize),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	// Parse command line
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	engine, err := cli.engine(ctx)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithEngine(ctx, engine)

	// Execute the selected command
	return ktx.Run(ctx)
}

// engine returns the expression engine shared by all commands, with every
// function library loaded.
func (cli *CLI) engine(ctx context.Context) (*lang.Engine, error) {
	engine := lang.New(
		lang.WithLogger(log.Default()),
		lang.WithMaxDepth(cli.MaxDepth),
		lang.WithCache(lang.NewCache(cli.CacheSize)),
	)

	path := libraryPath(os.Getenv(libraryEnv()), configPath(baseLibrary))

	log.DebugContext(ctx, "library search path",
		slog.Any("path", path),
		slog.Any("files", cli.Library))

	if err := loadLibraries(ctx, engine, cli.Library, path); err != nil {
		return nil, err
	}

	return engine, nil
}
