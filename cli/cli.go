package cli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quill/cli/cmd"
	"github.com/ardnew/quill/log"
	"github.com/ardnew/quill/pkg"
)

// CLI is the top-level command-line interface for quill.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Modules     string `default:"${modules}" help:"Module manifest listing importable modules." short:"m" type:"path"`
	LangVersion string `default:"${version}" help:"Language version checked against module requirements."`

	Tokens cmd.Tokens `cmd:"" help:"Print the token stream of each source"`
	AST    cmd.AST    `cmd:"" help:"Print the syntax tree of each source"  name:"ast"`
	Check  cmd.Check  `cmd:"" help:"Check sources for errors"              default:"withargs"`
	Watch  cmd.Watch  `cmd:"" help:"Re-check sources whenever they change"`
	Repl   cmd.Repl   `cmd:"" help:"Start an interactive session"`
	Init   cmd.Init   `cmd:"" help:"Initialize configuration file"`
}

// Run executes the quill CLI with the given context and arguments.
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

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier:  configFilePath,
		cmd.CacheIdentifier:   pkg.CacheDir(),
		cmd.ModulesIdentifier: configPath(baseModules),
		"version":             strings.TrimSpace(pkg.Version),
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
		kong.Configuration(loadConfig, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithModules(ctx, cmd.Modules{
		Manifest: cli.Modules,
		Version:  cli.LangVersion,
		Required: cli.Modules != configPath(baseModules),
	})

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	log.TraceContext(ctx, "command selected",
		slog.String("command", ktx.Command()),
		slog.String("modules", cli.Modules),
	)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
