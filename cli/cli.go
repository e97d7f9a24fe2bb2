package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/arith/cli/cmd"
	"github.com/ardnew/arith/pkg"
)

// CLI is the top-level command-line interface for arith.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Init    cmd.Init    `cmd:"" help:"Initialize configuration file"`
	Fmt     cmd.Fmt     `cmd:"" help:"Format a program"`
	Compile cmd.Compile `cmd:"" help:"Run a program through the bytecode backend"`
	Repl    cmd.Repl    `cmd:"" help:"Start an interactive session"`
	Serve   cmd.Serve   `cmd:"" help:"Serve evaluation requests over HTTP"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate a program"`
}

var helpOptions = kong.HelpOptions{
	Compact:             true,
	Summary:             true,
	Tree:                true,
	NoExpandSubcommands: true,
}

// envPrefix prefixes the environment variable of every flag, so
// ARITH_LOG_LEVEL sets --log-level.
var envPrefix = strings.ToUpper(pkg.Name)

// parser builds the kong parser for cli. ctx is resolved lazily so commands
// receive the context as it is when they run.
func (cli *CLI) parser(ctx *context.Context, exit func(int)) (*kong.Kong, error) {
	config := configPath(baseConfig)

	return kong.New(cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ConfigureHelp(helpOptions),
		kong.ExplicitGroups([]kong.Group{cli.Log.group(), cli.Pprof.group()}),
		kong.BindSingletonProvider(func() context.Context { return *ctx }),
		kong.DefaultEnvars(envPrefix),
		kong.Configuration(kong.JSON, config+".json"),
		kong.Configuration(loadYAML, config+".yaml"),
		kong.Vars{
			"version":            pkg.Version(),
			cmd.ConfigIdentifier: config + ".yaml",
			cmd.CacheIdentifier:  cacheDir(),
		}.
			CloneWith(cli.Log.vars()).
			CloneWith(cli.Pprof.vars()),
	)
}

// Run parses args and runs the selected command. exit is called by kong for
// --help, --version and usage errors.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var cli CLI

	// Logging flags are applied before parsing so that usage errors are
	// already written in the requested style.
	cli.Log.scan(args)

	parser, err := cli.parser(&ctx, exit)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	defer cli.Log.start(ctx)()
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
