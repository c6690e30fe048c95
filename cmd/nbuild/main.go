// Command nbuild wraps a compiler/build command, classifies its output
// against a configurable rule set, and renders a live, navigable view of
// the accumulated diagnostics.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	kongcompletion "github.com/jotaen/kong-completion"
	"github.com/posener/complete"
	"golang.org/x/term"

	"github.com/welschmorgan/nbuild/internal/buildinfo"
	"github.com/welschmorgan/nbuild/internal/debuglog"
	"github.com/welschmorgan/nbuild/internal/entry"
	"github.com/welschmorgan/nbuild/internal/event"
	"github.com/welschmorgan/nbuild/internal/nberrors"
	"github.com/welschmorgan/nbuild/internal/prepare"
	"github.com/welschmorgan/nbuild/internal/produce"
	"github.com/welschmorgan/nbuild/internal/rule"
	"github.com/welschmorgan/nbuild/internal/trace"
	"github.com/welschmorgan/nbuild/internal/ui"
)

// CLI is the flag/argument surface described in spec.md section 6.
type CLI struct {
	OnlyErrors   bool     `short:"E" name:"only-errors" help:"show only error-tagged entries"`
	Config       string   `name:"config" placeholder:"<path>" help:"use specified config file path rather than discovered one"`
	EjectConfig  bool     `name:"eject-config" help:"write the loaded (or default) config to its default location and continue"`
	DumpRules    bool     `name:"dump-rules" help:"print loaded rules to stdout and exit"`
	ActiveRule   string   `name:"active-rule" placeholder:"<alias>" help:"set the active rule by alias (case-insensitive)"`
	OTLPEndpoint string   `name:"otlp-endpoint" placeholder:"<host:port>" help:"gRPC OTLP collector endpoint for optional span export"`
	Version      bool     `name:"version" help:"print version information and exit"`
	Args         []string `arg:"" optional:"" passthrough:"" help:"arguments forwarded to the active rule's command"`
}

func main() {
	os.Exit(run())
}

func run() int {
	args := stripLeadingProgramToken(os.Args[1:])

	var cli CLI
	kongOpts := []kong.Option{
		kong.Name("nbuild"),
		kong.Description("Interactive terminal wrapper that classifies build output and renders a navigable diagnostic view."),
	}
	if path, ok := flagsConfigPath(); ok {
		kongOpts = append(kongOpts, kong.Configuration(kongyaml.Loader, path))
	}
	parser := kong.Must(&cli, kongOpts...)
	kongcompletion.Register(parser,
		kongcompletion.WithPredictor("rule", complete.PredictAnything),
	)
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	_ = kctx

	if cli.Version {
		fmt.Println(buildinfo.Get().String())
		return 0
	}

	debugSink, err := debuglog.Open("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "nbuild: %v\n", err)
		return 1
	}
	defer debugSink.Close()

	rules := rule.NewStore()
	discoveredPath, loadErr := rules.Load(cli.Config)
	if loadErr != nil {
		// Config read failures fall back to the built-in defaults
		// already seeded in rules; only logged, never fatal.
		debugSink.Writef("rule config load failed, using built-in defaults: %v", loadErr)
	}

	if cli.ActiveRule != "" {
		if err := rules.SetActive(cli.ActiveRule); err != nil {
			fmt.Fprintf(os.Stderr, "nbuild: %v\n", err)
			return 1
		}
	}

	if cli.DumpRules {
		if err := rule.Formats[1].Save(rules.Rules(), os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "nbuild: %v\n", err)
			return 1
		}
		return 0
	}

	if cli.EjectConfig {
		path, err := rules.Eject(discoveredPath, discoveredPath == "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "nbuild: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "nbuild: wrote config to %s\n", path)
	}

	scannerMode := !term.IsTerminal(int(os.Stdin.Fd()))
	if scannerMode && len(cli.Args) > 0 {
		fmt.Fprintln(os.Stderr, "nbuild: build arguments are not allowed when reading from a piped standard input")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := trace.Setup(ctx, cli.OTLPEndpoint)
	if err != nil {
		debugSink.Writef("trace setup failed: %v", err)
		tp = &trace.Provider{}
	}
	defer tp.Shutdown(ctx)

	store := entry.NewStore()
	preparer := prepare.NewPreparer(store, rules)
	preparer.Tracer = tp.Tracer()
	preparer.Debug = debugSink

	channels := event.NewChannels(256)

	rules.BeginIngestion()

	if scannerMode {
		scanner := &produce.Scanner{Reader: os.Stdin, Debug: debugSink}
		go scanner.Run(channels)
	} else {
		active := rules.Active()
		builder := &produce.Builder{Command: active.Command, Args: cli.Args, Debug: debugSink}
		go builder.Run(ctx, channels)
	}

	if _, err := ui.Run(ctx, store, rules, preparer, channels, debugSink, ui.Options{OnlyErrors: cli.OnlyErrors}); err != nil {
		fmt.Fprintf(os.Stderr, "nbuild: %v\n", nberrors.Wrap(nberrors.KindIO, err, "ui terminated abnormally"))
		return 1
	}
	return 0
}

// flagsConfigPath returns the optional YAML file supplying default
// values for CLI flags (distinct from the rule config files discovered
// by internal/rule), along with whether it exists. Kong errors if
// handed a configuration path that isn't there, so callers must check
// ok before passing the path to kong.Configuration.
func flagsConfigPath() (string, bool) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	path := dir + "/nbuild/flags.yaml"
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// stripLeadingProgramToken silently consumes an optional leading
// argument equal to the program's own name (spec.md section 6,
// "accepts an optional leading subcommand-style token equal to the
// package name").
func stripLeadingProgramToken(args []string) []string {
	if len(args) > 0 && strings.EqualFold(args[0], "nbuild") {
		return args[1:]
	}
	return args
}
