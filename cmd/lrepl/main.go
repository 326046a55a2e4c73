package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/npillmayer/lalr/lr/parser"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// options are shared by all commands. They are set from the configuration
// file, overlayed by command line flags.
type options struct {
	configFile  string
	grammarFile string
	start       string
	traceLevel  string
	config      *Config
	lang        *parser.LanguageData
	builtin     bool // true for the built-in expression grammar
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "lrepl [input]",
		Short: "Interactive playground for LALR grammars",
		Long: `LREPL compiles a grammar to an LALR parser and parses input lines.
Without a grammar file, arithmetic expressions are parsed and evaluated.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(opts, strings.TrimSpace(strings.Join(args, " ")))
		},
	}
	bindFlags(root.PersistentFlags(), opts)
	root.AddCommand(newParseCommand(opts), newTablesCommand(opts))
	return root
}

func bindFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVarP(&opts.configFile, "config", "c", "", "configuration file (TOML)")
	fs.StringVarP(&opts.grammarFile, "grammar", "g", "", "grammar file (EBNF)")
	fs.StringVarP(&opts.start, "start", "s", "", "start production of the grammar")
	fs.StringVarP(&opts.traceLevel, "trace", "t", "", "trace level [Debug|Info|Error]")
}

// setup loads the configuration, initializes tracing and compiles the grammar.
func (opts *options) setup(fs *pflag.FlagSet) error {
	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}
	opts.config = cfg.overlay(fs, opts)
	gtrace.SyntaxTracer = gologadapter.New()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(opts.config.REPL.Trace))
	g, builtin, err := buildGrammar(opts.config.Grammar)
	if err != nil {
		pterm.Error.Println(err.Error())
		return err
	}
	opts.builtin = builtin
	opts.lang = parser.NewLanguageData(g)
	for _, e := range opts.lang.Errors.Errors {
		pterm.Warning.Println(e.Error())
	}
	if !opts.lang.CanParse() {
		return fmt.Errorf("grammar %s cannot be used for parsing", g.Name)
	}
	tracer().Infof("Compiled grammar %s in %v", g.Name, opts.lang.ConstructionTime)
	return nil
}
