package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/sdkconf/config"
	"github.com/dhamidi/sdkconf/dialect"
	"github.com/dhamidi/sdkconf/parser"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// errInvalid makes the process exit with status 1 without printing
// anything beyond the report the command already wrote.
var errInvalid = errors.New("invalid snippet")

type app struct {
	configPath string
	envFile    string
	logFile    string
	verbose    int

	cfg *config.Config
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(&app{})
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(stderr, "error:", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "sdkconf",
		Short:             "Extract SDK options from bootstrap snippets",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default "+config.DefaultFile+" if present)")
	flags.StringVar(&a.envFile, "env-file", ".env", "environment file loaded before the config")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.CountVarP(&a.verbose, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newValidateCmd(a))
	rootCmd.AddCommand(newDialectsCmd())
	rootCmd.AddCommand(newScanCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))
	rootCmd.AddCommand(newServeCmd(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	path := a.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			path = config.DefaultFile
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	verbosity := cfg.Log.Verbosity
	if a.verbose > 0 {
		verbosity = a.verbose
	}
	logFile := cfg.Log.File
	if a.logFile != "" {
		logFile = a.logFile
	}
	var logPath *string
	if logFile != "" {
		logPath = &logFile
	}
	commonlog.Configure(verbosity, logPath)

	for _, tables := range cfg.Dialect.Tables {
		if _, err := dialect.LoadFile(tables); err != nil {
			return fmt.Errorf("load dialect tables: %w", err)
		}
	}
	if _, ok := dialect.Lookup(cfg.Dialect.Default); !ok {
		return fmt.Errorf("dialect.default: %w: %q", parser.ErrUnknownDialect, cfg.Dialect.Default)
	}
	return nil
}

// parserFor resolves the dialect from the flag, then from the file
// extension, then from the configured default.
func (a *app) parserFor(name, path string) (*parser.Parser, error) {
	if name != "" {
		return parser.For(name)
	}
	if path != "" && path != "-" {
		if p, err := parser.ForFile(path); err == nil {
			return p, nil
		}
	}
	return parser.For(a.cfg.Dialect.Default)
}
