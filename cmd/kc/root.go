package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ohadk123/kc/config"
	"github.com/ohadk123/kc/driver"
	"github.com/ohadk123/kc/report"
)

// errReported is returned once diagnostics have already been printed.
var errReported = errors.New("errors reported")

func kcVersion() string { return config.Version }

type app struct {
	stdout, stderr io.Writer

	cfgFile    string
	outputPath string
	verbose    bool

	cfg      *config.Config
	log      *slog.Logger
	reporter *report.Reporter
	out      io.Writer
	closeOut func() error
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "kc",
		Short: "kc - front end for a small C-like language",
		Long: `kc tokenizes, parses and constant-folds kc sources.

Environment variables:
  KCDEBUG=true enables extended error messages for debugging the parser.
  KC_COLOR, KC_MAX_ERRORS and KC_LOG_LEVEL override the config file.`,
		SilenceErrors:      true,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: kc.toml or kc.yaml in the current directory)")
	root.PersistentFlags().StringVarP(&a.outputPath, "output", "o", "-", "write output to `file`, '-' for stdout")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(
		a.tokensCmd(),
		a.parseCmd(),
		a.exprCmd(),
		a.evalCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, _, err = config.Discover(".")
	}
	if err != nil {
		return err
	}
	level, err := a.cfg.Level()
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	a.reporter = report.New(a.stderr, a.cfg.Color)

	a.out, a.closeOut = a.stdout, func() error { return nil }
	if a.outputPath != "-" {
		f, err := os.Create(a.outputPath)
		if err != nil {
			return fmt.Errorf("failed to open output file: %w", err)
		}
		a.out, a.closeOut = f, f.Close
	}
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) error {
	if a.closeOut == nil {
		return nil
	}
	return a.closeOut()
}

func (a *app) options() driver.Options {
	return driver.Options{
		Logger:    a.log,
		MaxErrors: a.cfg.MaxErrors,
		Debug:     a.cfg.Debug,
		Jobs:      a.cfg.Jobs,
	}
}

// fail reports err and returns errReported, or nil when err is nil.
func (a *app) fail(err error) error {
	if err == nil {
		return nil
	}
	a.reporter.Report(err)
	return errReported
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(a.out)
		},
	}
}
