package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dana-cli/internal/cli"
	"github.com/KaramelBytes/dana-cli/internal/common"
	cfgpkg "github.com/KaramelBytes/dana-cli/internal/config"
)

// version is set at build time with -ldflags "-X github.com/KaramelBytes/dana-cli/cmd.version=...".
var version = "0.1.0"

var (
	// Global flags
	cfgFile string
	debug   bool
	verbose bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "dana",
	Short: "DANA: descriptive analysis of patient datasets",
	Long: `DANA loads a delimited or .xlsx patient dataset, summarizes every column,
writes a color-coded spreadsheet report and charts, and can look up single
patients by their synthetic identifier.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(common.ExitCode(err))
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dana/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print the full error chain and debug logs")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print run parameters, progress and debug logs")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return common.Wrap(common.ErrConfig, c.CommandPath(), err, "invalid usage")
	})
}

// usageArgs reports positional-argument errors as usage errors, like flag errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(c *cobra.Command, args []string) error {
		if err := check(c, args); err != nil {
			return common.Wrap(common.ErrConfig, c.CommandPath(), err, "invalid usage")
		}
		return nil
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	c, err := cfgpkg.LoadWithFlags(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if verbose || debug {
		c.Logging.Level = "debug"
	}
	cfg = c
	return setupLogging(cmd.ErrOrStderr(), c.Logging)
}

func setupLogging(w io.Writer, l cfgpkg.Logging) error {
	var level slog.Level
	switch l.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return common.E(common.ErrConfig, "setupLogging", "invalid log level: %s", l.Level)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch l.Format {
	case "console":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return common.E(common.ErrConfig, "setupLogging", "invalid log format: %s", l.Format)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// printError shows one styled line, or the whole unwrapped chain under --debug.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, cli.FormatError(err.Error()))
	if !debug {
		return
	}
	fmt.Fprintf(w, "kind: %s\n", common.KindName(err))
	for _, layer := range common.Chain(err) {
		fmt.Fprintln(w, "  "+layer)
	}
}
