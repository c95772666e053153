package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/spark/internal/config"
	"github.com/vango-dev/spark/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configDir string
	logLevel  string

	// jsonErrors is set once a config with log.format "json" is loaded.
	jsonErrors bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI with args and returns the process exit code. A
// failure is reported on stderr in the configured log format.
func execute(args []string, stdout, stderr io.Writer) int {
	opts := &globalOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		errors.Fprint(stderr, err, opts.jsonErrors)
		return 1
	}
	return 0
}

func newRootCmd(opts *globalOptions) *cobra.Command {

	rootCmd := &cobra.Command{
		Use:   "spark",
		Short: "Render and preview reactive content trees",
		Long: `Spark materializes content trees described in YAML tree files.

  • render   print a tree file as static HTML
  • publish  write the rendered page to a directory or S3 bucket
  • serve    live preview with WebSocket push and file watching`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configDir, "config", "c", ".", "Directory containing spark.json")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(
		renderCmd(opts),
		publishCmd(opts),
		serveCmd(opts),
		versionCmd(),
	)

	return rootCmd
}

// load reads spark.json, applies the log level override and validates the
// result.
func (o *globalOptions) load() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(o.configDir)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	o.jsonErrors = cfg.Log.Format == "json"
	return cfg, nil
}

// newLogger builds the CLI logger from cfg. Logs go to w so command output
// on stdout stays clean.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
