package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/internal/source"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cli holds state shared by subcommands.
type cli struct {
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool

	stdin  io.Reader
	stderr io.Writer

	cfg    *config.Config
	logger *slog.Logger
	loader *source.Loader
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		errors.PrintError(stderr, err)
		return 1
	}
	return 0
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdin: stdin, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "vbind",
		Short: "Reactive data binding for HTML templates",
		Long: `vbind binds a data object to an HTML template.

Text markers like {{ count }} and form controls with v-model stay in
sync with the data. Elements with @click="method(args)" call methods.

  • render a template with data and simulated events
  • serve a live preview that updates in the browser`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "Config file (default: ./vbind.{json,yaml,toml})")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&c.logFormat, "log-format", "", "Log format: text or json")
	flags.BoolVar(&c.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		renderCmd(c),
		serveCmd(c),
		versionCmd(),
	)
	return rootCmd
}

// setup loads config and builds the logger and loader.
func (c *cli) setup() error {
	if c.noColor {
		errors.DisableColors()
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Log.NewLogger(c.stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	c.cfg = cfg
	c.logger = logger
	c.loader = source.NewLoader(cfg.Source,
		source.WithStdin(c.stdin),
		source.WithLogger(logger),
	)
	if cfg.Path() != "" {
		logger.Debug("config loaded", "path", cfg.Path())
	}
	return nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
