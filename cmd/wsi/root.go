package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/wsi/internal/cache"
	"github.com/raphi011/wsi/internal/config"
	"github.com/raphi011/wsi/internal/log"
	"github.com/raphi011/wsi/internal/output"
	"github.com/raphi011/wsi/internal/ui/progress"
	"github.com/raphi011/wsi/internal/ui/styles"
)

// Command group IDs for organizing help output
const (
	GroupCore   = "core"
	GroupCache  = "cache"
	GroupConfig = "config"
)

// app holds the streams and global flags of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// Global flags
	verbose    bool
	quiet      bool
	configPath string

	logger *log.Logger
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args[1:])
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)

	if a.logger != nil {
		if cerr := a.logger.Close(); cerr != nil {
			fmt.Fprintf(stderr, "Warning: close log file: %v\n", cerr)
		}
	}

	if err != nil {
		fmt.Fprintln(stderr, err)
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Run 'wsi -h' for help")
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wsi",
		Short: "Inspect every git repository in a workspace",
		Long: `wsi finds the git repositories below a directory and reports their
branch, origin, and whether they are dirty, ahead of, or behind their upstream.

Scan results can be saved to a cache (~/.wsi/workspace-cache.json) and
searched later without touching the disk again.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2, // Enable typo suggestions
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip setup for completion and help commands
			if cmd.Name() == "completion" || cmd.Name() == cobra.ShellCompRequestCmd || cmd.Name() == "help" {
				return nil
			}
			return a.setup(cmd)
		},
		// Run is not set - shows help when no subcommand provided
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show git commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.config/wsi/config.toml)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupCache, Title: "Cache Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	rootCmd.AddCommand(newScanCmd(a))
	rootCmd.AddCommand(newFindCmd(a))
	rootCmd.AddCommand(newCacheCmd(a))
	rootCmd.AddCommand(newDoctorCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setup loads config and attaches logger, printer and config to the
// command context.
func (a *app) setup(cmd *cobra.Command) error {
	// Validate mutually exclusive flags
	if a.verbose && a.quiet {
		return errors.New("--verbose and --quiet are mutually exclusive")
	}

	// Create logger (stderr for diagnostics)
	a.logger = log.New(a.stderr, a.verbose, a.quiet)

	cfg, err := config.Load(a.configPath)
	if err != nil {
		a.logger.Warnf("%v", err)
	}

	if err := a.logger.AttachFile(log.FileConfig{
		Path:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		a.logger.Warnf("%v", err)
	}

	styles.Init(cfg.UI)

	ctx := cmd.Context()
	ctx = log.WithLogger(ctx, a.logger)
	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, a.stdout)
	ctx = config.WithConfig(ctx, &cfg)
	ctx = config.WithResolver(ctx, config.NewResolver(&cfg))
	if wd, err := os.Getwd(); err == nil {
		ctx = config.WithWorkDir(ctx, wd)
	}
	cmd.SetContext(ctx)
	return nil
}

// interactive reports whether animated progress may be drawn on stderr.
func (a *app) interactive() bool {
	f, ok := a.stderr.(*os.File)
	return ok && !a.quiet && progress.Interactive(f)
}

// canPrompt reports whether interactive prompts can be shown.
func (a *app) canPrompt() bool {
	in, ok := a.stdin.(*os.File)
	return ok && isatty.IsTerminal(in.Fd()) && a.interactive()
}

// openStore returns the cache store at the configured location.
// Shell completion runs without setup, so config is loaded here if needed.
func openStore(ctx context.Context) (*cache.Store, error) {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		loaded, _ := config.Load("")
		cfg = &loaded
	}
	if cfg.Cache.Path != "" {
		return cache.New(cfg.Cache.Path), nil
	}
	path, err := cache.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("locate cache: %w", err)
	}
	return cache.New(path), nil
}
