// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/rsii/internal/cloud"
	"github.com/jeranaias/rsii/internal/config"
	"github.com/jeranaias/rsii/internal/logging"
	"github.com/jeranaias/rsii/internal/resolve"
	"github.com/jeranaias/rsii/internal/staging"
	"github.com/jeranaias/rsii/internal/storage"
	"github.com/jeranaias/rsii/internal/util"
)

// =============================================================================
// APPLICATION WIRING
// =============================================================================

// App holds the values and OS bindings the root command runs with. Zero
// fields fall back to the real system.
type App struct {
	Version string

	// GOOS selects the paste strategy. Defaults to runtime.GOOS.
	GOOS string

	Clipboard  staging.Clipboard
	Launcher   staging.Launcher
	HTTPClient *http.Client
	SystemInfo resolve.SystemInfoFunc

	// Logger replaces the logger built from --verbose.
	Logger *zap.Logger
}

func (a App) goos() string {
	if a.GOOS == "" {
		return runtime.GOOS
	}
	return a.GOOS
}

// options are the parsed flags.
type options struct {
	verbose    bool
	configPath string
	noPaste    bool
	dryRun     bool
	timeout    time.Duration
	initConfig bool
	showConfig bool
	history    int
}

// NewRootCommand builds the rsii command. Flags are only recognised before
// the first word of the query, so `rsii ls -la` sends "ls -la".
func NewRootCommand(app App) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "rsii [flags] <query...>",
		Short: "Turn a plain-language request into a shell command on your clipboard",
		Long: `rsii asks a language model for the shell command that does what you describe,
copies it to the clipboard and pastes it into your terminal. Nothing is executed:
review the command, then press Enter yourself.

Configuration is read from ~/.rsii/config.toml (see --init).`,
		Example: `  rsii find files larger than 100MB
  rsii --dry-run show listening ports | sh
  rsii --history 10`,
		Args:          cobra.ArbitraryArgs,
		Version:       app.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, opts, args)
		},
	}

	cmd.SetVersionTemplate("rsii {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "show the prompt, debug logs and any free-text reply")
	flags.StringVar(&opts.configPath, "config", "", "config file (default $RSII_CONFIG or ~/.rsii/config.toml)")
	flags.BoolVar(&opts.noPaste, "no-paste", false, "copy to the clipboard without simulating a paste")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the command only; no clipboard, paste or history")
	flags.DurationVar(&opts.timeout, "timeout", 0, "abort the model request after this long (e.g. 30s)")
	flags.BoolVar(&opts.initConfig, "init", false, "write the default config if none exists")
	flags.BoolVar(&opts.showConfig, "show-config", false, "print the resolved config with the API key redacted")
	flags.IntVar(&opts.history, "history", 0, "list the last N staged commands")

	return cmd
}

// Execute runs the root command against os.Args and returns the exit code.
func Execute(app App) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand(app)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		DisplayError(cmd.ErrOrStderr(), err)
	}
	return ExitCodeFor(err)
}

// =============================================================================
// RUN
// =============================================================================

func run(cmd *cobra.Command, app App, opts *options, args []string) error {
	if opts.history < 0 {
		return &UsageError{Err: fmt.Errorf("--history must be positive, got %d", opts.history)}
	}
	if opts.timeout < 0 {
		return &UsageError{Err: fmt.Errorf("--timeout must not be negative, got %s", opts.timeout)}
	}

	if opts.initConfig {
		return runInit(cmd, opts)
	}

	logger := app.Logger
	if logger == nil {
		l, err := logging.New(opts.verbose)
		if err != nil {
			return err
		}
		logger = l
		defer func() { _ = logger.Sync() }()
	}

	if opts.history > 0 {
		return runHistory(cmd, opts, logger)
	}

	query := util.NormalizeQuery(args)
	if query == "" && !opts.showConfig {
		// Not an error: bare `rsii` just explains itself.
		fmt.Fprintln(cmd.OutOrStdout(), `Usage: rsii "your query here"`)
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	logger.Debug("config loaded", zap.String("path", cfg.Path), zap.String("model", cfg.Default.Model))

	if opts.showConfig {
		fmt.Fprint(cmd.OutOrStdout(), cfg.String())
		return nil
	}

	return runQuery(cmd, app, opts, cfg, logger, query)
}

func runQuery(cmd *cobra.Command, app App, opts *options, cfg *config.Config, logger *zap.Logger, query string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	goos := app.goos()

	// Fail fast on an unsupported OS before spending a model request.
	var paster *staging.Paster
	if cfg.Paste.Enabled && !opts.noPaste && !opts.dryRun {
		strategy, err := staging.StrategyFor(goos)
		if err != nil {
			return err
		}
		paster = staging.NewPaster(strategy, app.Launcher)
		logger.Debug("paste strategy selected", zap.String("strategy", paster.Strategy().Name()))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := cfg.API.Timeout
	if opts.timeout > 0 {
		timeout = opts.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	client := cloud.NewClient(cfg.Default.APIKey).
		WithBaseURL(cfg.API.BaseURL).
		WithUserAgent("rsii/" + app.Version).
		WithHTTPClient(app.HTTPClient).
		WithLogger(logger)
	logger.Debug("api client ready",
		zap.String("base_url", client.BaseURL()),
		zap.String("api_key", client.APIKeyMasked()),
	)

	pipeline := resolve.New(resolve.Settings{
		Model:        cfg.Default.Model,
		SystemPrompt: cfg.Default.SystemPrompt,
		DryRun:       opts.dryRun,
	}, client).
		WithLogger(logger).
		WithSystemInfo(app.SystemInfo).
		WithStager(staging.NewStager(app.Clipboard)).
		WithBeforeDispatch(func(prompt string) {
			if opts.verbose {
				fmt.Fprintf(stderr, "%s %s\n", LabelStyle.Render("Prompt:"), prompt)
			}
			fmt.Fprintln(stderr, DimStyle.Render("Getting AI response..."))
		})

	if paster != nil {
		pipeline.WithPaster(paster)
	}

	if cfg.History.Enabled && !opts.dryRun {
		journal, err := storage.OpenJournal(cfg.HistoryPath(), logger)
		if err != nil {
			logger.Warn("history disabled for this run", zap.Error(err))
		} else {
			defer journal.Close()
			pipeline.WithJournal(journal)
		}
	}

	result, err := pipeline.Run(ctx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("no response within %s: %w", timeout, err)
		}
		return err
	}

	printResult(stdout, stderr, result, opts, goos)
	return nil
}

func runInit(cmd *cobra.Command, opts *options) error {
	path := opts.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return &config.LoadError{Err: err}
		}
		path = p
	}

	created, err := config.EnsureDefault(path)
	if err != nil {
		return &config.LoadError{Path: path, Err: err}
	}

	out := cmd.OutOrStdout()
	if created {
		fmt.Fprintf(out, "%s Wrote default config to %s\n", SuccessStyle.Render("[OK]"), path)
		fmt.Fprintln(out, DimStyle.Render("Add your api-key to the [default] table, then try: rsii list files by size"))
	} else {
		fmt.Fprintf(out, "%s Config already exists at %s\n", DimStyle.Render("[--]"), path)
	}
	return nil
}

func runHistory(cmd *cobra.Command, opts *options, logger *zap.Logger) error {
	// The journal can be listed even when the required keys are not set yet.
	cfg, err := config.Decode(opts.configPath)
	if err != nil {
		return err
	}
	logger.Debug("opening history", zap.String("path", cfg.HistoryPath()))

	journal, err := storage.OpenJournal(cfg.HistoryPath(), logger)
	if err != nil {
		return err
	}
	defer journal.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	entries, err := journal.Recent(ctx, opts.history)
	if err != nil {
		return err
	}

	printHistory(cmd.OutOrStdout(), entries)
	return nil
}
