package cmd

import (
	"context"
	"time"

	"github.com/grovetools/pollwatch/cli"
	"github.com/grovetools/pollwatch/config"
	"github.com/grovetools/pollwatch/errors"
	"github.com/grovetools/pollwatch/monitor"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ProgramName is the binary name used in usage and help output.
const ProgramName = "pollwatch"

// NewRootCmd builds the pollwatch command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		ProgramName+" <directory_to_monitor>",
		"Report files created, modified or deleted in a directory",
	)
	rootCmd.Long = `Poll a directory at a fixed interval and print one line for every regular
file directly inside it that was created, modified or deleted since the
previous poll. Runs until interrupted.

Examples:
  # Watch the current directory every second
  pollwatch .

  # Poll every 250ms and emit JSON lines
  pollwatch ./uploads --interval 250ms --json`

	// Only the first argument is used; a missing one is reported in RunE with a usage code.
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.Flags().Duration("interval", 0, "Time between scans (overrides the config file)")
	rootCmd.RunE = runMonitor

	rootCmd.AddCommand(cli.NewVersionCommand(ProgramName))
	rootCmd.AddCommand(cli.NewSchemaCommand(config.GenerateSchema))
	rootCmd.AddCommand(NewConfigCmd())

	cli.ApplyStyledHelpRecursive(rootCmd)
	return rootCmd
}

func runMonitor(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.MissingArgument("directory_to_monitor")
	}
	dir := args[0]
	if err := validateDirectory(dir); err != nil {
		return err
	}

	opts := cli.GetOptions(cmd)
	cfg, err := cli.LoadConfig(opts)
	if err != nil {
		return err
	}
	logger := cli.GetLogger(cmd, "pollwatch", cfg, cmd.ErrOrStderr())
	if len(args) > 1 {
		logger.Debugf("Ignoring extra arguments: %v", args[1:])
	}

	interval := cfg.PollInterval()
	intervalFlag := cmd.Flags().Lookup("interval")
	if intervalFlag.Changed {
		interval, _ = cmd.Flags().GetDuration("interval")
		if interval <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "--interval must be greater than zero").
				WithDetail("interval", interval.String())
		}
	}

	format := monitor.FormatJSON
	if !opts.JSONOutput {
		if format, err = monitor.ParseFormat(cfg.Output.Format); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid output format").
				WithDetail("field", "output.format")
		}
	}

	m, err := monitor.New(dir, monitor.Options{Ignore: cfg.Ignore, Logger: logger})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid ignore pattern").
			WithDetail("field", "ignore")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var updates chan time.Duration
	if cfg.WatchConfigEnabled() && !intervalFlag.Changed && len(cfg.Sources) > 0 {
		updates = make(chan time.Duration, 1)
		if err := startConfigWatcher(ctx, cfg.Sources, opts, updates, logger); err != nil {
			logger.WithError(err).Warn("Config watching disabled")
			updates = nil
		}
	}

	printer := monitor.NewPrinter(cmd.OutOrStdout(), format)
	if err := printer.Banner(dir); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write output")
	}

	logger.WithFields(logrus.Fields{
		"dir":      m.Dir(),
		"interval": interval.String(),
	}).Debug("Starting monitor")

	runOpts := monitor.RunOptions{Interval: interval}
	if updates != nil {
		runOpts.IntervalUpdates = updates
	}
	if err := monitor.Run(ctx, m, printer.Print, runOpts); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write output")
	}

	logger.Debug("Monitor stopped")
	return nil
}

// startConfigWatcher reloads the configuration whenever one of its source
// files changes and forwards the new poll interval on updates.
func startConfigWatcher(ctx context.Context, sources []string, opts cli.CommandOptions, updates chan time.Duration, logger *logrus.Entry) error {
	reload := func() (*config.Config, error) {
		return cli.LoadConfig(opts)
	}
	onReload := func(cfg *config.Config) {
		sendLatest(updates, cfg.PollInterval())
	}

	w, err := config.NewWatcher(sources, reload, onReload, logger)
	if err != nil {
		return err
	}
	go w.Start(ctx)
	return nil
}

// sendLatest replaces any pending value on ch with d without blocking.
func sendLatest(ch chan time.Duration, d time.Duration) {
	for {
		select {
		case ch <- d:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
