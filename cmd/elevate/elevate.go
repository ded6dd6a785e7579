package elevate

import (
	"context"
	"fmt"
	"time"

	"github.com/loicsikidi/winkit/internal/logutil"
	"github.com/loicsikidi/winkit/internal/msgbox"
	"github.com/loicsikidi/winkit/internal/privilege"
	"github.com/spf13/cobra"
)

type options struct {
	check        bool
	wait         bool
	attach       bool
	timeout      time.Duration
	label        string
	pollInterval time.Duration
	verbose      bool
}

func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "elevate",
		Short: "relaunch winkit with administrator rights",
		Long: `Relaunch the current executable through the UAC prompt and exit.

With --check, only report whether the process is elevated. With --wait,
keep asking the user to retry or cancel until the process is elevated.
With --attach, stay alive until the elevated instance exits and exit with
its status.

Exit codes:
  0 - elevated instance started, or already elevated
  1 - elevation failed or was cancelled
  n - with --attach, the exit code of the elevated instance`,
		Example: `  # Relaunch elevated
  winkit elevate

  ## Report the current privilege level
  winkit elevate --check

  ## Relaunch elevated and wait at most a minute for it to finish
  winkit elevate --attach --timeout 1m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, opts)
		},
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolVar(&opts.check, "check", false, "Only report whether the process is elevated")
	cmd.Flags().BoolVar(&opts.wait, "wait", false, "Prompt to retry until the process is elevated")
	cmd.Flags().BoolVar(&opts.attach, "attach", false, "Wait for the elevated instance and exit with its code")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Maximum time to wait with --attach, zero waits forever")
	cmd.Flags().StringVar(&opts.label, "label", "running winkit", "Operation named in the retry prompt")
	cmd.Flags().DurationVar(&opts.pollInterval, "poll-interval", msgbox.DefaultPollInterval, "Interval between checks for an answer")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.MarkFlagsMutuallyExclusive("check", "wait", "attach")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts *options) error {
	logger := logutil.New(opts.verbose)

	switch {
	case opts.check:
		fmt.Fprintln(cmd.OutOrStdout(), privilege.IsElevated())
		return nil
	case opts.wait:
		m := privilege.NewManager(
			privilege.WithPrompter(privilege.DialogPrompter{PollInterval: opts.pollInterval}),
			privilege.WithLogger(logger),
		)
		if err := m.EnsureElevated(ctx, opts.label); err != nil {
			return err
		}
		logger.Info("process is elevated")
		return nil
	}

	if privilege.IsElevated() {
		logger.Info("already elevated")
		return nil
	}
	if opts.attach {
		if err := privilege.RelaunchElevatedAndWait(opts.timeout); err != nil {
			return fmt.Errorf("failed to elevate privileges: %w", err)
		}
		return nil
	}
	if err := privilege.RelaunchElevated(); err != nil {
		return fmt.Errorf("failed to elevate privileges: %w", err)
	}
	return nil
}
