package critical

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/loicsikidi/winkit/internal"
	checker "github.com/loicsikidi/winkit/internal/critical"
	"github.com/loicsikidi/winkit/internal/logutil"
	"github.com/loicsikidi/winkit/internal/msgbox"
	"github.com/loicsikidi/winkit/internal/privilege"
	"github.com/spf13/cobra"
)

type options struct {
	gui          bool
	pollInterval time.Duration
	verbose      bool
}

func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "critical <pid|name>...",
		Short: "report whether processes are marked critical",
		Long: `Report whether running processes are marked critical, meaning the
system stops when they are terminated. Processes may be given by pid or by
executable name. Requires administrator rights.

Exit codes:
  0 - every process was checked
  1 - a process was not found or could not be queried`,
		Example: `  # Check a process by name
  winkit critical csrss.exe

  ## Check pids and report failures in a message box
  winkit critical 4 688 --gui`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, opts, args)
		},
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolVar(&opts.gui, "gui", false, "Report failures in a message box")
	cmd.Flags().DurationVar(&opts.pollInterval, "poll-interval", msgbox.DefaultPollInterval, "Interval between checks for an answer")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts *options, args []string) error {
	logger := logutil.New(opts.verbose)
	m := privilege.NewManager(
		privilege.WithPrompter(privilege.DialogPrompter{PollInterval: opts.pollInterval}),
		privilege.WithLogger(logger),
	)
	c := checker.New(m)

	for _, arg := range args {
		pids, err := resolve(ctx, arg)
		if err != nil {
			return opts.report(ctx, err)
		}
		for _, pid := range pids {
			critical, err := c.IsCritical(ctx, pid)
			if err != nil {
				return opts.report(ctx, err)
			}
			logger.WithField("pid", pid).Debugf("critical: %v", critical)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%v\n", arg, pid, critical)
		}
	}
	return nil
}

func resolve(ctx context.Context, arg string) ([]uint32, error) {
	if pid, err := strconv.ParseUint(arg, 10, 32); err == nil {
		return []uint32{uint32(pid)}, nil
	}
	return checker.FindPIDs(ctx, arg)
}

// report shows err in an error message box when --gui is set. A user
// cancelling elevation already answered a dialog and gets no second one.
func (o *options) report(ctx context.Context, err error) error {
	if !o.gui || errors.Is(err, privilege.ErrUserCancelled) {
		return err
	}

	req := msgbox.Request{
		Text:  err.Error(),
		Title: "Error",
		Flags: msgbox.OK | msgbox.IconError,
	}
	if _, showErr := msgbox.NewSession(msgbox.Native(), req, msgbox.WithPollInterval(o.pollInterval)).Show(ctx); showErr != nil {
		return errors.Join(err, showErr)
	}
	return fmt.Errorf("%w: %w", internal.ErrSilence, err)
}
