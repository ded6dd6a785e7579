package startup

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/loicsikidi/winkit/internal/logutil"
	"github.com/loicsikidi/winkit/internal/msgbox"
	"github.com/loicsikidi/winkit/internal/privilege"
	registrar "github.com/loicsikidi/winkit/internal/startup"
	"github.com/spf13/cobra"
)

type options struct {
	allUsers     bool
	pollInterval time.Duration
	verbose      bool
}

type addOptions struct {
	name        string
	args        string
	icon        string
	description string
	workDir     string
}

// NewCommand creates the startup command and its subcommands.
func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "startup",
		Short: "manage startup folder shortcuts",
		Long: `Add, remove and inspect shortcuts in the Windows startup folder.

With --all-users the common startup folder is used, which requires
administrator rights. When they are missing a Retry/Cancel prompt is shown
until the process is elevated or the user cancels.`,
	}

	cmd.PersistentFlags().BoolVar(&opts.allUsers, "all-users", false, "Use the startup folder shared by all users")
	cmd.PersistentFlags().DurationVar(&opts.pollInterval, "poll-interval", msgbox.DefaultPollInterval, "Interval between checks for an answer")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newAddCommand(opts))
	cmd.AddCommand(newRemoveCommand(opts))
	cmd.AddCommand(newStatusCommand(opts))

	return cmd
}

func (o *options) registrar() *registrar.Registrar {
	logger := logutil.New(o.verbose)
	m := privilege.NewManager(
		privilege.WithPrompter(privilege.DialogPrompter{PollInterval: o.pollInterval}),
		privilege.WithLogger(logger),
	)
	return registrar.New(m, registrar.WithLogger(logger))
}

func newAddCommand(opts *options) *cobra.Command {
	add := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add <program>",
		Short: "add a program to startup",
		Example: `  # Start a program at logon
  winkit startup add "C:\Tools\agent.exe" --args "--background"

  ## For every user
  winkit startup add "C:\Tools\agent.exe" --all-users`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), cmd, opts, add, args[0])
		},
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&add.name, "name", "", "Shortcut name (default: program name without extension)")
	cmd.Flags().StringVar(&add.args, "args", "", "Arguments passed to the program")
	cmd.Flags().StringVar(&add.icon, "icon", "", "Icon location")
	cmd.Flags().StringVar(&add.description, "description", "", "Shortcut description")
	cmd.Flags().StringVar(&add.workDir, "workdir", "", "Working directory")

	return cmd
}

func runAdd(ctx context.Context, cmd *cobra.Command, opts *options, add *addOptions, program string) error {
	target, err := filepath.Abs(program)
	if err != nil {
		return fmt.Errorf("failed to resolve program path: %w", err)
	}

	spec := registrar.ShortcutSpec{
		Target:      target,
		Name:        add.name,
		Icon:        add.icon,
		Args:        add.args,
		Description: add.description,
		WorkDir:     add.workDir,
	}
	path, err := opts.registrar().Register(ctx, spec, opts.allUsers)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func newRemoveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "remove a program from startup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.registrar().Deregister(cmd.Context(), registrar.NameFor(args[0]), opts.allUsers)
		},
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status <name>",
		Short: "report whether a program is registered for startup",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := opts.registrar().IsRegistered(registrar.NameFor(args[0]), opts.allUsers)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}
