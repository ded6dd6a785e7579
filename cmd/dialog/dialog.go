package dialog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/log"
	"github.com/loicsikidi/winkit/internal/logutil"
	"github.com/loicsikidi/winkit/internal/msgbox"
	"github.com/spf13/cobra"
)

type options struct {
	text          string
	title         string
	buttons       string
	icon          string
	defaultButton int
	modality      string
	topMost       bool
	foreground    bool
	async         bool
	pollInterval  time.Duration
	verbose       bool
}

var buttonSets = map[string]msgbox.Flags{
	"ok":                msgbox.OK,
	"okcancel":          msgbox.OKCancel,
	"abortretryignore":  msgbox.AbortRetryIgnore,
	"yesnocancel":       msgbox.YesNoCancel,
	"yesno":             msgbox.YesNo,
	"retrycancel":       msgbox.RetryCancel,
	"canceltrycontinue": msgbox.CancelTryContinue,
}

var icons = map[string]msgbox.Flags{
	"none":        0,
	"error":       msgbox.IconError,
	"question":    msgbox.IconQuestion,
	"warning":     msgbox.IconWarning,
	"information": msgbox.IconInformation,
}

var modalities = map[string]msgbox.Flags{
	"app":    msgbox.ApplModal,
	"system": msgbox.SystemModal,
	"task":   msgbox.TaskModal,
}

var defaultButtons = []msgbox.Flags{msgbox.DefButton1, msgbox.DefButton2, msgbox.DefButton3, msgbox.DefButton4}

func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "msgbox",
		Short: "show a native message box and print the button the user clicked",
		Long: `Show a modal Windows message box and print the name of the button
the user selected.

Exit codes:
  0 - a button was selected
  1 - the message box could not be shown`,
		Example: `  # Ask a question
  winkit msgbox --title "Deploy" --text "Continue?" --buttons yesno --icon question

  ## Show a system modal error and poll for the answer
  winkit msgbox --text "Disk full" --icon error --buttons okcancel --modality system --async`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, opts)
		},
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&opts.text, "text", "", "Message text")
	cmd.Flags().StringVar(&opts.title, "title", "", "Message box title")
	cmd.Flags().StringVar(&opts.buttons, "buttons", "ok", "Button set: "+keys(buttonSets))
	cmd.Flags().StringVar(&opts.icon, "icon", "none", "Icon: "+keys(icons))
	cmd.Flags().IntVar(&opts.defaultButton, "default", 1, "Default button (1-4)")
	cmd.Flags().StringVar(&opts.modality, "modality", "app", "Modality: "+keys(modalities))
	cmd.Flags().BoolVar(&opts.topMost, "topmost", false, "Keep the message box above other windows")
	cmd.Flags().BoolVar(&opts.foreground, "foreground", false, "Bring the message box to the foreground")
	cmd.Flags().BoolVar(&opts.async, "async", false, "Show the message box in the background and poll for the answer")
	cmd.Flags().DurationVar(&opts.pollInterval, "poll-interval", msgbox.DefaultPollInterval, "Interval between checks for an answer")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts *options) error {
	logger := logutil.New(opts.verbose)

	flags, err := opts.flags()
	if err != nil {
		return err
	}

	req := msgbox.Request{Text: opts.text, Title: opts.title, Flags: flags}
	session := msgbox.NewSession(msgbox.Native(), req, msgbox.WithPollInterval(opts.pollInterval))
	logger.WithField("flags", fmt.Sprintf("%#x", uint64(flags))).Debug("showing message box")

	start := time.Now()
	var code msgbox.ButtonCode
	if opts.async {
		code, err = poll(ctx, logger, session, opts.pollInterval)
	} else {
		code, err = session.Show(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to show message box: %w", err)
	}
	logutil.LogDuration(logger, start)

	name, err := msgbox.ButtonName(code)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), name)
	return nil
}

// poll fires the dialog and peeks at it until answered, the way a caller
// with other work to do would.
func poll(ctx context.Context, logger *log.Logger, s *msgbox.Session, interval time.Duration) (msgbox.ButtonCode, error) {
	s.ShowAsync()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for polls := 1; ; polls++ {
		if code, ok, err := s.TryGetResult(); ok {
			return code, err
		}
		if polls%50 == 0 {
			logger.Debugf("still waiting for an answer after %d polls", polls)
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (o *options) flags() (msgbox.Flags, error) {
	set, ok := buttonSets[strings.ToLower(o.buttons)]
	if !ok {
		return 0, fmt.Errorf("unknown button set %q, want one of %s", o.buttons, keys(buttonSets))
	}
	icon, ok := icons[strings.ToLower(o.icon)]
	if !ok {
		return 0, fmt.Errorf("unknown icon %q, want one of %s", o.icon, keys(icons))
	}
	modality, ok := modalities[strings.ToLower(o.modality)]
	if !ok {
		return 0, fmt.Errorf("unknown modality %q, want one of %s", o.modality, keys(modalities))
	}
	if o.defaultButton < 1 || o.defaultButton > len(defaultButtons) {
		return 0, fmt.Errorf("default button must be between 1 and %d, got %d", len(defaultButtons), o.defaultButton)
	}

	flags := set | icon | modality | defaultButtons[o.defaultButton-1]
	if o.topMost {
		flags |= msgbox.TopMost
	}
	if o.foreground {
		flags |= msgbox.SetForeground
	}
	return flags, nil
}

func keys(m map[string]msgbox.Flags) string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return strings.Join(ks, ", ")
}
