package privilege

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/log"
	"github.com/loicsikidi/winkit/internal/logutil"
	"github.com/loicsikidi/winkit/internal/msgbox"
)

var (
	// ErrUserCancelled is returned by EnsureElevated when the user chooses
	// Cancel on the missing-permissions prompt.
	ErrUserCancelled = errors.New("user cancelled elevation")

	// ErrRelaunchFailed is returned when the elevated instance could not be
	// started. The caller must not continue as if it were elevated.
	ErrRelaunchFailed = errors.New("elevated relaunch failed")
)

// CancelledError records which operation the user aborted.
type CancelledError struct {
	Label string
}

func (e *CancelledError) Error() string {
	if e.Label == "" {
		return ErrUserCancelled.Error()
	}
	return fmt.Sprintf("user aborted %s", e.Label)
}

func (e *CancelledError) Unwrap() error { return ErrUserCancelled }

// platformImpl holds the OS specific halves of this package.
type platformImpl struct {
	isElevated func() bool
	// relaunch starts an elevated copy of executable and returns the exit
	// code the current process should terminate with.
	relaunch func(executable, directory string, args []string) (int, error)
	// relaunchWait does the same but returns only once the elevated copy has
	// exited, with its exit code. A zero timeout waits forever.
	relaunchWait func(executable, directory string, args []string, timeout time.Duration) (int, error)
}

var platform platformImpl

// IsElevated reports whether the current process runs with elevated
// privileges. The answer is read from the OS on every call.
func IsElevated() bool {
	return platform.isElevated()
}

// RelaunchElevated starts a new instance of the running executable with the
// same arguments, asking the OS for elevated rights, and then terminates the
// current process. It does nothing if the process is already elevated.
//
// On success it never returns. A non-nil error always wraps
// ErrRelaunchFailed; the current process keeps running unelevated.
func RelaunchElevated() error {
	return relaunch(platform, os.Exit)
}

// RelaunchElevatedAndWait is RelaunchElevated, except that the current
// process stays attached to the elevated instance and terminates with its exit
// code once it finishes, or fails after timeout. Zero waits forever.
func RelaunchElevatedAndWait(timeout time.Duration) error {
	return relaunch(waiting(platform, timeout), os.Exit)
}

// waiting returns p with relaunch replaced by the attached variant.
func waiting(p platformImpl, timeout time.Duration) platformImpl {
	wait := p.relaunchWait
	p.relaunch = func(executable, directory string, args []string) (int, error) {
		return wait(executable, directory, args, timeout)
	}
	return p
}

func relaunch(p platformImpl, exit func(int)) error {
	if p.isElevated() {
		return nil
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("%w: failed to get executable path: %w", ErrRelaunchFailed, err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("%w: failed to get working directory: %w", ErrRelaunchFailed, err)
	}

	log.Warn("operation requires elevated privileges, relaunching")

	code, err := p.relaunch(executable, cwd, os.Args[1:])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRelaunchFailed, err)
	}

	exit(code)
	return nil
}

// Outcome is the result of one privilege check in EnsureElevated.
type Outcome int

const (
	Elevated Outcome = iota
	NotElevatedRetrying
	NotElevatedCancelled
)

func (o Outcome) String() string {
	switch o {
	case Elevated:
		return "elevated"
	case NotElevatedRetrying:
		return "not elevated, retrying"
	case NotElevatedCancelled:
		return "not elevated, cancelled"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Prompter asks the user whether to retry a privilege check. Implementations
// must block until the user has answered.
type Prompter interface {
	Prompt(ctx context.Context, label string) (msgbox.ButtonCode, error)
}

// DialogPrompter shows a Retry/Cancel message box with an error icon.
type DialogPrompter struct {
	Gateway      msgbox.Gateway
	PollInterval time.Duration
	Owner        uintptr
}

// Request returns the message box shown for label.
func (p DialogPrompter) Request(label string) msgbox.Request {
	return msgbox.Request{
		Owner: p.Owner,
		Text:  fmt.Sprintf("Missing admin permissions. %s", label),
		Title: "Missing permissions",
		Flags: msgbox.RetryCancel | msgbox.IconError | msgbox.SystemModal | msgbox.SetForeground,
	}
}

func (p DialogPrompter) Prompt(ctx context.Context, label string) (msgbox.ButtonCode, error) {
	g := p.Gateway
	if g == nil {
		g = msgbox.Native()
	}
	s := msgbox.NewSession(g, p.Request(label), msgbox.WithPollInterval(p.PollInterval))
	return s.Show(ctx)
}

// Manager runs the retry/cancel protocol around IsElevated.
type Manager struct {
	check    func() bool
	prompter Prompter
	logger   *log.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithCheck replaces the privilege check, mostly for tests.
func WithCheck(check func() bool) ManagerOption {
	return func(m *Manager) { m.check = check }
}

// WithPrompter replaces the missing-permissions prompt.
func WithPrompter(p Prompter) ManagerOption {
	return func(m *Manager) { m.prompter = p }
}

// WithLogger sets the logger used to report prompts.
func WithLogger(l *log.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// NewManager returns a Manager that checks the process token and prompts
// with a native message box.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		check:    IsElevated,
		prompter: DialogPrompter{},
		logger:   log.New(os.Stderr),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Step runs one iteration of the protocol: it checks privileges and, when
// they are missing, asks the user once.
func (m *Manager) Step(ctx context.Context, label string) (Outcome, error) {
	if m.check() {
		return Elevated, nil
	}

	m.logger.WithField("operation", label).Warn("missing admin permissions, waiting for user")
	start := time.Now()
	code, err := m.prompter.Prompt(ctx, label)
	if err != nil {
		return NotElevatedCancelled, fmt.Errorf("prompting for elevation: %w", err)
	}
	logutil.LogDuration(m.logger, start)

	switch code {
	case msgbox.IDRETRY, msgbox.IDTRYAGAIN:
		m.logger.Debug("user asked to retry")
		return NotElevatedRetrying, nil
	default:
		// Cancel, and anything a Retry/Cancel box should never return.
		return NotElevatedCancelled, nil
	}
}

// EnsureElevated returns nil once the process is elevated. While it is not,
// the user is asked to retry or cancel; Cancel yields a *CancelledError
// carrying label. There is no retry limit: every iteration blocks on the
// prompt.
func (m *Manager) EnsureElevated(ctx context.Context, label string) error {
	for {
		outcome, err := m.Step(ctx, label)
		if err != nil {
			return err
		}
		switch outcome {
		case Elevated:
			return nil
		case NotElevatedCancelled:
			return &CancelledError{Label: label}
		}
	}
}
