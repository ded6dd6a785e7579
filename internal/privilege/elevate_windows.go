//go:build windows

package privilege

import (
	"time"

	"github.com/loicsikidi/winkit/internal/windowsexec"
	"golang.org/x/sys/windows"
)

func init() {
	platform = platformImpl{
		isElevated:   isElevatedWindows,
		relaunch:     relaunchWindows,
		relaunchWait: relaunchWaitWindows,
	}
}

// isElevatedWindows reports whether the Administrators group is enabled in
// the effective token. Under UAC a filtered admin token carries the group as
// deny-only, so this is false until the process runs elevated.
func isElevatedWindows() bool {
	admins, err := windows.CreateWellKnownSid(windows.WinBuiltinAdministratorsSid)
	if err != nil {
		return false
	}
	// A zero token makes CheckTokenMembership use the effective token of the
	// calling thread.
	member, err := windows.Token(0).IsMember(admins)
	return err == nil && member
}

// relaunchWindows triggers the UAC prompt and returns once the elevated
// instance exists. Both processes run side by side until the caller exits.
func relaunchWindows(executable, directory string, args []string) (int, error) {
	if err := windowsexec.RunAs(executable, directory, args); err != nil {
		return 0, err
	}
	return 0, nil
}

func relaunchWaitWindows(executable, directory string, args []string, timeout time.Duration) (int, error) {
	code, err := windowsexec.RunAsAndWait(executable, directory, timeout, args)
	if err != nil {
		return 0, err
	}
	return int(code), nil
}
