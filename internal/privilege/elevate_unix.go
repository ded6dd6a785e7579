//go:build !windows

package privilege

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"
)

func init() {
	platform = platformImpl{
		isElevated:   isElevatedUnix,
		relaunch:     relaunchUnix,
		relaunchWait: func(executable, directory string, args []string, _ time.Duration) (int, error) {
			return relaunchUnix(executable, directory, args)
		},
	}
}

func isElevatedUnix() bool {
	return os.Geteuid() == 0
}

// relaunchUnix re-executes through sudo, which needs the terminal, so it
// always waits and hands the child's exit status back. sudo has no timeout.
func relaunchUnix(executable, directory string, args []string) (int, error) {
	cmd := exec.Command("sudo", append([]string{executable}, args...)...)
	cmd.Dir = directory
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
				return status.ExitStatus(), nil
			}
		}
		return 0, fmt.Errorf("failed to re-execute with sudo: %w", err)
	}
	return 0, nil
}
