//go:build windows

package windowsexec

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unsafe"

	"github.com/caarlos0/log"
	"golang.org/x/sys/windows"
)

//go:generate go run golang.org/x/sys/windows/mkwinsyscall -output zsyscall_windows.go exec.go
//sys shellExecuteExW(info *shellExecuteInfoW) (err error) [failretval==0] = shell32.ShellExecuteExW

// shellExecuteInfoW is the input/output struct for ShellExecuteExW.
// See: https://learn.microsoft.com/en-us/windows/win32/api/shellapi/ns-shellapi-shellexecuteinfow
type shellExecuteInfoW struct {
	cbSize         uint32
	fMask          uint32
	hwnd           windows.Handle
	lpVerb         uintptr
	lpFile         uintptr
	lpParameters   uintptr
	lpDirectory    uintptr
	nShow          int32
	hInstApp       windows.Handle
	lpIDList       uintptr
	lpClass        uintptr
	hkeyClass      windows.Handle
	dwHotKey       uint32
	hIconOrMonitor windows.Handle
	hProcess       windows.Handle
}

const (
	// SEE_MASK_NOCLOSEPROCESS (0x00000040):
	// Use to indicate that the hProcess member receives the process handle.
	// The calling application is responsible for closing the handle when it
	// is no longer needed.
	SEE_MASK_NOCLOSEPROCESS = 0x40

	// SE_ERR_ACCESSDENIED is reported in hInstApp when the user declines the
	// UAC prompt.
	SE_ERR_ACCESSDENIED = 5
)

// ErrDeclined is returned when the user dismisses the UAC prompt.
var ErrDeclined = errors.New("elevation declined by user")

// RunAs starts file with the "runas" verb, which makes Windows show the UAC
// prompt. It returns as soon as the new process exists and does not wait for
// it to exit.
func RunAs(file, directory string, parameters []string) error {
	h, err := runAs(file, directory, parameters)
	if err != nil {
		return err
	}
	return windows.CloseHandle(h)
}

// RunAsAndWait is RunAs followed by a wait for the process to exit, or until
// timeout is exhausted (zero waits forever). It returns the exit code of the
// elevated process.
func RunAsAndWait(
	file, directory string,
	timeout time.Duration,
	parameters []string,
) (uint32, error) {
	h, err := runAs(file, directory, parameters)
	if err != nil {
		return 0, err
	}
	defer windows.CloseHandle(h)

	waitTime := uint32(windows.INFINITE)
	if timeout > 0 {
		waitTime = uint32(timeout.Milliseconds())
	}

	w, err := windows.WaitForSingleObject(h, waitTime)
	if err != nil {
		return 0, fmt.Errorf("waiting for elevated process: %w", err)
	}

	switch w {
	case windows.WAIT_OBJECT_0:
	case uint32(windows.WAIT_TIMEOUT):
		return 0, fmt.Errorf("timed out waiting for elevated process")
	default:
		return 0, fmt.Errorf("unexpected wait result: %d", w)
	}

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return 0, fmt.Errorf("getting exit code: %w", err)
	}
	return code, nil
}

func runAs(file, directory string, parameters []string) (windows.Handle, error) {
	lpVerb, err := windows.UTF16PtrFromString("runas")
	if err != nil {
		return 0, fmt.Errorf("converting verb to ptr: %w", err)
	}
	lpFile, err := windows.UTF16PtrFromString(file)
	if err != nil {
		return 0, fmt.Errorf("converting file to ptr: %w", err)
	}
	lpDirectory, err := windows.UTF16PtrFromString(directory)
	if err != nil {
		return 0, fmt.Errorf("converting directory to ptr: %w", err)
	}
	lpParameters, err := windows.UTF16PtrFromString(JoinArgs(parameters))
	if err != nil {
		return 0, fmt.Errorf("converting parameters to ptr: %w", err)
	}

	info := &shellExecuteInfoW{
		fMask:        SEE_MASK_NOCLOSEPROCESS,
		lpVerb:       uintptr(unsafe.Pointer(lpVerb)),
		lpFile:       uintptr(unsafe.Pointer(lpFile)),
		lpParameters: uintptr(unsafe.Pointer(lpParameters)),
		lpDirectory:  uintptr(unsafe.Pointer(lpDirectory)),
		nShow:        windows.SW_NORMAL,
	}
	info.cbSize = uint32(unsafe.Sizeof(*info))

	if err := shellExecuteExW(info); err != nil {
		log.WithError(err).
			WithField("h_inst_app", uintptr(info.hInstApp)).
			Debug("ShellExecuteExW failed")
		if errors.Is(err, windows.ERROR_CANCELLED) || info.hInstApp == SE_ERR_ACCESSDENIED {
			return 0, fmt.Errorf("calling shellExecuteExW: %w", errors.Join(ErrDeclined, err))
		}
		return 0, fmt.Errorf("calling shellExecuteExW: %w", err)
	}

	if info.hProcess == 0 {
		return 0, fmt.Errorf("unexpected null hProcess handle from shellExecuteExW")
	}
	return info.hProcess, nil
}

// JoinArgs quotes each argument for a Windows command line.
func JoinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = windows.EscapeArg(a)
	}
	return strings.Join(quoted, " ")
}
