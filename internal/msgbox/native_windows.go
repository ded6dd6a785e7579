//go:build windows

package msgbox

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"
)

type nativeGateway struct{}

// Native returns the gateway backed by MessageBoxW.
func Native() Gateway {
	return Checked(nativeGateway{})
}

func (nativeGateway) Show(req Request) (ButtonCode, error) {
	text, err := windows.UTF16PtrFromString(req.Text)
	if err != nil {
		return 0, fmt.Errorf("converting text to ptr: %w", err)
	}
	title, err := windows.UTF16PtrFromString(req.Title)
	if err != nil {
		return 0, fmt.Errorf("converting title to ptr: %w", err)
	}

	// The box runs a modal message loop on the calling thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ret, err := windows.MessageBox(windows.HWND(req.Owner), text, title, uint32(req.Flags))
	if ret == 0 {
		return 0, fmt.Errorf("calling MessageBoxW: %w", err)
	}
	return ButtonCode(ret), nil
}
