//go:build windows

package startup

import (
	"errors"
	"fmt"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"golang.org/x/sys/windows"
)

// Dir resolves the startup known folder.
func Dir(systemWide bool) (string, error) {
	id := windows.FOLDERID_Startup
	if systemWide {
		id = windows.FOLDERID_CommonStartup
	}
	return windows.KnownFolderPath(id, windows.KF_FLAG_DEFAULT)
}

// nativeWriter creates shortcuts through the WScript.Shell COM object.
type nativeWriter struct{}

func (nativeWriter) WriteShortcut(path string, spec ShortcutSpec) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED|ole.COINIT_SPEED_OVER_MEMORY); err != nil {
		// S_FALSE: COM was already initialized on this thread.
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != 1 {
			return fmt.Errorf("initializing COM: %w", err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("WScript.Shell")
	if err != nil {
		return fmt.Errorf("creating WScript.Shell: %w", err)
	}
	defer unknown.Release()

	shell, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("querying WScript.Shell: %w", err)
	}
	defer shell.Release()

	v, err := oleutil.CallMethod(shell, "CreateShortcut", path)
	if err != nil {
		return fmt.Errorf("CreateShortcut: %w", err)
	}
	shortcut := v.ToIDispatch()
	defer shortcut.Release()

	props := []struct {
		name  string
		value string
	}{
		{"TargetPath", spec.Target},
		{"Arguments", spec.Args},
		{"Description", spec.Description},
		{"WorkingDirectory", spec.WorkDir},
		{"IconLocation", spec.Icon},
	}
	for _, p := range props {
		if p.value == "" {
			continue
		}
		if _, err := oleutil.PutProperty(shortcut, p.name, p.value); err != nil {
			return fmt.Errorf("setting %s: %w", p.name, err)
		}
	}

	if _, err := oleutil.CallMethod(shortcut, "Save"); err != nil {
		return fmt.Errorf("saving shortcut: %w", err)
	}
	return nil
}
