//go:build !windows

package startup

import "github.com/loicsikidi/winkit/internal"

// Dir fails: startup folders only exist on Windows.
func Dir(bool) (string, error) {
	return "", internal.ErrUnsupported
}

type nativeWriter struct{}

func (nativeWriter) WriteShortcut(string, ShortcutSpec) error {
	return internal.ErrUnsupported
}
