//go:build windows

package privilege

import (
	"testing"

	"golang.org/x/sys/windows"
)

func TestIsElevatedWindowsMatchesAdminMembership(t *testing.T) {
	admins, err := windows.CreateWellKnownSid(windows.WinBuiltinAdministratorsSid)
	if err != nil {
		t.Fatalf("CreateWellKnownSid() error = %v", err)
	}
	want, err := windows.Token(0).IsMember(admins)
	if err != nil {
		t.Fatalf("IsMember() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if got := isElevatedWindows(); got != want {
			t.Fatalf("isElevatedWindows() = %v on call %d, want %v", got, i, want)
		}
	}
	if got := IsElevated(); got != want {
		t.Errorf("IsElevated() = %v, want %v", got, want)
	}
}
