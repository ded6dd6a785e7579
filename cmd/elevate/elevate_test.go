package elevate

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/loicsikidi/winkit/internal/privilege"
)

func TestCheck(t *testing.T) {
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--check"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got, err := strconv.ParseBool(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("output %q is not a bool: %v", out.String(), err)
	}
	if want := privilege.IsElevated(); got != want {
		t.Errorf("--check printed %v, want %v", got, want)
	}
}

func TestExclusiveModes(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "check and wait", args: []string{"--check", "--wait"}},
		{name: "check and attach", args: []string{"--check", "--attach"}},
		{name: "wait and attach", args: []string{"--wait", "--attach"}},
	}
	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			cmd := NewCommand()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tc.args)

			if err := cmd.Execute(); err == nil {
				t.Fatalf("Execute(%v) succeeded", tc.args)
			}
		})
	}
}
