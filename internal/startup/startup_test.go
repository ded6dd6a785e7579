package startup

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/caarlos0/log"
	"github.com/loicsikidi/winkit/internal/msgbox"
	"github.com/loicsikidi/winkit/internal/privilege"
)

type fakeElevator struct {
	err    error
	labels []string
}

func (e *fakeElevator) EnsureElevated(_ context.Context, label string) error {
	e.labels = append(e.labels, label)
	return e.err
}

// fileWriter writes the target path into the shortcut file.
type fileWriter struct {
	written []ShortcutSpec
}

func (w *fileWriter) WriteShortcut(path string, spec ShortcutSpec) error {
	w.written = append(w.written, spec)
	return os.WriteFile(path, []byte(spec.Target), 0o600)
}

func testDirs(t *testing.T) (DirResolver, string, string) {
	t.Helper()
	user := t.TempDir()
	common := t.TempDir()
	return func(systemWide bool) (string, error) {
		if systemWide {
			return common, nil
		}
		return user, nil
	}, user, common
}

func TestNameFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"/Program Files/App/app.exe", "app"},
		{"/opt/tool/tool.v2.exe", "tool.v2"},
		{"noext", "noext"},
		{"dir/archive.tar.gz", "archive.tar"},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()

			if got := NameFor(tc.path); got != tc.want {
				t.Errorf("NameFor(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		systemWide  bool
		elevateErr  error
		wantErr     error
		wantPrompts int
		wantCommon  bool
	}{
		{
			name:        "per user needs no elevation",
			systemWide:  false,
			wantPrompts: 0,
		},
		{
			name:        "system wide elevates first",
			systemWide:  true,
			wantPrompts: 1,
			wantCommon:  true,
		},
		{
			name:        "system wide cancelled",
			systemWide:  true,
			elevateErr:  errCancelled,
			wantErr:     errCancelled,
			wantPrompts: 1,
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dirs, user, common := testDirs(t)
			e := &fakeElevator{err: tc.elevateErr}
			w := &fileWriter{}
			r := New(e, WithDirResolver(dirs), WithWriter(w))

			spec := ShortcutSpec{Target: filepath.Join("bin", "myapp.exe"), Args: "--background"}
			path, err := r.Register(context.Background(), spec, tc.systemWide)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, tc.wantErr)
			}
			if len(e.labels) != tc.wantPrompts {
				t.Fatalf("EnsureElevated called %d times, want %d", len(e.labels), tc.wantPrompts)
			}
			if tc.wantPrompts > 0 && e.labels[0] != "adding myapp to startup" {
				t.Errorf("elevation label = %q, want %q", e.labels[0], "adding myapp to startup")
			}

			if tc.wantErr != nil {
				if len(w.written) != 0 {
					t.Error("shortcut written after a cancelled elevation")
				}
				return
			}

			wantDir := user
			if tc.wantCommon {
				wantDir = common
			}
			if want := filepath.Join(wantDir, "myapp.lnk"); path != want {
				t.Errorf("Register() path = %q, want %q", path, want)
			}
			if len(w.written) != 1 || w.written[0].Name != "myapp" || w.written[0].Args != "--background" {
				t.Errorf("written specs = %+v", w.written)
			}

			ok, err := r.IsRegistered("myapp", tc.systemWide)
			if err != nil || !ok {
				t.Errorf("IsRegistered() = (%v, %v), want (true, nil)", ok, err)
			}
		})
	}
}

var errCancelled = errors.New("cancelled")

// answerPrompter gives the same answer to every prompt and counts them.
type answerPrompter struct {
	code    msgbox.ButtonCode
	prompts atomic.Int32
}

func (p *answerPrompter) Prompt(context.Context, string) (msgbox.ButtonCode, error) {
	p.prompts.Add(1)
	return p.code, nil
}

func TestRegisterSystemWideWithManager(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		answer      msgbox.ButtonCode
		wantErr     error
		wantMessage string
		wantWritten int
	}{
		{
			name:        "retry after elevation",
			answer:      msgbox.IDRETRY,
			wantWritten: 1,
		},
		{
			name:        "cancel",
			answer:      msgbox.IDCANCEL,
			wantErr:     privilege.ErrUserCancelled,
			wantMessage: "user aborted adding a to startup",
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := &answerPrompter{code: tc.answer}
			// Unelevated until the user has answered once.
			check := func() bool { return p.prompts.Load() > 0 && tc.answer == msgbox.IDRETRY }
			m := privilege.NewManager(
				privilege.WithCheck(check),
				privilege.WithPrompter(p),
				privilege.WithLogger(log.New(io.Discard)),
			)

			dirs, _, common := testDirs(t)
			w := &fileWriter{}
			r := New(m, WithDirResolver(dirs), WithWriter(w))

			path, err := r.Register(context.Background(), ShortcutSpec{Target: "a.exe"}, true)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantMessage != "" && err.Error() != tc.wantMessage {
				t.Errorf("Register() error = %q, want %q", err, tc.wantMessage)
			}
			if got := p.prompts.Load(); got != 1 {
				t.Errorf("prompts = %d, want 1", got)
			}
			if len(w.written) != tc.wantWritten {
				t.Fatalf("shortcuts written = %d, want %d", len(w.written), tc.wantWritten)
			}
			if tc.wantWritten > 0 {
				if want := filepath.Join(common, "a.lnk"); path != want {
					t.Errorf("Register() path = %q, want %q", path, want)
				}
			}
		})
	}
}

func TestRegisterRequiresTarget(t *testing.T) {
	t.Parallel()

	dirs, _, _ := testDirs(t)
	r := New(&fakeElevator{}, WithDirResolver(dirs), WithWriter(&fileWriter{}))
	if _, err := r.Register(context.Background(), ShortcutSpec{}, false); err == nil {
		t.Fatal("Register() without target succeeded")
	}
}

func TestDeregister(t *testing.T) {
	t.Parallel()

	dirs, _, common := testDirs(t)
	e := &fakeElevator{}
	r := New(e, WithDirResolver(dirs), WithWriter(&fileWriter{}))

	if _, err := r.Register(context.Background(), ShortcutSpec{Target: "tool.exe"}, true); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Deregister(context.Background(), "tool", true); err != nil {
		t.Fatalf("Deregister() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(common, "tool.lnk")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("shortcut still present: %v", err)
	}
	if got := e.labels[len(e.labels)-1]; got != "removing tool from startup" {
		t.Errorf("elevation label = %q", got)
	}

	// Removing twice is fine.
	if err := r.Deregister(context.Background(), "tool", true); err != nil {
		t.Fatalf("second Deregister() error = %v", err)
	}

	ok, err := r.IsRegistered("tool", true)
	if err != nil || ok {
		t.Errorf("IsRegistered() = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestDirResolverError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := New(&fakeElevator{}, WithDirResolver(func(bool) (string, error) { return "", boom }), WithWriter(&fileWriter{}))

	if _, err := r.Register(context.Background(), ShortcutSpec{Target: "a.exe"}, false); !errors.Is(err, boom) {
		t.Errorf("Register() error = %v, want %v", err, boom)
	}
	if _, err := r.IsRegistered("a", false); !errors.Is(err, boom) {
		t.Errorf("IsRegistered() error = %v, want %v", err, boom)
	}
}
