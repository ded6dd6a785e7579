// Package startup registers programs in the Windows startup folders, as
// shortcut files launched at user logon.
package startup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/log"
)

// ShortcutSpec describes the shortcut written for a program.
type ShortcutSpec struct {
	Target      string
	Name        string
	Icon        string
	Args        string
	Description string
	WorkDir     string
}

// Elevator is satisfied by *privilege.Manager.
type Elevator interface {
	EnsureElevated(ctx context.Context, label string) error
}

// DirResolver returns the startup directory for the current user, or for all
// users when systemWide is set.
type DirResolver func(systemWide bool) (string, error)

// ShortcutWriter writes spec as a .lnk file at path.
type ShortcutWriter interface {
	WriteShortcut(path string, spec ShortcutSpec) error
}

// Registrar adds and removes startup shortcuts.
type Registrar struct {
	elevator Elevator
	dirs     DirResolver
	writer   ShortcutWriter
	logger   *log.Logger
}

// Option configures a Registrar.
type Option func(*Registrar)

// WithDirResolver overrides the startup directory lookup.
func WithDirResolver(d DirResolver) Option {
	return func(r *Registrar) { r.dirs = d }
}

// WithWriter overrides the shortcut writer.
func WithWriter(w ShortcutWriter) Option {
	return func(r *Registrar) { r.writer = w }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Registrar) { r.logger = l }
}

// New returns a Registrar that elevates through e before touching the
// all-users startup folder.
func New(e Elevator, opts ...Option) *Registrar {
	r := &Registrar{
		elevator: e,
		dirs:     Dir,
		writer:   nativeWriter{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NameFor returns the shortcut name for a program path: its base name with
// the extension stripped.
func NameFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func shortcutFile(dir, name string) string {
	return filepath.Join(dir, name+".lnk")
}

func (r *Registrar) dir(ctx context.Context, name string, systemWide bool, verb string) (string, error) {
	if systemWide {
		if err := r.elevator.EnsureElevated(ctx, fmt.Sprintf("%s %s %s startup", verb, name, preposition(verb))); err != nil {
			return "", err
		}
	}
	dir, err := r.dirs(systemWide)
	if err != nil {
		return "", fmt.Errorf("resolving startup directory: %w", err)
	}
	return dir, nil
}

func preposition(verb string) string {
	if verb == "removing" {
		return "from"
	}
	return "to"
}

// Register writes a shortcut for spec into the startup folder and returns
// its path. An empty spec.Name is derived from spec.Target. With systemWide
// set the all-users folder is used, which requires elevation; a cancelled
// elevation aborts before anything is written.
func (r *Registrar) Register(ctx context.Context, spec ShortcutSpec, systemWide bool) (string, error) {
	if spec.Target == "" {
		return "", errors.New("shortcut target is required")
	}
	if spec.Name == "" {
		spec.Name = NameFor(spec.Target)
	}

	dir, err := r.dir(ctx, spec.Name, systemWide, "adding")
	if err != nil {
		return "", err
	}

	path := shortcutFile(dir, spec.Name)
	r.logger.WithField("path", path).Debug("writing startup shortcut")
	if err := r.writer.WriteShortcut(path, spec); err != nil {
		return "", fmt.Errorf("writing shortcut %s: %w", path, err)
	}

	r.logger.WithField("name", spec.Name).Info("registered for startup")
	return path, nil
}

// Deregister removes the shortcut called name. Removing a shortcut that does
// not exist is not an error.
func (r *Registrar) Deregister(ctx context.Context, name string, systemWide bool) error {
	dir, err := r.dir(ctx, name, systemWide, "removing")
	if err != nil {
		return err
	}

	path := shortcutFile(dir, name)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing shortcut %s: %w", path, err)
	}

	r.logger.WithField("name", name).Info("removed from startup")
	return nil
}

// IsRegistered reports whether a shortcut called name exists. It never
// prompts for elevation: the all-users folder is readable by everyone.
func (r *Registrar) IsRegistered(name string, systemWide bool) (bool, error) {
	dir, err := r.dirs(systemWide)
	if err != nil {
		return false, fmt.Errorf("resolving startup directory: %w", err)
	}

	_, err = os.Stat(shortcutFile(dir, name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
