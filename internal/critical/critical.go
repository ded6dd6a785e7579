// Package critical reports whether a running process is marked critical, that
// is, whether terminating it brings the system down.
package critical

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"
)

const elevationLabel = "checking if process is critical"

var (
	// ErrNativeQuery is matched by every *NativeQueryError.
	ErrNativeQuery = errors.New("native process query failed")

	// ErrProcessNotFound is returned for a pid that does not exist.
	ErrProcessNotFound = errors.New("process not found")
)

// NativeQueryError wraps the OS error code of a failed query.
type NativeQueryError struct {
	PID  uint32
	Code syscall.Errno
	Op   string
}

func (e *NativeQueryError) Error() string {
	return fmt.Sprintf("error %d occurred when trying to get info about process %d (%s): %s", uint32(e.Code), e.PID, e.Op, e.Code.Error())
}

func (e *NativeQueryError) Unwrap() []error { return []error{ErrNativeQuery, e.Code} }

func queryError(pid uint32, op string, err error) error {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return &NativeQueryError{PID: pid, Code: errno, Op: op}
	}
	return fmt.Errorf("%w: %s: %w", ErrNativeQuery, op, err)
}

// Elevator is satisfied by *privilege.Manager.
type Elevator interface {
	EnsureElevated(ctx context.Context, label string) error
}

// Checker queries process criticality. Querying other processes needs
// elevation, which is requested through the Elevator on every call.
type Checker struct {
	elevator Elevator
	query    func(pid uint32) (bool, error)
	exists   func(ctx context.Context, pid int32) (bool, error)
}

// New returns a Checker backed by IsProcessCritical.
func New(e Elevator) *Checker {
	return &Checker{
		elevator: e,
		query:    nativeQuery,
		exists:   process.PidExistsWithContext,
	}
}

// IsCritical reports whether pid is a critical process. Failures of the
// native call are returned as *NativeQueryError, never as false.
func (c *Checker) IsCritical(ctx context.Context, pid uint32) (bool, error) {
	if err := c.elevator.EnsureElevated(ctx, elevationLabel); err != nil {
		return false, err
	}

	// gopsutil takes int32 pids; larger values cannot name a process.
	if pid > math.MaxInt32 {
		return false, fmt.Errorf("%w: %d", ErrProcessNotFound, pid)
	}

	ok, err := c.exists(ctx, int32(pid))
	if err != nil {
		return false, fmt.Errorf("looking up process %d: %w", pid, err)
	}
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrProcessNotFound, pid)
	}

	return c.query(pid)
}

// FindPIDs returns the pids of running processes whose executable name
// matches name, ignoring case. A missing ".exe" suffix is tolerated.
func FindPIDs(ctx context.Context, name string) ([]uint32, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	var pids []uint32
	for _, p := range procs {
		n, err := p.NameWithContext(ctx)
		if err != nil {
			// Exited or inaccessible since listing.
			continue
		}
		if matchName(n, name) {
			pids = append(pids, uint32(p.Pid))
		}
	}
	if len(pids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProcessNotFound, name)
	}
	return pids, nil
}

func matchName(have, want string) bool {
	return trimExe(have) == trimExe(want)
}

func trimExe(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), ".exe")
}
