//go:build !windows

package critical

import "github.com/loicsikidi/winkit/internal"

func nativeQuery(pid uint32) (bool, error) {
	return false, queryError(pid, "IsProcessCritical", internal.ErrUnsupported)
}
