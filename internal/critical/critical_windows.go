//go:build windows

package critical

import "golang.org/x/sys/windows"

//go:generate go run golang.org/x/sys/windows/mkwinsyscall -output zsyscall_windows.go critical_windows.go
//sys isProcessCritical(process windows.Handle, critical *int32) (err error) = kernel32.IsProcessCritical

func nativeQuery(pid uint32) (bool, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return false, queryError(pid, "OpenProcess", err)
	}
	defer windows.CloseHandle(h)

	var critical int32
	if err := isProcessCritical(h, &critical); err != nil {
		return false, queryError(pid, "IsProcessCritical", err)
	}
	return critical != 0, nil
}
