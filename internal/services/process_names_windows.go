//go:build windows

package services

import (
	"context"
	stderrors "errors"
	"unsafe"

	"golang.org/x/sys/windows"
)

// processNames walks a toolhelp snapshot. Image names come from the
// snapshot itself, so they are available even for processes whose
// executable path cannot be opened.
func processNames(ctx context.Context) (map[int32]string, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, err
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	names := make(map[int32]string)
	for err = windows.Process32First(snapshot, &entry); err == nil; err = windows.Process32Next(snapshot, &entry) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		names[int32(entry.ProcessID)] = windows.UTF16ToString(entry.ExeFile[:])
	}
	if !stderrors.Is(err, windows.ERROR_NO_MORE_FILES) {
		return nil, err
	}
	return names, nil
}
