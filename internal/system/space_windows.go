//go:build windows

package system

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// GetVolumeInfo returns free/total space for the volume containing path
func GetVolumeInfo(path string) (*VolumeInfo, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %s: %w", path, err)
	}

	var freeBytesAvailable, totalBytes, freeBytes uint64
	if err := windows.GetDiskFreeSpaceEx(p, &freeBytesAvailable, &totalBytes, &freeBytes); err != nil {
		return nil, fmt.Errorf("ошибка получения информации о диске: %w", err)
	}

	return &VolumeInfo{
		Path:       path,
		TotalSize:  totalBytes,
		FreeSize:   freeBytesAvailable,
		UsedSize:   totalBytes - freeBytes,
		IsWritable: true,
	}, nil
}

// SyncDir is a no-op: NTFS directory entries are not fsync-able through a handle
func SyncDir(dir string) error {
	return nil
}

func isDiskFullErrno(err error) bool {
	return errors.Is(err, windows.ERROR_DISK_FULL) ||
		errors.Is(err, windows.ERROR_HANDLE_DISK_FULL) ||
		errors.Is(err, windows.ERROR_NOT_ENOUGH_QUOTA)
}
