//go:build !linux && !darwin && !freebsd && !windows

package system

import (
	"errors"
	"fmt"
	"runtime"
	"syscall"
)

// GetVolumeInfo is not supported on this platform
func GetVolumeInfo(path string) (*VolumeInfo, error) {
	return nil, fmt.Errorf("volume info not supported on %s", runtime.GOOS)
}

func SyncDir(dir string) error {
	return nil
}

func isDiskFullErrno(err error) bool {
	return errors.Is(err, syscall.ENOSPC)
}
