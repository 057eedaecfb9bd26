//go:build linux || darwin || freebsd

package system

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// GetVolumeInfo returns free/total space for the volume containing path
func GetVolumeInfo(path string) (*VolumeInfo, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return nil, fmt.Errorf("statfs %s: %w", path, err)
	}

	total := uint64(st.Blocks) * uint64(st.Bsize)
	free := uint64(st.Bavail) * uint64(st.Bsize)

	return &VolumeInfo{
		Path:       path,
		TotalSize:  total,
		FreeSize:   free,
		UsedSize:   total - uint64(st.Bfree)*uint64(st.Bsize),
		IsWritable: unix.Access(path, unix.W_OK) == nil,
	}, nil
}

// SyncDir flushes directory metadata (renames, unlinks) to disk
func SyncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := unix.Fsync(int(d.Fd())); err != nil {
		// Some filesystems refuse fsync on directories
		if errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENOTSUP) {
			return nil
		}
		return err
	}
	return nil
}

func isDiskFullErrno(err error) bool {
	return errors.Is(err, unix.ENOSPC) || errors.Is(err, unix.EDQUOT)
}
