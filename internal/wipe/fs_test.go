package wipe

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// newMemFile создаёт MemMapFs с одним файлом
func newMemFile(t *testing.T, path string, data []byte) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/data", 0755))
	require.NoError(t, afero.WriteFile(fs, path, data, 0644))
	return fs
}

// corruptFs портит первый байт каждой записи
type corruptFs struct {
	afero.Fs
}

func (c corruptFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := c.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &corruptFile{File: f}, nil
}

type corruptFile struct {
	afero.File
}

func (f *corruptFile) Write(p []byte) (int, error) {
	q := append([]byte(nil), p...)
	if len(q) > 0 {
		q[0] ^= 0xFF
	}
	return f.File.Write(q)
}

// fullFs возвращает ENOSPC после limit байт записи в файл
type fullFs struct {
	afero.Fs
	limit    int64
	writeErr error // если задано, вместо ENOSPC
}

func (f *fullFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &limitedFile{File: file, remaining: f.limit, writeErr: f.writeErr}, nil
}

type limitedFile struct {
	afero.File
	remaining int64
	writeErr  error
}

func (f *limitedFile) Write(p []byte) (int, error) {
	if int64(len(p)) <= f.remaining {
		n, err := f.File.Write(p)
		f.remaining -= int64(n)
		return n, err
	}

	n, err := f.File.Write(p[:f.remaining])
	f.remaining -= int64(n)
	if err != nil {
		return n, err
	}
	if f.writeErr != nil {
		return n, f.writeErr
	}
	return n, &os.PathError{Op: "write", Path: f.Name(), Err: syscall.ENOSPC}
}

// flakyFs отказывает в Rename и/или Remove
type flakyFs struct {
	afero.Fs
	failRename bool
	failRemove bool
}

func (f flakyFs) Rename(oldname, newname string) error {
	if f.failRename {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: errors.New("permission denied")}
	}
	return f.Fs.Rename(oldname, newname)
}

func (f flakyFs) Remove(name string) error {
	if f.failRemove {
		return &os.PathError{Op: "remove", Path: name, Err: errors.New("device busy")}
	}
	return f.Fs.Remove(name)
}

// countingFs считает открытия файлов на запись
type countingFs struct {
	afero.Fs
	mu     sync.Mutex
	opened int
}

func (c *countingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	c.mu.Lock()
	c.opened++
	c.mu.Unlock()
	return c.Fs.OpenFile(name, flag, perm)
}

// syncFailFs отказывает в Sync открытых на запись файлов
type syncFailFs struct {
	afero.Fs
	err error
}

func (s syncFailFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := s.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &syncFailFile{File: f, err: s.err}, nil
}

type syncFailFile struct {
	afero.File
	err error
}

func (f *syncFailFile) Sync() error { return f.err }

// cancelOnWriteFs вызывает cancel при первой записи и считает вызовы Sync
type cancelOnWriteFs struct {
	afero.Fs
	cancel func()
	syncs  *atomic.Int32
}

func (c cancelOnWriteFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := c.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &cancelOnWriteFile{File: f, fs: c}, nil
}

type cancelOnWriteFile struct {
	afero.File
	fs cancelOnWriteFs
}

func (f *cancelOnWriteFile) Write(p []byte) (int, error) {
	f.fs.cancel()
	return f.File.Write(p)
}

func (f *cancelOnWriteFile) Sync() error {
	f.fs.syncs.Add(1)
	return f.File.Sync()
}
