package wipe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"datasanitizer/internal/logging"
	"datasanitizer/internal/system"
)

const (
	DefaultChunkSize  = 1024 * 1024 // 1MB
	DefaultNameLength = 16
)

// EngineConfig configures an overwrite engine. Zero values fall back to defaults.
type EngineConfig struct {
	Fs           afero.Fs // nil = OS filesystem
	ChunkSize    int
	MaxSpeedMBps float64
	Verify       bool // read back every pass after its sync
	NameLength   int  // length of the obscured file name
	Logger       *logging.EnterpriseLogger
	Progress     chan<- ProgressInfo

	// OnPassComplete is called synchronously after each pass has been synced
	// (and verified, if enabled). A non-nil error aborts the shred as IOFailure.
	OnPassComplete func(PassResult) error
}

// Engine overwrites files pass by pass and removes them. An Engine holds no
// per-file state; independent files may be shredded by independent engines
// concurrently, but passes of one file always run strictly in order.
type Engine struct {
	fs      afero.Fs
	config  EngineConfig
	logger  *logging.EnterpriseLogger
	syncDir func(string) error
}

// NewEngine creates new overwrite engine
func NewEngine(cfg *EngineConfig) *Engine {
	c := EngineConfig{}
	if cfg != nil {
		c = *cfg
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.NameLength <= 0 {
		c.NameLength = DefaultNameLength
	}
	if c.Logger == nil {
		c.Logger = logging.Nop()
	}

	e := &Engine{
		fs:      c.Fs,
		config:  c,
		logger:  c.Logger,
		syncDir: func(string) error { return nil },
	}
	if _, ok := c.Fs.(*afero.OsFs); ok {
		e.syncDir = system.SyncDir
	}
	return e
}

// Fs returns the filesystem the engine operates on
func (e *Engine) Fs() afero.Fs {
	return e.fs
}

// SetProgressChannel sets progress channel for shred operations
func (e *Engine) SetProgressChannel(progress chan<- ProgressInfo) {
	e.config.Progress = progress
}

// Shred overwrites path with every pass of method, then renames and removes it.
//
// Errors are *ShredError values: NotFound and UnknownMethod are reported before
// the file is opened; IOFailure aborts before rename/removal; Interrupted means
// the file is partially overwritten and still present.
func (e *Engine) Shred(ctx context.Context, path, method string) (*ShredResult, error) {
	start := time.Now()

	info, err := e.lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newError(KindNotFound, "stat", path, 0, err)
		}
		return nil, newError(KindIOFailure, "stat", path, 0, err)
	}
	if !info.Mode().IsRegular() {
		return nil, newError(KindNotFound, "stat", path, 0,
			fmt.Errorf("not a regular file (mode %s)", info.Mode()))
	}

	m, err := ResolveMethod(method)
	if err != nil {
		var se *ShredError
		if errors.As(err, &se) {
			se.Path = path
		}
		return nil, err
	}

	size := info.Size()
	total := len(m.Passes)

	e.logger.Log("INFO", "Начало уничтожения файла", "path", path, "size", size, "method", m.Name, "passes", total)

	for i, spec := range m.Passes {
		pass := i + 1
		if err := ctx.Err(); err != nil {
			e.logger.Log("WARN", "Операция прервана между проходами", "path", path, "pass", pass, "total", total)
			return nil, newError(KindInterrupted, "pass", path, pass, err)
		}

		e.logger.Log("DEBUG", "Проход затирания", "path", path, "pass", pass, "total", total, "pattern", spec.String())

		verified, err := e.overwritePass(ctx, path, size, pass, total, spec)
		if err != nil {
			e.logger.Log("ERROR", "Проход не удался", "path", path, "pass", pass, "error", err.Error())
			return nil, err
		}

		if e.config.OnPassComplete != nil {
			res := PassResult{Path: path, Pass: pass, TotalPasses: total, Spec: spec, Size: size, Verified: verified}
			if err := e.config.OnPassComplete(res); err != nil {
				return nil, newError(KindIOFailure, "pass hook", path, pass, err)
			}
		}
	}

	e.logger.Log("INFO", "Перезапись завершена", "path", path, "passes", total)

	finalPath, renamed := e.obscureName(path)

	if err := e.fs.Remove(finalPath); err != nil {
		return nil, newError(KindIOFailure, "remove", finalPath, 0, err)
	}
	if err := e.syncDir(filepath.Dir(finalPath)); err != nil {
		e.logger.Log("WARN", "Не удалось синхронизировать директорию", "dir", filepath.Dir(finalPath), "error", err.Error())
	}

	result := &ShredResult{
		Path:      path,
		FinalPath: finalPath,
		Method:    m.Name,
		Passes:    total,
		Size:      size,
		Renamed:   renamed,
		Duration:  time.Since(start),
	}

	e.logger.Log("INFO", "Файл уничтожен", "path", path, "renamed", renamed, "duration", result.Duration)
	return result, nil
}

// WipeFreeSpace fills free space of the volume holding dir using the engine's filesystem
func (e *Engine) WipeFreeSpace(ctx context.Context, dir string) (uint64, error) {
	w := NewFreeSpaceWiper(&FreeSpaceConfig{
		Fs:       e.fs,
		Logger:   e.logger,
		Progress: e.config.Progress,
	})
	res, err := w.Wipe(ctx, dir)
	if res == nil {
		return 0, err
	}
	return res.BytesWritten, err
}

// lstat does not follow a final symlink: shredding a link would overwrite the
// target but only remove the link.
func (e *Engine) lstat(path string) (fs.FileInfo, error) {
	if l, ok := e.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return e.fs.Stat(path)
}

func (e *Engine) reportProgress(p ProgressInfo) {
	if e.config.Progress == nil {
		return
	}
	// Завершение прохода доставляется всегда, промежуточные события можно терять
	if p.Done {
		e.config.Progress <- p
		return
	}
	select {
	case e.config.Progress <- p:
	default:
	}
}
