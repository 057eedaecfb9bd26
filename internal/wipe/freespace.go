package wipe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"datasanitizer/internal/logging"
	"datasanitizer/internal/system"
)

const DefaultFreeSpaceChunkSize = 10 * 1024 * 1024 // 10MB

// FreeSpaceConfig конфигурация для затирания свободного места через временный файл
type FreeSpaceConfig struct {
	Fs        afero.Fs
	ChunkSize int   // Размер чанка в байтах (10МБ по умолчанию)
	MaxBytes  int64 // Ограничение объёма (0 = до заполнения диска)
	Progress  chan<- ProgressInfo
	Logger    *logging.EnterpriseLogger
}

// FreeSpaceWiper заполняет свободное место случайными данными через один
// временный файл. Это упрощённое затирание: метаданные ФС, зарезервированные
// блоки и резервная область SSD не затрагиваются.
type FreeSpaceWiper struct {
	config FreeSpaceConfig
}

// NewFreeSpaceWiper создает новый экземпляр FreeSpaceWiper
func NewFreeSpaceWiper(config *FreeSpaceConfig) *FreeSpaceWiper {
	c := FreeSpaceConfig{}
	if config != nil {
		c = *config
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultFreeSpaceChunkSize
	}
	if c.Logger == nil {
		c.Logger = logging.Nop()
	}
	return &FreeSpaceWiper{config: c}
}

// Wipe пишет случайные чанки во временный файл в dir, пока хранилище не
// сообщит о нехватке места. Временный файл удаляется на любом пути выхода.
// Истечение дедлайна контекста считается частичным успехом; отмена даёт Interrupted.
func (w *FreeSpaceWiper) Wipe(ctx context.Context, dir string) (result *WipeResult, err error) {
	result = &WipeResult{}
	startTime := time.Now()
	afs := w.config.Fs
	logger := w.config.Logger

	dir = filepath.Clean(dir)
	info, err := afs.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, newError(KindNotFound, "stat", dir, 0, err)
		}
		return result, newError(KindIOFailure, "stat", dir, 0, err)
	}
	if !info.IsDir() {
		return result, newError(KindNotFound, "stat", dir, 0, fmt.Errorf("не является директорией"))
	}

	if _, ok := afs.(*afero.OsFs); ok {
		if vol, verr := system.GetVolumeInfo(dir); verr == nil {
			logger.Log("INFO", "Свободное место перед затиранием", "dir", dir, "free", vol.FreeSize, "total", vol.TotalSize)
		}
	}

	tempFile := filepath.Join(dir, ".wipe_"+uuid.NewString())
	result.TempFile = tempFile

	f, err := afs.OpenFile(tempFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if system.IsDiskFullError(err) {
			result.Success = true
			result.DiskFull = true
			return result, nil
		}
		return result, newError(KindIOFailure, "create", tempFile, 0, err)
	}

	// Гарантированное удаление временного файла на всех путях выхода
	defer func() {
		f.Close()
		if rmErr := afs.Remove(tempFile); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			logger.Log("ERROR", "Ошибка удаления временного файла", "file", tempFile, "error", rmErr.Error())
			if err == nil {
				err = newError(KindIOFailure, "remove", tempFile, 0, rmErr)
			}
		}
		result.Duration = time.Since(startTime)
		result.SpeedMBps = speedMBps(int64(result.BytesWritten), result.Duration)
	}()

	buffer := GetBuffer(w.config.ChunkSize)
	defer PutBuffer(buffer)

	logger.Log("INFO", "Заполнение свободного места случайными данными", "dir", dir, "file", tempFile)

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				logger.Log("WARN", "Достигнут лимит времени операции", "dir", dir, "bytes", result.BytesWritten)
				break
			}
			result.Cancelled = true
			return result, newError(KindInterrupted, "write", tempFile, 0, ctxErr)
		}

		chunk := buffer
		if w.config.MaxBytes > 0 {
			remaining := w.config.MaxBytes - int64(result.BytesWritten)
			if remaining <= 0 {
				break
			}
			if remaining < int64(len(chunk)) {
				chunk = chunk[:remaining]
			}
		}

		if err := FillRandom(chunk); err != nil {
			return result, newError(KindIOFailure, "random", tempFile, 0, err)
		}

		n, werr := f.Write(chunk)
		result.BytesWritten += uint64(n)
		if werr != nil {
			if system.IsDiskFullError(werr) {
				result.DiskFull = true
				break
			}
			return result, newError(KindIOFailure, "write", tempFile, 0, werr)
		}

		w.reportProgress(ProgressInfo{
			Path:         tempFile,
			Pass:         1,
			TotalPasses:  1,
			Pattern:      "random",
			BytesWritten: result.BytesWritten,
			SpeedMBps:    speedMBps(int64(result.BytesWritten), time.Since(startTime)),
		})
	}

	// На заполненном диске sync может сам вернуть ENOSPC
	if serr := f.Sync(); serr != nil && !system.IsDiskFullError(serr) {
		return result, newError(KindIOFailure, "sync", tempFile, 0, serr)
	}

	result.Success = true
	logger.Log("INFO", "Затирание свободного места завершено", "dir", dir,
		"bytes_written", result.BytesWritten, "disk_full", result.DiskFull, "duration", time.Since(startTime))

	return result, nil
}

func (w *FreeSpaceWiper) reportProgress(p ProgressInfo) {
	if w.config.Progress == nil {
		return
	}
	select {
	case w.config.Progress <- p:
	default:
	}
}
