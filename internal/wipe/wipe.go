package wipe

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Shred уничтожает файл методом method движком с настройками по умолчанию
func Shred(ctx context.Context, path, method string) error {
	_, err := NewEngine(nil).Shred(ctx, path, method)
	return err
}

// WipeFreeSpace затирает свободное место в директории с настройками по умолчанию
func WipeFreeSpace(ctx context.Context, directory string) (uint64, error) {
	res, err := NewFreeSpaceWiper(nil).Wipe(ctx, directory)
	if res == nil {
		return 0, err
	}
	return res.BytesWritten, err
}

// ShredFile выполняет уничтожение одного файла и возвращает запись об операции.
// В режиме dryRun файл только проверяется: метод разрешается, размер читается.
func ShredFile(ctx context.Context, engine *Engine, path, method string, dryRun bool) *ShredOperation {
	op := &ShredOperation{
		ID:        uuid.NewString(),
		Path:      path,
		Method:    method,
		Passes:    GetMethodPasses(WipeMethod(method)),
		Status:    "RUNNING",
		StartTime: time.Now(),
	}

	finish := func(status string, err error) *ShredOperation {
		now := time.Now()
		op.EndTime = &now
		op.Status = status
		if err != nil {
			op.Error = err.Error()
		}
		if status == StatusCompleted && op.Size > 0 {
			op.SpeedMBps = speedMBps(op.Size*int64(op.Passes), now.Sub(op.StartTime))
		}
		return op
	}

	if dryRun {
		info, err := engine.lstat(path)
		if err != nil || !info.Mode().IsRegular() {
			if err == nil {
				err = newError(KindNotFound, "stat", path, 0, errors.New("not a regular file"))
			}
			return finish(StatusNotFound, err)
		}
		if _, err := ResolveMethod(method); err != nil {
			return finish(StatusFailed, err)
		}
		op.Size = info.Size()
		op.FinalPath = path
		engine.logger.Log("INFO", "DRY RUN: файл будет уничтожен", "path", path, "method", method, "size", op.Size)
		return finish(StatusCompleted, nil)
	}

	res, err := engine.Shred(ctx, path, method)
	if err != nil {
		return finish(statusFor(err), err)
	}

	op.Size = res.Size
	op.FinalPath = res.FinalPath
	op.Renamed = res.Renamed
	if !res.Renamed {
		op.Warning = "переименование не выполнено, удалён исходный путь"
	}
	return finish(StatusCompleted, nil)
}

// statusFor отображает вид ошибки на статус операции
func statusFor(err error) string {
	switch KindOf(err) {
	case KindNotFound:
		return StatusNotFound
	case KindInterrupted:
		return StatusInterrupted
	default:
		return StatusFailed
	}
}
