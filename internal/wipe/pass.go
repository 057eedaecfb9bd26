package wipe

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/zeebo/blake3"
)

// overwritePass выполняет один проход: открытие без усечения, seek в 0,
// запись size байт чанками, Sync. Проход считается завершённым только после
// успешного Sync; любая ошибка прерывает всю операцию.
func (e *Engine) overwritePass(ctx context.Context, path string, size int64, pass, total int, spec PassSpec) (bool, error) {
	start := time.Now()

	f, err := e.fs.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return false, newError(KindIOFailure, "open", path, pass, err)
	}

	tw := NewThrottledWriter(f, e.config.MaxSpeedMBps)
	defer tw.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return false, newError(KindIOFailure, "seek", path, pass, err)
	}

	chunkSize := e.config.ChunkSize
	if int64(chunkSize) > size {
		chunkSize = int(size)
	}

	var buf []byte
	if chunkSize > 0 {
		buf = GetBuffer(chunkSize)
		defer PutBuffer(buf)
	}

	// Для проверки случайного прохода храним только дайджест записанного потока
	var hasher *blake3.Hasher
	if e.config.Verify && spec.kind == PassRandom {
		hasher = blake3.New()
	}

	var written int64
	for written < size {
		if err := ctx.Err(); err != nil {
			return false, newError(KindInterrupted, "write", path, pass, err)
		}

		n := int64(chunkSize)
		if remaining := size - written; remaining < n {
			n = remaining
		}
		b := buf[:n]

		switch spec.kind {
		case PassRandom:
			// Каждый чанк заново из crypto/rand
			if err := FillRandom(b); err != nil {
				return false, newError(KindIOFailure, "random", path, pass, err)
			}
		case PassFixed:
			FillPattern(b, spec.pattern, written)
		default:
			return false, newError(KindIOFailure, "write", path, pass, fmt.Errorf("неизвестный вид прохода: %d", spec.kind))
		}

		if hasher != nil {
			hasher.Write(b)
		}

		if _, err := tw.WriteFull(b); err != nil {
			return false, newError(KindIOFailure, "write", path, pass, err)
		}
		written += n

		e.reportProgress(ProgressInfo{
			Path:         path,
			Pass:         pass,
			TotalPasses:  total,
			Pattern:      spec.String(),
			BytesWritten: uint64(written),
			TotalBytes:   uint64(size),
			SpeedMBps:    speedMBps(written, time.Since(start)),
		})
	}

	// Барьер долговечности
	if err := tw.Sync(); err != nil {
		return false, newError(KindIOFailure, "sync", path, pass, err)
	}
	if err := tw.Close(); err != nil {
		return false, newError(KindIOFailure, "close", path, pass, err)
	}

	info, err := e.fs.Stat(path)
	if err != nil {
		return false, newError(KindIOFailure, "stat", path, pass, err)
	}
	if info.Size() != size {
		return false, newError(KindIOFailure, "stat", path, pass,
			fmt.Errorf("размер файла изменился: %d -> %d", size, info.Size()))
	}

	verified := false
	if e.config.Verify {
		var digest []byte
		if hasher != nil {
			digest = hasher.Sum(nil)
		}
		if err := e.verifyPass(path, size, spec, digest); err != nil {
			return false, newError(KindIOFailure, "verify", path, pass, err)
		}
		verified = true
	}

	e.reportProgress(ProgressInfo{
		Path:         path,
		Pass:         pass,
		TotalPasses:  total,
		Pattern:      spec.String(),
		BytesWritten: uint64(written),
		TotalBytes:   uint64(size),
		SpeedMBps:    speedMBps(written, time.Since(start)),
		Done:         true,
	})

	return verified, nil
}

func speedMBps(bytes int64, d time.Duration) float64 {
	if d.Seconds() <= 0 {
		return 0
	}
	return float64(bytes) / (1024 * 1024) / d.Seconds()
}
