package wipe

import (
	"bytes"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// verifyPass читает файл после барьера и сверяет его с тем, что было записано.
// Фиксированный проход сверяется побайтно, случайный по дайджесту BLAKE3.
func (e *Engine) verifyPass(path string, size int64, spec PassSpec, digest []byte) error {
	f, err := e.fs.Open(path)
	if err != nil {
		return fmt.Errorf("ошибка открытия для проверки: %w", err)
	}
	defer f.Close()

	chunkSize := e.config.ChunkSize
	if int64(chunkSize) > size {
		chunkSize = int(size)
	}
	if chunkSize == 0 {
		return nil
	}

	got := GetBuffer(chunkSize)
	defer PutBuffer(got)

	var want []byte
	var hasher *blake3.Hasher
	switch spec.kind {
	case PassFixed:
		want = GetBuffer(chunkSize)
		defer PutBuffer(want)
	case PassRandom:
		if digest == nil {
			return fmt.Errorf("нет дайджеста для случайного прохода")
		}
		hasher = blake3.New()
	}

	var offset int64
	for offset < size {
		n := int64(chunkSize)
		if remaining := size - offset; remaining < n {
			n = remaining
		}

		if _, err := io.ReadFull(f, got[:n]); err != nil {
			return fmt.Errorf("ошибка чтения на смещении %d: %w", offset, err)
		}

		if hasher != nil {
			hasher.Write(got[:n])
		} else {
			FillPattern(want[:n], spec.pattern, offset)
			if !bytes.Equal(got[:n], want[:n]) {
				return fmt.Errorf("содержимое не совпадает с паттерном %s на смещении %d",
					spec, offset+firstMismatch(got[:n], want[:n]))
			}
		}
		offset += n
	}

	if hasher != nil && !bytes.Equal(hasher.Sum(nil), digest) {
		return fmt.Errorf("дайджест случайного прохода не совпадает")
	}

	return nil
}

func firstMismatch(a, b []byte) int64 {
	for i := range a {
		if a[i] != b[i] {
			return int64(i)
		}
	}
	return int64(len(a))
}
