package wipe

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// randomName возвращает hex-имя длины length из BLAKE3 от 32 случайных байт
func randomName(length int) (string, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return "", fmt.Errorf("ошибка генерации случайного имени: %w", err)
	}
	sum := blake3.Sum256(seed)
	name := hex.EncodeToString(sum[:])
	if length > 0 && length < len(name) {
		name = name[:length]
	}
	return name, nil
}

// obscureName переименовывает файл в случайное имя в той же директории.
// Переименование не обязательно для корректности: при любой неудаче
// возвращается исходный путь и renamed=false.
func (e *Engine) obscureName(path string) (finalPath string, renamed bool) {
	name, err := randomName(e.config.NameLength)
	if err != nil {
		e.logger.Log("WARN", "Переименование пропущено", "path", path, "error", err.Error())
		return path, false
	}

	target := filepath.Join(filepath.Dir(path), name)

	if _, err := e.fs.Stat(target); err == nil {
		e.logger.Log("WARN", "Случайное имя уже занято, используется исходный путь", "path", path, "target", target)
		return path, false
	} else if !errors.Is(err, fs.ErrNotExist) {
		e.logger.Log("WARN", "Переименование пропущено", "path", path, "error", err.Error())
		return path, false
	}

	if err := e.fs.Rename(path, target); err != nil {
		e.logger.Log("WARN", "Ошибка переименования, используется исходный путь", "path", path, "error", err.Error())
		return path, false
	}

	e.logger.Log("DEBUG", "Файл переименован", "path", path, "target", target)
	return target, true
}
