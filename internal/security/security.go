package security

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"datasanitizer/internal/config"
)

// Системные пути, которые никогда не уничтожаются целиком
var unixRoots = []string{"/", "/bin", "/boot", "/dev", "/etc", "/lib", "/proc", "/sbin", "/sys", "/usr", "/var"}

func systemRoots() []string {
	if runtime.GOOS == "windows" {
		roots := []string{`C:\`, `C:\Windows`, `C:\Program Files`, `C:\Program Files (x86)`}
		if dir := os.Getenv("SystemRoot"); dir != "" {
			roots = append(roots, dir)
		}
		return roots
	}
	return unixRoots
}

// CheckTarget проверяет, можно ли уничтожать путь: защищённые пути и
// директории отвергаются. Несуществующий путь не ошибка, это решает движок.
func CheckTarget(cfg *config.Config, path string) error {
	if cfg == nil {
		cfg = config.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("ошибка определения пути %s: %w", path, err)
	}

	for _, root := range systemRoots() {
		if samePath(abs, root) {
			return fmt.Errorf("системный путь защищён: %s", abs)
		}
	}

	for _, protected := range cfg.Security.ProtectedPaths {
		p, err := filepath.Abs(protected)
		if err != nil {
			continue
		}
		if samePath(abs, p) || isWithin(abs, p) {
			return fmt.Errorf("путь защищён конфигурацией: %s (%s)", abs, protected)
		}
	}

	if info, err := os.Lstat(abs); err == nil && info.IsDir() {
		return fmt.Errorf("директория не может быть уничтожена, используйте wipe: %s", abs)
	}

	return nil
}

// ShouldSkip оборачивает CheckTarget для пакетной обработки
func ShouldSkip(cfg *config.Config, path string) (bool, string) {
	if err := CheckTarget(cfg, path); err != nil {
		return true, err.Error()
	}
	return false, ""
}

func samePath(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// isWithin: path лежит внутри dir
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
