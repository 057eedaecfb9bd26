package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"datasanitizer/internal/config"
)

var levels = map[string]int{"DEBUG": 0, "INFO": 1, "WARN": 2, "ERROR": 3, "FATAL": 4}

// EnterpriseLogger логгер с аудитом: файл журнала + консоль
type EnterpriseLogger struct {
	mu      sync.Mutex
	level   string
	file    *os.File
	out     io.Writer
	verbose bool
}

func NewEnterpriseLogger(cfg *config.Config, verbose bool) (*EnterpriseLogger, error) {
	l := &EnterpriseLogger{
		level:   strings.ToUpper(cfg.Logging.Level),
		out:     os.Stderr,
		verbose: verbose,
	}

	// Автоматическое создание директории для логов
	if cfg.Logging.File != "" {
		logDir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			// Если не можем создать директорию, пишем только в консоль
			fmt.Fprintf(l.out, "[WARN] Не удалось создать директорию логов %s: %v\n", logDir, err)
			return l, nil
		}

		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			fmt.Fprintf(l.out, "[WARN] Не удалось открыть файл логов %s: %v\n", cfg.Logging.File, err)
			return l, nil
		}
		l.file = f
	}

	return l, nil
}

// NewLogger создаёт логгер, пишущий все записи уровня level и выше в out
func NewLogger(level string, out io.Writer) *EnterpriseLogger {
	return &EnterpriseLogger{
		level:   strings.ToUpper(level),
		out:     out,
		verbose: true,
	}
}

// Nop логгер, который ничего не пишет
func Nop() *EnterpriseLogger {
	return NewLogger("FATAL", io.Discard)
}

func (l *EnterpriseLogger) Log(level, message string, fields ...interface{}) {
	if l == nil || !l.shouldLog(level) {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	entry := fmt.Sprintf("[%s] [%s] %s", timestamp, level, message)

	if len(fields) > 0 {
		entry += fmt.Sprintf(" %v", fields)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		l.file.WriteString(entry + "\n")
		l.file.Sync()
	}

	if l.out != nil && (l.verbose || level == "ERROR" || level == "FATAL") {
		fmt.Fprintln(l.out, entry)
	}
}

func (l *EnterpriseLogger) shouldLog(level string) bool {
	current := levels[l.level]
	target, ok := levels[level]
	if !ok {
		target = levels["INFO"]
	}
	return target >= current
}

func (l *EnterpriseLogger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}
