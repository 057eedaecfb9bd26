package wipe

import (
	"context"
	"sync"
	"time"

	"datasanitizer/internal/logging"
)

// ShredSession управляет уничтожением набора файлов одним методом
type ShredSession struct {
	Targets       []string
	Method        string
	MaxConcurrent int
	DryRun        bool
	Skip          func(path string) (bool, string) // фильтр (например, защищённые пути)
	StartTime     time.Time
	Logger        *logging.EnterpriseLogger

	// newEngine создаёт отдельный движок для каждого файла
	newEngine func() *Engine
}

// NewShredSession создаёт новую сессию; каждый файл получает собственный Engine из cfg
func NewShredSession(targets []string, method string, maxConcurrent int, dryRun bool, cfg *EngineConfig, logger *logging.EnterpriseLogger) *ShredSession {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = logging.Nop()
	}

	engineCfg := EngineConfig{}
	if cfg != nil {
		engineCfg = *cfg
	}
	if engineCfg.Logger == nil {
		engineCfg.Logger = logger
	}

	return &ShredSession{
		Targets:       targets,
		Method:        method,
		MaxConcurrent: maxConcurrent,
		DryRun:        dryRun,
		StartTime:     time.Now(),
		Logger:        logger,
		newEngine: func() *Engine {
			c := engineCfg
			return NewEngine(&c)
		},
	}
}

// Execute обрабатывает все цели и возвращает операции в порядке Targets.
// Проходы одного файла всегда последовательны; параллельны только разные файлы.
func (ss *ShredSession) Execute(ctx context.Context) []*ShredOperation {
	ops := make([]*ShredOperation, len(ss.Targets))

	ss.Logger.Log("INFO", "Начало сессии", "targets", len(ss.Targets), "method", ss.Method,
		"workers", ss.MaxConcurrent, "dry_run", ss.DryRun)

	sem := make(chan struct{}, ss.MaxConcurrent)
	var wg sync.WaitGroup

	for i, target := range ss.Targets {
		if ss.Skip != nil {
			if skip, reason := ss.Skip(target); skip {
				ss.Logger.Log("WARN", "Файл пропущен", "path", target, "reason", reason)
				ops[i] = ss.skipped(target, reason)
				continue
			}
		}

		if ctx.Err() != nil {
			ops[i] = ss.skipped(target, "операция отменена до начала")
			continue
		}

		sem <- struct{}{}
		// Отмена могла прийти, пока ждали свободный слот
		if ctx.Err() != nil {
			<-sem
			ops[i] = ss.skipped(target, "операция отменена до начала")
			continue
		}

		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			defer func() { <-sem }()

			ops[i] = ShredFile(ctx, ss.newEngine(), target, ss.Method, ss.DryRun)

			switch ops[i].Status {
			case StatusCompleted:
			case StatusInterrupted:
				ss.Logger.Log("WARN", "Файл частично перезаписан и не удалён", "path", target)
			default:
				ss.Logger.Log("ERROR", "Операция не удалась", "path", target, "status", ops[i].Status, "error", ops[i].Error)
			}
		}(i, target)
	}

	wg.Wait()

	ss.Logger.Log("INFO", "Сессия завершена", "targets", len(ss.Targets), "duration", time.Since(ss.StartTime))
	return ops
}

func (ss *ShredSession) skipped(target, reason string) *ShredOperation {
	now := time.Now()
	return &ShredOperation{
		Path:      target,
		Method:    ss.Method,
		Status:    StatusSkipped,
		StartTime: now,
		EndTime:   &now,
		Warning:   reason,
	}
}
