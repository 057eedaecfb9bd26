package wipe

import (
	"time"
)

// Статусы операции
const (
	StatusCompleted   = "COMPLETED"
	StatusFailed      = "FAILED"
	StatusInterrupted = "INTERRUPTED"
	StatusNotFound    = "NOT_FOUND"
	StatusSkipped     = "SKIPPED"
)

// ShredOperation запись об уничтожении одного файла (для отчётов)
type ShredOperation struct {
	ID        string
	Path      string
	FinalPath string
	Method    string
	Passes    int
	Size      int64
	Renamed   bool
	Status    string // COMPLETED, FAILED, INTERRUPTED, NOT_FOUND, SKIPPED
	StartTime time.Time
	EndTime   *time.Time
	SpeedMBps float64
	Error     string
	Warning   string
}

// ProgressInfo информация о прогрессе затирания
type ProgressInfo struct {
	Path         string
	Pass         int // 1-based
	TotalPasses  int
	Pattern      string
	BytesWritten uint64
	TotalBytes   uint64
	SpeedMBps    float64
	Done         bool
}

// PassResult результат завершённого прохода (после барьера долговечности)
type PassResult struct {
	Path        string
	Pass        int // 1-based
	TotalPasses int
	Spec        PassSpec
	Size        int64
	Verified    bool
}

// ShredResult результат успешного уничтожения файла
type ShredResult struct {
	Path      string
	FinalPath string
	Method    WipeMethod
	Passes    int
	Size      int64
	Renamed   bool
	Duration  time.Duration
}

// WipeResult результат затирания свободного места
type WipeResult struct {
	Success      bool
	BytesWritten uint64
	Duration     time.Duration
	SpeedMBps    float64
	TempFile     string
	DiskFull     bool
	Cancelled    bool
}
