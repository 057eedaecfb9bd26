package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"datasanitizer/internal/config"
	"datasanitizer/internal/wipe"
)

// Version версия утилиты, попадает в отчёты; cmd/datasanitizer задаёт её при старте
var Version = "dev"

// Report отчёт о запуске
type Report struct {
	RunID      string                 `json:"run_id" yaml:"run_id"`
	Version    string                 `json:"version" yaml:"version"`
	Timestamp  time.Time              `json:"timestamp" yaml:"timestamp"`
	Command    string                 `json:"command" yaml:"command"`
	Profile    string                 `json:"profile,omitempty" yaml:"profile,omitempty"`
	DryRun     bool                   `json:"dry_run" yaml:"dry_run"`
	Config     map[string]interface{} `json:"config" yaml:"config"`
	Operations []OperationReport      `json:"operations" yaml:"operations"`
	FreeSpace  *FreeSpaceReport       `json:"free_space,omitempty" yaml:"free_space,omitempty"`
	Summary    SummaryReport          `json:"summary" yaml:"summary"`
	ExitCode   int                    `json:"exit_code" yaml:"exit_code"`
	Duration   string                 `json:"duration" yaml:"duration"`
}

// OperationReport отчёт об уничтожении одного файла
type OperationReport struct {
	ID        string     `json:"id" yaml:"id"`
	Path      string     `json:"path" yaml:"path"`
	FinalPath string     `json:"final_path,omitempty" yaml:"final_path,omitempty"`
	Method    string     `json:"method" yaml:"method"`
	Passes    int        `json:"passes" yaml:"passes"`
	Size      int64      `json:"size" yaml:"size"`
	Renamed   bool       `json:"renamed" yaml:"renamed"`
	Status    string     `json:"status" yaml:"status"`
	StartTime time.Time  `json:"start_time" yaml:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	SpeedMBps float64    `json:"speed_mbps" yaml:"speed_mbps"`
	Error     string     `json:"error,omitempty" yaml:"error,omitempty"`
	Warning   string     `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// FreeSpaceReport результат затирания свободного места
type FreeSpaceReport struct {
	Directory    string  `json:"directory" yaml:"directory"`
	BytesWritten uint64  `json:"bytes_written" yaml:"bytes_written"`
	DiskFull     bool    `json:"disk_full" yaml:"disk_full"`
	Cancelled    bool    `json:"cancelled" yaml:"cancelled"`
	SpeedMBps    float64 `json:"speed_mbps" yaml:"speed_mbps"`
	Duration     string  `json:"duration" yaml:"duration"`
	Error        string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// SummaryReport сводная информация
type SummaryReport struct {
	TotalFiles   int     `json:"total_files" yaml:"total_files"`
	Completed    int     `json:"completed" yaml:"completed"`
	Failed       int     `json:"failed" yaml:"failed"`
	Interrupted  int     `json:"interrupted" yaml:"interrupted"`
	NotFound     int     `json:"not_found" yaml:"not_found"`
	Skipped      int     `json:"skipped" yaml:"skipped"`
	TotalBytes   int64   `json:"total_bytes" yaml:"total_bytes"`
	AverageSpeed float64 `json:"average_speed_mbps" yaml:"average_speed_mbps"`
	SuccessRate  float64 `json:"success_rate" yaml:"success_rate"`
}

// GenerateReport собирает отчёт о запуске из записей операций
func GenerateReport(operations []*wipe.ShredOperation, cfg *config.Config, command, profile string, dryRun bool, startTime, endTime time.Time, exitCode int) *Report {
	if cfg == nil {
		cfg = config.Default()
	}

	report := &Report{
		RunID:      uuid.NewString(),
		Version:    Version,
		Timestamp:  startTime,
		Command:    command,
		Profile:    profile,
		DryRun:     dryRun,
		Config:     configToMap(cfg),
		Operations: make([]OperationReport, 0, len(operations)),
		ExitCode:   exitCode,
		Duration:   endTime.Sub(startTime).String(),
	}

	var totalSpeed float64
	speedSamples := 0
	s := &report.Summary

	for _, op := range operations {
		if op == nil {
			continue
		}
		report.Operations = append(report.Operations, OperationReport{
			ID:        op.ID,
			Path:      op.Path,
			FinalPath: op.FinalPath,
			Method:    op.Method,
			Passes:    op.Passes,
			Size:      op.Size,
			Renamed:   op.Renamed,
			Status:    op.Status,
			StartTime: op.StartTime,
			EndTime:   op.EndTime,
			SpeedMBps: op.SpeedMBps,
			Error:     op.Error,
			Warning:   op.Warning,
		})

		switch op.Status {
		case wipe.StatusCompleted:
			s.Completed++
			s.TotalBytes += op.Size
		case wipe.StatusInterrupted:
			s.Interrupted++
		case wipe.StatusNotFound:
			s.NotFound++
		case wipe.StatusSkipped:
			s.Skipped++
		default:
			s.Failed++
		}

		if op.SpeedMBps > 0 {
			totalSpeed += op.SpeedMBps
			speedSamples++
		}
	}

	s.TotalFiles = len(report.Operations)
	if speedSamples > 0 {
		s.AverageSpeed = totalSpeed / float64(speedSamples)
	}
	if s.TotalFiles > 0 {
		s.SuccessRate = float64(s.Completed) / float64(s.TotalFiles) * 100
	}

	return report
}

// AttachFreeSpace добавляет в отчёт результат затирания свободного места
func (r *Report) AttachFreeSpace(dir string, res *wipe.WipeResult, err error) {
	fr := &FreeSpaceReport{Directory: dir}
	if res != nil {
		fr.BytesWritten = res.BytesWritten
		fr.DiskFull = res.DiskFull
		fr.Cancelled = res.Cancelled
		fr.SpeedMBps = res.SpeedMBps
		fr.Duration = res.Duration.String()
	}
	if err != nil {
		fr.Error = err.Error()
	}
	r.FreeSpace = fr
}

// Marshal сериализует отчёт в json или yaml
func Marshal(report *Report, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return json.MarshalIndent(report, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(report)
	default:
		return nil, fmt.Errorf("неизвестный формат отчёта: %s", format)
	}
}

// SaveReport сохраняет отчёт в cfg.Reporting.LocalPath и возвращает путь к файлу
func SaveReport(report *Report, cfg *config.Config) (string, error) {
	if !cfg.Reporting.Enabled {
		return "", nil
	}

	if err := os.MkdirAll(cfg.Reporting.LocalPath, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания директории для отчётов: %w", err)
	}

	data, err := Marshal(report, cfg.Reporting.Format)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации отчёта: %w", err)
	}

	ext := "json"
	if f := strings.ToLower(cfg.Reporting.Format); f == "yaml" || f == "yml" {
		ext = "yaml"
	}

	filename := fmt.Sprintf("datasanitizer_report_%s_%s.%s",
		report.Timestamp.Format("20060102_150405"), report.RunID[:8], ext)
	path := filepath.Join(cfg.Reporting.LocalPath, filename)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("ошибка записи отчёта: %w", err)
	}

	return path, nil
}

// configToMap преобразует Config в map для сериализации
func configToMap(cfg *config.Config) map[string]interface{} {
	return map[string]interface{}{
		"security": map[string]interface{}{
			"require_confirmation": cfg.Security.RequireConfirmation,
			"protected_paths":      cfg.Security.ProtectedPaths,
		},
		"shred": map[string]interface{}{
			"default_method": cfg.Shred.DefaultMethod,
			"chunk_size":     cfg.Shred.ChunkSize,
			"max_speed_mbps": cfg.Shred.MaxSpeedMBps,
			"verify":         cfg.Shred.Verify,
			"name_length":    cfg.Shred.NameLength,
			"max_concurrent": cfg.Shred.MaxConcurrent,
		},
		"free_space": map[string]interface{}{
			"chunk_size":   cfg.FreeSpace.ChunkSize,
			"max_bytes":    cfg.FreeSpace.MaxBytes,
			"max_duration": cfg.FreeSpace.MaxDuration,
		},
		"logging": map[string]interface{}{
			"level": cfg.Logging.Level,
			"file":  cfg.Logging.File,
		},
		"reporting": map[string]interface{}{
			"enabled":    cfg.Reporting.Enabled,
			"local_path": cfg.Reporting.LocalPath,
			"format":     cfg.Reporting.Format,
		},
	}
}
