package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// knownMethods дублирует каталог wipe, чтобы config не зависел от движка
var knownMethods = map[string]bool{
	"zeros":   true,
	"ones":    true,
	"random":  true,
	"dod3":    true,
	"dod7":    true,
	"gutmann": true,
}

// Config конфигурация утилиты
type Config struct {
	Security struct {
		RequireConfirmation bool     `yaml:"require_confirmation"`
		ProtectedPaths      []string `yaml:"protected_paths"`
	} `yaml:"security"`

	Shred struct {
		DefaultMethod string  `yaml:"default_method"`
		ChunkSize     int64   `yaml:"chunk_size"`
		MaxSpeedMBps  float64 `yaml:"max_speed_mbps"`
		Verify        bool    `yaml:"verify"`
		NameLength    int     `yaml:"name_length"`
		MaxConcurrent int     `yaml:"max_concurrent"`
	} `yaml:"shred"`

	FreeSpace struct {
		ChunkSize   int64  `yaml:"chunk_size"`
		MaxBytes    int64  `yaml:"max_bytes"`
		MaxDuration string `yaml:"max_duration"`
	} `yaml:"free_space"`

	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`

	Reporting struct {
		Enabled   bool   `yaml:"enabled"`
		LocalPath string `yaml:"local_path"`
		Format    string `yaml:"format"`
	} `yaml:"reporting"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	cfg := &Config{}

	cfg.Security.RequireConfirmation = true
	cfg.Security.ProtectedPaths = []string{}

	cfg.Shred.DefaultMethod = "dod3"
	cfg.Shred.ChunkSize = 1024 * 1024 // 1MB
	cfg.Shred.MaxSpeedMBps = 0        // без ограничения
	cfg.Shred.Verify = false
	cfg.Shred.NameLength = 16
	cfg.Shred.MaxConcurrent = 1

	cfg.FreeSpace.ChunkSize = 10 * 1024 * 1024 // 10MB
	cfg.FreeSpace.MaxBytes = 0
	cfg.FreeSpace.MaxDuration = ""

	cfg.Logging.Level = "INFO"
	cfg.Logging.File = ""

	cfg.Reporting.Enabled = false
	cfg.Reporting.LocalPath = "./reports"
	cfg.Reporting.Format = "json"

	return cfg
}

// Load загружает конфигурацию из файла; поля, не указанные в файле, берутся из Default
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию на валидность
func Validate(config *Config) error {
	if !knownMethods[config.Shred.DefaultMethod] {
		return fmt.Errorf("invalid default method: %s", config.Shred.DefaultMethod)
	}

	if config.Shred.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", config.Shred.ChunkSize)
	}
	if config.Shred.ChunkSize > 100*1024*1024 { // 100MB max
		return fmt.Errorf("chunk size too large (max 100MB), got %d", config.Shred.ChunkSize)
	}

	if config.Shred.MaxSpeedMBps < 0 {
		return fmt.Errorf("max speed cannot be negative, got %f", config.Shred.MaxSpeedMBps)
	}

	if config.Shred.NameLength < 8 || config.Shred.NameLength > 64 {
		return fmt.Errorf("name length must be between 8 and 64, got %d", config.Shred.NameLength)
	}

	if config.Shred.MaxConcurrent <= 0 || config.Shred.MaxConcurrent > 16 {
		return fmt.Errorf("max concurrent must be between 1 and 16, got %d", config.Shred.MaxConcurrent)
	}

	if config.FreeSpace.ChunkSize <= 0 || config.FreeSpace.ChunkSize > 100*1024*1024 {
		return fmt.Errorf("free space chunk size must be between 1 and 100MB, got %d", config.FreeSpace.ChunkSize)
	}
	if config.FreeSpace.MaxBytes < 0 {
		return fmt.Errorf("free space max bytes cannot be negative, got %d", config.FreeSpace.MaxBytes)
	}
	if config.FreeSpace.MaxDuration != "" {
		if _, err := time.ParseDuration(config.FreeSpace.MaxDuration); err != nil {
			return fmt.Errorf("invalid max duration format: %s", config.FreeSpace.MaxDuration)
		}
	}

	validLevels := map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
	}
	if !validLevels[strings.ToUpper(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	switch config.Reporting.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid report format: %s", config.Reporting.Format)
	}

	for _, path := range config.Security.ProtectedPaths {
		cleaned := filepath.Clean(path)
		if path == "" || cleaned == "." {
			return fmt.Errorf("invalid protected path: %q", path)
		}
	}

	return nil
}

// Save сохраняет конфигурацию в файл
func Save(config *Config, path string) error {
	if err := Validate(config); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetMaxDuration возвращает лимит времени затирания свободного места (0 = без лимита)
func (config *Config) GetMaxDuration() time.Duration {
	if config.FreeSpace.MaxDuration == "" {
		return 0
	}

	duration, err := time.ParseDuration(config.FreeSpace.MaxDuration)
	if err != nil {
		return 0
	}

	return duration
}
