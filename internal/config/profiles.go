package config

import (
	"fmt"
)

// Profiles имена профилей в порядке вывода
var Profiles = []string{"quick", "standard", "thorough", "paranoid"}

// ApplyProfile применяет профиль к конфигурации
func ApplyProfile(cfg *Config, profile string) error {
	switch profile {
	case "quick":
		cfg.Shred.DefaultMethod = "zeros"
		cfg.Shred.ChunkSize = 4 * 1024 * 1024 // 4MB
		cfg.Shred.Verify = false
	case "standard":
		cfg.Shred.DefaultMethod = "dod3"
		cfg.Shred.ChunkSize = 1024 * 1024 // 1MB
		cfg.Shred.Verify = false
	case "thorough":
		cfg.Shred.DefaultMethod = "dod7"
		cfg.Shred.ChunkSize = 1024 * 1024
		cfg.Shred.Verify = true
	case "paranoid":
		cfg.Shred.DefaultMethod = "gutmann"
		cfg.Shred.ChunkSize = 1024 * 1024
		cfg.Shred.Verify = true
		cfg.Shred.MaxConcurrent = 1
	default:
		return fmt.Errorf("неизвестный профиль: %s", profile)
	}
	return nil
}
