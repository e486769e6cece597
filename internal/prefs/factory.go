package prefs

import (
	"fmt"
	"os"
	"path/filepath"

	"closet-go/internal/closet"
	"closet-go/internal/config"
)

// NewPrefsFromConfig creates a Prefs implementation based on the config type.
func NewPrefsFromConfig(cfg config.PrefsConfig) (closet.Prefs, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryPrefs(), nil
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("sqlite prefs requires data_dir to be set")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLitePrefs(filepath.Join(cfg.DataDir, "closet.db"))
	default:
		return nil, fmt.Errorf("unknown prefs type: %s", cfg.Type)
	}
}
