package media

import (
	"fmt"

	"closet-go/internal/closet"
	"closet-go/internal/config"
)

// NewStoreFromConfig creates a MediaStore implementation based on the config type.
func NewStoreFromConfig(cfg config.MediaConfig) (closet.MediaStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem", "":
		if cfg.MediaDir == "" {
			return nil, fmt.Errorf("filesystem media store requires media_dir to be set")
		}
		return NewFileSystemStore(cfg.MediaDir)
	default:
		return nil, fmt.Errorf("unknown media store type: %s", cfg.Type)
	}
}
