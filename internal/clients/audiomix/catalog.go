package audiomix

import (
	"fmt"
	"path/filepath"

	"meditation-server/internal/models"

	"github.com/ilyakaznacheev/cleanenv"
)

// Track - файл фоновой дорожки и громкость фона.
type Track struct {
	File string  `yaml:"file"`
	Gain float64 `yaml:"gain"`
}

// Catalog - YAML-каталог фоновых дорожек. Каталог файлов можно переопределить через TRACKS_DIR.
type Catalog struct {
	Dir    string           `yaml:"dir" env:"TRACKS_DIR" env-default:"/data/tracks"`
	Tracks map[string]Track `yaml:"tracks"`
}

// LoadCatalog читает каталог и проверяет, что для каждого фона есть файл.
func LoadCatalog(path string) (*Catalog, error) {
	var catalog Catalog
	if err := cleanenv.ReadConfig(path, &catalog); err != nil {
		return nil, fmt.Errorf("failed to read track catalog '%s': %w", path, err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Validate требует запись для каждого значения models.Background с положительной громкостью.
func (c *Catalog) Validate() error {
	for _, bg := range models.AllBackgrounds() {
		track, ok := c.Tracks[string(bg)]
		if !ok || track.File == "" {
			return fmt.Errorf("track catalog has no file for background '%s'", bg)
		}
		if track.Gain <= 0 || track.Gain > 1 {
			return fmt.Errorf("track catalog gain for '%s' must be in (0, 1], got %v", bg, track.Gain)
		}
	}
	return nil
}

// Lookup возвращает абсолютный путь к дорожке и ее громкость.
func (c *Catalog) Lookup(bg models.Background) (string, float64, error) {
	track, ok := c.Tracks[string(bg)]
	if !ok {
		return "", 0, fmt.Errorf("%w: unknown background '%s'", models.ErrInvalidRequest, bg)
	}
	if filepath.IsAbs(track.File) {
		return track.File, track.Gain, nil
	}
	return filepath.Join(c.Dir, track.File), track.Gain, nil
}
