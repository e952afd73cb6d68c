package storage

import (
	"context"
	"fmt"
	"strings"

	"meditation-server/internal/config"

	"go.uber.org/zap"
)

// ObjectStore сохраняет аудиофайлы и возвращает их публичный URL.
//
//go:generate mockery --name ObjectStore --output ../../mocks --outpkg mocks --structname MockObjectStore --filename object_store_mock.go
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// NewObjectStore выбирает хранилище по STORAGE_TYPE.
func NewObjectStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ObjectStore, error) {
	switch strings.ToLower(cfg.StorageType) {
	case "firebase":
		return NewFirebaseStore(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket, logger)
	case "local":
		return NewLocalStore(cfg.LocalStoragePath, cfg.PublicBaseURL, logger)
	default:
		return nil, fmt.Errorf("unknown storage type: '%s'", cfg.StorageType)
	}
}

// MeditationKey - ключ объекта для файла заявки, например "<id>/voice.mp3".
func MeditationKey(meditationID, fileName string) string {
	return meditationID + "/" + fileName
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid object key '%s'", key)
	}
	return nil
}
