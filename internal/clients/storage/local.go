package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// localStore пишет файлы в каталог, который API раздает по /audio.
type localStore struct {
	rootPath   string
	publicBase string
	logger     *zap.Logger
}

// NewLocalStore создает файловое хранилище.
func NewLocalStore(rootPath, publicBaseURL string, logger *zap.Logger) (ObjectStore, error) {
	if rootPath == "" {
		return nil, errors.New("local storage path (LOCAL_STORAGE_PATH) is not configured")
	}
	if publicBaseURL == "" {
		return nil, errors.New("public base URL (PUBLIC_BASE_URL) is not configured")
	}
	return &localStore{
		rootPath:   rootPath,
		publicBase: strings.TrimSuffix(publicBaseURL, "/"),
		logger:     logger.Named("LocalStore"),
	}, nil
}

func (s *localStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	filePath := filepath.Join(s.rootPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		s.logger.Error("Failed to save file", zap.String("path", filePath), zap.Error(err))
		return "", fmt.Errorf("save %s: %w", key, err)
	}

	publicURL := s.publicBase + "/" + key
	s.logger.Info("File saved",
		zap.String("path", filePath), zap.String("contentType", contentType), zap.Int("bytes", len(data)))
	return publicURL, nil
}
