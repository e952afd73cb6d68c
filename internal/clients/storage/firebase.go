package storage

import (
	"context"
	"errors"
	"fmt"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const publicObjectURL = "https://storage.googleapis.com/%s/%s"

type firebaseStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
	logger     *zap.Logger
}

// NewFirebaseStore подключается к бакету Firebase Storage по ключу сервис-аккаунта.
func NewFirebaseStore(ctx context.Context, credentialsPath, bucketName string, logger *zap.Logger) (ObjectStore, error) {
	if credentialsPath == "" {
		return nil, errors.New("firebase credentials path (FIREBASE_CREDENTIALS_PATH) is not configured")
	}
	if bucketName == "" {
		return nil, errors.New("storage bucket (STORAGE_BUCKET) is not configured")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("init firebase app from '%s': %w", credentialsPath, err)
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firebase storage client: %w", err)
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("get bucket '%s': %w", bucketName, err)
	}

	logger.Info("Firebase storage initialized", zap.String("bucket", bucketName))
	return &firebaseStore{
		bucket:     bucket,
		bucketName: bucketName,
		logger:     logger.Named("FirebaseStore"),
	}, nil
}

func (s *firebaseStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s: %w", key, err)
	}

	publicURL := fmt.Sprintf(publicObjectURL, s.bucketName, key)
	s.logger.Info("Object uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return publicURL, nil
}
