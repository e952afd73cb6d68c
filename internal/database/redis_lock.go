package database

import (
	"context"
	"fmt"
	"time"

	"meditation-server/internal/interfaces"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// unlockScript удаляет ключ только если им владеет тот же токен.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// Compile-time check
var _ interfaces.Locker = (*redisLocker)(nil)

type redisLocker struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewRedisLocker создает блокировку поверх SET NX с TTL.
func NewRedisLocker(client redis.UniversalClient, logger *zap.Logger) interfaces.Locker {
	return &redisLocker{
		client: client,
		logger: logger.Named("RedisLocker"),
	}
}

func (l *redisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		l.logger.Error("Failed to acquire lock", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		l.logger.Debug("Lock is held by another owner", zap.String("key", key))
		return "", false, nil
	}
	return token, true, nil
}

func (l *redisLocker) Unlock(ctx context.Context, key, token string) error {
	if token == "" {
		return nil
	}
	if err := unlockScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.logger.Warn("Failed to release lock", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}

// FulfillmentLockKey - ключ блокировки выполнения для одной заявки.
func FulfillmentLockKey(meditationID string) string {
	return "fulfillment:lock:" + meditationID
}
