package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"meditation-server/internal/interfaces"
	"meditation-server/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StatusChannel - канал pub/sub событий одной заявки.
func StatusChannel(meditationID string) string {
	return "meditation:status:" + meditationID
}

var (
	_ interfaces.StatusEventPublisher = (*RedisStatusBus)(nil)
	_ interfaces.StatusSubscriber     = (*RedisStatusBus)(nil)
)

// RedisStatusBus публикует и раздает события смены статуса через Redis pub/sub.
type RedisStatusBus struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewRedisStatusBus создает шину статусов.
func NewRedisStatusBus(client redis.UniversalClient, logger *zap.Logger) *RedisStatusBus {
	return &RedisStatusBus{
		client: client,
		logger: logger.Named("RedisStatusBus"),
	}
}

// PublishStatus отправляет событие в канал заявки.
func (b *RedisStatusBus) PublishStatus(ctx context.Context, event models.StatusEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}
	if err := b.client.Publish(ctx, StatusChannel(event.MeditationID), payload).Err(); err != nil {
		b.logger.Warn("Failed to publish status event",
			zap.String("meditationID", event.MeditationID), zap.String("status", string(event.Status)), zap.Error(err))
		return fmt.Errorf("failed to publish status event: %w", err)
	}
	return nil
}

// SubscribeStatus подписывается на канал заявки. Канал событий закрывается
// после вызова возвращенной функции или отмены ctx.
func (b *RedisStatusBus) SubscribeStatus(ctx context.Context, meditationID string) (<-chan models.StatusEvent, func(), error) {
	sub := b.client.Subscribe(ctx, StatusChannel(meditationID))
	// Дожидаемся подтверждения подписки, иначе ранние события потеряются
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to status channel: %w", err)
	}

	log := b.logger.With(zap.String("meditationID", meditationID))
	events := make(chan models.StatusEvent, 8)
	done := make(chan struct{})

	go func() {
		defer close(events)
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event models.StatusEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Warn("Skipping malformed status event", zap.Error(err))
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			if err := sub.Close(); err != nil {
				log.Debug("Failed to close status subscription", zap.Error(err))
			}
		})
	}
	return events, unsubscribe, nil
}
