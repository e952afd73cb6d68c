package interfaces

import (
	"context"
	"time"

	"meditation-server/internal/models"
)

// FulfillmentTaskPublisher отправляет durable задачу выполнения в очередь.
//
//go:generate mockery --name FulfillmentTaskPublisher --output ../mocks --outpkg mocks --structname MockFulfillmentTaskPublisher --filename fulfillment_task_publisher_mock.go
type FulfillmentTaskPublisher interface {
	PublishFulfillmentTask(ctx context.Context, payload models.FulfillmentTaskPayload) error
}

// StatusEventPublisher рассылает события смены статуса (Redis pub/sub).
//
//go:generate mockery --name StatusEventPublisher --output ../mocks --outpkg mocks --structname MockStatusEventPublisher --filename status_event_publisher_mock.go
type StatusEventPublisher interface {
	PublishStatus(ctx context.Context, event models.StatusEvent) error
}

// StatusSubscriber подписывает на события одной заявки.
// Возвращаемая функция закрывает подписку.
type StatusSubscriber interface {
	SubscribeStatus(ctx context.Context, meditationID string) (<-chan models.StatusEvent, func(), error)
}

// Locker - распределенная блокировка (Redis SET NX).
//
//go:generate mockery --name Locker --output ../mocks --outpkg mocks --structname MockLocker --filename locker_mock.go
type Locker interface {
	// TryLock возвращает токен владельца и false, если блокировка уже занята.
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Unlock(ctx context.Context, key, token string) error
}
