package messaging

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RetryAttemptHeader - номер отложенного повтора сообщения.
const RetryAttemptHeader = "x-retry-attempt"

// RetryPublisher откладывает сообщение: кладет его в очередь ожидания с per-message TTL,
// по истечении которого брокер возвращает его в рабочую очередь.
type RetryPublisher struct {
	channel    AMQPPublisher
	retryQueue string
	mu         sync.Mutex
	logger     *zap.Logger
}

// NewRetryPublisher открывает отдельный канал и объявляет топологию.
func NewRetryPublisher(conn *amqp.Connection, topology Topology, logger *zap.Logger) (*RetryPublisher, *amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("retry publisher: failed to open channel: %w", err)
	}
	if err := topology.Declare(ch); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("retry publisher: %w", err)
	}
	return NewRetryPublisherWithChannel(ch, topology, logger), ch, nil
}

// NewRetryPublisherWithChannel создает паблишер поверх готового канала.
func NewRetryPublisherWithChannel(ch AMQPPublisher, topology Topology, logger *zap.Logger) *RetryPublisher {
	return &RetryPublisher{
		channel:    ch,
		retryQueue: topology.RetryQueue,
		logger:     logger.Named("RetryPublisher"),
	}
}

// Retry публикует копию d в очередь ожидания. Подтверждать d должен вызывающий.
func (p *RetryPublisher) Retry(ctx context.Context, d amqp.Delivery, attempt int, delay time.Duration) error {
	if p.channel == nil {
		return errors.New("rabbitmq channel is not initialized")
	}
	if delay < time.Millisecond {
		delay = time.Millisecond
	}

	headers := amqp.Table{}
	for k, v := range d.Headers {
		// Следы прошлых dead-letter переходов не переносим, иначе DLQ покажет чужую причину
		if k == "x-death" || strings.HasPrefix(k, "x-first-death-") || strings.HasPrefix(k, "x-last-death-") {
			continue
		}
		headers[k] = v
	}
	headers[RetryAttemptHeader] = int32(attempt)

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.channel.PublishWithContext(ctx, "", p.retryQueue, false, false, amqp.Publishing{
		Headers:      headers,
		ContentType:  d.ContentType,
		DeliveryMode: amqp.Persistent,
		Expiration:   strconv.FormatInt(delay.Milliseconds(), 10),
		Timestamp:    time.Now(),
		AppId:        d.AppId,
		Body:         d.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to retry queue %s: %w", p.retryQueue, err)
	}
	p.logger.Debug("Message parked for retry",
		zap.String("queue", p.retryQueue), zap.Int("attempt", attempt), zap.Duration("delay", delay))
	return nil
}

// RetryAttempt возвращает номер повтора из заголовков (0 для первой доставки).
func RetryAttempt(headers amqp.Table) int {
	switch v := headers[RetryAttemptHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	case int16:
		return int(v)
	case int8:
		return int(v)
	case uint8:
		return int(v)
	default:
		return 0
	}
}
