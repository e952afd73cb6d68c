package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"meditation-server/internal/interfaces"
	"meditation-server/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	publishAttempts = 3
	publishTimeout  = 10 * time.Second
)

// AMQPPublisher - часть *amqp.Channel, нужная паблишеру.
type AMQPPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Compile-time check
var _ interfaces.FulfillmentTaskPublisher = (*FulfillmentPublisher)(nil)

// FulfillmentPublisher отправляет задачи выполнения в durable очередь.
type FulfillmentPublisher struct {
	channel   AMQPPublisher
	queueName string
	appID     string
	mu        sync.Mutex // amqp.Channel не потокобезопасен для публикации
	logger    *zap.Logger
}

// NewFulfillmentPublisher открывает канал, объявляет топологию и возвращает паблишер.
func NewFulfillmentPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (*FulfillmentPublisher, *amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("fulfillment publisher: failed to open channel: %w", err)
	}
	if err := NewTopology(queueName).Declare(ch); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("fulfillment publisher: %w", err)
	}
	return NewFulfillmentPublisherWithChannel(ch, queueName, logger), ch, nil
}

// NewFulfillmentPublisherWithChannel создает паблишер поверх готового канала.
func NewFulfillmentPublisherWithChannel(ch AMQPPublisher, queueName string, logger *zap.Logger) *FulfillmentPublisher {
	return &FulfillmentPublisher{
		channel:   ch,
		queueName: queueName,
		appID:     "meditation-api",
		logger:    logger.Named("FulfillmentPublisher"),
	}
}

// PublishFulfillmentTask сериализует и публикует задачу.
func (p *FulfillmentPublisher) PublishFulfillmentTask(ctx context.Context, payload models.FulfillmentTaskPayload) error {
	log := p.logger.With(zap.String("taskID", payload.TaskID), zap.String("meditationID", payload.MeditationID))

	body, err := json.Marshal(payload)
	if err != nil {
		log.Error("Failed to marshal fulfillment task", zap.Error(err))
		return fmt.Errorf("failed to marshal fulfillment task %s: %w", payload.TaskID, err)
	}
	if err := p.publishMessage(ctx, body); err != nil {
		log.Error("Failed to publish fulfillment task", zap.Error(err))
		return fmt.Errorf("failed to publish fulfillment task %s: %w", payload.TaskID, err)
	}
	log.Info("Fulfillment task published")
	return nil
}

func (p *FulfillmentPublisher) publishMessage(ctx context.Context, body []byte) error {
	if p.channel == nil {
		return errors.New("rabbitmq channel is not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // default exchange
			p.queueName, // routing key = имя очереди
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
				Timestamp:    time.Now(),
				AppId:        p.appID,
			},
		)
		if err == nil {
			return nil
		}
		p.logger.Warn("Publish attempt failed",
			zap.Int("attempt", attempt), zap.String("queue", p.queueName), zap.Error(err))
		if ctx.Err() != nil {
			break
		}
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	return fmt.Errorf("failed to publish to queue %s after retries: %w", p.queueName, err)
}
