package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"meditation-server/internal/messaging"
	"meditation-server/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const defaultLockRetryDelay = time.Minute

// TaskHandler обрабатывает разобранную задачу выполнения.
type TaskHandler interface {
	Handle(ctx context.Context, task models.FulfillmentTaskPayload) error
}

// DelayedRetrier откладывает сообщение на delay (реализуется messaging.RetryPublisher).
type DelayedRetrier interface {
	Retry(ctx context.Context, d amqp.Delivery, attempt int, delay time.Duration) error
}

// RetryPolicy - отложенные повторы задачи, чей лок занят.
type RetryPolicy struct {
	Delay       time.Duration
	MaxAttempts int
}

// NewLockRetryPolicy подбирает число повторов так, чтобы задача пережила TTL лока
// упавшего воркера и дошла до ветки прерванного выполнения.
func NewLockRetryPolicy(lockTTL, delay time.Duration) RetryPolicy {
	if delay <= 0 {
		delay = defaultLockRetryDelay
	}
	return RetryPolicy{Delay: delay, MaxAttempts: int(lockTTL/delay) + 2}
}

var _ messaging.MessageProcessor = (*FulfillmentProcessor)(nil)

// FulfillmentProcessor разбирает сообщения рабочей очереди.
// Сбой инфраструктуры отправляет сообщение в DLQ, занятый лок откладывает его.
type FulfillmentProcessor struct {
	handler TaskHandler
	retrier DelayedRetrier
	policy  RetryPolicy
	logger  *zap.Logger
}

// NewFulfillmentProcessor создает процессор рабочей очереди.
func NewFulfillmentProcessor(handler TaskHandler, retrier DelayedRetrier, policy RetryPolicy, logger *zap.Logger) *FulfillmentProcessor {
	return &FulfillmentProcessor{
		handler: handler,
		retrier: retrier,
		policy:  policy,
		logger:  logger.Named("FulfillmentProcessor"),
	}
}

func (p *FulfillmentProcessor) ProcessMessage(ctx context.Context, d amqp.Delivery) {
	var task models.FulfillmentTaskPayload
	if err := json.Unmarshal(d.Body, &task); err != nil {
		p.logger.Error("Failed to decode fulfillment task, sending to DLQ",
			zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(err))
		p.nack(d)
		return
	}

	err := p.handler.Handle(ctx, task)
	switch {
	case err == nil:
	case errors.Is(err, ErrLockBusy):
		p.deferTask(ctx, d, task)
		return
	default:
		p.logger.Error("Fulfillment task failed, sending to DLQ",
			zap.String("taskID", task.TaskID), zap.String("meditationID", task.MeditationID), zap.Error(err))
		p.nack(d)
		return
	}

	p.ack(d, task)
}

// deferTask возвращает задачу в очередь через policy.Delay. Если повторы исчерпаны
// или отложить не удалось, сообщение уходит в DLQ, и заявку закрывает DLQ-консьюмер.
func (p *FulfillmentProcessor) deferTask(ctx context.Context, d amqp.Delivery, task models.FulfillmentTaskPayload) {
	log := p.logger.With(zap.String("taskID", task.TaskID), zap.String("meditationID", task.MeditationID))
	attempt := messaging.RetryAttempt(d.Headers) + 1

	if p.retrier == nil || attempt > p.policy.MaxAttempts {
		log.Error("Fulfillment lock was not released in time, sending to DLQ", zap.Int("attempt", attempt))
		p.nack(d)
		return
	}
	if err := p.retrier.Retry(ctx, d, attempt, p.policy.Delay); err != nil {
		log.Error("Failed to defer locked task, sending to DLQ", zap.Error(err))
		p.nack(d)
		return
	}
	tasksDeferred.Inc()
	log.Info("Locked task deferred", zap.Int("attempt", attempt), zap.Duration("delay", p.policy.Delay))
	p.ack(d, task)
}

func (p *FulfillmentProcessor) ack(d amqp.Delivery, task models.FulfillmentTaskPayload) {
	if err := d.Ack(false); err != nil {
		p.logger.Error("Failed to ack fulfillment task", zap.String("taskID", task.TaskID), zap.Error(err))
	}
}

func (p *FulfillmentProcessor) nack(d amqp.Delivery) {
	if err := d.Nack(false, false); err != nil {
		p.logger.Error("Failed to nack message", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(err))
	}
}
