package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meditation-server/internal/interfaces"
	"meditation-server/internal/messaging"
	"meditation-server/internal/models"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var _ messaging.MessageProcessor = (*DeadLetterProcessor)(nil)

// DeadLetterProcessor разбирает DLQ: заявка, застрявшая в пайплайне, переводится в failed.
// Сообщения из DLQ всегда подтверждаются.
type DeadLetterProcessor struct {
	repo   interfaces.MeditationRepository
	events interfaces.StatusEventPublisher
	logger *zap.Logger
}

// NewDeadLetterProcessor создает процессор DLQ. events может быть nil.
func NewDeadLetterProcessor(repo interfaces.MeditationRepository, events interfaces.StatusEventPublisher, logger *zap.Logger) *DeadLetterProcessor {
	return &DeadLetterProcessor{
		repo:   repo,
		events: events,
		logger: logger.Named("DeadLetterProcessor"),
	}
}

func (p *DeadLetterProcessor) ProcessMessage(ctx context.Context, d amqp.Delivery) {
	deadLettered.Inc()
	defer func() {
		if err := d.Ack(false); err != nil {
			p.logger.Error("Failed to ack dead-lettered message", zap.Error(err))
		}
	}()

	var task models.FulfillmentTaskPayload
	if err := json.Unmarshal(d.Body, &task); err != nil {
		p.logger.Error("Dropping undecodable dead-lettered message", zap.ByteString("body", d.Body), zap.Error(err))
		return
	}
	id, err := uuid.Parse(task.MeditationID)
	if err != nil {
		p.logger.Error("Dropping dead-lettered task with invalid meditation id", zap.String("meditationID", task.MeditationID))
		return
	}

	reason := fmt.Sprintf("%s: task dead-lettered (%s)", models.ErrPipelineFailed, DeathReason(d.Headers))
	log := p.logger.With(zap.String("taskID", task.TaskID), zap.String("meditationID", task.MeditationID))

	if err := p.repo.MarkFailed(ctx, id, reason); err != nil {
		if errors.Is(err, models.ErrInvalidState) || errors.Is(err, models.ErrNotFound) {
			log.Info("Dead-lettered task needs no status change", zap.Error(err))
			return
		}
		log.Error("Failed to mark dead-lettered meditation failed", zap.Error(err))
		return
	}
	log.Warn("Meditation marked failed from DLQ", zap.String("reason", reason))

	if p.events != nil {
		event := models.StatusEvent{
			MeditationID: id.String(),
			Status:       models.StatusFailed,
			Error:        reason,
			At:           time.Now().UTC(),
		}
		if err := p.events.PublishStatus(ctx, event); err != nil {
			log.Warn("Failed to publish status event", zap.Error(err))
		}
	}
}

// DeathReason достает причину dead-letter из заголовков RabbitMQ.
func DeathReason(headers amqp.Table) string {
	if reason, ok := headers["x-first-death-reason"].(string); ok && reason != "" {
		return reason
	}
	if deaths, ok := headers["x-death"].([]interface{}); ok && len(deaths) > 0 {
		if death, ok := deaths[0].(amqp.Table); ok {
			if reason, ok := death["reason"].(string); ok && reason != "" {
				return reason
			}
		}
	}
	return "unknown"
}
