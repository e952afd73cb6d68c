package service

import (
	"context"
	"time"

	"meditation-server/internal/interfaces"
	"meditation-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// publishStatus рассылает событие смены статуса. Ошибка публикации не влияет на операцию.
func publishStatus(ctx context.Context, events interfaces.StatusEventPublisher, logger *zap.Logger,
	id uuid.UUID, status models.Status, errText, finalURL string) {
	if events == nil {
		return
	}
	event := models.StatusEvent{
		MeditationID:  id.String(),
		Status:        status,
		Error:         errText,
		FinalAudioURL: finalURL,
		At:            time.Now().UTC(),
	}
	if err := events.PublishStatus(ctx, event); err != nil {
		logger.Warn("Failed to publish status event",
			zap.String("meditationID", id.String()), zap.String("status", string(status)), zap.Error(err))
	}
}
