package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meditation-server/internal/interfaces"
	"meditation-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FulfillmentService запускает асинхронное выполнение оплаченной заявки.
//
//go:generate mockery --name FulfillmentService --output ../mocks --outpkg mocks --structname MockFulfillmentService --filename fulfillment_service_mock.go
type FulfillmentService interface {
	StartFulfillment(ctx context.Context, userID, id uuid.UUID) (*models.MeditationRequest, error)
}

type fulfillmentServiceImpl struct {
	repo      interfaces.MeditationRepository
	publisher interfaces.FulfillmentTaskPublisher
	events    interfaces.StatusEventPublisher
	logger    *zap.Logger
}

// NewFulfillmentService создает сервис запуска выполнения. events может быть nil.
func NewFulfillmentService(
	repo interfaces.MeditationRepository,
	publisher interfaces.FulfillmentTaskPublisher,
	events interfaces.StatusEventPublisher,
	logger *zap.Logger,
) FulfillmentService {
	return &fulfillmentServiceImpl{
		repo:      repo,
		publisher: publisher,
		events:    events,
		logger:    logger.Named("FulfillmentService"),
	}
}

func (s *fulfillmentServiceImpl) StartFulfillment(ctx context.Context, userID, id uuid.UUID) (*models.MeditationRequest, error) {
	log := s.logger.With(zap.String("meditationID", id.String()), zap.String("userID", userID.String()))

	m, err := s.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if m.Status != models.StatusScriptReady {
		return nil, fmt.Errorf("%w: fulfillment can start only in status %s, current %s",
			models.ErrInvalidState, models.StatusScriptReady, m.Status)
	}
	if m.PaymentState != models.PaymentStateCompleted {
		return nil, models.ErrPaymentRequired
	}
	if strings.TrimSpace(m.FinalScript) == "" {
		return nil, fmt.Errorf("%w: final script is empty", models.ErrInvalidState)
	}

	// Единственный победитель гонки переводит заявку в processing
	started, err := s.repo.StartProcessing(ctx, id)
	if err != nil {
		return nil, err
	}
	publishStatus(ctx, s.events, log, id, models.StatusProcessing, "", "")

	payload := models.FulfillmentTaskPayload{
		TaskID:       uuid.NewString(),
		MeditationID: id.String(),
		UserID:       userID.String(),
		RequestedAt:  time.Now().UTC(),
	}
	if err := s.publisher.PublishFulfillmentTask(ctx, payload); err != nil {
		log.Error("Failed to publish fulfillment task, marking meditation failed", zap.Error(err))
		reason := fmt.Sprintf("%s: failed to queue fulfillment task: %v", models.ErrPipelineFailed, err)
		// Контекст запроса может быть уже отменен, а заявку нельзя оставить в processing
		failCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if markErr := s.repo.MarkFailed(failCtx, id, reason); markErr != nil {
			log.Error("Failed to mark meditation failed after publish error", zap.Error(markErr))
		} else {
			publishStatus(failCtx, s.events, log, id, models.StatusFailed, reason, "")
		}
		return nil, fmt.Errorf("queue fulfillment task: %w", err)
	}

	log.Info("Fulfillment task queued", zap.String("taskID", payload.TaskID))
	return started, nil
}
