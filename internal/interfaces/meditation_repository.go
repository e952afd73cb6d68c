package interfaces

import (
	"context"
	"time"

	"meditation-server/internal/models"

	"github.com/google/uuid"
)

// MeditationRepository - хранилище заявок на медитацию.
// Все переходы статуса выполняются как compare-and-swap по текущему статусу;
// если строка не обновилась, возвращается models.ErrInvalidState.
//
//go:generate mockery --name MeditationRepository --output ../mocks --outpkg mocks --structname MockMeditationRepository --filename meditation_repository_mock.go
type MeditationRepository interface {
	Create(ctx context.Context, m *models.MeditationRequest) error
	// GetByID возвращает models.ErrNotFound, если записи нет.
	GetByID(ctx context.Context, id uuid.UUID) (*models.MeditationRequest, error)
	// GetByIDForUser возвращает models.ErrNotFound и для отсутствующей, и для чужой записи.
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.MeditationRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]*models.MeditationRequest, string, error)
	// List - для админки; status == nil означает все статусы.
	List(ctx context.Context, status *models.Status, cursor string, limit int) ([]*models.MeditationRequest, string, error)

	// SetScriptReady: created -> script_ready, сохраняет исходный и финальный текст.
	SetScriptReady(ctx context.Context, id uuid.UUID, script string) error
	// UpdateScript меняет edited/final текст, только в статусе script_ready.
	UpdateScript(ctx context.Context, id uuid.UUID, text string) error
	// StartProcessing: script_ready -> processing при payment_state = completed.
	StartProcessing(ctx context.Context, id uuid.UUID) (*models.MeditationRequest, error)
	SetVoiceReady(ctx context.Context, id uuid.UUID, voiceURL string) error
	SetMixed(ctx context.Context, id uuid.UUID, mixedRef string, durationSec float64, sizeBytes int64) error
	SetCompleted(ctx context.Context, id uuid.UUID, finalURL string) error
	// MarkFailed переводит в failed из processing, voice_ready или mixed.
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	// RecordDelivery выставляет флаг и время успешной доставки по каналу.
	RecordDelivery(ctx context.Context, id uuid.UUID, channel models.DeliveryChannel, at time.Time) error
}
