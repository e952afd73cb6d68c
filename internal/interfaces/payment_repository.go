package interfaces

import (
	"context"
	"time"

	"meditation-server/internal/models"

	"github.com/google/uuid"
)

// PaymentRepository - записи о платежах и снимок оплаты на заявке.
//
//go:generate mockery --name PaymentRepository --output ../mocks --outpkg mocks --structname MockPaymentRepository --filename payment_repository_mock.go
type PaymentRepository interface {
	// CreatePending сохраняет pending-платеж и снимок оплаты на заявке в одной транзакции.
	// Заявка должна быть в script_ready и еще не оплачена.
	CreatePending(ctx context.Context, p *models.Payment) error
	GetByProviderRef(ctx context.Context, providerRef string) (*models.Payment, error)
	ListByMeditation(ctx context.Context, meditationID uuid.UUID) ([]*models.Payment, error)
	// Complete атомарно переводит платеж и заявку в completed.
	// Если заявка уже оплачена, возвращает models.ErrAlreadyPaid.
	Complete(ctx context.Context, meditationID uuid.UUID, providerRef string, at time.Time) error
	// MarkFailed отмечает отказ провайдера по pending-платежу. Заявку можно оплатить заново.
	MarkFailed(ctx context.Context, meditationID uuid.UUID, providerRef string) error
	// MarkRefunded помечает оплату упавшей заявки как возвращенную.
	MarkRefunded(ctx context.Context, meditationID uuid.UUID) error
}
