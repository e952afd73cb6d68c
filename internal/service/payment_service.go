package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meditation-server/internal/clients/payment"
	"meditation-server/internal/interfaces"
	"meditation-server/internal/models"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var paymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "meditation_payments_total",
		Help: "Payment operations partitioned by provider, operation and outcome.",
	},
	[]string{"provider", "operation", "outcome"},
)

// ProviderRegistry находит платежного провайдера по имени.
type ProviderRegistry interface {
	Get(name models.PaymentProvider) (payment.Provider, error)
}

// PaymentService - платежный шлюз перед выполнением заявки.
//
//go:generate mockery --name PaymentService --output ../mocks --outpkg mocks --structname MockPaymentService --filename payment_service_mock.go
type PaymentService interface {
	CreatePayment(ctx context.Context, userID, id uuid.UUID, provider models.PaymentProvider) (models.Charge, error)
	ConfirmPayment(ctx context.Context, userID, id uuid.UUID, providerRef string) (*models.MeditationRequest, error)
	// MarkRefunded - админская отметка о возврате оплаты упавшей заявки.
	MarkRefunded(ctx context.Context, id uuid.UUID) (*models.MeditationRequest, error)
}

type paymentServiceImpl struct {
	meditations interfaces.MeditationRepository
	payments    interfaces.PaymentRepository
	providers   ProviderRegistry
	logger      *zap.Logger
}

// NewPaymentService создает платежный сервис.
func NewPaymentService(
	meditations interfaces.MeditationRepository,
	payments interfaces.PaymentRepository,
	providers ProviderRegistry,
	logger *zap.Logger,
) PaymentService {
	return &paymentServiceImpl{
		meditations: meditations,
		payments:    payments,
		providers:   providers,
		logger:      logger.Named("PaymentService"),
	}
}

func (s *paymentServiceImpl) CreatePayment(ctx context.Context, userID, id uuid.UUID, providerName models.PaymentProvider) (models.Charge, error) {
	log := s.logger.With(zap.String("meditationID", id.String()), zap.String("provider", string(providerName)))

	if !providerName.IsValid() {
		return models.Charge{}, fmt.Errorf("%w: '%s'", models.ErrUnknownProvider, providerName)
	}
	m, err := s.meditations.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return models.Charge{}, err
	}
	if m.PaymentState == models.PaymentStateCompleted {
		return models.Charge{}, models.ErrAlreadyPaid
	}
	if m.Status != models.StatusScriptReady {
		return models.Charge{}, fmt.Errorf("%w: payment is possible only in status %s, current %s",
			models.ErrInvalidState, models.StatusScriptReady, m.Status)
	}

	provider, err := s.providers.Get(providerName)
	if err != nil {
		return models.Charge{}, err
	}

	charge, err := provider.Create(ctx, id.String(), m.AmountCents, m.Currency)
	if err != nil {
		paymentsTotal.WithLabelValues(string(providerName), "create", "error").Inc()
		log.Error("Provider failed to create charge", zap.Error(err))
		return models.Charge{}, fmt.Errorf("create %s charge: %w", providerName, err)
	}

	record := &models.Payment{
		ID:           uuid.New(),
		MeditationID: id,
		UserID:       userID,
		Provider:     providerName,
		ProviderRef:  charge.ProviderRef,
		AmountCents:  m.AmountCents,
		Currency:     m.Currency,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.payments.CreatePending(ctx, record); err != nil {
		paymentsTotal.WithLabelValues(string(providerName), "create", "error").Inc()
		return models.Charge{}, err
	}

	paymentsTotal.WithLabelValues(string(providerName), "create", "success").Inc()
	log.Info("Payment created", zap.String("providerRef", charge.ProviderRef))
	return charge, nil
}

func (s *paymentServiceImpl) ConfirmPayment(ctx context.Context, userID, id uuid.UUID, providerRef string) (*models.MeditationRequest, error) {
	log := s.logger.With(zap.String("meditationID", id.String()), zap.String("providerRef", providerRef))

	if providerRef == "" {
		return nil, fmt.Errorf("%w: provider reference is required", models.ErrInvalidRequest)
	}
	m, err := s.meditations.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if m.PaymentState == models.PaymentStateCompleted {
		log.Info("Payment already confirmed, provider not called")
		return nil, models.ErrAlreadyPaid
	}

	record, err := s.payments.GetByProviderRef(ctx, providerRef)
	if err != nil {
		return nil, err
	}
	if record.MeditationID != id {
		// Чужая ссылка провайдера выглядит так же, как отсутствующая
		return nil, models.ErrNotFound
	}

	provider, err := s.providers.Get(record.Provider)
	if err != nil {
		return nil, err
	}

	ok, err := provider.Confirm(ctx, providerRef)
	if errors.Is(err, models.ErrPaymentDeclined) {
		paymentsTotal.WithLabelValues(string(record.Provider), "confirm", "declined").Inc()
		log.Warn("Provider declined payment", zap.Error(err))
		if markErr := s.payments.MarkFailed(ctx, id, providerRef); markErr != nil {
			return nil, markErr
		}
		return nil, err
	}
	if err != nil {
		paymentsTotal.WithLabelValues(string(record.Provider), "confirm", "error").Inc()
		log.Error("Provider failed to confirm payment", zap.Error(err))
		return nil, fmt.Errorf("confirm %s payment: %w", record.Provider, err)
	}
	if !ok {
		paymentsTotal.WithLabelValues(string(record.Provider), "confirm", "not_completed").Inc()
		return nil, models.ErrPaymentNotCompleted
	}

	if err := s.payments.Complete(ctx, id, providerRef, time.Now().UTC()); err != nil {
		if errors.Is(err, models.ErrAlreadyPaid) {
			paymentsTotal.WithLabelValues(string(record.Provider), "confirm", "already_paid").Inc()
		}
		return nil, err
	}
	paymentsTotal.WithLabelValues(string(record.Provider), "confirm", "success").Inc()
	log.Info("Payment confirmed")

	return s.meditations.GetByIDForUser(ctx, id, userID)
}

func (s *paymentServiceImpl) MarkRefunded(ctx context.Context, id uuid.UUID) (*models.MeditationRequest, error) {
	m, err := s.meditations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != models.StatusFailed || m.PaymentState != models.PaymentStateCompleted {
		return nil, fmt.Errorf("%w: only a paid failed meditation can be refunded (status %s, payment %s)",
			models.ErrInvalidState, m.Status, m.PaymentState)
	}
	if err := s.payments.MarkRefunded(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("Payment marked refunded", zap.String("meditationID", id.String()))
	m.PaymentState = models.PaymentStateRefunded
	return m, nil
}
