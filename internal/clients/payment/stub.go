package payment

import (
	"context"
	"strings"

	"meditation-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const stubRefPrefix = "stub_"

// stubProvider - заглушка для локальной разработки: любой выданный ею платеж подтвержден.
type stubProvider struct {
	name   models.PaymentProvider
	logger *zap.Logger
}

func NewStubProvider(name models.PaymentProvider, logger *zap.Logger) Provider {
	return &stubProvider{name: name, logger: logger.Named("StubPaymentProvider")}
}

func (s *stubProvider) Name() models.PaymentProvider { return s.name }

func (s *stubProvider) Create(_ context.Context, meditationID string, amountCents int64, currency string) (models.Charge, error) {
	ref := stubRefPrefix + uuid.NewString()
	s.logger.Info("ЗАГЛУШКА: создание платежа",
		zap.String("provider", string(s.name)), zap.String("meditationID", meditationID), zap.String("ref", ref))
	charge := models.Charge{
		Provider:    s.name,
		ProviderRef: ref,
		AmountCents: amountCents,
		Currency:    strings.ToLower(currency),
	}
	if s.name == models.PaymentProviderWallet {
		charge.ApprovalURL = "about:blank#" + ref
	} else {
		charge.ClientSecret = ref + "_secret"
	}
	return charge, nil
}

func (s *stubProvider) Confirm(_ context.Context, providerRef string) (bool, error) {
	return strings.HasPrefix(providerRef, stubRefPrefix), nil
}
