package payment

import (
	"context"
	"fmt"
	"sort"

	"meditation-server/internal/config"
	"meditation-server/internal/models"

	"go.uber.org/zap"
)

// Provider - платежный провайдер.
//
//go:generate mockery --name Provider --output ../../mocks --outpkg mocks --structname MockPaymentProvider --filename payment_provider_mock.go
type Provider interface {
	Name() models.PaymentProvider
	// Create создает платеж у провайдера. ProviderRef в ответе уникален.
	Create(ctx context.Context, meditationID string, amountCents int64, currency string) (models.Charge, error)
	// Confirm возвращает true, только если провайдер подтвердил списание.
	// Окончательный отказ провайдера возвращается как models.ErrPaymentDeclined.
	Confirm(ctx context.Context, providerRef string) (bool, error)
}

// Registry находит провайдера по имени.
type Registry struct {
	providers map[models.PaymentProvider]Provider
}

// NewRegistry регистрирует переданных провайдеров.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[models.PaymentProvider]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Get возвращает models.ErrUnknownProvider для незарегистрированного имени.
func (r *Registry) Get(name models.PaymentProvider) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", models.ErrUnknownProvider, name)
	}
	return p, nil
}

// Names возвращает имена зарегистрированных провайдеров по алфавиту.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// NewRegistryFromConfig собирает провайдеров по наличию секретов.
// Вне production ненастроенный провайдер заменяется заглушкой.
func NewRegistryFromConfig(cfg *config.Config, logger *zap.Logger) (*Registry, error) {
	var providers []Provider

	switch {
	case cfg.StripeSecretKey != "":
		providers = append(providers, NewStripeProvider(cfg.StripeSecretKey, logger))
	case !cfg.IsProduction():
		logger.Warn("Stripe secret is not set, card payments use a stub")
		providers = append(providers, NewStubProvider(models.PaymentProviderCard, logger))
	}

	switch {
	case cfg.PayPalClientID != "" && cfg.PayPalClientSecret != "":
		p, err := NewPayPalProvider(cfg, logger)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	case !cfg.IsProduction():
		logger.Warn("PayPal credentials are not set, wallet payments use a stub")
		providers = append(providers, NewStubProvider(models.PaymentProviderWallet, logger))
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no payment provider is configured")
	}
	return NewRegistry(providers...), nil
}
