package payment

import (
	"context"
	"fmt"
	"strings"

	"meditation-server/internal/models"

	"github.com/stripe/stripe-go/v76"
	stripeclient "github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// paymentIntents - часть Stripe API, которой пользуется провайдер.
type paymentIntents interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripeProvider struct {
	intents paymentIntents
	logger  *zap.Logger
}

// NewStripeProvider - оплата картой через Stripe PaymentIntents.
func NewStripeProvider(secretKey string, logger *zap.Logger) Provider {
	sc := stripeclient.New(secretKey, nil)
	return newStripeProvider(sc.PaymentIntents, logger)
}

func newStripeProvider(intents paymentIntents, logger *zap.Logger) *stripeProvider {
	return &stripeProvider{intents: intents, logger: logger.Named("StripeProvider")}
}

func (p *stripeProvider) Name() models.PaymentProvider { return models.PaymentProviderCard }

func (p *stripeProvider) Create(ctx context.Context, meditationID string, amountCents int64, currency string) (models.Charge, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String("Personal meditation " + meditationID),
	}
	params.Context = ctx
	params.AddMetadata("meditation_id", meditationID)

	intent, err := p.intents.New(params)
	if err != nil {
		return models.Charge{}, fmt.Errorf("stripe create payment intent: %w", err)
	}

	p.logger.Info("Payment intent created", zap.String("meditationID", meditationID), zap.String("intentID", intent.ID))
	return models.Charge{
		Provider:     models.PaymentProviderCard,
		ProviderRef:  intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  amountCents,
		Currency:     strings.ToLower(currency),
	}, nil
}

func (p *stripeProvider) Confirm(ctx context.Context, providerRef string) (bool, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := p.intents.Get(providerRef, params)
	if err != nil {
		return false, fmt.Errorf("stripe get payment intent %s: %w", providerRef, err)
	}
	p.logger.Info("Payment intent status", zap.String("intentID", providerRef), zap.String("status", string(intent.Status)))
	if intent.Status == stripe.PaymentIntentStatusCanceled {
		return false, fmt.Errorf("%w: stripe payment intent %s is canceled", models.ErrPaymentDeclined, providerRef)
	}
	return intent.Status == stripe.PaymentIntentStatusSucceeded, nil
}
