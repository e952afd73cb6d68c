package payment

import (
	"context"
	"errors"
	"testing"

	"meditation-server/internal/models"

	"github.com/plutov/paypal/v4"
	"github.com/stripe/stripe-go/v76"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeIntents struct {
	created *stripe.PaymentIntentParams
	status  stripe.PaymentIntentStatus
	err     error
}

func (f *fakeIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.created = params
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil
}

func (f *fakeIntents) Get(id string, _ *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.PaymentIntent{ID: id, Status: f.status}, nil
}

func TestStripeProvider_Create(t *testing.T) {
	intents := &fakeIntents{}
	p := newStripeProvider(intents, zap.NewNop())

	charge, err := p.Create(context.Background(), "med-1", 999, "USD")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentProviderCard, charge.Provider)
	assert.Equal(t, "pi_123", charge.ProviderRef)
	assert.Equal(t, "pi_123_secret", charge.ClientSecret)
	assert.Equal(t, "usd", charge.Currency)
	require.NotNil(t, intents.created)
	assert.Equal(t, int64(999), *intents.created.Amount)
	assert.Equal(t, "med-1", intents.created.Metadata["meditation_id"])
}

func TestStripeProvider_Confirm(t *testing.T) {
	cases := map[stripe.PaymentIntentStatus]bool{
		stripe.PaymentIntentStatusSucceeded:             true,
		stripe.PaymentIntentStatusProcessing:            false,
		stripe.PaymentIntentStatusRequiresPaymentMethod: false,
	}
	for status, want := range cases {
		p := newStripeProvider(&fakeIntents{status: status}, zap.NewNop())
		ok, err := p.Confirm(context.Background(), "pi_123")
		require.NoError(t, err)
		assert.Equal(t, want, ok, status)
	}

	p := newStripeProvider(&fakeIntents{err: errors.New("network")}, zap.NewNop())
	_, err := p.Confirm(context.Background(), "pi_123")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrPaymentDeclined)
}

func TestStripeProvider_CanceledIntentIsDeclined(t *testing.T) {
	p := newStripeProvider(&fakeIntents{status: stripe.PaymentIntentStatusCanceled}, zap.NewNop())

	ok, err := p.Confirm(context.Background(), "pi_123")

	assert.False(t, ok)
	assert.ErrorIs(t, err, models.ErrPaymentDeclined)
}

type fakeOrders struct {
	tokenCalls   int
	order        *paypal.Order
	captureState string
	captured     bool
}

var _ ordersAPI = (*fakeOrders)(nil)

func (f *fakeOrders) GetAccessToken(context.Context) (*paypal.TokenResponse, error) {
	f.tokenCalls++
	return &paypal.TokenResponse{}, nil
}

func (f *fakeOrders) CreateOrder(_ context.Context, intent string, units []paypal.PurchaseUnitRequest, _ *paypal.PaymentSource, _ *paypal.ApplicationContext) (*paypal.Order, error) {
	f.order = &paypal.Order{
		ID:     "ORDER-1",
		Status: "CREATED",
		Links: []paypal.Link{
			{Rel: "self", Href: "https://api/orders/ORDER-1"},
			{Rel: "approve", Href: "https://paypal/checkout?token=ORDER-1"},
		},
	}
	if intent != paypal.OrderIntentCapture || units[0].Amount.Value != "9.99" || units[0].Amount.Currency != "USD" {
		return nil, errors.New("unexpected order request")
	}
	return f.order, nil
}

func (f *fakeOrders) GetOrder(_ context.Context, orderID string) (*paypal.Order, error) {
	return &paypal.Order{ID: orderID, Status: f.order.Status}, nil
}

func (f *fakeOrders) CaptureOrder(_ context.Context, orderID string, _ paypal.CaptureOrderRequest) (*paypal.CaptureOrderResponse, error) {
	f.captured = true
	return &paypal.CaptureOrderResponse{ID: orderID, Status: f.captureState}, nil
}

func TestPayPalProvider_CreateAndCapture(t *testing.T) {
	api := &fakeOrders{captureState: orderStatusCompleted}
	p := newPayPalProvider(api, "http://return", "http://cancel", zap.NewNop())

	charge, err := p.Create(context.Background(), "med-1", 999, "usd")
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", charge.ProviderRef)
	assert.Equal(t, "https://paypal/checkout?token=ORDER-1", charge.ApprovalURL)

	// Еще не одобрен плательщиком
	ok, err := p.Confirm(context.Background(), "ORDER-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, api.captured)

	api.order.Status = orderStatusApproved
	ok, err = p.Confirm(context.Background(), "ORDER-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, api.captured)

	assert.Equal(t, 1, api.tokenCalls)
}

func TestPayPalProvider_CompletedOrderIsConfirmedWithoutCapture(t *testing.T) {
	api := &fakeOrders{order: &paypal.Order{Status: orderStatusCompleted}}
	p := newPayPalProvider(api, "", "", zap.NewNop())

	ok, err := p.Confirm(context.Background(), "ORDER-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, api.captured)
}

func TestPayPalProvider_VoidedOrderIsDeclined(t *testing.T) {
	api := &fakeOrders{order: &paypal.Order{Status: orderStatusVoided}}
	p := newPayPalProvider(api, "", "", zap.NewNop())

	ok, err := p.Confirm(context.Background(), "ORDER-1")

	assert.False(t, ok)
	assert.ErrorIs(t, err, models.ErrPaymentDeclined)
	assert.False(t, api.captured)
}

func TestRegistry(t *testing.T) {
	card := NewStubProvider(models.PaymentProviderCard, zap.NewNop())
	r := NewRegistry(card)

	got, err := r.Get(models.PaymentProviderCard)
	require.NoError(t, err)
	assert.Same(t, card, got)

	_, err = r.Get(models.PaymentProviderWallet)
	assert.ErrorIs(t, err, models.ErrUnknownProvider)

	r = NewRegistry(NewStubProvider(models.PaymentProviderWallet, zap.NewNop()), card)
	assert.Equal(t, []string{"card", "wallet"}, r.Names())
}

func TestStubProvider_ConfirmsOnlyOwnRefs(t *testing.T) {
	p := NewStubProvider(models.PaymentProviderWallet, zap.NewNop())
	charge, err := p.Create(context.Background(), "med-1", 999, "USD")
	require.NoError(t, err)
	assert.NotEmpty(t, charge.ApprovalURL)

	ok, err := p.Confirm(context.Background(), charge.ProviderRef)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Confirm(context.Background(), "ORDER-foreign")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "9.99", FormatAmount(999))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "120.00", FormatAmount(12000))
}
