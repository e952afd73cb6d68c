package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"meditation-server/internal/config"
	"meditation-server/internal/models"

	"github.com/plutov/paypal/v4"
	"go.uber.org/zap"
)

const (
	orderStatusApproved  = "APPROVED"
	orderStatusCompleted = "COMPLETED"
	orderStatusVoided    = "VOIDED"
)

// ordersAPI - часть PayPal Orders v2, которой пользуется провайдер.
type ordersAPI interface {
	GetAccessToken(ctx context.Context) (*paypal.TokenResponse, error)
	CreateOrder(ctx context.Context, intent string, purchaseUnits []paypal.PurchaseUnitRequest, paymentSource *paypal.PaymentSource, appContext *paypal.ApplicationContext) (*paypal.Order, error)
	GetOrder(ctx context.Context, orderID string) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string, captureOrderRequest paypal.CaptureOrderRequest) (*paypal.CaptureOrderResponse, error)
}

// Compile-time check: интерфейс повторяет сигнатуры SDK
var _ ordersAPI = (*paypal.Client)(nil)

// paypalProvider - оплата кошельком с редиректом: заказ, ссылка approve, capture при подтверждении.
type paypalProvider struct {
	api       ordersAPI
	returnURL string
	cancelURL string

	tokenMu  sync.Mutex
	hasToken bool

	logger *zap.Logger
}

// NewPayPalProvider создает провайдера PayPal.
func NewPayPalProvider(cfg *config.Config, logger *zap.Logger) (Provider, error) {
	c, err := paypal.NewClient(cfg.PayPalClientID, cfg.PayPalClientSecret, cfg.PayPalBaseURL)
	if err != nil {
		return nil, fmt.Errorf("init paypal client: %w", err)
	}
	return newPayPalProvider(c, cfg.PayPalReturnURL, cfg.PayPalCancelURL, logger), nil
}

func newPayPalProvider(api ordersAPI, returnURL, cancelURL string, logger *zap.Logger) *paypalProvider {
	return &paypalProvider{
		api:       api,
		returnURL: returnURL,
		cancelURL: cancelURL,
		logger:    logger.Named("PayPalProvider"),
	}
}

func (p *paypalProvider) Name() models.PaymentProvider { return models.PaymentProviderWallet }

func (p *paypalProvider) Create(ctx context.Context, meditationID string, amountCents int64, currency string) (models.Charge, error) {
	if err := p.ensureToken(ctx); err != nil {
		return models.Charge{}, err
	}

	units := []paypal.PurchaseUnitRequest{{
		ReferenceID: meditationID,
		Description: "Personal meditation",
		Amount: &paypal.PurchaseUnitAmount{
			Currency: strings.ToUpper(currency),
			Value:    FormatAmount(amountCents),
		},
	}}
	appCtx := &paypal.ApplicationContext{
		ReturnURL:  p.returnURL,
		CancelURL:  p.cancelURL,
		UserAction: "PAY_NOW",
	}

	order, err := p.api.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, appCtx)
	if err != nil {
		return models.Charge{}, fmt.Errorf("paypal create order: %w", err)
	}

	approvalURL := ""
	for _, link := range order.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			approvalURL = link.Href
			break
		}
	}
	if approvalURL == "" {
		return models.Charge{}, fmt.Errorf("paypal order %s has no approval link", order.ID)
	}

	p.logger.Info("PayPal order created", zap.String("meditationID", meditationID), zap.String("orderID", order.ID))
	return models.Charge{
		Provider:    models.PaymentProviderWallet,
		ProviderRef: order.ID,
		ApprovalURL: approvalURL,
		AmountCents: amountCents,
		Currency:    strings.ToLower(currency),
	}, nil
}

// Confirm списывает одобренный заказ. Уже списанный заказ считается подтвержденным.
func (p *paypalProvider) Confirm(ctx context.Context, providerRef string) (bool, error) {
	if err := p.ensureToken(ctx); err != nil {
		return false, err
	}

	order, err := p.api.GetOrder(ctx, providerRef)
	if err != nil {
		return false, fmt.Errorf("paypal get order %s: %w", providerRef, err)
	}
	switch order.Status {
	case orderStatusCompleted:
		return true, nil
	case orderStatusApproved:
	case orderStatusVoided:
		return false, fmt.Errorf("%w: paypal order %s is voided", models.ErrPaymentDeclined, providerRef)
	default:
		p.logger.Info("PayPal order is not approved yet", zap.String("orderID", providerRef), zap.String("status", order.Status))
		return false, nil
	}

	capture, err := p.api.CaptureOrder(ctx, providerRef, paypal.CaptureOrderRequest{})
	if err != nil {
		return false, fmt.Errorf("paypal capture order %s: %w", providerRef, err)
	}
	p.logger.Info("PayPal order captured", zap.String("orderID", providerRef), zap.String("status", capture.Status))
	return capture.Status == orderStatusCompleted, nil
}

// ensureToken получает первый access token; дальше клиент обновляет его сам.
func (p *paypalProvider) ensureToken(ctx context.Context) error {
	p.tokenMu.Lock()
	defer p.tokenMu.Unlock()
	if p.hasToken {
		return nil
	}
	if _, err := p.api.GetAccessToken(ctx); err != nil {
		return fmt.Errorf("paypal access token: %w", err)
	}
	p.hasToken = true
	return nil
}

// FormatAmount переводит центы в десятичную строку: 999 -> "9.99".
func FormatAmount(amountCents int64) string {
	return fmt.Sprintf("%d.%02d", amountCents/100, amountCents%100)
}
