package notify

import (
	"context"

	"meditation-server/internal/config"

	"go.uber.org/zap"
)

// EmailSender отправляет HTML-письмо.
//
//go:generate mockery --name EmailSender --output ../../mocks --outpkg mocks --structname MockEmailSender --filename email_sender_mock.go
type EmailSender interface {
	Send(ctx context.Context, address, subject, htmlBody string) error
}

// SMSSender отправляет SMS на номер в формате E.164.
//
//go:generate mockery --name SMSSender --output ../../mocks --outpkg mocks --structname MockSMSSender --filename sms_sender_mock.go
type SMSSender interface {
	Send(ctx context.Context, phone, body string) error
}

// PushSender отправляет web push по регистрационному токену FCM.
//
//go:generate mockery --name PushSender --output ../../mocks --outpkg mocks --structname MockPushSender --filename push_sender_mock.go
type PushSender interface {
	Send(ctx context.Context, token, title, body, link string) error
}

// Senders - набор каналов доставки.
type Senders struct {
	Email EmailSender
	SMS   SMSSender
	Push  PushSender
}

// NewSenders создает отправителей. Канал без учетных данных работает как заглушка, которая только логирует.
func NewSenders(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Senders, error) {
	var senders Senders

	if cfg.SendGridAPIKey != "" {
		senders.Email = NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailFromAddress, cfg.EmailFromName, logger)
	} else {
		logger.Warn("SendGrid API key is not set, email delivery uses a stub")
		senders.Email = NewStubEmailSender(logger)
	}

	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
		senders.SMS = NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)
	} else {
		logger.Warn("Twilio credentials are not set, SMS delivery uses a stub")
		senders.SMS = NewStubSMSSender(logger)
	}

	push, err := NewFCMSender(ctx, cfg.PushEnabled, cfg.FirebaseCredentialsPath, logger)
	if err != nil {
		return Senders{}, err
	}
	if push == nil {
		push = NewStubPushSender(logger)
	}
	senders.Push = push

	return senders, nil
}
