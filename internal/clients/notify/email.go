package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// sendGridAPI - часть клиента SendGrid, которой пользуется отправитель.
type sendGridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridSender struct {
	client sendGridAPI
	from   *mail.Email
	logger *zap.Logger
}

// NewSendGridSender создает отправителя писем через SendGrid.
func NewSendGridSender(apiKey, fromAddress, fromName string, logger *zap.Logger) EmailSender {
	return newSendGridSender(sendgrid.NewSendClient(apiKey), fromAddress, fromName, logger)
}

func newSendGridSender(client sendGridAPI, fromAddress, fromName string, logger *zap.Logger) *sendGridSender {
	return &sendGridSender{
		client: client,
		from:   mail.NewEmail(fromName, fromAddress),
		logger: logger.Named("SendGridSender"),
	}
}

func (s *sendGridSender) Send(ctx context.Context, address, subject, htmlBody string) error {
	msg := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", address), "", htmlBody)
	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}
	s.logger.Info("Email sent", zap.String("to", address), zap.Int("status", resp.StatusCode))
	return nil
}
