package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// messagesAPI - часть Twilio REST API, которой пользуется отправитель.
type messagesAPI interface {
	CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error)
}

type twilioSender struct {
	api    messagesAPI
	from   string
	logger *zap.Logger
}

// NewTwilioSender создает отправителя SMS через Twilio.
func NewTwilioSender(accountSID, authToken, fromNumber string, logger *zap.Logger) SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return newTwilioSender(client.Api, fromNumber, logger)
}

func newTwilioSender(api messagesAPI, fromNumber string, logger *zap.Logger) *twilioSender {
	return &twilioSender{api: api, from: fromNumber, logger: logger.Named("TwilioSender")}
}

// Send: клиент Twilio не принимает контекст, поэтому проверяем его только до вызова.
func (s *twilioSender) Send(ctx context.Context, phone, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(s.from)
	params.SetBody(body)

	msg, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	sid := ""
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	s.logger.Info("SMS sent", zap.String("to", phone), zap.String("sid", sid))
	return nil
}
