package notify

import (
	"context"
	"errors"
	"testing"

	fcm "firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

type fakeSendGrid struct {
	sent   *mail.SGMailV3
	status int
	err    error
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = email
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status, Body: "{}"}, nil
}

func TestSendGridSender(t *testing.T) {
	api := &fakeSendGrid{status: 202}
	s := newSendGridSender(api, "no-reply@example.com", "Meditation", zap.NewNop())

	require.NoError(t, s.Send(context.Background(), "user@example.com", "Ready", "<p>hi</p>"))
	require.NotNil(t, api.sent)
	assert.Equal(t, "Ready", api.sent.Subject)
	assert.Equal(t, "no-reply@example.com", api.sent.From.Address)

	api.status = 401
	assert.Error(t, s.Send(context.Background(), "user@example.com", "Ready", "<p>hi</p>"))

	api.err = errors.New("dial tcp: timeout")
	assert.Error(t, s.Send(context.Background(), "user@example.com", "Ready", "<p>hi</p>"))
}

type fakeTwilio struct {
	params *twilioapi.CreateMessageParams
	err    error
}

func (f *fakeTwilio) CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioapi.ApiV2010Message{Sid: &sid}, nil
}

func TestTwilioSender(t *testing.T) {
	api := &fakeTwilio{}
	s := newTwilioSender(api, "+15550000000", zap.NewNop())

	require.NoError(t, s.Send(context.Background(), "+15551234567", "Your meditation is ready"))
	require.NotNil(t, api.params)
	assert.Equal(t, "+15551234567", *api.params.To)
	assert.Equal(t, "+15550000000", *api.params.From)

	api.err = errors.New("invalid number")
	assert.Error(t, s.Send(context.Background(), "+15551234567", "x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, "+15551234567", "x"), context.Canceled)
}

type fakeFCM struct {
	msg *fcm.Message
}

func (f *fakeFCM) Send(_ context.Context, message *fcm.Message) (string, error) {
	f.msg = message
	return "projects/p/messages/1", nil
}

func TestFCMSender_SetsWebpushLink(t *testing.T) {
	client := &fakeFCM{}
	s := newFCMSender(client, zap.NewNop())

	require.NoError(t, s.Send(context.Background(), "tok", "Ready", "Listen now", "https://app/m/1"))
	require.NotNil(t, client.msg)
	assert.Equal(t, "tok", client.msg.Token)
	assert.Equal(t, "https://app/m/1", client.msg.Webpush.FCMOptions.Link)
}

func TestNewFCMSender_DisabledReturnsNil(t *testing.T) {
	s, err := NewFCMSender(context.Background(), false, "/path", zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, s)
}
