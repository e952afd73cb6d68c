package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fcm "firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type fcmClient interface {
	Send(ctx context.Context, message *fcm.Message) (string, error)
}

type fcmSender struct {
	client fcmClient
	logger *zap.Logger
}

// NewFCMSender создает отправителя web push через FCM.
// Возвращает nil, nil, если push выключен или не задан ключ сервис-аккаунта.
func NewFCMSender(ctx context.Context, enabled bool, credentialsPath string, logger *zap.Logger) (PushSender, error) {
	if !enabled || credentialsPath == "" {
		logger.Warn("FCM push is disabled or FIREBASE_CREDENTIALS_PATH is not set, push delivery uses a stub")
		return nil, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("init firebase app from '%s': %w", credentialsPath, err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get FCM messaging client: %w", err)
	}

	logger.Info("FCM sender initialized", zap.String("credentials_path", credentialsPath))
	return newFCMSender(client, logger), nil
}

func newFCMSender(client fcmClient, logger *zap.Logger) *fcmSender {
	return &fcmSender{client: client, logger: logger.Named("FCMSender")}
}

func (s *fcmSender) Send(ctx context.Context, token, title, body, link string) error {
	message := &fcm.Message{
		Token: token,
		Notification: &fcm.Notification{
			Title: title,
			Body:  body,
		},
		Webpush: &fcm.WebpushConfig{
			Notification: &fcm.WebpushNotification{
				Title: title,
				Body:  body,
			},
			FCMOptions: &fcm.WebpushFCMOptions{Link: link},
		},
	}

	id, err := s.client.Send(ctx, message)
	if err != nil {
		if fcm.IsUnregistered(err) || fcm.IsInvalidArgument(err) {
			s.logger.Warn("FCM token is invalid or unregistered", zap.Error(err))
		}
		return fmt.Errorf("fcm send: %w", err)
	}
	s.logger.Info("Push sent", zap.String("messageID", id))
	return nil
}
