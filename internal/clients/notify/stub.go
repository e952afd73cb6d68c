package notify

import (
	"context"

	"meditation-server/internal/utils"

	"go.uber.org/zap"
)

type stubEmailSender struct{ logger *zap.Logger }

func NewStubEmailSender(logger *zap.Logger) EmailSender {
	return &stubEmailSender{logger: logger.Named("StubEmailSender")}
}

func (s *stubEmailSender) Send(_ context.Context, address, subject, _ string) error {
	s.logger.Info("ЗАГЛУШКА: отправка письма", zap.String("to", address), zap.String("subject", subject))
	return nil
}

type stubSMSSender struct{ logger *zap.Logger }

func NewStubSMSSender(logger *zap.Logger) SMSSender {
	return &stubSMSSender{logger: logger.Named("StubSMSSender")}
}

func (s *stubSMSSender) Send(_ context.Context, phone, body string) error {
	s.logger.Info("ЗАГЛУШКА: отправка SMS", zap.String("to", phone), zap.String("body", utils.TruncateString(body, 60)))
	return nil
}

type stubPushSender struct{ logger *zap.Logger }

func NewStubPushSender(logger *zap.Logger) PushSender {
	return &stubPushSender{logger: logger.Named("StubPushSender")}
}

func (s *stubPushSender) Send(_ context.Context, token, title, _, link string) error {
	s.logger.Info("ЗАГЛУШКА: отправка push",
		zap.String("token", utils.TruncateString(token, 12)), zap.String("title", title), zap.String("link", link))
	return nil
}
