package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"meditation-server/internal/clients/notify"
	"meditation-server/internal/interfaces"
	"meditation-server/internal/models"
	"meditation-server/internal/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	deliverySubject = "Your personal meditation is ready"
	pushTitle       = "Your meditation is ready"
)

var deliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "meditation_deliveries_total",
		Help: "Delivery attempts partitioned by channel and outcome.",
	},
	[]string{"channel", "outcome"},
)

var emailTemplate = template.Must(template.New("delivery_email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Georgia, serif; color: #2d3a3a;">
  <h2>Your meditation is ready</h2>
  <p>We created a {{.Minutes}}-minute meditation for your goal: <em>{{.Goal}}</em>.</p>
  <p><a href="{{.AudioURL}}">Listen or download the audio</a></p>
  <p>You can also open it in the app: <a href="{{.AppURL}}">{{.AppURL}}</a></p>
  <p>Find a quiet place, put on headphones and breathe.</p>
</body>
</html>`))

// DeliveryReport - какие каналы доставили сообщение. Только для логов и тестов.
type DeliveryReport struct {
	Email bool
	SMS   bool
	Push  bool
}

// DeliveryService рассылает ссылку на готовую медитацию. Статус заявки не меняет.
//
//go:generate mockery --name DeliveryService --output ../mocks --outpkg mocks --structname MockDeliveryService --filename delivery_service_mock.go
type DeliveryService interface {
	Deliver(ctx context.Context, m *models.MeditationRequest) DeliveryReport
}

type deliveryServiceImpl struct {
	repo       interfaces.MeditationRepository
	email      notify.EmailSender
	sms        notify.SMSSender
	push       notify.PushSender
	appBaseURL string
	logger     *zap.Logger
}

// NewDeliveryService создает сервис доставки.
func NewDeliveryService(repo interfaces.MeditationRepository, senders notify.Senders, appBaseURL string, logger *zap.Logger) DeliveryService {
	return &deliveryServiceImpl{
		repo:       repo,
		email:      senders.Email,
		sms:        senders.SMS,
		push:       senders.Push,
		appBaseURL: strings.TrimSuffix(appBaseURL, "/"),
		logger:     logger.Named("DeliveryService"),
	}
}

// Deliver отправляет email, SMS и push по очереди. Ошибка одного канала не мешает остальным.
func (s *deliveryServiceImpl) Deliver(ctx context.Context, m *models.MeditationRequest) DeliveryReport {
	log := s.logger.With(zap.String("meditationID", m.ID.String()))
	report := DeliveryReport{}

	audioURL := utils.Deref(m.FinalAudioURL)
	appURL := s.appBaseURL + "/meditations/" + m.ID.String()

	report.Email = s.attempt(ctx, log, m, models.DeliveryChannelEmail, func() error {
		body, err := renderEmail(m, audioURL, appURL)
		if err != nil {
			return err
		}
		return s.email.Send(ctx, m.Email, deliverySubject, body)
	})

	if m.HasPhone() {
		report.SMS = s.attempt(ctx, log, m, models.DeliveryChannelSMS, func() error {
			body := fmt.Sprintf("Your %d-minute meditation is ready: %s", m.DurationMinutes, audioURL)
			return s.sms.Send(ctx, *m.Phone, body)
		})
	} else {
		log.Debug("No phone number, SMS skipped")
	}

	if m.HasPushToken() {
		report.Push = s.attempt(ctx, log, m, models.DeliveryChannelPush, func() error {
			return s.push.Send(ctx, *m.PushToken, pushTitle, "Tap to listen to your personal meditation.", appURL)
		})
	} else {
		log.Debug("No push token, push skipped")
	}

	log.Info("Delivery finished", zap.Bool("email", report.Email), zap.Bool("sms", report.SMS), zap.Bool("push", report.Push))
	return report
}

// attempt отправляет по одному каналу и фиксирует успех. Флаг ставится только после успешной отправки.
func (s *deliveryServiceImpl) attempt(ctx context.Context, log *zap.Logger, m *models.MeditationRequest,
	channel models.DeliveryChannel, send func() error) bool {
	if err := send(); err != nil {
		deliveriesTotal.WithLabelValues(string(channel), "error").Inc()
		log.Warn("Delivery failed",
			zap.String("channel", string(channel)),
			zap.Error(fmt.Errorf("%w: %v", models.ErrDeliveryFailed, err)))
		return false
	}
	deliveriesTotal.WithLabelValues(string(channel), "success").Inc()

	if err := s.repo.RecordDelivery(ctx, m.ID, channel, time.Now().UTC()); err != nil {
		log.Error("Failed to record delivery", zap.String("channel", string(channel)), zap.Error(err))
	}
	return true
}

func renderEmail(m *models.MeditationRequest, audioURL, appURL string) (string, error) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, struct {
		Minutes  int
		Goal     string
		AudioURL string
		AppURL   string
	}{m.DurationMinutes, m.Goal, audioURL, appURL})
	if err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}
