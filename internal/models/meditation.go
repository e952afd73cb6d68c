package models

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 60

	maxShortFieldLen = 200
	maxLongFieldLen  = 2000
)

// Voice - голос диктора. Ровно два значения, по одному на пол.
type Voice string

const (
	VoiceFemale Voice = "female"
	VoiceMale   Voice = "male"
)

// AllVoices возвращает допустимые голоса.
func AllVoices() []Voice {
	return []Voice{VoiceFemale, VoiceMale}
}

// IsValid проверяет значение голоса.
func (v Voice) IsValid() bool {
	return v == VoiceFemale || v == VoiceMale
}

// Background - фоновая дорожка.
type Background string

const (
	BackgroundNature Background = "nature"
	BackgroundOcean  Background = "ocean"
	BackgroundRain   Background = "rain"
	BackgroundForest Background = "forest"
	Background528Hz  Background = "528-hz"
	BackgroundSleep  Background = "sleep"
)

// AllBackgrounds возвращает канонический набор фоновых дорожек.
func AllBackgrounds() []Background {
	return []Background{
		BackgroundNature,
		BackgroundOcean,
		BackgroundRain,
		BackgroundForest,
		Background528Hz,
		BackgroundSleep,
	}
}

// IsValid проверяет значение фоновой дорожки.
func (b Background) IsValid() bool {
	for _, known := range AllBackgrounds() {
		if b == known {
			return true
		}
	}
	return false
}

// MeditationInput - ответы пользователя на анкету. Не меняются после старта выполнения.
type MeditationInput struct {
	Goal            string     `db:"goal"`
	Mood            string     `db:"mood"`
	Challenges      string     `db:"challenges"`
	Affirmations    string     `db:"affirmations"`
	DurationMinutes int        `db:"duration_minutes"`
	Voice           Voice      `db:"voice"`
	Background      Background `db:"background"`
}

// Contact - куда доставлять готовую медитацию.
type Contact struct {
	Email     string  `db:"email"`
	Phone     *string `db:"phone"`
	PushToken *string `db:"push_token"`
}

// PaymentSnapshot - копия состояния оплаты на самой заявке.
type PaymentSnapshot struct {
	AmountCents     int64            `db:"amount_cents"`
	Currency        string           `db:"currency"`
	PaymentProvider *PaymentProvider `db:"payment_provider"`
	PaymentRef      *string          `db:"payment_ref"`
	PaymentState    PaymentState     `db:"payment_state"`
	PaidAt          *time.Time       `db:"paid_at"`
}

// AudioInfo - ссылки на аудиофайлы, заполняются по ходу пайплайна.
type AudioInfo struct {
	VoiceFileURL     *string  `db:"voice_file_url"`
	MixedFileRef     *string  `db:"mixed_file_ref"`
	FinalAudioURL    *string  `db:"final_audio_url"`
	AudioDurationSec *float64 `db:"audio_duration_sec"`
	AudioSizeBytes   *int64   `db:"audio_size_bytes"`
}

// DeliveryInfo - информационные флаги доставки. На статус не влияют.
type DeliveryInfo struct {
	EmailSent   bool       `db:"email_sent"`
	EmailSentAt *time.Time `db:"email_sent_at"`
	SMSSent     bool       `db:"sms_sent"`
	SMSSentAt   *time.Time `db:"sms_sent_at"`
	PushSent    bool       `db:"push_sent"`
	PushSentAt  *time.Time `db:"push_sent_at"`
}

// MeditationRequest - заявка на персональную медитацию.
type MeditationRequest struct {
	ID     uuid.UUID `db:"id"`
	UserID uuid.UUID `db:"user_id"`

	MeditationInput
	Contact

	OriginalScript string  `db:"original_script"`
	EditedScript   *string `db:"edited_script"`
	FinalScript    string  `db:"final_script"`

	PaymentSnapshot
	AudioInfo
	DeliveryInfo

	Status    Status    `db:"status"`
	Error     *string   `db:"error"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsOwnedBy проверяет владельца заявки.
func (m *MeditationRequest) IsOwnedBy(userID uuid.UUID) bool {
	return m != nil && m.UserID == userID
}

// HasPhone возвращает true, если указан телефон для SMS.
func (m *MeditationRequest) HasPhone() bool {
	return m.Phone != nil && strings.TrimSpace(*m.Phone) != ""
}

// HasPushToken возвращает true, если есть токен web push.
func (m *MeditationRequest) HasPushToken() bool {
	return m.PushToken != nil && strings.TrimSpace(*m.PushToken) != ""
}

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

// Validate проверяет анкету.
func (in MeditationInput) Validate() error {
	if strings.TrimSpace(in.Goal) == "" {
		return fmt.Errorf("%w: goal is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(in.Mood) == "" {
		return fmt.Errorf("%w: mood is required", ErrInvalidRequest)
	}
	if len(in.Goal) > maxShortFieldLen || len(in.Mood) > maxShortFieldLen {
		return fmt.Errorf("%w: goal and mood must be at most %d characters", ErrInvalidRequest, maxShortFieldLen)
	}
	if len(in.Challenges) > maxLongFieldLen || len(in.Affirmations) > maxLongFieldLen {
		return fmt.Errorf("%w: challenges and affirmations must be at most %d characters", ErrInvalidRequest, maxLongFieldLen)
	}
	if in.DurationMinutes < MinDurationMinutes || in.DurationMinutes > MaxDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes", ErrInvalidRequest, MinDurationMinutes, MaxDurationMinutes)
	}
	if !in.Voice.IsValid() {
		return fmt.Errorf("%w: unknown voice '%s'", ErrInvalidRequest, in.Voice)
	}
	if !in.Background.IsValid() {
		return fmt.Errorf("%w: unknown background '%s'", ErrInvalidRequest, in.Background)
	}
	return nil
}

// Validate проверяет контактные данные.
func (c Contact) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidRequest)
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return fmt.Errorf("%w: invalid email", ErrInvalidRequest)
	}
	if c.Phone != nil && *c.Phone != "" && !e164Pattern.MatchString(*c.Phone) {
		return fmt.Errorf("%w: phone must be in E.164 format", ErrInvalidRequest)
	}
	return nil
}
