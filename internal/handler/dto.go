package handler

import (
	"time"

	"meditation-server/internal/models"
)

type createMeditationRequest struct {
	Goal            string  `json:"goal" binding:"required"`
	Mood            string  `json:"mood" binding:"required"`
	Challenges      string  `json:"challenges"`
	Affirmations    string  `json:"affirmations"`
	DurationMinutes int     `json:"durationMinutes" binding:"required"`
	Voice           string  `json:"voice" binding:"required"`
	Background      string  `json:"background" binding:"required"`
	Email           string  `json:"email" binding:"required"`
	Phone           *string `json:"phone"`
	PushToken       *string `json:"pushToken"`
}

type updateScriptRequest struct {
	Text string `json:"text" binding:"required"`
}

type rewriteScriptRequest struct {
	ToneHint   string `json:"toneHint"`
	LengthHint string `json:"lengthHint"`
	Apply      bool   `json:"apply"`
}

type createPaymentRequest struct {
	Provider string `json:"provider" binding:"required"`
}

type confirmPaymentRequest struct {
	ProviderRef string `json:"providerRef" binding:"required"`
}

type paymentDTO struct {
	AmountCents int64      `json:"amountCents"`
	Currency    string     `json:"currency"`
	Provider    *string    `json:"provider,omitempty"`
	State       string     `json:"state"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
}

type deliveryDTO struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

// MeditationResponse - представление заявки для клиента. mixed_file_ref наружу не отдается.
type MeditationResponse struct {
	ID               string      `json:"id"`
	Status           string      `json:"status"`
	Error            *string     `json:"error,omitempty"`
	Goal             string      `json:"goal"`
	Mood             string      `json:"mood"`
	Challenges       string      `json:"challenges,omitempty"`
	Affirmations     string      `json:"affirmations,omitempty"`
	DurationMinutes  int         `json:"durationMinutes"`
	Voice            string      `json:"voice"`
	Background       string      `json:"background"`
	Email            string      `json:"email"`
	Phone            *string     `json:"phone,omitempty"`
	OriginalScript   string      `json:"originalScript,omitempty"`
	EditedScript     *string     `json:"editedScript,omitempty"`
	FinalScript      string      `json:"finalScript,omitempty"`
	Payment          paymentDTO  `json:"payment"`
	VoiceFileURL     *string     `json:"voiceFileUrl,omitempty"`
	FinalAudioURL    *string     `json:"finalAudioUrl,omitempty"`
	AudioDurationSec *float64    `json:"audioDurationSec,omitempty"`
	AudioSizeBytes   *int64      `json:"audioSizeBytes,omitempty"`
	Delivery         deliveryDTO `json:"delivery"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// PaginatedResponse - страница списка с курсором следующей страницы.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	NextCursor string      `json:"nextCursor,omitempty"`
}

type rewriteResponse struct {
	Text       string              `json:"text"`
	Applied    bool                `json:"applied"`
	Meditation *MeditationResponse `json:"meditation"`
}

type catalogResponse struct {
	Voices             []models.Voice      `json:"voices"`
	Backgrounds        []models.Background `json:"backgrounds"`
	MinDurationMinutes int                 `json:"minDurationMinutes"`
	MaxDurationMinutes int                 `json:"maxDurationMinutes"`
	PriceCents         int64               `json:"priceCents"`
	Currency           string              `json:"currency"`
	PaymentProviders   []string            `json:"paymentProviders"`
}

func toMeditationResponse(m *models.MeditationRequest) *MeditationResponse {
	if m == nil {
		return nil
	}
	resp := &MeditationResponse{
		ID:              m.ID.String(),
		Status:          string(m.Status),
		Error:           m.Error,
		Goal:            m.Goal,
		Mood:            m.Mood,
		Challenges:      m.Challenges,
		Affirmations:    m.Affirmations,
		DurationMinutes: m.DurationMinutes,
		Voice:           string(m.Voice),
		Background:      string(m.Background),
		Email:           m.Email,
		Phone:           m.Phone,
		OriginalScript:  m.OriginalScript,
		EditedScript:    m.EditedScript,
		FinalScript:     m.FinalScript,
		Payment: paymentDTO{
			AmountCents: m.AmountCents,
			Currency:    m.Currency,
			State:       string(m.PaymentState),
			PaidAt:      m.PaidAt,
		},
		VoiceFileURL:     m.VoiceFileURL,
		FinalAudioURL:    m.FinalAudioURL,
		AudioDurationSec: m.AudioDurationSec,
		AudioSizeBytes:   m.AudioSizeBytes,
		Delivery:         deliveryDTO{Email: m.EmailSent, SMS: m.SMSSent, Push: m.PushSent},
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.PaymentProvider != nil {
		provider := string(*m.PaymentProvider)
		resp.Payment.Provider = &provider
	}
	return resp
}

func toMeditationResponses(items []*models.MeditationRequest) []*MeditationResponse {
	out := make([]*MeditationResponse, 0, len(items))
	for _, m := range items {
		if m == nil {
			continue
		}
		out = append(out, toMeditationResponse(m))
	}
	return out
}
