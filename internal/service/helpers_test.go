package service_test

import (
	"time"

	"meditation-server/internal/models"
	"meditation-server/internal/utils"

	"github.com/google/uuid"
)

func sampleInput() models.MeditationInput {
	return models.MeditationInput{
		Goal:            "Fall asleep faster",
		Mood:            "anxious",
		Challenges:      "racing thoughts",
		Affirmations:    "I am safe",
		DurationMinutes: 10,
		Voice:           models.VoiceFemale,
		Background:      models.BackgroundRain,
	}
}

func newMeditation(userID uuid.UUID, status models.Status, paid models.PaymentState) *models.MeditationRequest {
	now := time.Now().UTC()
	m := &models.MeditationRequest{
		ID:              uuid.New(),
		UserID:          userID,
		MeditationInput: sampleInput(),
		Contact:         models.Contact{Email: "user@example.com"},
		PaymentSnapshot: models.PaymentSnapshot{
			AmountCents:  999,
			Currency:     "usd",
			PaymentState: paid,
		},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status != models.StatusCreated {
		m.OriginalScript = "Breathe in... and out."
		m.FinalScript = m.OriginalScript
	}
	return m
}

func completedMeditation(userID uuid.UUID) *models.MeditationRequest {
	m := newMeditation(userID, models.StatusCompleted, models.PaymentStateCompleted)
	m.FinalAudioURL = utils.StringPtr("https://cdn.example.com/meditations/" + m.ID.String() + "/final.mp3")
	return m
}

// clone нужен, чтобы параллельные вызовы не делили одну структуру.
func clone(m *models.MeditationRequest) *models.MeditationRequest {
	c := *m
	return &c
}
