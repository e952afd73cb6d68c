package models

import "time"

// FulfillmentTaskPayload - durable задача на выполнение пайплайна для одной заявки.
type FulfillmentTaskPayload struct {
	TaskID       string    `json:"task_id"`
	MeditationID string    `json:"meditation_id"`
	UserID       string    `json:"user_id"`
	RequestedAt  time.Time `json:"requested_at"`
}

// StatusEvent публикуется при каждом переходе статуса (для WebSocket подписчиков).
type StatusEvent struct {
	MeditationID  string    `json:"meditationId"`
	Status        Status    `json:"status"`
	Error         string    `json:"error,omitempty"`
	FinalAudioURL string    `json:"finalAudioUrl,omitempty"`
	At            time.Time `json:"at"`
}
