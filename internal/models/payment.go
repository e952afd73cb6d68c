package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment - запись о платеже у внешнего провайдера.
// ProviderRef уникален: одна ссылка провайдера фиксируется ровно один раз.
type Payment struct {
	ID           uuid.UUID       `db:"id"`
	MeditationID uuid.UUID       `db:"meditation_id"`
	UserID       uuid.UUID       `db:"user_id"`
	Provider     PaymentProvider `db:"provider"`
	ProviderRef  string          `db:"provider_ref"`
	AmountCents  int64           `db:"amount_cents"`
	Currency     string          `db:"currency"`
	State        PaymentState    `db:"state"`
	CreatedAt    time.Time       `db:"created_at"`
	ConfirmedAt  *time.Time      `db:"confirmed_at"`
}

// Charge - результат создания платежа у провайдера.
type Charge struct {
	Provider     PaymentProvider `json:"provider"`
	ProviderRef  string          `json:"providerRef"`
	ClientSecret string          `json:"clientSecret,omitempty"` // для карточного провайдера
	ApprovalURL  string          `json:"approvalUrl,omitempty"`  // для redirect-провайдера
	AmountCents  int64           `json:"amountCents"`
	Currency     string          `json:"currency"`
}
