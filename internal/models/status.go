package models

// Status - состояние заявки на медитацию.
type Status string

const (
	StatusCreated     Status = "created"
	StatusScriptReady Status = "script_ready"
	StatusProcessing  Status = "processing"
	StatusVoiceReady  Status = "voice_ready"
	StatusMixed       Status = "mixed"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// transitions описывает единственно допустимые переходы между статусами.
var transitions = map[Status][]Status{
	StatusCreated:     {StatusScriptReady},
	StatusScriptReady: {StatusProcessing},
	StatusProcessing:  {StatusVoiceReady, StatusFailed},
	StatusVoiceReady:  {StatusMixed, StatusFailed},
	StatusMixed:       {StatusCompleted, StatusFailed},
}

// AllStatuses возвращает все статусы в порядке жизненного цикла.
func AllStatuses() []Status {
	return []Status{
		StatusCreated,
		StatusScriptReady,
		StatusProcessing,
		StatusVoiceReady,
		StatusMixed,
		StatusCompleted,
		StatusFailed,
	}
}

// IsValid проверяет, что значение входит в закрытый набор статусов.
func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusScriptReady, StatusProcessing, StatusVoiceReady,
		StatusMixed, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// IsTerminal возвращает true для completed и failed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsInPipeline возвращает true, пока задача выполнения находится в работе.
func (s Status) IsInPipeline() bool {
	return s == StatusProcessing || s == StatusVoiceReady || s == StatusMixed
}

// CanTransitionTo проверяет переход по таблице состояний.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// FailableStatuses - статусы, из которых допустим переход в failed.
func FailableStatuses() []Status {
	return []Status{StatusProcessing, StatusVoiceReady, StatusMixed}
}

// PaymentState - состояние оплаты заявки.
type PaymentState string

const (
	PaymentStatePending   PaymentState = "pending"
	PaymentStateCompleted PaymentState = "completed"
	PaymentStateFailed    PaymentState = "failed"
	PaymentStateRefunded  PaymentState = "refunded"
)

// IsValid проверяет значение состояния оплаты.
func (p PaymentState) IsValid() bool {
	switch p {
	case PaymentStatePending, PaymentStateCompleted, PaymentStateFailed, PaymentStateRefunded:
		return true
	}
	return false
}

// PaymentProvider - тип платежного провайдера.
type PaymentProvider string

const (
	PaymentProviderCard   PaymentProvider = "card"   // Stripe
	PaymentProviderWallet PaymentProvider = "wallet" // PayPal (redirect)
)

// IsValid проверяет значение провайдера.
func (p PaymentProvider) IsValid() bool {
	return p == PaymentProviderCard || p == PaymentProviderWallet
}

// DeliveryChannel - канал доставки готовой медитации.
type DeliveryChannel string

const (
	DeliveryChannelEmail DeliveryChannel = "email"
	DeliveryChannelSMS   DeliveryChannel = "sms"
	DeliveryChannelPush  DeliveryChannel = "push"
)
