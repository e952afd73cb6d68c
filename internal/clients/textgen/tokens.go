package textgen

import (
	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// TokenCounter считает токены промпта. Для неизвестных моделей берется cl100k_base,
// а если токенизатор недоступен совсем, используется оценка len/4.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTokenCounter создает счетчик для модели.
func NewTokenCounter(model string) *TokenCounter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return &TokenCounter{}
		}
	}
	return &TokenCounter{enc: enc}
}

// Count возвращает количество токенов в тексте.
func (t *TokenCounter) Count(text string) int {
	if t == nil || t.enc == nil {
		return (len(text) + 3) / 4
	}
	return len(t.enc.Encode(text, nil, nil))
}
