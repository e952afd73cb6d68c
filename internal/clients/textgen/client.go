package textgen

import (
	"context"
	"fmt"
	"strings"

	"meditation-server/internal/config"
	"meditation-server/internal/models"

	"go.uber.org/zap"
)

// GenerationParams - параметры генерации. Указатели отличают 0 от "не задано".
type GenerationParams struct {
	Temperature *float64
	MaxTokens   *int
	TopP        *float64
}

// UsageInfo - расход токенов на запрос.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client - провайдер генерации текста.
//
//go:generate mockery --name Client --output ../../mocks --outpkg mocks --structname MockTextGenerator --filename text_generator_mock.go
type Client interface {
	// Complete возвращает непустой текст либо ошибку, обернутую в models.ErrGenerationFailed.
	Complete(ctx context.Context, userID string, systemPersona string, prompt string, params GenerationParams) (string, UsageInfo, error)
}

// NewClient выбирает реализацию по AI_CLIENT_TYPE.
func NewClient(cfg *config.Config, logger *zap.Logger) (Client, error) {
	switch strings.ToLower(cfg.AIClientType) {
	case "openai":
		return newOpenAIClient(cfg, logger), nil
	case "ollama":
		return newOllamaClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown AI client type: '%s'", cfg.AIClientType)
	}
}

func generationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", models.ErrGenerationFailed, fmt.Sprintf(format, args...))
}

func float32Val(f64 *float64) float32 {
	if f64 == nil {
		return 0
	}
	return float32(*f64)
}

func intVal(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
