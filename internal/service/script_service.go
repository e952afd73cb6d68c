package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meditation-server/internal/clients/textgen"
	"meditation-server/internal/models"

	"go.uber.org/zap"
)

const (
	scriptTemperature  = 0.7
	rewriteTemperature = 0.6

	tokensPerMinute   = 130
	scriptTokenBuffer = 200
)

// guidePersona - системная роль для генерации и правки сценариев.
const guidePersona = `You are an experienced meditation guide and scriptwriter.
You write calm, warm, second-person guided meditation scripts meant to be read aloud by a narrator.
Use plain spoken language, short sentences and natural pauses marked with "...".
Never include stage directions, headings, markdown, music cues or speaker labels. Output only the script text.`

// ScriptService генерирует и переписывает тексты медитаций. Ничего не сохраняет сам.
//
//go:generate mockery --name ScriptService --output ../mocks --outpkg mocks --structname MockScriptService --filename script_service_mock.go
type ScriptService interface {
	// Generate возвращает непустой текст либо models.ErrGenerationFailed.
	Generate(ctx context.Context, userID string, input models.MeditationInput) (string, error)
	// Rewrite требует хотя бы одну непустую подсказку.
	Rewrite(ctx context.Context, userID string, currentText, toneHint, lengthHint string) (string, error)
}

type scriptServiceImpl struct {
	ai            textgen.Client
	tokens        *textgen.TokenCounter
	maxTokens     int
	contextWindow int
	logger        *zap.Logger
}

// NewScriptService создает сервис сценариев.
func NewScriptService(ai textgen.Client, tokens *textgen.TokenCounter, maxTokens, contextWindow int, logger *zap.Logger) ScriptService {
	return &scriptServiceImpl{
		ai:            ai,
		tokens:        tokens,
		maxTokens:     maxTokens,
		contextWindow: contextWindow,
		logger:        logger.Named("ScriptService"),
	}
}

func (s *scriptServiceImpl) Generate(ctx context.Context, userID string, input models.MeditationInput) (string, error) {
	prompt := BuildScriptPrompt(input)
	budget, err := s.fitBudget(prompt, ScriptTokenBudget(input.DurationMinutes))
	if err != nil {
		return "", err
	}

	text, _, err := s.ai.Complete(ctx, userID, guidePersona, prompt, textgen.GenerationParams{
		Temperature: float64Ptr(scriptTemperature),
		MaxTokens:   &budget,
	})
	if err != nil {
		s.logger.Warn("Script generation failed", zap.String("userID", userID), zap.Error(err))
		return "", asGenerationError(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty script", models.ErrGenerationFailed)
	}
	return text, nil
}

func (s *scriptServiceImpl) Rewrite(ctx context.Context, userID string, currentText, toneHint, lengthHint string) (string, error) {
	toneHint = strings.TrimSpace(toneHint)
	lengthHint = strings.TrimSpace(lengthHint)
	if toneHint == "" && lengthHint == "" {
		return "", fmt.Errorf("%w: tone or length hint is required", models.ErrInvalidRequest)
	}
	if strings.TrimSpace(currentText) == "" {
		return "", fmt.Errorf("%w: nothing to rewrite", models.ErrInvalidRequest)
	}

	prompt := BuildRewritePrompt(currentText, toneHint, lengthHint)
	// Правка может удлинить текст: запас в полтора раза от текущего объема.
	budget, err := s.fitBudget(prompt, s.tokens.Count(currentText)*3/2+scriptTokenBuffer)
	if err != nil {
		return "", err
	}

	text, _, err := s.ai.Complete(ctx, userID, guidePersona, prompt, textgen.GenerationParams{
		Temperature: float64Ptr(rewriteTemperature),
		MaxTokens:   &budget,
	})
	if err != nil {
		s.logger.Warn("Script rewrite failed", zap.String("userID", userID), zap.Error(err))
		return "", asGenerationError(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty rewrite", models.ErrGenerationFailed)
	}
	return text, nil
}

// fitBudget ограничивает ответ AI_MAX_TOKENS и остатком контекстного окна.
func (s *scriptServiceImpl) fitBudget(prompt string, wanted int) (int, error) {
	budget := wanted
	if s.maxTokens > 0 && budget > s.maxTokens {
		budget = s.maxTokens
	}
	if s.contextWindow > 0 {
		used := s.tokens.Count(guidePersona) + s.tokens.Count(prompt)
		if room := s.contextWindow - used; budget > room {
			budget = room
		}
	}
	if budget <= 0 {
		return 0, fmt.Errorf("%w: prompt does not fit into the model context window", models.ErrInvalidRequest)
	}
	return budget, nil
}

// ScriptTokenBudget: примерно 130 токенов на минуту речи плюс запас.
func ScriptTokenBudget(minutes int) int {
	return minutes*tokensPerMinute + scriptTokenBuffer
}

// BuildScriptPrompt собирает детерминированный промпт из анкеты.
func BuildScriptPrompt(in models.MeditationInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a guided meditation script of about %d minutes (roughly %d spoken words).\n",
		in.DurationMinutes, in.DurationMinutes*tokensPerMinute*3/4)
	fmt.Fprintf(&b, "It will be narrated by a %s voice.\n\n", in.Voice)
	fmt.Fprintf(&b, "Listener's goal: %s\n", strings.TrimSpace(in.Goal))
	fmt.Fprintf(&b, "Current mood: %s\n", strings.TrimSpace(in.Mood))
	if c := strings.TrimSpace(in.Challenges); c != "" {
		fmt.Fprintf(&b, "Challenges: %s\n", c)
	}
	if a := strings.TrimSpace(in.Affirmations); a != "" {
		fmt.Fprintf(&b, "Affirmations to weave in: %s\n", a)
	}
	fmt.Fprintf(&b, "Background ambience: %s\n\n", in.Background)
	b.WriteString("Structure: settling and breathing, body relaxation, the main visualization addressing the goal, ")
	b.WriteString("the affirmations, and a gentle return to awareness.")
	return b.String()
}

// BuildRewritePrompt собирает промпт правки текста.
func BuildRewritePrompt(currentText, toneHint, lengthHint string) string {
	var b strings.Builder
	b.WriteString("Revise the guided meditation script below. Keep its meaning and second-person voice.\n")
	if toneHint != "" {
		fmt.Fprintf(&b, "Tone: %s\n", toneHint)
	}
	if lengthHint != "" {
		fmt.Fprintf(&b, "Length: %s\n", lengthHint)
	}
	b.WriteString("\nScript:\n")
	b.WriteString(strings.TrimSpace(currentText))
	return b.String()
}

func asGenerationError(err error) error {
	if errors.Is(err, models.ErrGenerationFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
}

func float64Ptr(f float64) *float64 { return &f }
