package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"meditation-server/internal/config"
	"meditation-server/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// MaxChunkChars - запас под лимит провайдера в 4096 символов на запрос.
const MaxChunkChars = 4000

var ttsDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "meditation_tts_request_duration_seconds",
		Help:    "Histogram of speech synthesis request durations per chunk.",
		Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 40, 60},
	},
	[]string{"status"},
)

// Synthesizer озвучивает текст выбранным голосом и возвращает MP3.
//
//go:generate mockery --name Synthesizer --output ../../mocks --outpkg mocks --structname MockSpeechSynthesizer --filename speech_synthesizer_mock.go
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice models.Voice) ([]byte, error)
}

// speechAPI - часть go-openai, нужная для синтеза.
type speechAPI interface {
	CreateSpeech(ctx context.Context, request openaigo.CreateSpeechRequest) (openaigo.RawResponse, error)
}

type openAISynthesizer struct {
	api    speechAPI
	model  openaigo.SpeechModel
	voices map[models.Voice]openaigo.SpeechVoice
	speed  float64
	logger *zap.Logger
}

// NewOpenAISynthesizer создает клиент OpenAI TTS.
func NewOpenAISynthesizer(cfg *config.Config, logger *zap.Logger) Synthesizer {
	clientConfig := openaigo.DefaultConfig(cfg.AIAPIKey)
	clientConfig.BaseURL = cfg.TTSBaseURL
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.StageTimeout}

	return newSynthesizer(openaigo.NewClientWithConfig(clientConfig), cfg, logger)
}

func newSynthesizer(api speechAPI, cfg *config.Config, logger *zap.Logger) *openAISynthesizer {
	return &openAISynthesizer{
		api:   api,
		model: openaigo.SpeechModel(cfg.TTSModel),
		voices: map[models.Voice]openaigo.SpeechVoice{
			models.VoiceFemale: openaigo.SpeechVoice(cfg.TTSVoiceFemale),
			models.VoiceMale:   openaigo.SpeechVoice(cfg.TTSVoiceMale),
		},
		speed:  cfg.TTSSpeed,
		logger: logger.Named("SpeechSynthesizer"),
	}
}

func (s *openAISynthesizer) Synthesize(ctx context.Context, text string, voice models.Voice) ([]byte, error) {
	providerVoice, ok := s.voices[voice]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported voice '%s'", models.ErrInvalidRequest, voice)
	}
	chunks := SplitText(text, MaxChunkChars)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: nothing to synthesize", models.ErrInvalidRequest)
	}

	var audio bytes.Buffer
	for i, chunk := range chunks {
		start := time.Now()
		resp, err := s.api.CreateSpeech(ctx, openaigo.CreateSpeechRequest{
			Model:          s.model,
			Input:          chunk,
			Voice:          providerVoice,
			ResponseFormat: openaigo.SpeechResponseFormatMp3,
			Speed:          s.speed,
		})
		if err != nil {
			ttsDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
			return nil, fmt.Errorf("speech chunk %d/%d failed: %w", i+1, len(chunks), err)
		}
		_, err = io.Copy(&audio, resp)
		resp.Close()
		if err != nil {
			ttsDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
			return nil, fmt.Errorf("failed to read speech chunk %d/%d: %w", i+1, len(chunks), err)
		}
		ttsDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
	}

	s.logger.Info("Speech synthesized",
		zap.String("voice", string(voice)), zap.Int("chunks", len(chunks)), zap.Int("bytes", audio.Len()))
	return audio.Bytes(), nil
}

// SplitText режет текст на части не длиннее limit рун, стараясь резать по абзацам,
// затем по предложениям и только в крайнем случае по пробелам.
func SplitText(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var chunks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}
	add := func(piece, sep string) {
		if current.Len() > 0 && runeLen(current.String())+runeLen(sep)+runeLen(piece) > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(piece)
	}

	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		if runeLen(paragraph) <= limit {
			add(paragraph, "\n\n")
			continue
		}
		for _, sentence := range splitSentences(paragraph) {
			if runeLen(sentence) <= limit {
				add(sentence, " ")
				continue
			}
			for _, word := range strings.Fields(sentence) {
				for runeLen(word) > limit {
					r := []rune(word)
					add(string(r[:limit]), " ")
					word = string(r[limit:])
				}
				add(word, " ")
			}
		}
	}
	flush()
	return chunks
}

func splitSentences(paragraph string) []string {
	var sentences []string
	start := 0
	runes := []rune(paragraph)
	for i, r := range runes {
		if (r == '.' || r == '!' || r == '?') && (i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n') {
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func runeLen(s string) int {
	return len([]rune(s))
}
