// Package poller ждет завершения заявки, опрашивая API по расписанию с нарастающим интервалом.
package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

var (
	// ErrTimedOut - заявка не завершилась за отведенное число опросов.
	ErrTimedOut = errors.New("taking longer than expected")
	// ErrRateLimited - сервер ответил 429; опрос прекращается до ручного обновления.
	ErrRateLimited = errors.New("rate limited, refresh manually later")
	// ErrRejected - сервер отказал окончательно (нет заявки или нет доступа).
	ErrRejected = errors.New("status request rejected")

	errNotFinished = errors.New("meditation is not finished yet")
)

const (
	// DefaultMaxRetries - повторы после первого опроса (всего 21 опрос, около 10 минут).
	DefaultMaxRetries  = 20
	defaultHTTPTimeout = 15 * time.Second
)

// DefaultSchedule - интервалы между опросами; последний повторяется.
var DefaultSchedule = []time.Duration{3 * time.Second, 5 * time.Second, 8 * time.Second, 10 * time.Second}

// StatusSnapshot - то, что клиенту нужно знать о ходе выполнения.
type StatusSnapshot struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Error         *string `json:"error,omitempty"`
	FinalAudioURL *string `json:"finalAudioUrl,omitempty"`
}

// IsTerminal - completed или failed.
func (s *StatusSnapshot) IsTerminal() bool {
	return s.Status == "completed" || s.Status == "failed"
}

// Options настраивают Poller. Нулевые значения заменяются умолчаниями.
type Options struct {
	BaseURL    string
	Token      string
	Schedule   []time.Duration
	MaxRetries uint64
	HTTPClient *http.Client
	// OnPoll вызывается после каждого успешного опроса, например для вывода прогресса.
	OnPoll func(attempt int, snap *StatusSnapshot)
}

// Poller опрашивает GET /api/v1/meditations/:id.
type Poller struct {
	opts   Options
	logger *zap.Logger
}

// New создает Poller.
func New(opts Options, logger *zap.Logger) *Poller {
	if len(opts.Schedule) == 0 {
		opts.Schedule = DefaultSchedule
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Poller{opts: opts, logger: logger.Named("Poller")}
}

// Wait опрашивает заявку, пока она не станет терминальной.
func (p *Poller) Wait(ctx context.Context, id string) (*StatusSnapshot, error) {
	log := p.logger.With(zap.String("meditationID", id))
	var last *StatusSnapshot
	attempt := 0

	operation := func() error {
		attempt++
		snap, err := p.Fetch(ctx, id)
		if err != nil {
			if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrRejected) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			// Сетевые ошибки и 5xx тратят попытку, но не прерывают ожидание
			log.Warn("Status poll failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		last = snap
		if p.opts.OnPoll != nil {
			p.opts.OnPoll(attempt, snap)
		}
		if snap.IsTerminal() {
			return nil
		}
		return errNotFinished
	}

	b := backoff.WithContext(backoff.WithMaxRetries(newSchedule(p.opts.Schedule), p.opts.MaxRetries), ctx)
	err := backoff.Retry(operation, b)
	switch {
	case err == nil:
		log.Info("Meditation reached terminal status", zap.String("status", last.Status), zap.Int("polls", attempt))
		return last, nil
	case errors.Is(err, ErrRateLimited):
		return last, ErrRateLimited
	case errors.Is(err, ErrRejected):
		return last, err
	case ctx.Err() != nil:
		return last, ctx.Err()
	default:
		log.Info("Polling ceiling reached", zap.Int("polls", attempt), zap.NamedError("lastError", err))
		return last, ErrTimedOut
	}
}

// Fetch выполняет один опрос.
func (p *Poller) Fetch(ctx context.Context, id string) (*StatusSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.opts.BaseURL+"/api/v1/meditations/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.opts.Token)
	}

	resp, err := p.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w (%d): %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var snap StatusSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &snap, nil
}

// schedule - BackOff с фиксированной лестницей интервалов.
type schedule struct {
	steps []time.Duration
	next  int
}

func newSchedule(steps []time.Duration) *schedule {
	return &schedule{steps: steps}
}

func (s *schedule) NextBackOff() time.Duration {
	d := s.steps[len(s.steps)-1]
	if s.next < len(s.steps) {
		d = s.steps[s.next]
	}
	s.next++
	return d
}

func (s *schedule) Reset() { s.next = 0 }
