package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"meditation-server/internal/clients/audiomix"
	"meditation-server/internal/clients/speech"
	"meditation-server/internal/clients/storage"
	"meditation-server/internal/database"
	"meditation-server/internal/interfaces"
	"meditation-server/internal/models"
	"meditation-server/internal/service"
	"meditation-server/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	stageSpeech = "speech"
	stageMix    = "mix"
	stageUpload = "upload"

	audioContentType = "audio/mpeg"
	voiceObjectName  = "voice.mp3"
	finalObjectName  = "final.mp3"

	interruptedReason = "fulfillment interrupted"
)

var (
	// ErrMalformedTask - задачу нельзя обработать ни при каком повторе.
	ErrMalformedTask = errors.New("malformed fulfillment task")
	// ErrLockBusy - лок заявки держит другой воркер (живой или упавший до истечения TTL).
	// Задачу нужно повторить позже, а не подтверждать.
	ErrLockBusy = errors.New("fulfillment lock is held by another worker")
)

// PipelineConfig - таймауты пайплайна. ScratchDir - корень рабочих каталогов микшера,
// файлы вне него пайплайн не удаляет.
type PipelineConfig struct {
	StageTimeout time.Duration
	LockTTL      time.Duration
	ScratchDir   string
}

// FulfillmentHandler проводит заявку через processing -> voice_ready -> mixed -> completed.
type FulfillmentHandler struct {
	repo     interfaces.MeditationRepository
	locker   interfaces.Locker
	speech   speech.Synthesizer
	mixer    audiomix.Mixer
	store    storage.ObjectStore
	delivery service.DeliveryService
	events   interfaces.StatusEventPublisher
	cfg      PipelineConfig
	logger   *zap.Logger
}

// NewFulfillmentHandler создает обработчик задач выполнения. events может быть nil.
func NewFulfillmentHandler(
	repo interfaces.MeditationRepository,
	locker interfaces.Locker,
	synth speech.Synthesizer,
	mixer audiomix.Mixer,
	store storage.ObjectStore,
	delivery service.DeliveryService,
	events interfaces.StatusEventPublisher,
	cfg PipelineConfig,
	logger *zap.Logger,
) *FulfillmentHandler {
	return &FulfillmentHandler{
		repo:     repo,
		locker:   locker,
		speech:   synth,
		mixer:    mixer,
		store:    store,
		delivery: delivery,
		events:   events,
		cfg:      cfg,
		logger:   logger.Named("FulfillmentHandler"),
	}
}

// Handle обрабатывает одну задачу. Ошибка означает, что сообщение нужно отправить в DLQ;
// сбои этапов пайплайна фиксируются на заявке и ошибкой не считаются.
func (h *FulfillmentHandler) Handle(ctx context.Context, task models.FulfillmentTaskPayload) error {
	tasksReceived.Inc()
	log := h.logger.With(zap.String("taskID", task.TaskID), zap.String("meditationID", task.MeditationID))

	id, err := uuid.Parse(task.MeditationID)
	if err != nil {
		return fmt.Errorf("%w: invalid meditation id '%s'", ErrMalformedTask, task.MeditationID)
	}

	lockKey := database.FulfillmentLockKey(id.String())
	token, acquired, err := h.locker.TryLock(ctx, lockKey, h.cfg.LockTTL)
	if err != nil {
		return fmt.Errorf("acquire fulfillment lock: %w", err)
	}
	if !acquired {
		log.Info("Another worker holds the fulfillment lock, task deferred")
		return fmt.Errorf("%w: %s", ErrLockBusy, lockKey)
	}
	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := h.locker.Unlock(unlockCtx, lockKey, token); err != nil {
			log.Warn("Failed to release fulfillment lock", zap.Error(err))
		}
	}()

	m, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			tasksSkipped.WithLabelValues("not_found").Inc()
			log.Warn("Meditation not found, task skipped")
			return nil
		}
		return fmt.Errorf("load meditation: %w", err)
	}

	switch m.Status {
	case models.StatusProcessing:
		return h.run(ctx, log, m)
	case models.StatusVoiceReady, models.StatusMixed:
		// Предыдущий запуск оборвался посреди пайплайна
		log.Warn("Found interrupted fulfillment", zap.String("status", string(m.Status)))
		tasksSkipped.WithLabelValues("interrupted").Inc()
		if err := h.fail(ctx, log, m, interruptedReason); err != nil {
			return err
		}
		if ref := utils.Deref(m.MixedFileRef); ref != "" && h.inScratchDir(ref) {
			h.discardScratch(log, ref)
		}
		return nil
	case models.StatusCompleted, models.StatusFailed:
		tasksSkipped.WithLabelValues("terminal").Inc()
		log.Info("Meditation already finished, duplicate task skipped", zap.String("status", string(m.Status)))
		return nil
	default:
		tasksSkipped.WithLabelValues("not_started").Inc()
		log.Warn("Meditation is not in processing, task skipped", zap.String("status", string(m.Status)))
		return nil
	}
}

func (h *FulfillmentHandler) run(ctx context.Context, log *zap.Logger, m *models.MeditationRequest) error {
	id := m.ID

	// processing -> voice_ready
	started := time.Now()
	voice, voiceURL, err := h.synthesizeVoice(ctx, m)
	observeStage(stageSpeech, started, err)
	if err != nil {
		return h.fail(ctx, log, m, stageError(stageSpeech, err))
	}
	if err := h.repo.SetVoiceReady(ctx, id, voiceURL); err != nil {
		return h.transitionError(log, models.StatusVoiceReady, err)
	}
	m.VoiceFileURL = utils.StringPtr(voiceURL)
	m.Status = models.StatusVoiceReady
	h.publish(ctx, m, "")
	log.Info("Voice track ready", zap.String("voiceURL", voiceURL))

	// voice_ready -> mixed
	started = time.Now()
	mixed, err := h.mix(ctx, voice, m)
	observeStage(stageMix, started, err)
	if err != nil {
		return h.fail(ctx, log, m, stageError(stageMix, err))
	}
	if err := h.repo.SetMixed(ctx, id, mixed.Path, mixed.DurationSec, mixed.SizeBytes); err != nil {
		_ = audiomix.RemoveScratch(mixed.Path)
		return h.transitionError(log, models.StatusMixed, err)
	}
	m.MixedFileRef = utils.StringPtr(mixed.Path)
	m.AudioDurationSec = &mixed.DurationSec
	m.AudioSizeBytes = &mixed.SizeBytes
	m.Status = models.StatusMixed
	h.publish(ctx, m, "")
	log.Info("Audio mixed", zap.Float64("durationSec", mixed.DurationSec), zap.Int64("sizeBytes", mixed.SizeBytes))

	// mixed -> completed
	started = time.Now()
	finalURL, err := h.uploadFinal(ctx, m, mixed.Path)
	observeStage(stageUpload, started, err)
	if err != nil {
		// Заявка в failed не возобновляется, держать микс на диске незачем
		defer h.discardScratch(log, mixed.Path)
		return h.fail(ctx, log, m, stageError(stageUpload, err))
	}
	if err := h.repo.SetCompleted(ctx, id, finalURL); err != nil {
		return h.transitionError(log, models.StatusCompleted, err)
	}
	h.discardScratch(log, mixed.Path)
	m.FinalAudioURL = utils.StringPtr(finalURL)
	m.Status = models.StatusCompleted
	h.publish(ctx, m, "")
	log.Info("Meditation completed", zap.String("finalAudioURL", finalURL))

	h.delivery.Deliver(ctx, m)
	return nil
}

// synthesizeVoice возвращает аудио голоса и его публичный URL.
func (h *FulfillmentHandler) synthesizeVoice(ctx context.Context, m *models.MeditationRequest) ([]byte, string, error) {
	stageCtx, cancel := context.WithTimeout(ctx, h.cfg.StageTimeout)
	defer cancel()

	audio, err := h.speech.Synthesize(stageCtx, m.FinalScript, m.Voice)
	if err != nil {
		return nil, "", err
	}
	if len(audio) == 0 {
		return nil, "", errors.New("synthesizer returned empty audio")
	}
	url, err := h.store.Upload(stageCtx, storage.MeditationKey(m.ID.String(), voiceObjectName), audio, audioContentType)
	if err != nil {
		return nil, "", err
	}
	return audio, url, nil
}

func (h *FulfillmentHandler) mix(ctx context.Context, voice []byte, m *models.MeditationRequest) (audiomix.Result, error) {
	stageCtx, cancel := context.WithTimeout(ctx, h.cfg.StageTimeout)
	defer cancel()
	return h.mixer.Mix(stageCtx, voice, m.Background, m.DurationMinutes)
}

func (h *FulfillmentHandler) uploadFinal(ctx context.Context, m *models.MeditationRequest, path string) (string, error) {
	stageCtx, cancel := context.WithTimeout(ctx, h.cfg.StageTimeout)
	defer cancel()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read mixed file: %w", err)
	}
	return h.store.Upload(stageCtx, storage.MeditationKey(m.ID.String(), finalObjectName), data, audioContentType)
}

func (h *FulfillmentHandler) discardScratch(log *zap.Logger, path string) {
	if err := audiomix.RemoveScratch(path); err != nil {
		log.Warn("Failed to remove scratch files", zap.String("path", path), zap.Error(err))
	}
}

// inScratchDir: MixedFileRef из БД мог записать воркер с другим ScratchDir.
func (h *FulfillmentHandler) inScratchDir(path string) bool {
	if h.cfg.ScratchDir == "" {
		return false
	}
	rel, err := filepath.Rel(h.cfg.ScratchDir, filepath.Dir(path))
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}

// fail переводит заявку в failed. Ошибка возвращается только если записать статус не удалось.
func (h *FulfillmentHandler) fail(ctx context.Context, log *zap.Logger, m *models.MeditationRequest, reason string) error {
	log.Warn("Fulfillment failed", zap.String("status", string(m.Status)), zap.String("reason", reason))

	failCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := h.repo.MarkFailed(failCtx, m.ID, reason); err != nil {
		if errors.Is(err, models.ErrInvalidState) {
			log.Warn("Meditation left the pipeline before it could be marked failed")
			return nil
		}
		return fmt.Errorf("mark meditation failed: %w", err)
	}
	m.Status = models.StatusFailed
	m.Error = utils.StringPtr(reason)
	h.publish(failCtx, m, reason)
	return nil
}

// transitionError: CAS не прошел, значит статус сменил кто-то другой и задачу можно подтвердить.
func (h *FulfillmentHandler) transitionError(log *zap.Logger, target models.Status, err error) error {
	if errors.Is(err, models.ErrInvalidState) {
		log.Warn("Status changed concurrently, pipeline stopped", zap.String("target", string(target)))
		return nil
	}
	return fmt.Errorf("persist %s: %w", target, err)
}

func (h *FulfillmentHandler) publish(ctx context.Context, m *models.MeditationRequest, errText string) {
	if h.events == nil {
		return
	}
	event := models.StatusEvent{
		MeditationID:  m.ID.String(),
		Status:        m.Status,
		Error:         errText,
		FinalAudioURL: utils.Deref(m.FinalAudioURL),
		At:            time.Now().UTC(),
	}
	if err := h.events.PublishStatus(ctx, event); err != nil {
		h.logger.Warn("Failed to publish status event", zap.String("meditationID", event.MeditationID), zap.Error(err))
	}
}

func stageError(stage string, err error) string {
	return fmt.Sprintf("%s: %s stage: %v", models.ErrPipelineFailed, stage, err)
}
