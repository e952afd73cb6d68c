package worker_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"meditation-server/internal/clients/audiomix"
	"meditation-server/internal/clients/storage"
	"meditation-server/internal/database"
	"meditation-server/internal/mocks"
	"meditation-server/internal/models"
	"meditation-server/internal/service"
	"meditation-server/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type PipelineSuite struct {
	suite.Suite
	ctx      context.Context
	repo     *mocks.MockMeditationRepository
	locker   *mocks.MockLocker
	speech   *mocks.MockSpeechSynthesizer
	mixer    *mocks.MockMixer
	store    *mocks.MockObjectStore
	delivery *mocks.MockDeliveryService
	events   *mocks.MockStatusEventPublisher
	handler  *worker.FulfillmentHandler

	meditation *models.MeditationRequest
	task       models.FulfillmentTaskPayload
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	t := s.T()
	s.ctx = context.Background()
	s.repo = mocks.NewMockMeditationRepository(t)
	s.locker = mocks.NewMockLocker(t)
	s.speech = mocks.NewMockSpeechSynthesizer(t)
	s.mixer = mocks.NewMockMixer(t)
	s.store = mocks.NewMockObjectStore(t)
	s.delivery = mocks.NewMockDeliveryService(t)
	s.events = mocks.NewMockStatusEventPublisher(t)
	s.handler = worker.NewFulfillmentHandler(s.repo, s.locker, s.speech, s.mixer, s.store, s.delivery, s.events,
		worker.PipelineConfig{StageTimeout: time.Minute, LockTTL: time.Minute}, zap.NewNop())

	s.meditation = &models.MeditationRequest{
		ID:     uuid.New(),
		UserID: uuid.New(),
		MeditationInput: models.MeditationInput{
			Goal: "Sleep", Mood: "tired", DurationMinutes: 5,
			Voice: models.VoiceMale, Background: models.BackgroundOcean,
		},
		Contact:         models.Contact{Email: "user@example.com"},
		FinalScript:     "Breathe in... and out.",
		PaymentSnapshot: models.PaymentSnapshot{PaymentState: models.PaymentStateCompleted},
		Status:          models.StatusProcessing,
	}
	s.task = models.FulfillmentTaskPayload{
		TaskID:       uuid.NewString(),
		MeditationID: s.meditation.ID.String(),
		UserID:       s.meditation.UserID.String(),
	}
}

func (s *PipelineSuite) expectLock() {
	key := database.FulfillmentLockKey(s.meditation.ID.String())
	s.locker.On("TryLock", mock.Anything, key, time.Minute).Return("token-1", true, nil).Once()
	s.locker.On("Unlock", mock.Anything, key, "token-1").Return(nil).Once()
}

func (s *PipelineSuite) expectEvent(status models.Status) {
	s.events.On("PublishStatus", mock.Anything, mock.MatchedBy(func(e models.StatusEvent) bool {
		return e.MeditationID == s.meditation.ID.String() && e.Status == status
	})).Return(nil).Once()
}

// scratchFile создает файл микса так, как его оставляет ffmpeg.
func (s *PipelineSuite) scratchFile() string {
	dir, err := os.MkdirTemp(s.T().TempDir(), "mix-")
	s.Require().NoError(err)
	path := filepath.Join(dir, "final.mp3")
	s.Require().NoError(os.WriteFile(path, []byte("mixed-audio"), 0o644))
	return path
}

func (s *PipelineSuite) TestHappyPath() {
	id := s.meditation.ID
	mixedPath := s.scratchFile()
	voiceURL := "https://cdn.example.com/meditations/" + id.String() + "/voice.mp3"
	finalURL := "https://cdn.example.com/meditations/" + id.String() + "/final.mp3"

	s.expectLock()
	s.repo.On("GetByID", mock.Anything, id).Return(s.meditation, nil).Once()
	s.speech.On("Synthesize", mock.Anything, "Breathe in... and out.", models.VoiceMale).Return([]byte("voice-audio"), nil).Once()
	s.store.On("Upload", mock.Anything, storage.MeditationKey(id.String(), "voice.mp3"), []byte("voice-audio"), "audio/mpeg").Return(voiceURL, nil).Once()
	s.repo.On("SetVoiceReady", mock.Anything, id, voiceURL).Return(nil).Once()
	s.expectEvent(models.StatusVoiceReady)
	s.mixer.On("Mix", mock.Anything, []byte("voice-audio"), models.BackgroundOcean, 5).
		Return(audiomix.Result{Path: mixedPath, DurationSec: 300, SizeBytes: 11}, nil).Once()
	s.repo.On("SetMixed", mock.Anything, id, mixedPath, 300.0, int64(11)).Return(nil).Once()
	s.expectEvent(models.StatusMixed)
	s.store.On("Upload", mock.Anything, storage.MeditationKey(id.String(), "final.mp3"), []byte("mixed-audio"), "audio/mpeg").Return(finalURL, nil).Once()
	s.repo.On("SetCompleted", mock.Anything, id, finalURL).Return(nil).Once()
	s.events.On("PublishStatus", mock.Anything, mock.MatchedBy(func(e models.StatusEvent) bool {
		return e.Status == models.StatusCompleted && e.FinalAudioURL == finalURL
	})).Return(nil).Once()
	s.delivery.On("Deliver", mock.Anything, mock.MatchedBy(func(m *models.MeditationRequest) bool {
		return m.Status == models.StatusCompleted && m.FinalAudioURL != nil && *m.FinalAudioURL == finalURL
	})).Return(service.DeliveryReport{Email: true}).Once()

	err := s.handler.Handle(s.ctx, s.task)

	s.Require().NoError(err)
	_, statErr := os.Stat(filepath.Dir(mixedPath))
	s.True(os.IsNotExist(statErr), "scratch directory must be removed")
}

func (s *PipelineSuite) TestDeliveryFailureKeepsCompleted() {
	id := s.meditation.ID
	mixedPath := s.scratchFile()
	finalURL := "https://cdn/final.mp3"

	s.expectLock()
	s.repo.On("GetByID", mock.Anything, id).Return(s.meditation, nil).Once()
	s.speech.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).Return([]byte("voice"), nil).Once()
	s.store.On("Upload", mock.Anything, storage.MeditationKey(id.String(), "voice.mp3"), mock.Anything, mock.Anything).Return("https://cdn/voice.mp3", nil).Once()
	s.repo.On("SetVoiceReady", mock.Anything, id, "https://cdn/voice.mp3").Return(nil).Once()
	s.expectEvent(models.StatusVoiceReady)
	s.mixer.On("Mix", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(audiomix.Result{Path: mixedPath, DurationSec: 300, SizeBytes: 11}, nil).Once()
	s.repo.On("SetMixed", mock.Anything, id, mixedPath, 300.0, int64(11)).Return(nil).Once()
	s.expectEvent(models.StatusMixed)
	s.store.On("Upload", mock.Anything, storage.MeditationKey(id.String(), "final.mp3"), mock.Anything, mock.Anything).Return(finalURL, nil).Once()
	s.repo.On("SetCompleted", mock.Anything, id, finalURL).Return(nil).Once()
	s.expectEvent(models.StatusCompleted)
	s.delivery.On("Deliver", mock.Anything, mock.Anything).Return(service.DeliveryReport{}).Once()

	s.NoError(s.handler.Handle(s.ctx, s.task))

	s.Equal(models.StatusCompleted, s.meditation.Status)
	s.repo.AssertNotCalled(s.T(), "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
	s.events.AssertNotCalled(s.T(), "PublishStatus", mock.Anything, mock.MatchedBy(func(e models.StatusEvent) bool {
		return e.Status == models.StatusFailed
	}))
}

func (s *PipelineSuite) TestLockHeldElsewhere() {
	key := database.FulfillmentLockKey(s.meditation.ID.String())
	s.locker.On("TryLock", mock.Anything, key, time.Minute).Return("", false, nil).Once()

	err := s.handler.Handle(s.ctx, s.task)

	s.ErrorIs(err, worker.ErrLockBusy)
	s.repo.AssertNotCalled(s.T(), "GetByID", mock.Anything, mock.Anything)
}

func (s *PipelineSuite) TestLockHeldWhileMeditationMidPipelineIsNotDropped() {
	s.meditation.Status = models.StatusVoiceReady
	key := database.FulfillmentLockKey(s.meditation.ID.String())
	s.locker.On("TryLock", mock.Anything, key, time.Minute).Return("", false, nil).Once()

	err := s.handler.Handle(s.ctx, s.task)

	// nil означал бы ack и потерю задачи
	s.Require().Error(err)
	s.ErrorIs(err, worker.ErrLockBusy)
	s.repo.AssertNotCalled(s.T(), "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PipelineSuite) TestLockError() {
	s.locker.On("TryLock", mock.Anything, mock.Anything, mock.Anything).Return("", false, errors.New("redis down")).Once()

	err := s.handler.Handle(s.ctx, s.task)

	s.Error(err)
}

func (s *PipelineSuite) TestMalformedTask() {
	s.task.MeditationID = "not-a-uuid"

	err := s.handler.Handle(s.ctx, s.task)

	s.ErrorIs(err, worker.ErrMalformedTask)
}

func (s *PipelineSuite) TestDuplicateTaskForTerminalMeditation() {
	for _, status := range []models.Status{models.StatusCompleted, models.StatusFailed} {
		s.Run(string(status), func() {
			s.SetupTest()
			s.meditation.Status = status
			s.expectLock()
			s.repo.On("GetByID", mock.Anything, s.meditation.ID).Return(s.meditation, nil).Once()

			s.NoError(s.handler.Handle(s.ctx, s.task))
			s.speech.AssertNotCalled(s.T(), "Synthesize", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func (s *PipelineSuite) TestInterruptedFulfillmentFails() {
	s.meditation.Status = models.StatusMixed
	s.expectLock()
	s.repo.On("GetByID", mock.Anything, s.meditation.ID).Return(s.meditation, nil).Once()
	s.repo.On("MarkFailed", mock.Anything, s.meditation.ID, "fulfillment interrupted").Return(nil).Once()
	s.expectEvent(models.StatusFailed)

	s.NoError(s.handler.Handle(s.ctx, s.task))
}

func (s *PipelineSuite) TestSpeechFailureMarksFailed() {
	s.expectLock()
	s.repo.On("GetByID", mock.Anything, s.meditation.ID).Return(s.meditation, nil).Once()
	s.speech.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("tts quota exceeded")).Once()
	s.repo.On("MarkFailed", mock.Anything, s.meditation.ID, mock.MatchedBy(func(reason string) bool {
		return strings.Contains(reason, "speech stage") && strings.Contains(reason, "tts quota exceeded")
	})).Return(nil).Once()
	s.events.On("PublishStatus", mock.Anything, mock.MatchedBy(func(e models.StatusEvent) bool {
		return e.Status == models.StatusFailed && strings.Contains(e.Error, "tts quota exceeded")
	})).Return(nil).Once()

	s.NoError(s.handler.Handle(s.ctx, s.task))
	s.repo.AssertNotCalled(s.T(), "SetVoiceReady", mock.Anything, mock.Anything, mock.Anything)
	s.delivery.AssertNotCalled(s.T(), "Deliver", mock.Anything, mock.Anything)
}

func (s *PipelineSuite) TestMixFailureAfterVoiceReady() {
	id := s.meditation.ID
	s.expectLock()
	s.repo.On("GetByID", mock.Anything, id).Return(s.meditation, nil).Once()
	s.speech.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).Return([]byte("voice"), nil).Once()
	s.store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/voice.mp3", nil).Once()
	s.repo.On("SetVoiceReady", mock.Anything, id, "https://cdn/voice.mp3").Return(nil).Once()
	s.expectEvent(models.StatusVoiceReady)
	s.mixer.On("Mix", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(audiomix.Result{}, errors.New("ffmpeg exited 1")).Once()
	s.repo.On("MarkFailed", mock.Anything, id, mock.MatchedBy(func(reason string) bool {
		return strings.Contains(reason, "mix stage")
	})).Return(nil).Once()
	s.expectEvent(models.StatusFailed)

	s.NoError(s.handler.Handle(s.ctx, s.task))
	s.repo.AssertNotCalled(s.T(), "SetMixed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *PipelineSuite) TestUploadFailureRemovesScratch() {
	id := s.meditation.ID
	mixedPath := s.scratchFile()

	s.expectLock()
	s.repo.On("GetByID", mock.Anything, id).Return(s.meditation, nil).Once()
	s.speech.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).Return([]byte("voice"), nil).Once()
	s.store.On("Upload", mock.Anything, storage.MeditationKey(id.String(), "voice.mp3"), mock.Anything, mock.Anything).Return("https://cdn/voice.mp3", nil).Once()
	s.repo.On("SetVoiceReady", mock.Anything, id, "https://cdn/voice.mp3").Return(nil).Once()
	s.expectEvent(models.StatusVoiceReady)
	s.mixer.On("Mix", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(audiomix.Result{Path: mixedPath, DurationSec: 300, SizeBytes: 11}, nil).Once()
	s.repo.On("SetMixed", mock.Anything, id, mixedPath, 300.0, int64(11)).Return(nil).Once()
	s.expectEvent(models.StatusMixed)
	s.store.On("Upload", mock.Anything, storage.MeditationKey(id.String(), "final.mp3"), mock.Anything, mock.Anything).
		Return("", errors.New("bucket unavailable")).Once()
	s.repo.On("MarkFailed", mock.Anything, id, mock.MatchedBy(func(reason string) bool {
		return strings.Contains(reason, "upload stage")
	})).Return(nil).Once()
	s.expectEvent(models.StatusFailed)

	s.NoError(s.handler.Handle(s.ctx, s.task))

	_, statErr := os.Stat(filepath.Dir(mixedPath))
	s.True(os.IsNotExist(statErr), "scratch directory must be removed after a failed upload")
	s.repo.AssertNotCalled(s.T(), "SetCompleted", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PipelineSuite) TestInterruptedMixRemovesScratchInsideScratchDir() {
	mixedPath := s.scratchFile()
	foreign := filepath.Join(s.T().TempDir(), "elsewhere", "final.mp3")
	s.Require().NoError(os.MkdirAll(filepath.Dir(foreign), 0o755))
	s.Require().NoError(os.WriteFile(foreign, []byte("x"), 0o644))

	for name, tc := range map[string]struct {
		path    string
		removed bool
	}{
		"own scratch":     {path: mixedPath, removed: true},
		"foreign scratch": {path: foreign, removed: false},
	} {
		s.Run(name, func() {
			s.SetupTest()
			s.handler = worker.NewFulfillmentHandler(s.repo, s.locker, s.speech, s.mixer, s.store, s.delivery, s.events,
				worker.PipelineConfig{StageTimeout: time.Minute, LockTTL: time.Minute, ScratchDir: filepath.Dir(filepath.Dir(mixedPath))},
				zap.NewNop())
			s.meditation.Status = models.StatusMixed
			s.meditation.MixedFileRef = &tc.path
			s.expectLock()
			s.repo.On("GetByID", mock.Anything, s.meditation.ID).Return(s.meditation, nil).Once()
			s.repo.On("MarkFailed", mock.Anything, s.meditation.ID, "fulfillment interrupted").Return(nil).Once()
			s.expectEvent(models.StatusFailed)

			s.NoError(s.handler.Handle(s.ctx, s.task))

			_, statErr := os.Stat(filepath.Dir(tc.path))
			s.Equal(tc.removed, os.IsNotExist(statErr))
		})
	}
}

func (s *PipelineSuite) TestMarkFailedInfrastructureError() {
	s.expectLock()
	s.repo.On("GetByID", mock.Anything, s.meditation.ID).Return(s.meditation, nil).Once()
	s.speech.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("tts down")).Once()
	s.repo.On("MarkFailed", mock.Anything, s.meditation.ID, mock.Anything).Return(errors.New("db down")).Once()

	err := s.handler.Handle(s.ctx, s.task)

	s.Error(err)
}

func TestFulfillmentHandler_NotFoundIsSkipped(t *testing.T) {
	repo := mocks.NewMockMeditationRepository(t)
	locker := mocks.NewMockLocker(t)
	handler := worker.NewFulfillmentHandler(repo, locker, nil, nil, nil, nil, nil,
		worker.PipelineConfig{StageTimeout: time.Second, LockTTL: time.Second}, zap.NewNop())

	id := uuid.New()
	locker.On("TryLock", mock.Anything, mock.Anything, time.Second).Return("tok", true, nil).Once()
	locker.On("Unlock", mock.Anything, mock.Anything, "tok").Return(nil).Once()
	repo.On("GetByID", mock.Anything, id).Return(nil, models.ErrNotFound).Once()

	err := handler.Handle(context.Background(), models.FulfillmentTaskPayload{TaskID: "t", MeditationID: id.String()})
	assert.NoError(t, err)
}
