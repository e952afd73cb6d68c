package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"meditation-server/internal/database"
	"meditation-server/internal/messaging"
	"meditation-server/internal/mocks"
	"meditation-server/internal/models"
	"meditation-server/internal/worker"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAcknowledger запоминает, чем закончилась обработка сообщения.
type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAcknowledger) Ack(uint64, bool) error { a.acked = true; return nil }
func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}
func (a *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

type handlerFunc func(ctx context.Context, task models.FulfillmentTaskPayload) error

func (f handlerFunc) Handle(ctx context.Context, task models.FulfillmentTaskPayload) error {
	return f(ctx, task)
}

func delivery(t *testing.T, ack *fakeAcknowledger, body interface{}) amqp.Delivery {
	t.Helper()
	raw, ok := body.([]byte)
	if !ok {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
	}
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: raw}
}

func TestFulfillmentProcessor(t *testing.T) {
	task := models.FulfillmentTaskPayload{TaskID: "task-1", MeditationID: uuid.NewString()}

	t.Run("Success acks", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		var got models.FulfillmentTaskPayload
		p := worker.NewFulfillmentProcessor(handlerFunc(func(_ context.Context, tk models.FulfillmentTaskPayload) error {
			got = tk
			return nil
		}), nil, worker.RetryPolicy{}, zap.NewNop())

		p.ProcessMessage(context.Background(), delivery(t, ack, task))

		assert.True(t, ack.acked)
		assert.False(t, ack.nacked)
		assert.Equal(t, task.MeditationID, got.MeditationID)
	})

	t.Run("Handler error dead-letters without requeue", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		p := worker.NewFulfillmentProcessor(handlerFunc(func(context.Context, models.FulfillmentTaskPayload) error {
			return errors.New("db down")
		}), nil, worker.RetryPolicy{}, zap.NewNop())

		p.ProcessMessage(context.Background(), delivery(t, ack, task))

		assert.True(t, ack.nacked)
		assert.False(t, ack.requeue)
		assert.False(t, ack.acked)
	})

	t.Run("Malformed body dead-letters", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		called := false
		p := worker.NewFulfillmentProcessor(handlerFunc(func(context.Context, models.FulfillmentTaskPayload) error {
			called = true
			return nil
		}), nil, worker.RetryPolicy{}, zap.NewNop())

		p.ProcessMessage(context.Background(), delivery(t, ack, []byte("{not json")))

		assert.True(t, ack.nacked)
		assert.False(t, called)
	})
}

// fakeRetrier запоминает отложенные сообщения.
type fakeRetrier struct {
	err      error
	attempts []int
	delays   []time.Duration
	parked   []amqp.Delivery
}

func (r *fakeRetrier) Retry(_ context.Context, d amqp.Delivery, attempt int, delay time.Duration) error {
	if r.err != nil {
		return r.err
	}
	r.attempts = append(r.attempts, attempt)
	r.delays = append(r.delays, delay)
	r.parked = append(r.parked, d)
	return nil
}

func lockBusy(context.Context, models.FulfillmentTaskPayload) error {
	return fmt.Errorf("%w: fulfillment:lock:x", worker.ErrLockBusy)
}

func TestFulfillmentProcessor_LockBusy(t *testing.T) {
	task := models.FulfillmentTaskPayload{TaskID: "task-1", MeditationID: uuid.NewString()}
	policy := worker.RetryPolicy{Delay: time.Minute, MaxAttempts: 3}

	t.Run("First delivery is parked and acked", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		retrier := &fakeRetrier{}
		p := worker.NewFulfillmentProcessor(handlerFunc(lockBusy), retrier, policy, zap.NewNop())

		p.ProcessMessage(context.Background(), delivery(t, ack, task))

		assert.True(t, ack.acked)
		assert.False(t, ack.nacked)
		assert.Equal(t, []int{1}, retrier.attempts)
		assert.Equal(t, []time.Duration{time.Minute}, retrier.delays)
	})

	t.Run("Attempt counter comes from headers", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		retrier := &fakeRetrier{}
		p := worker.NewFulfillmentProcessor(handlerFunc(lockBusy), retrier, policy, zap.NewNop())
		d := delivery(t, ack, task)
		d.Headers = amqp.Table{messaging.RetryAttemptHeader: int32(2)}

		p.ProcessMessage(context.Background(), d)

		assert.True(t, ack.acked)
		assert.Equal(t, []int{3}, retrier.attempts)
	})

	t.Run("Exhausted retries dead-letter", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		retrier := &fakeRetrier{}
		p := worker.NewFulfillmentProcessor(handlerFunc(lockBusy), retrier, policy, zap.NewNop())
		d := delivery(t, ack, task)
		d.Headers = amqp.Table{messaging.RetryAttemptHeader: int64(3)}

		p.ProcessMessage(context.Background(), d)

		assert.True(t, ack.nacked)
		assert.False(t, ack.requeue)
		assert.Empty(t, retrier.attempts)
	})

	t.Run("Retry publish failure dead-letters", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		p := worker.NewFulfillmentProcessor(handlerFunc(lockBusy), &fakeRetrier{err: errors.New("channel closed")}, policy, zap.NewNop())

		p.ProcessMessage(context.Background(), delivery(t, ack, task))

		assert.True(t, ack.nacked)
		assert.False(t, ack.acked)
	})
}

// Воркер упал, держа лок: повторная доставка не теряется, а после истечения TTL
// заявка из voice_ready закрывается как прерванная.
func TestFulfillmentProcessor_RedeliveryAfterCrashClosesInterruptedMeditation(t *testing.T) {
	repo := mocks.NewMockMeditationRepository(t)
	locker := mocks.NewMockLocker(t)
	events := mocks.NewMockStatusEventPublisher(t)
	handler := worker.NewFulfillmentHandler(repo, locker, nil, nil, nil, nil, events,
		worker.PipelineConfig{StageTimeout: time.Minute, LockTTL: 30 * time.Minute}, zap.NewNop())
	retrier := &fakeRetrier{}
	p := worker.NewFulfillmentProcessor(handler, retrier, worker.NewLockRetryPolicy(30*time.Minute, time.Minute), zap.NewNop())

	id := uuid.New()
	key := database.FulfillmentLockKey(id.String())
	task := models.FulfillmentTaskPayload{TaskID: "task-1", MeditationID: id.String()}

	// Лок упавшего воркера еще жив
	locker.On("TryLock", mock.Anything, key, 30*time.Minute).Return("", false, nil).Once()
	first := &fakeAcknowledger{}
	p.ProcessMessage(context.Background(), delivery(t, first, task))

	assert.True(t, first.acked)
	require.Len(t, retrier.parked, 1)
	repo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)

	// TTL истек, отложенная копия вернулась в рабочую очередь
	locker.On("TryLock", mock.Anything, key, 30*time.Minute).Return("tok", true, nil).Once()
	locker.On("Unlock", mock.Anything, key, "tok").Return(nil).Once()
	repo.On("GetByID", mock.Anything, id).Return(&models.MeditationRequest{ID: id, Status: models.StatusVoiceReady}, nil).Once()
	repo.On("MarkFailed", mock.Anything, id, "fulfillment interrupted").Return(nil).Once()
	events.On("PublishStatus", mock.Anything, mock.MatchedBy(func(e models.StatusEvent) bool {
		return e.MeditationID == id.String() && e.Status == models.StatusFailed
	})).Return(nil).Once()

	redelivered := retrier.parked[0]
	second := &fakeAcknowledger{}
	redelivered.Acknowledger = second
	redelivered.Headers = amqp.Table{messaging.RetryAttemptHeader: int32(retrier.attempts[0])}
	p.ProcessMessage(context.Background(), redelivered)

	assert.True(t, second.acked)
	assert.Len(t, retrier.parked, 1)
}

func TestNewLockRetryPolicy(t *testing.T) {
	policy := worker.NewLockRetryPolicy(30*time.Minute, time.Minute)
	assert.Equal(t, time.Minute, policy.Delay)
	assert.Equal(t, 32, policy.MaxAttempts)
	assert.Greater(t, time.Duration(policy.MaxAttempts)*policy.Delay, 30*time.Minute)

	assert.Equal(t, time.Minute, worker.NewLockRetryPolicy(time.Minute, 0).Delay)
}

func TestDeadLetterProcessor(t *testing.T) {
	id := uuid.New()
	task := models.FulfillmentTaskPayload{TaskID: "task-1", MeditationID: id.String()}

	t.Run("Marks stuck meditation failed", func(t *testing.T) {
		repo := mocks.NewMockMeditationRepository(t)
		events := mocks.NewMockStatusEventPublisher(t)
		p := worker.NewDeadLetterProcessor(repo, events, zap.NewNop())
		ack := &fakeAcknowledger{}
		d := delivery(t, ack, task)
		d.Headers = amqp.Table{"x-first-death-reason": "rejected"}

		repo.On("MarkFailed", mock.Anything, id, mock.MatchedBy(func(reason string) bool {
			return assert.Contains(t, reason, "rejected")
		})).Return(nil).Once()
		events.On("PublishStatus", mock.Anything, mock.MatchedBy(func(e models.StatusEvent) bool {
			return e.Status == models.StatusFailed && e.MeditationID == id.String()
		})).Return(nil).Once()

		p.ProcessMessage(context.Background(), d)

		assert.True(t, ack.acked)
	})

	t.Run("Finished meditation is left alone", func(t *testing.T) {
		repo := mocks.NewMockMeditationRepository(t)
		p := worker.NewDeadLetterProcessor(repo, nil, zap.NewNop())
		ack := &fakeAcknowledger{}

		repo.On("MarkFailed", mock.Anything, id, mock.Anything).Return(models.ErrInvalidState).Once()

		p.ProcessMessage(context.Background(), delivery(t, ack, task))

		assert.True(t, ack.acked)
	})

	t.Run("Undecodable message is acked", func(t *testing.T) {
		repo := mocks.NewMockMeditationRepository(t)
		p := worker.NewDeadLetterProcessor(repo, nil, zap.NewNop())
		ack := &fakeAcknowledger{}

		p.ProcessMessage(context.Background(), delivery(t, ack, []byte("garbage")))

		assert.True(t, ack.acked)
	})
}

func TestDeathReason(t *testing.T) {
	assert.Equal(t, "expired", worker.DeathReason(amqp.Table{
		"x-death": []interface{}{amqp.Table{"reason": "expired", "queue": "q"}},
	}))
	assert.Equal(t, "rejected", worker.DeathReason(amqp.Table{"x-first-death-reason": "rejected"}))
	assert.Equal(t, "unknown", worker.DeathReason(nil))
}
