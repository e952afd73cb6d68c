package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"meditation-server/internal/mocks"
	"meditation-server/internal/models"
	"meditation-server/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFulfillmentService_StartFulfillment(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*mocks.MockMeditationRepository, *mocks.MockFulfillmentTaskPublisher, *mocks.MockStatusEventPublisher, service.FulfillmentService) {
		repo := mocks.NewMockMeditationRepository(t)
		publisher := mocks.NewMockFulfillmentTaskPublisher(t)
		events := mocks.NewMockStatusEventPublisher(t)
		return repo, publisher, events, service.NewFulfillmentService(repo, publisher, events, zap.NewNop())
	}

	t.Run("Paid meditation is queued", func(t *testing.T) {
		repo, publisher, events, svc := setup(t)
		userID := uuid.New()
		m := newMeditation(userID, models.StatusScriptReady, models.PaymentStateCompleted)
		started := clone(m)
		started.Status = models.StatusProcessing

		repo.On("GetByIDForUser", ctx, m.ID, userID).Return(m, nil).Once()
		repo.On("StartProcessing", ctx, m.ID).Return(started, nil).Once()
		events.On("PublishStatus", ctx, mock.MatchedBy(func(e models.StatusEvent) bool {
			return e.Status == models.StatusProcessing
		})).Return(nil).Once()
		publisher.On("PublishFulfillmentTask", ctx, mock.MatchedBy(func(p models.FulfillmentTaskPayload) bool {
			return p.MeditationID == m.ID.String() && p.UserID == userID.String() && p.TaskID != ""
		})).Return(nil).Once()

		got, err := svc.StartFulfillment(ctx, userID, m.ID)

		require.NoError(t, err)
		assert.Equal(t, models.StatusProcessing, got.Status)
	})

	for _, state := range []models.PaymentState{models.PaymentStatePending, models.PaymentStateFailed} {
		t.Run("Payment "+string(state)+" is required", func(t *testing.T) {
			repo, _, _, svc := setup(t)
			userID := uuid.New()
			m := newMeditation(userID, models.StatusScriptReady, state)
			repo.On("GetByIDForUser", ctx, m.ID, userID).Return(m, nil).Once()

			_, err := svc.StartFulfillment(ctx, userID, m.ID)

			assert.ErrorIs(t, err, models.ErrPaymentRequired)
			repo.AssertNotCalled(t, "StartProcessing", mock.Anything, mock.Anything)
		})
	}

	t.Run("Already processing", func(t *testing.T) {
		repo, _, _, svc := setup(t)
		userID := uuid.New()
		m := newMeditation(userID, models.StatusProcessing, models.PaymentStateCompleted)
		repo.On("GetByIDForUser", ctx, m.ID, userID).Return(m, nil).Once()

		_, err := svc.StartFulfillment(ctx, userID, m.ID)
		assert.ErrorIs(t, err, models.ErrInvalidState)
	})

	t.Run("Concurrent starts have one winner", func(t *testing.T) {
		repo, publisher, events, svc := setup(t)
		userID := uuid.New()
		m := newMeditation(userID, models.StatusScriptReady, models.PaymentStateCompleted)
		started := clone(m)
		started.Status = models.StatusProcessing

		repo.On("GetByIDForUser", ctx, m.ID, userID).Return(func(context.Context, uuid.UUID, uuid.UUID) (*models.MeditationRequest, error) {
			return clone(m), nil
		}).Twice()
		repo.On("StartProcessing", ctx, m.ID).Return(started, nil).Once()
		repo.On("StartProcessing", ctx, m.ID).Return(nil, models.ErrInvalidState).Once()
		events.On("PublishStatus", ctx, mock.Anything).Return(nil).Once()
		publisher.On("PublishFulfillmentTask", ctx, mock.Anything).Return(nil).Once()

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.StartFulfillment(ctx, userID, m.ID)
			}(i)
		}
		wg.Wait()

		var wins, conflicts int
		for _, err := range errs {
			switch {
			case err == nil:
				wins++
			case errors.Is(err, models.ErrInvalidState):
				conflicts++
			}
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, 1, conflicts)
	})

	t.Run("Publish failure marks meditation failed", func(t *testing.T) {
		repo, publisher, events, svc := setup(t)
		userID := uuid.New()
		m := newMeditation(userID, models.StatusScriptReady, models.PaymentStateCompleted)
		started := clone(m)
		started.Status = models.StatusProcessing

		repo.On("GetByIDForUser", ctx, m.ID, userID).Return(m, nil).Once()
		repo.On("StartProcessing", ctx, m.ID).Return(started, nil).Once()
		events.On("PublishStatus", ctx, mock.Anything).Return(nil).Once()
		publisher.On("PublishFulfillmentTask", ctx, mock.Anything).Return(errors.New("broker unavailable")).Once()
		repo.On("MarkFailed", mock.Anything, m.ID, mock.MatchedBy(func(reason string) bool {
			return assert.Contains(t, reason, "broker unavailable")
		})).Return(nil).Once()
		events.On("PublishStatus", mock.Anything, mock.MatchedBy(func(e models.StatusEvent) bool {
			return e.Status == models.StatusFailed
		})).Return(nil).Once()

		_, err := svc.StartFulfillment(ctx, userID, m.ID)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "broker unavailable")
	})
}
