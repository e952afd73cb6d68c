package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"meditation-server/internal/handler"
	"meditation-server/internal/middleware"
	"meditation-server/internal/mocks"
	"meditation-server/internal/models"
	"meditation-server/internal/service"
	"meditation-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStatusBus отдает заранее подготовленный канал событий.
type fakeStatusBus struct {
	events chan models.StatusEvent
}

func (b *fakeStatusBus) SubscribeStatus(_ context.Context, _ string) (<-chan models.StatusEvent, func(), error) {
	return b.events, func() {}, nil
}

type testAPI struct {
	router      *gin.Engine
	meditations *mocks.MockMeditationService
	payments    *mocks.MockPaymentService
	fulfillment *mocks.MockFulfillmentService
	cache       *mocks.MockCache
	bus         *fakeStatusBus
	userID      uuid.UUID
	roles       []string
}

func newTestAPI(t *testing.T) *testAPI {
	gin.SetMode(gin.TestMode)
	api := &testAPI{
		router:      gin.New(),
		meditations: mocks.NewMockMeditationService(t),
		payments:    mocks.NewMockPaymentService(t),
		fulfillment: mocks.NewMockFulfillmentService(t),
		cache:       mocks.NewMockCache(t),
		bus:         &fakeStatusBus{events: make(chan models.StatusEvent, 4)},
		userID:      uuid.New(),
		roles:       []string{models.RoleUser},
	}
	verifier := func(_ context.Context, token string) (*models.Claims, error) {
		if token != "valid" {
			return nil, models.ErrTokenInvalid
		}
		return &models.Claims{UserID: api.userID, Roles: api.roles}, nil
	}
	h := handler.NewMeditationHandler(api.meditations, api.payments, api.fulfillment, api.bus, api.cache, handler.Options{
		PriceCents:       999,
		Currency:         "usd",
		PaymentProviders: []string{"card", "wallet"},
		CatalogCacheTTL:  time.Minute,
		ListCacheTTL:     5 * time.Second,
	}, zap.NewNop())
	h.RegisterRoutes(api.router, middleware.Auth(verifier, zap.NewNop()), nil)
	return api
}

func (a *testAPI) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer valid")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func sampleMeditation(userID uuid.UUID, status models.Status) *models.MeditationRequest {
	return &models.MeditationRequest{
		ID:     uuid.New(),
		UserID: userID,
		MeditationInput: models.MeditationInput{
			Goal: "reduce anxiety", Mood: "Anxious", Challenges: "work stress", Affirmations: "I am calm",
			DurationMinutes: 10, Voice: models.VoiceFemale, Background: models.BackgroundNature,
		},
		Contact:         models.Contact{Email: "user@example.com"},
		PaymentSnapshot: models.PaymentSnapshot{AmountCents: 999, Currency: "usd", PaymentState: models.PaymentStatePending},
		AudioInfo:       models.AudioInfo{MixedFileRef: utils.StringPtr("/scratch/mix-1/final.mp3")},
		Status:          status,
	}
}

func TestCreateMeditation(t *testing.T) {
	api := newTestAPI(t)
	created := sampleMeditation(api.userID, models.StatusCreated)

	api.meditations.On("Create", mock.Anything, api.userID, mock.MatchedBy(func(in service.CreateMeditationInput) bool {
		return in.Input.Goal == "reduce anxiety" && in.Input.DurationMinutes == 10 &&
			in.Input.Voice == models.VoiceFemale && in.Contact.Email == "user@example.com"
	})).Return(created, nil).Once()

	w := api.do(http.MethodPost, "/api/v1/meditations", map[string]interface{}{
		"goal": "reduce anxiety", "mood": "Anxious", "challenges": "work stress", "affirmations": "I am calm",
		"durationMinutes": 10, "voice": "female", "background": "nature", "email": "user@example.com",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var resp handler.MeditationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, created.ID.String(), resp.ID)
	assert.Equal(t, "created", resp.Status)
	assert.NotContains(t, w.Body.String(), "/scratch/", "mixed file reference must stay internal")
}

func TestCreateMeditation_MissingFields(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/meditations", map[string]interface{}{"goal": "sleep"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrCodeValidation, decodeError(t, w).Code)
}

func TestUnauthenticated(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/meditations/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()

	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", models.ErrNotFound, http.StatusNotFound, models.ErrCodeNotFound},
		{"invalid state", models.ErrInvalidState, http.StatusConflict, models.ErrCodeInvalidState},
		{"payment required", models.ErrPaymentRequired, http.StatusPaymentRequired, models.ErrCodePaymentRequired},
		{"already paid", models.ErrAlreadyPaid, http.StatusConflict, models.ErrCodeAlreadyPaid},
		{"payment declined", models.ErrPaymentDeclined, http.StatusPaymentRequired, models.ErrCodePaymentRequired},
		{"generation failed", models.ErrGenerationFailed, http.StatusBadGateway, models.ErrCodeGeneration},
		{"internal", assert.AnError, http.StatusInternalServerError, models.ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newTestAPI(t)
			id := uuid.New()
			api.fulfillment.On("StartFulfillment", mock.Anything, api.userID, id).Return(nil, tc.err).Once()

			w := api.do(http.MethodPost, "/api/v1/meditations/"+id.String()+"/fulfill", nil)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decodeError(t, w).Code)
		})
	}
}

func TestStartFulfillment_Accepted(t *testing.T) {
	api := newTestAPI(t)
	m := sampleMeditation(api.userID, models.StatusProcessing)
	api.fulfillment.On("StartFulfillment", mock.Anything, api.userID, m.ID).Return(m, nil).Once()

	w := api.do(http.MethodPost, "/api/v1/meditations/"+m.ID.String()+"/fulfill", nil)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"processing"`)
}

func TestInvalidIDFormat(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/v1/meditations/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmPayment(t *testing.T) {
	api := newTestAPI(t)
	m := sampleMeditation(api.userID, models.StatusScriptReady)
	m.PaymentState = models.PaymentStateCompleted
	api.payments.On("ConfirmPayment", mock.Anything, api.userID, m.ID, "pi_123").Return(m, nil).Once()

	w := api.do(http.MethodPost, "/api/v1/meditations/"+m.ID.String()+"/payments/confirm", map[string]string{"providerRef": "pi_123"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"completed"`)
}

func TestRewriteScript_Preview(t *testing.T) {
	api := newTestAPI(t)
	m := sampleMeditation(api.userID, models.StatusScriptReady)
	api.meditations.On("RewriteScript", mock.Anything, api.userID, m.ID, "warmer", "", false).
		Return(&service.RewriteResult{Text: "Warm words", Meditation: m}, nil).Once()

	w := api.do(http.MethodPost, "/api/v1/meditations/"+m.ID.String()+"/script/rewrite", map[string]interface{}{"toneHint": "warmer"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"applied":false`)
	assert.Contains(t, w.Body.String(), "Warm words")
}

func TestListMeditations_Cached(t *testing.T) {
	api := newTestAPI(t)
	cached := []byte(`{"data":[],"nextCursor":"abc"}`)
	api.cache.On("Get", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.Contains(key, api.userID.String())
	})).Return(cached, true, nil).Once()

	w := api.do(http.MethodGet, "/api/v1/meditations", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.JSONEq(t, string(cached), w.Body.String())
}

func TestListMeditations_MissStoresResponse(t *testing.T) {
	api := newTestAPI(t)
	m := sampleMeditation(api.userID, models.StatusCreated)
	api.cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil).Once()
	api.meditations.On("ListMine", mock.Anything, api.userID, "", 5).Return([]*models.MeditationRequest{m}, "next", nil).Once()
	api.cache.On("Put", mock.Anything, mock.Anything, mock.Anything, 5*time.Second).Return(nil).Once()

	w := api.do(http.MethodGet, "/api/v1/meditations?limit=5", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"nextCursor":"next"`)
}

func TestCatalog(t *testing.T) {
	api := newTestAPI(t)
	api.cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil).Once()
	api.cache.On("Put", mock.Anything, mock.Anything, mock.Anything, time.Minute).Return(nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"528-hz"`)
	assert.Contains(t, body, `"minDurationMinutes":5`)
	assert.Contains(t, body, `"maxDurationMinutes":60`)
	assert.Contains(t, body, `"priceCents":999`)
}

func TestSwaggerDocs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.RegisterDocs(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/api/v1", doc.BasePath)
	for _, path := range []string{"/catalog", "/meditations", "/meditations/{id}/payments/confirm", "/meditations/{id}/fulfill", "/admin/meditations/{id}/refund"} {
		assert.Contains(t, doc.Paths, path)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	t.Run("Regular user is forbidden", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(http.MethodGet, "/api/v1/admin/meditations", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin filters by status", func(t *testing.T) {
		api := newTestAPI(t)
		api.roles = []string{models.RoleAdmin}
		failed := models.StatusFailed
		api.meditations.On("AdminList", mock.Anything, &failed, "", 0).Return([]*models.MeditationRequest{}, "", nil).Once()

		w := api.do(http.MethodGet, "/api/v1/admin/meditations?status=failed", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Admin refund", func(t *testing.T) {
		api := newTestAPI(t)
		api.roles = []string{models.RoleAdmin}
		m := sampleMeditation(uuid.New(), models.StatusFailed)
		m.PaymentState = models.PaymentStateRefunded
		api.payments.On("MarkRefunded", mock.Anything, m.ID).Return(m, nil).Once()

		w := api.do(http.MethodPost, "/api/v1/admin/meditations/"+m.ID.String()+"/refund", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"state":"refunded"`)
	})
}

func TestStatusStream(t *testing.T) {
	api := newTestAPI(t)
	m := sampleMeditation(api.userID, models.StatusProcessing)
	api.meditations.On("GetStatus", mock.Anything, api.userID, m.ID).Return(m, nil).Once()

	server := httptest.NewServer(api.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/meditations/" + m.ID.String() + "/ws?access_token=valid"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snapshot handler.MeditationResponse
	require.NoError(t, conn.ReadJSON(&snapshot))
	assert.Equal(t, "processing", snapshot.Status)

	api.bus.events <- models.StatusEvent{MeditationID: m.ID.String(), Status: models.StatusVoiceReady}
	api.bus.events <- models.StatusEvent{MeditationID: m.ID.String(), Status: models.StatusCompleted, FinalAudioURL: "https://cdn/final.mp3"}

	var event models.StatusEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, models.StatusVoiceReady, event.Status)
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, models.StatusCompleted, event.Status)
	assert.Equal(t, "https://cdn/final.mp3", event.FinalAudioURL)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}
