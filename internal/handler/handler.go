package handler

import (
	"net/http"
	"strconv"
	"time"

	"meditation-server/internal/cache"
	"meditation-server/internal/interfaces"
	"meditation-server/internal/middleware"
	"meditation-server/internal/models"
	"meditation-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options - настройки HTTP слоя.
type Options struct {
	PriceCents       int64
	Currency         string
	PaymentProviders []string
	CatalogCacheTTL  time.Duration
	ListCacheTTL     time.Duration
	AllowedOrigins   []string
}

// MeditationHandler обслуживает публичный и админский API.
type MeditationHandler struct {
	meditations service.MeditationService
	payments    service.PaymentService
	fulfillment service.FulfillmentService
	statuses    interfaces.StatusSubscriber
	cache       cache.Cache
	opts        Options
	logger      *zap.Logger
}

// NewMeditationHandler создает обработчик. statuses и responseCache могут быть nil:
// тогда WebSocket недоступен, а ответы не кэшируются.
func NewMeditationHandler(
	meditations service.MeditationService,
	payments service.PaymentService,
	fulfillment service.FulfillmentService,
	statuses interfaces.StatusSubscriber,
	responseCache cache.Cache,
	opts Options,
	logger *zap.Logger,
) *MeditationHandler {
	return &MeditationHandler{
		meditations: meditations,
		payments:    payments,
		fulfillment: fulfillment,
		statuses:    statuses,
		cache:       responseCache,
		opts:        opts,
		logger:      logger.Named("MeditationHandler"),
	}
}

// RegisterRoutes регистрирует маршруты. limiter ставится на изменяющие запросы, может быть nil.
func (h *MeditationHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc, limiter gin.HandlerFunc) {
	if limiter == nil {
		limiter = func(c *gin.Context) { c.Next() }
	}

	api := router.Group("/api/v1")
	api.GET("/catalog", h.cached("catalog", h.opts.CatalogCacheTTL), h.getCatalog)

	meditations := api.Group("/meditations")
	meditations.Use(auth)
	{
		meditations.POST("", limiter, h.createMeditation)
		meditations.GET("", h.cached("meditations", h.opts.ListCacheTTL), h.listMyMeditations)
		meditations.GET("/:id", h.getMeditation)
		meditations.GET("/:id/ws", h.streamStatus)
		meditations.POST("/:id/script", limiter, h.generateScript)
		meditations.PUT("/:id/script", h.updateScript)
		meditations.POST("/:id/script/rewrite", limiter, h.rewriteScript)
		meditations.POST("/:id/payments", limiter, h.createPayment)
		meditations.POST("/:id/payments/confirm", limiter, h.confirmPayment)
		meditations.POST("/:id/fulfill", limiter, h.startFulfillment)
	}

	admin := api.Group("/admin")
	admin.Use(auth, middleware.RequireRole(h.logger, models.RoleAdmin))
	{
		admin.GET("/meditations", h.adminListMeditations)
		admin.GET("/meditations/:id", h.adminGetMeditation)
		admin.POST("/meditations/:id/refund", h.adminMarkRefunded)
	}
}

func (h *MeditationHandler) cached(prefix string, ttl time.Duration) gin.HandlerFunc {
	if h.cache == nil || ttl <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.ResponseCache(h.cache, ttl, middleware.UserScopedCacheKey(prefix), h.logger)
}

// requireUserID достает userID после Auth; при отсутствии отвечает 401.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: "Authentication required"})
		return uuid.Nil, false
	}
	return userID, true
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		badRequest(c, "Invalid meditation ID format")
		return uuid.Nil, false
	}
	return id, true
}

func parsePage(c *gin.Context) (string, int, bool) {
	cursor := c.Query("cursor")
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			badRequest(c, "Invalid 'limit' parameter")
			return "", 0, false
		}
		limit = parsed
	}
	return cursor, limit, true
}
