// Package main HTTP API сервиса медитаций
//
//	@title			Meditation Server API
//	@version		1.0
//	@description	Персональные медитации: сценарий, оплата, озвучка и доставка
//	@BasePath		/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and JWT token.
//
//go:generate swag init -g main.go -d ./,../../internal/handler,../../internal/models -o ../../docs --outputTypes go
package main

import (
	"context"
	"errors"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"meditation-server/internal/authutils"
	"meditation-server/internal/cache"
	"meditation-server/internal/clients/payment"
	"meditation-server/internal/clients/textgen"
	"meditation-server/internal/config"
	"meditation-server/internal/database"
	"meditation-server/internal/handler"
	"meditation-server/internal/logger"
	"meditation-server/internal/messaging"
	"meditation-server/internal/middleware"
	"meditation-server/internal/models"
	"meditation-server/internal/service"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.MustNew(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding}, "meditation-api")
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)
	log.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel), zap.String("env", cfg.Env))

	// --- Внешние подключения ---
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancelStartup()

	pgPool, err := database.ConnectPostgres(startupCtx, cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()

	if err := database.NewMigrator(pgPool, log).Up(); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	redisClient, err := database.ConnectRedis(startupCtx, cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	mqConn, err := messaging.ConnectRabbitMQ(startupCtx, cfg.RabbitMQURL, log)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer mqConn.Close()

	// --- Зависимости ---
	meditationRepo := database.NewPgMeditationRepository(pgPool, log)
	paymentRepo := database.NewPgPaymentRepository(pgPool, database.NewTransactionHelper(pgPool, log), log)
	statusBus := database.NewRedisStatusBus(redisClient, log)

	taskPublisher, pubChannel, err := messaging.NewFulfillmentPublisher(mqConn, cfg.FulfillmentQueue, log)
	if err != nil {
		log.Fatal("Failed to create fulfillment publisher", zap.Error(err))
	}
	defer pubChannel.Close()

	aiClient, err := textgen.NewClient(cfg, log)
	if err != nil {
		log.Fatal("Failed to create text generation client", zap.Error(err))
	}
	scriptService := service.NewScriptService(aiClient, textgen.NewTokenCounter(cfg.AIModel), cfg.AIMaxTokens, cfg.AIContextWindow, log)

	providers, err := payment.NewRegistryFromConfig(cfg, log)
	if err != nil {
		log.Fatal("Failed to configure payment providers", zap.Error(err))
	}

	meditationService := service.NewMeditationService(meditationRepo, scriptService, statusBus, cfg.PriceCents, cfg.Currency, log)
	paymentService := service.NewPaymentService(meditationRepo, paymentRepo, providers, log)
	fulfillmentService := service.NewFulfillmentService(meditationRepo, taskPublisher, statusBus, log)

	verifier, err := authutils.NewJWTVerifier(cfg.JWTSecret, log)
	if err != nil {
		log.Fatal("Failed to create JWT verifier", zap.Error(err))
	}

	meditationHandler := handler.NewMeditationHandler(
		meditationService,
		paymentService,
		fulfillmentService,
		statusBus,
		cache.NewRedisCache(redisClient, "meditation:http"),
		handler.Options{
			PriceCents:       cfg.PriceCents,
			Currency:         cfg.Currency,
			PaymentProviders: providers.Names(),
			CatalogCacheTTL:  cfg.CatalogCacheTTL,
			ListCacheTTL:     cfg.ListCacheTTL,
			AllowedOrigins:   cfg.GetAllowedOrigins(),
		},
		log,
	)

	// --- HTTP сервер (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.GinZapLogger(log))
	router.Use(gin.Recovery())

	p := ginprometheus.NewPrometheus("gin")
	// Метки по шаблону маршрута, иначе каждый id заявки дает отдельную серию
	p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
		if route := c.FullPath(); route != "" {
			return route
		}
		return "unmatched"
	}

	corsConfig := cors.DefaultConfig()
	if allowedOrigins := cfg.GetAllowedOrigins(); len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// Локальное хранилище: готовые файлы раздает сам API (общий том с воркером)
	if strings.EqualFold(cfg.StorageType, "local") {
		router.Static("/audio", cfg.LocalStoragePath)
	}

	handler.RegisterDocs(router)
	meditationHandler.RegisterRoutes(router, middleware.Auth(verifier.VerifyToken, log), newRateLimiter(redisClient, cfg.RateLimitPerMinute, log))

	// Prometheus подключается после регистрации маршрутов
	p.Use(router)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// WriteTimeout не ставим: WebSocket соединения живут долго
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server listen error", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exiting")
}

// newRateLimiter ограничивает изменяющие запросы: ключ - пользователь, без него - IP.
func newRateLimiter(client *redis.Client, perMinute uint, log *zap.Logger) gin.HandlerFunc {
	store := ratelimit.RedisStore(&ratelimit.RedisOptions{
		RedisClient: client,
		Rate:        time.Minute,
		Limit:       perMinute,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			log.Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.Time("resetTime", info.ResetTime),
				zap.String("path", c.Request.URL.Path),
			)
			retryAfter := int(math.Ceil(time.Until(info.ResetTime).Seconds()))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Code:    models.ErrCodeRateLimited,
				Message: "Too many requests. Try again in " + time.Until(info.ResetTime).Round(time.Second).String(),
			})
		},
		KeyFunc: func(c *gin.Context) string {
			if userID, ok := middleware.GetUserID(c); ok {
				return "user:" + userID.String()
			}
			return "ip:" + c.ClientIP()
		},
	})
}
