package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"meditation-server/internal/clients/audiomix"
	"meditation-server/internal/clients/notify"
	"meditation-server/internal/clients/speech"
	"meditation-server/internal/clients/storage"
	"meditation-server/internal/config"
	"meditation-server/internal/database"
	"meditation-server/internal/logger"
	"meditation-server/internal/messaging"
	"meditation-server/internal/service"
	"meditation-server/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.MustNew(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding}, "meditation-worker")
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)
	log.Info("Starting fulfillment worker",
		zap.String("queue", cfg.FulfillmentQueue),
		zap.Int("concurrency", cfg.WorkerConcurrency),
	)

	metricsServer := startMetricsServer(cfg.MetricsPort, log)

	var pusher *worker.MetricsPusher
	if cfg.PushgatewayURL != "" {
		pusher = worker.NewMetricsPusher(cfg.PushgatewayURL, log)
		pusher.Start(cfg.MetricsPushInterval)
	}

	// --- Внешние подключения ---
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancelStartup()

	pgPool, err := database.ConnectPostgres(startupCtx, cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()

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

	// --- Клиенты пайплайна ---
	catalog, err := audiomix.LoadCatalog(cfg.TracksCatalogPath)
	if err != nil {
		log.Fatal("Failed to load background track catalog", zap.Error(err), zap.String("path", cfg.TracksCatalogPath))
	}
	mixer := audiomix.NewFFmpegMixer(cfg.FFmpegPath, cfg.ScratchDir, catalog, log)
	synth := speech.NewOpenAISynthesizer(cfg, log)

	store, err := storage.NewObjectStore(startupCtx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	senders, err := notify.NewSenders(startupCtx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize delivery channels", zap.Error(err))
	}

	meditationRepo := database.NewPgMeditationRepository(pgPool, log)
	statusBus := database.NewRedisStatusBus(redisClient, log)
	delivery := service.NewDeliveryService(meditationRepo, senders, cfg.AppBaseURL, log)

	fulfillment := worker.NewFulfillmentHandler(
		meditationRepo,
		database.NewRedisLocker(redisClient, log),
		synth,
		mixer,
		store,
		delivery,
		statusBus,
		worker.PipelineConfig{StageTimeout: cfg.StageTimeout, LockTTL: cfg.LockTTL, ScratchDir: cfg.ScratchDir},
		log,
	)

	// --- Консьюмеры ---
	topology := messaging.NewTopology(cfg.FulfillmentQueue)
	hostname, _ := os.Hostname()

	retrier, retryChannel, err := messaging.NewRetryPublisher(mqConn, topology, log)
	if err != nil {
		log.Fatal("Failed to initialize retry publisher", zap.Error(err))
	}
	defer retryChannel.Close()
	retryPolicy := worker.NewLockRetryPolicy(cfg.LockTTL, cfg.LockRetryDelay)

	taskConsumer := messaging.NewConsumer(mqConn, messaging.ConsumerConfig{
		Topology:    topology,
		Queue:       topology.Queue,
		ConsumerTag: "fulfillment-" + hostname,
		Concurrency: cfg.WorkerConcurrency,
	}, worker.NewFulfillmentProcessor(fulfillment, retrier, retryPolicy, log), log)

	deadLetterConsumer := messaging.NewConsumer(mqConn, messaging.ConsumerConfig{
		Topology:    topology,
		Queue:       topology.DeadQueue,
		ConsumerTag: "dead-letter-" + hostname,
		Concurrency: 1,
	}, worker.NewDeadLetterProcessor(meditationRepo, statusBus, log), log)

	// Остановка любого консьюмера останавливает весь воркер
	consumersDone := make(chan struct{})
	var wg sync.WaitGroup
	for _, c := range []*messaging.Consumer{taskConsumer, deadLetterConsumer} {
		wg.Add(1)
		go func(c *messaging.Consumer) {
			defer wg.Done()
			if err := c.Start(); err != nil {
				log.Error("Consumer stopped with error", zap.Error(err))
			}
		}(c)
	}
	go func() {
		wg.Wait()
		close(consumersDone)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case <-consumersDone:
		log.Warn("Consumers stopped unexpectedly, shutting down")
	}

	// Текущие задачи дорабатывают до конца: Stop ждет воркеров
	taskConsumer.Stop()
	deadLetterConsumer.Stop()
	<-consumersDone

	if pusher != nil {
		pusher.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server forced to shutdown", zap.Error(err))
	}
	log.Info("Fulfillment worker stopped")
}

// startMetricsServer поднимает /metrics и /health для воркера.
func startMetricsServer(port string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Starting metrics server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Metrics server listen error", zap.Error(err))
		}
	}()
	return srv
}
