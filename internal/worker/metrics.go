package worker

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"
)

const jobName = "meditation_fulfillment_worker"

var (
	tasksReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meditation_fulfillment_tasks_received_total",
			Help: "Total number of fulfillment tasks received by the worker.",
		},
	)
	tasksSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meditation_fulfillment_tasks_skipped_total",
			Help: "Fulfillment tasks acknowledged without running the pipeline, by reason.",
		},
		[]string{"reason"},
	)
	stageOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meditation_pipeline_stage_total",
			Help: "Pipeline stage outcomes.",
		},
		[]string{"stage", "outcome"},
	)
	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meditation_pipeline_stage_duration_seconds",
			Help:    "Pipeline stage durations.",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"stage"},
	)
	tasksDeferred = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meditation_fulfillment_tasks_deferred_total",
			Help: "Fulfillment tasks parked in the retry queue because the meditation lock was held.",
		},
	)
	deadLettered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meditation_fulfillment_dead_lettered_total",
			Help: "Fulfillment tasks processed from the dead-letter queue.",
		},
	)
)

func observeStage(stage string, started time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	stageOutcomes.WithLabelValues(stage, outcome).Inc()
	stageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}

// MetricsPusher периодически отправляет метрики воркера в Pushgateway.
type MetricsPusher struct {
	pusher *push.Pusher
	stop   chan struct{}
	logger *zap.Logger
}

// NewMetricsPusher создает pusher для глобального реестра с меткой instance = host-pid.
func NewMetricsPusher(pushgatewayURL string, logger *zap.Logger) *MetricsPusher {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	instanceID := fmt.Sprintf("%s-%d", hostname, os.Getpid())
	return &MetricsPusher{
		pusher: push.New(pushgatewayURL, jobName).Gatherer(prometheus.DefaultGatherer).Grouping("instance", instanceID),
		stop:   make(chan struct{}),
		logger: logger.Named("MetricsPusher"),
	}
}

// Start запускает периодическую отправку.
func (p *MetricsPusher) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-p.stop:
				return
			case <-ticker.C:
				if err := p.pusher.Push(); err != nil {
					p.logger.Warn("Failed to push metrics", zap.Error(err))
				}
			}
		}
	}()
}

// Stop останавливает отправку и удаляет метрики инстанса из Pushgateway.
func (p *MetricsPusher) Stop() {
	close(p.stop)
	if err := p.pusher.Delete(); err != nil {
		p.logger.Warn("Failed to delete metrics from Pushgateway", zap.Error(err))
	}
}
