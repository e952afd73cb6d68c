package messaging

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// MessageProcessor обрабатывает одно сообщение и сам отвечает за Ack/Nack.
type MessageProcessor interface {
	ProcessMessage(ctx context.Context, d amqp.Delivery)
}

// ConsumerConfig описывает, что и как потреблять.
type ConsumerConfig struct {
	Topology    Topology
	Queue       string // Topology.Queue или Topology.DeadQueue
	ConsumerTag string
	Concurrency int
}

// Consumer - пул воркеров над одной очередью.
type Consumer struct {
	conn        *amqp.Connection
	cfg         ConsumerConfig
	processor   MessageProcessor
	logger      *zap.Logger
	stopChannel chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// NewConsumer создает консьюмера. Concurrency <= 0 трактуется как 1.
func NewConsumer(conn *amqp.Connection, cfg ConsumerConfig, processor MessageProcessor, logger *zap.Logger) *Consumer {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Consumer{
		conn:        conn,
		cfg:         cfg,
		processor:   processor,
		logger:      logger.Named("consumer").With(zap.String("queue", cfg.Queue)),
		stopChannel: make(chan struct{}),
	}
}

// Start объявляет топологию, запускает воркеров и блокируется до Stop
// или закрытия канала доставки.
func (c *Consumer) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	defer ch.Close()

	if err := c.cfg.Topology.Declare(ch); err != nil {
		return err
	}
	// prefetch = concurrency: воркер берет следующее сообщение только освободившись
	if err := ch.Qos(c.cfg.Concurrency, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		c.cfg.Queue,
		c.cfg.ConsumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Consumer started, waiting for messages", zap.Int("concurrency", c.cfg.Concurrency))

	deliveriesClosed := make(chan struct{})
	var closeOnce sync.Once

	c.wg.Add(c.cfg.Concurrency)
	for i := 0; i < c.cfg.Concurrency; i++ {
		go func(workerID int) {
			defer c.wg.Done()
			log := c.logger.With(zap.Int("worker_id", workerID))
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-msgs:
					if !ok {
						log.Info("Delivery channel closed, worker exiting")
						closeOnce.Do(func() { close(deliveriesClosed) })
						return
					}
					log.Debug("Message received", zap.Uint64("delivery_tag", d.DeliveryTag))
					c.processor.ProcessMessage(ctx, d)
				}
			}
		}(i)
	}

	select {
	case <-c.stopChannel:
		c.logger.Info("Stop requested, cancelling workers")
	case <-deliveriesClosed:
		c.logger.Warn("Delivery channel closed by broker")
	}
	// После Cancel брокер закрывает канал доставки, воркеры дорабатывают текущие сообщения
	if err := ch.Cancel(c.cfg.ConsumerTag, false); err != nil {
		c.logger.Warn("Failed to cancel consumer, aborting in-flight work", zap.Error(err))
		cancel()
	}
	c.wg.Wait()
	c.logger.Info("All consumer workers stopped")
	return nil
}

// Stop сигнализирует Start о завершении. Повторный вызов безопасен.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() { close(c.stopChannel) })
}
