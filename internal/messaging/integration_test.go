//go:build integration

package messaging_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"meditation-server/internal/messaging"
	"meditation-server/internal/models"

	"github.com/docker/docker/client"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"go.uber.org/zap"
)

// processorFunc позволяет описать обработчик прямо в тесте.
type processorFunc func(ctx context.Context, d amqp.Delivery)

func (f processorFunc) ProcessMessage(ctx context.Context, d amqp.Delivery) { f(ctx, d) }

func startRabbit(t *testing.T) *amqp.Connection {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		t.Fatalf("Docker client init error: %v", err)
	}
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Fatalf("Docker daemon is not running or accessible: %v", err)
	}
	_ = cli.Close()

	ctx := context.Background()
	container, err := rabbitmq.Run(ctx, "rabbitmq:3.13-management-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	amqpURL, err := container.AmqpURL(ctx)
	require.NoError(t, err)

	conn, err := messaging.ConnectRabbitMQ(ctx, amqpURL, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestRejectedTaskReachesDeadLetterQueue(t *testing.T) {
	conn := startRabbit(t)
	ctx := context.Background()
	logger := zap.NewNop()

	const queue = "fulfillment_it"
	topology := messaging.NewTopology(queue)

	// Рабочий консьюмер отклоняет задачу без requeue
	var rejected sync.WaitGroup
	rejected.Add(1)
	worker := messaging.NewConsumer(conn, messaging.ConsumerConfig{
		Topology: topology, Queue: topology.Queue, ConsumerTag: "it-worker", Concurrency: 2,
	}, processorFunc(func(_ context.Context, d amqp.Delivery) {
		_ = d.Nack(false, false)
		rejected.Done()
	}), logger)

	deadLetters := make(chan amqp.Delivery, 1)
	dlq := messaging.NewConsumer(conn, messaging.ConsumerConfig{
		Topology: topology, Queue: topology.DeadQueue, ConsumerTag: "it-dlq", Concurrency: 1,
	}, processorFunc(func(_ context.Context, d amqp.Delivery) {
		_ = d.Ack(false)
		deadLetters <- d
	}), logger)

	go func() { _ = worker.Start() }()
	go func() { _ = dlq.Start() }()
	t.Cleanup(func() {
		worker.Stop()
		dlq.Stop()
	})

	publisher, ch, err := messaging.NewFulfillmentPublisher(conn, queue, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ch.Close() })

	require.NoError(t, publisher.PublishFulfillmentTask(ctx, models.FulfillmentTaskPayload{
		TaskID: "task-1", MeditationID: "med-1", UserID: "user-1", RequestedAt: time.Now().UTC(),
	}))

	select {
	case d := <-deadLetters:
		var payload models.FulfillmentTaskPayload
		require.NoError(t, json.Unmarshal(d.Body, &payload))
		require.Equal(t, "med-1", payload.MeditationID)
		require.Equal(t, "rejected", d.Headers["x-first-death-reason"])
	case <-time.After(30 * time.Second):
		t.Fatal("dead-lettered task was not delivered to the DLQ")
	}
	rejected.Wait()
}

func TestParkedTaskReturnsToWorkQueue(t *testing.T) {
	conn := startRabbit(t)
	ctx := context.Background()
	logger := zap.NewNop()

	topology := messaging.NewTopology("fulfillment_retry_it")
	retrier, ch, err := messaging.NewRetryPublisher(conn, topology, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ch.Close() })

	redelivered := make(chan amqp.Delivery, 1)
	consumer := messaging.NewConsumer(conn, messaging.ConsumerConfig{
		Topology: topology, Queue: topology.Queue, ConsumerTag: "it-retry", Concurrency: 1,
	}, processorFunc(func(_ context.Context, d amqp.Delivery) {
		_ = d.Ack(false)
		redelivered <- d
	}), logger)
	go func() { _ = consumer.Start() }()
	t.Cleanup(consumer.Stop)

	parkedAt := time.Now()
	require.NoError(t, retrier.Retry(ctx, amqp.Delivery{
		Body: []byte(`{"task_id":"task-2","meditation_id":"med-2"}`), ContentType: "application/json",
	}, 1, 500*time.Millisecond))

	select {
	case d := <-redelivered:
		require.GreaterOrEqual(t, time.Since(parkedAt), 500*time.Millisecond)
		require.Equal(t, 1, messaging.RetryAttempt(d.Headers))
		require.JSONEq(t, `{"task_id":"task-2","meditation_id":"med-2"}`, string(d.Body))
	case <-time.After(30 * time.Second):
		t.Fatal("parked task did not come back to the work queue")
	}
}
