package messaging

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DeadLetterRoutingKey - ключ маршрутизации из DLX в DLQ.
const DeadLetterRoutingKey = "dlq"

// Topology описывает рабочую очередь и ее dead-letter обвязку.
// У RetryQueue нет консьюмеров: истекшие сообщения возвращаются в Queue.
type Topology struct {
	Queue        string
	DeadExchange string
	DeadQueue    string
	RetryQueue   string
}

// NewTopology строит имена DLX/DLQ из имени рабочей очереди.
func NewTopology(queue string) Topology {
	return Topology{
		Queue:        queue,
		DeadExchange: queue + "_dlx",
		DeadQueue:    queue + "_dlq",
		RetryQueue:   queue + "_retry",
	}
}

// Channel - часть *amqp.Channel, нужная для объявления топологии.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// Declare объявляет DLX, DLQ, очередь ожидания и рабочую очередь. Операция идемпотентна,
// поэтому ее вызывают и паблишер, и консьюмеры: порядок запуска сервисов не важен.
// Аргументы очереди должны совпадать у всех сторон.
func (t Topology) Declare(ch Channel) error {
	if err := ch.ExchangeDeclare(t.DeadExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLX '%s': %w", t.DeadExchange, err)
	}
	if _, err := ch.QueueDeclare(t.DeadQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ '%s': %w", t.DeadQueue, err)
	}
	if err := ch.QueueBind(t.DeadQueue, DeadLetterRoutingKey, t.DeadExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind DLQ '%s' to '%s': %w", t.DeadQueue, t.DeadExchange, err)
	}

	retryArgs := amqp.Table{
		"x-dead-letter-exchange":    "", // default exchange: ключ маршрутизации = имя очереди
		"x-dead-letter-routing-key": t.Queue,
	}
	if _, err := ch.QueueDeclare(t.RetryQueue, true, false, false, false, retryArgs); err != nil {
		return fmt.Errorf("failed to declare retry queue '%s': %w", t.RetryQueue, err)
	}

	args := amqp.Table{
		"x-queue-mode":              "lazy",
		"x-dead-letter-exchange":    t.DeadExchange,
		"x-dead-letter-routing-key": DeadLetterRoutingKey,
	}
	if _, err := ch.QueueDeclare(t.Queue, true, false, false, false, args); err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", t.Queue, err)
	}
	return nil
}
