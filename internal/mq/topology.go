package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — имя обменника.
type Exchange string

// Queue — имя очереди.
type Queue string

// RoutingKey — ключ маршрутизации.
type RoutingKey string

const (
	ExchangeTasks Exchange = "dataflow.tasks"

	QueueTasksValidated Queue = "tasks.validated"

	RoutingKeyValidated RoutingKey = "validated"
)

// SetupTopology объявляет exchange, очередь и привязку.
// Операции идемпотентны.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			string(ExchangeTasks), // name
			"direct",              // type
			true,                  // durable
			false,                 // auto-deleted
			false,                 // internal
			false,                 // no-wait
			nil,                   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangeTasks, err)
		}

		_, err = ch.QueueDeclare(
			string(QueueTasksValidated), // name
			true,                        // durable
			false,                       // delete when unused
			false,                       // exclusive
			false,                       // no-wait
			amqp.Table{
				// События аудита: старые сообщения не нужны.
				"x-message-ttl": int32(24 * 60 * 60 * 1000),
			},
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", QueueTasksValidated, err)
		}

		err = ch.QueueBind(
			string(QueueTasksValidated), // queue name
			string(RoutingKeyValidated), // routing key
			string(ExchangeTasks),       // exchange
			false,                       // no-wait
			nil,                         // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", QueueTasksValidated, ExchangeTasks, err)
		}

		return nil
	})
}
