package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Dataflow/internal/domain"
)

// MessageType — тип сообщения.
type MessageType string

const (
	MessageTypeTaskValidated MessageType = "task.validated"
)

// Message — конверт сообщения.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// TaskValidatedPayload — payload события task.validated.
type TaskValidatedPayload struct {
	DefinitionName string                  `json:"definition_name"`
	DefinitionDSL  string                  `json:"definition_dsl"`
	Valid          bool                    `json:"valid"`
	AppStatuses    *domain.OrderedStatuses `json:"app_statuses"`
}

// NewTaskValidatedMessage строит сообщение из отчёта валидации.
func NewTaskValidatedMessage(status *domain.ValidationStatus) *Message {
	return &Message{
		ID:   uuid.New().String(),
		Type: MessageTypeTaskValidated,
		Payload: TaskValidatedPayload{
			DefinitionName: status.DefinitionName,
			DefinitionDSL:  status.DefinitionDSL,
			Valid:          status.IsValid(),
			AppStatuses:    status.Ordered(),
		},
		Timestamp: time.Now().UTC(),
	}
}

// Publisher публикует события в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует сообщение в exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),
			string(routingKey),
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Type:         string(msg.Type),
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)
		return nil
	})
}

// PublishTaskValidated публикует событие task.validated.
func (p *Publisher) PublishTaskValidated(ctx context.Context, status *domain.ValidationStatus) error {
	return p.Publish(ctx, ExchangeTasks, RoutingKeyValidated, NewTaskValidatedMessage(status))
}
