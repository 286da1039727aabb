package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/model"
)

var ErrNotConnected = errors.New("rabbitmq publisher not connected")

// Dial connects to the broker and checks that a channel can be opened.
func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	_ = ch.Close()
	return conn, nil
}

// ChatPublisher publishes persisted chat messages to a durable queue.
type ChatPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewChatPublisher(conn *amqp.Connection, queueName string) *ChatPublisher {
	return &ChatPublisher{conn: conn, queueName: queueName}
}

func (p *ChatPublisher) PublishChatMessage(ctx context.Context, msg model.ChatMessage) error {
	if p == nil || p.conn == nil || p.conn.IsClosed() {
		return ErrNotConnected
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(
		p.queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	body, err := json.Marshal(NewChatMessageStoredEvent(msg))
	if err != nil {
		return fmt.Errorf("marshal chat event failed: %w", err)
	}

	if err := ch.PublishWithContext(ctx,
		"",          // default exchange
		p.queueName, // routing key = queue name
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publish chat event failed: %w", err)
	}
	return nil
}

func (p *ChatPublisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
