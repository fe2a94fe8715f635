package helpers

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// rabbitChannel owns one connection, one channel and a durable queue.
type rabbitChannel struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
}

func openRabbit(url, queue string) (*rabbitChannel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &rabbitChannel{conn: conn, ch: ch, Queue: queue}, nil
}

func (r *rabbitChannel) Close() {
	if r == nil {
		return
	}
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}

// RabbitPublisher publishes JSON messages to a durable queue via the default exchange.
type RabbitPublisher struct {
	*rabbitChannel
}

func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	rc, err := openRabbit(url, queue)
	if err != nil {
		return nil, err
	}
	return &RabbitPublisher{rc}, nil
}

// PublishJSON publishes a JSON-encoded message to the default queue.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         b,
		},
	)
}

// RabbitConsumer reads from the same durable queue with manual acks.
type RabbitConsumer struct {
	*rabbitChannel
}

func NewRabbitConsumer(url, queue string, prefetch int) (*RabbitConsumer, error) {
	rc, err := openRabbit(url, queue)
	if err != nil {
		return nil, err
	}
	if prefetch > 0 {
		if err := rc.ch.Qos(prefetch, 0, false); err != nil {
			rc.Close()
			return nil, err
		}
	}
	return &RabbitConsumer{rc}, nil
}

// Deliveries starts consuming. The channel closes when the connection does.
func (c *RabbitConsumer) Deliveries() (<-chan amqp.Delivery, error) {
	return c.ch.Consume(c.Queue, "", false, false, false, false, nil)
}
