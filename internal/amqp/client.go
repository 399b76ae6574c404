package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Client wraps one AMQP connection with a durable direct exchange and the
// two event queues this service publishes to.
type Client struct {
	conn            *amqp091.Connection
	channel         *amqp091.Channel
	exchangeName    string
	releasesQueue   string
	categoriesQueue string
}

func NewClient(url, exchangeName, releasesQueue, categoriesQueue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:            conn,
		channel:         channel,
		exchangeName:    exchangeName,
		releasesQueue:   releasesQueue,
		categoriesQueue: categoriesQueue,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, queue := range []string{c.releasesQueue, c.categoriesQueue} {
		_, err = c.channel.QueueDeclare(
			queue,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		// Routing key matches the queue name on a direct exchange.
		err = c.channel.QueueBind(queue, queue, c.exchangeName, false, nil)
		if err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}

	return nil
}

func (c *Client) PublishBenefitReleased(ctx context.Context, msg *BenefitReleasedMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, c.releasesQueue, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published benefit released event",
		"application_id", msg.ApplicationID, "senior_id", msg.SeniorID, "queue", c.releasesQueue)
	return nil
}

func (c *Client) PublishCategoryChanged(ctx context.Context, msg *CategoryChangedMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, c.categoriesQueue, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published category changed event",
		"senior_id", msg.SeniorID, "new_category", msg.NewCategory, "queue", c.categoriesQueue)
	return nil
}

func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Consume delivers raw message bodies from a queue to the handler with
// manual ack. A handler error nacks with requeue; an undecodable payload is
// dropped without requeue by returning ErrBadPayload from the handler.
func (c *Client) Consume(ctx context.Context, queue string, handler func([]byte) error) error {
	msgs, err := c.channel.Consume(
		queue,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consuming %s: %w", queue, err)
	}

	slog.InfoContext(ctx, "Started consuming", "queue", queue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "queue", queue, "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed for %s", queue)
			}

			if err := handler(delivery.Body); err != nil {
				requeue := err != ErrBadPayload
				slog.ErrorContext(ctx, "Failed to handle message",
					"queue", queue, "error", err, "requeue", requeue)
				delivery.Nack(false, requeue)
				continue
			}

			delivery.Ack(false)
		}
	}
}

// ErrBadPayload signals an undecodable message that must not be requeued.
var ErrBadPayload = fmt.Errorf("bad message payload")

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
