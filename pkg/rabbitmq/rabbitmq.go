package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"productapi/internal/models"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
)

// DefaultExchange receives every product lifecycle event. Consumers bind
// queues to it with routing keys such as "product.*".
const DefaultExchange = "products"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
}

// ProductEvent is the JSON body of a published message.
type ProductEvent struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	Product    models.Product `json:"product"`
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ and declares the durable topic exchange.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() // Close connection if channel creation fails
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishProductEvent publishes a persistent JSON message routed by eventType.
func (c *Client) PublishProductEvent(ctx context.Context, eventType string, product models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	msg, err := newPublishing(eventType, product, time.Now())
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.channel.Publish(
		c.exchange, // exchange
		eventType,  // routing key
		false,      // mandatory
		false,      // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}

func newPublishing(eventType string, product models.Product, now time.Time) (amqp.Publishing, error) {
	event := ProductEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: now.UTC(),
		Product:    product,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         eventType,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}, nil
}
