package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/online-store/store-service/shared/events"
	"github.com/streadway/amqp"
)

type Publisher struct {
	client     *RabbitMQClient
	maxRetries int
}

func NewPublisher(client *RabbitMQClient, maxRetries int) *Publisher {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Publisher{
		client:     client,
		maxRetries: maxRetries,
	}
}

// RoutingKey is the topic key a store event is published under.
func RoutingKey(event events.StoreEvent) string {
	return fmt.Sprintf("store.%s.%s", event.Service, string(event.EventType))
}

// EncodeEvent fills missing identity fields and serializes the event.
func EncodeEvent(event *events.StoreEvent) ([]byte, error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CorrelationID == uuid.Nil {
		event.CorrelationID = event.ID
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("event serialization error: %w", err)
	}
	return body, nil
}

func (p *Publisher) publish(event events.StoreEvent) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	body, err := EncodeEvent(&event)
	if err != nil {
		return err
	}

	routingKey := RoutingKey(event)
	err = p.client.Channel().Publish(
		p.client.Exchange(),
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    event.Timestamp,
			Headers: amqp.Table{
				"correlation_id": event.CorrelationID.String(),
				"service":        event.Service,
				"event_type":     string(event.EventType),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("event publish error: %w", err)
	}

	log.Printf("Event published: %s", routingKey)
	return nil
}

// PublishStoreEvent publishes the event, retrying with a linear backoff while
// the connection is up. A lost connection fails after a single attempt.
func (p *Publisher) PublishStoreEvent(event events.StoreEvent) error {
	var (
		lastErr  error
		attempts int
	)

	for attempts < p.maxRetries {
		attempts++
		err := p.publish(event)
		if err == nil {
			return nil
		}
		lastErr = err
		log.Printf("Publish error (retry %d/%d): %v", attempts, p.maxRetries, err)
		if !p.client.IsConnected() {
			break
		}
		if attempts < p.maxRetries {
			time.Sleep(time.Second * time.Duration(attempts))
		}
	}

	return fmt.Errorf("event publish failed after %d attempts: %w", attempts, lastErr)
}

// NoopPublisher drops events. Used when RabbitMQ is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishStoreEvent(event events.StoreEvent) error {
	return nil
}
