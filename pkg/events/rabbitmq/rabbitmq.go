// Package rabbitmq implements the event publisher over a RabbitMQ topic
// exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"quickbite/pkg/events"
)

const (
	// ExchangeName is the topic exchange order events are published to.
	ExchangeName = "quickbite_orders"
	exchangeType = "topic"
)

// SetupConn dials the broker and declares the exchange. Retries a few times
// to ride out container startup ordering.
func SetupConn(url string) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error
	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, exchangeType, true, false, false, false, nil); err != nil {
		return nil, nil, fmt.Errorf("could not declare exchange: %w", err)
	}
	return conn, ch, nil
}

type publisher struct {
	ch *amqp.Channel
}

// NewPublisher creates an events.Publisher backed by the given channel.
func NewPublisher(ch *amqp.Channel) events.Publisher {
	return &publisher{ch: ch}
}

func (p *publisher) Publish(ctx context.Context, ev events.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	// Routing key: order.<event> (e.g. order.committed)
	routingKey := fmt.Sprintf("order.%s", ev.Type)

	return p.ch.PublishWithContext(ctx,
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
