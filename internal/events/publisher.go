// Package events publishes schedule-change events to RabbitMQ for downstream
// consumers (the notifier, calendar refreshers). Publishing is best-effort:
// the schedule mutation has already committed, so broker failures are logged
// by the caller rather than surfaced to the operator.
package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
)

const QueueName = "schedule_event_queue"

// DeclareQueue declares the durable event queue on the given channel.
func DeclareQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	return err
}

type Publisher struct {
	channel *amqp.Channel
	timeout time.Duration
}

func NewPublisher(ch *amqp.Channel, timeout time.Duration) *Publisher {
	return &Publisher{
		channel: ch,
		timeout: timeout,
	}
}

// Publish sends the event to the queue. A nil publisher is a no-op, so
// callers can run without a broker configured.
func (p *Publisher) Publish(ctx context.Context, event domain.ScheduleEvent) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.channel.PublishWithContext(ctx,
		"",        // default exchange
		QueueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
