package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel used here.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
	Close() error
}

// AMQP publishes and consumes ExpensesChanged messages over a durable direct
// exchange bound to a single queue.
type AMQP struct {
	conn     *amqp091.Connection
	ch       channel
	exchange string
	queue    string
}

func DialAMQP(url, exchange, queue string) (*AMQP, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declare(ch, exchange, queue); err != nil {
		ch.Close()
		conn.Close()

		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return &AMQP{conn: conn, ch: ch, exchange: exchange, queue: queue}, nil
}

func declare(ch *amqp091.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key equals the queue name.
	if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (a *AMQP) Publish(ctx context.Context, msg ExpensesChanged) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = a.ch.PublishWithContext(ctx, a.exchange, a.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    msg.At,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.DebugContext(ctx, "published expenses changed", "owner", msg.Owner, "action", msg.Action)

	return nil
}

// Consume hands every message to handle until ctx is done. Malformed messages
// are dropped; handler failures are requeued.
func (a *AMQP) Consume(ctx context.Context, handle func(ExpensesChanged) error) error {
	deliveries, err := a.ch.Consume(a.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}

			msg, err := ExpensesChangedFromJSON(d.Body)
			if err != nil {
				slog.ErrorContext(ctx, "failed to decode message", "error", err)
				d.Nack(false, false)

				continue
			}

			if err := handle(msg); err != nil {
				slog.ErrorContext(ctx, "failed to handle message", "error", err, "owner", msg.Owner)
				d.Nack(false, true)

				continue
			}

			d.Ack(false)
		}
	}
}

func (a *AMQP) Close() error {
	if a.ch != nil {
		a.ch.Close()
	}

	if a.conn != nil {
		return a.conn.Close()
	}

	return nil
}
