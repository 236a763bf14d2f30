package queue

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Handler processes one message body.  A returned error rejects the message
// without requeueing it.
type Handler func(ctx context.Context, body []byte) error

// Consumer subscribes to a set of queues and keeps reconnecting to the
// broker until its context is cancelled.
type Consumer struct {
	url      string
	logger   *zap.Logger
	handlers map[string]Handler
	prefetch int
}

func NewConsumer(url string, logger *zap.Logger, handlers map[string]Handler) *Consumer {
	return &Consumer{url: url, logger: logger.Named("consumer"), handlers: handlers, prefetch: 50}
}

// Run blocks until ctx is done.  Dial failures back off exponentially up to
// 30s; a dropped connection is retried after 2s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return nil
		}
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Warn("failed to dial broker", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.logger.Warn("consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		c.logger.Warn("set QoS failed", zap.Error(err))
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	done := make(chan string, len(c.handlers))
	for name, h := range c.handlers {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		go func(name string, h Handler, msgs <-chan amqp.Delivery) {
			for d := range msgs {
				c.dispatch(ctx, name, h, d)
			}
			done <- name
		}(name, h, msgs)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case amqpErr := <-closed:
		return fmt.Errorf("connection closed: %v", amqpErr)
	case name := <-done:
		return fmt.Errorf("deliveries for %s closed", name)
	}
}

// acknowledger is the subset of amqp.Delivery used to settle a message.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Consumer) dispatch(ctx context.Context, queue string, h Handler, d amqp.Delivery) {
	c.settle(ctx, queue, h, d.Body, &d)
}

func (c *Consumer) settle(ctx context.Context, queue string, h Handler, body []byte, ack acknowledger) {
	if err := h(ctx, body); err != nil {
		c.logger.Error("handle message failed", zap.String("queue", queue), zap.Error(err))
		_ = ack.Nack(false, false) // do not requeue, avoids a poison-message loop
		return
	}
	_ = ack.Ack(false)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
