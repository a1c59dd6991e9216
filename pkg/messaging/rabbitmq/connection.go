// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package rabbitmq

import (
	"context"
	"sync"
	"time"

	"github.com/absmach/recdist/pkg/errors"
	"github.com/absmach/recdist/pkg/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultExchange = "recdist"
	appID           = "recdist-publisher"
)

var (
	errConnect        = errors.New("failed to connect to RabbitMQ")
	errChannel        = errors.New("failed to open RabbitMQ channel")
	errNack           = errors.NewRetryable("message was not acknowledged by the broker")
	errPublishTimeout = errors.NewRetryable("failed to receive publish confirmation due to timeout reached")
)

var _ messaging.Connection = (*connection)(nil)

type connection struct {
	url        string
	exchange   string
	routingKey string
	timeout    time.Duration

	mu   sync.RWMutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// New returns a RabbitMQ connection publishing with the given routing key
// to a topic exchange. Publisher confirms are enabled on Open.
func New(url, routingKey string, timeout time.Duration, opts ...messaging.Option) (messaging.Connection, error) {
	if routingKey == "" {
		return nil, messaging.ErrEmptyTopic
	}
	c := &connection{
		url:        url,
		exchange:   defaultExchange,
		routingKey: routingKey,
		timeout:    timeout,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *connection) Open(ctx context.Context) error {
	conn, err := amqp.DialConfig(c.url, amqp.Config{Dial: amqp.DefaultDial(c.timeout)})
	if err != nil {
		return errors.Wrap(errConnect, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return errors.Wrap(errChannel, err)
	}
	if err := ch.ExchangeDeclare(c.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return errors.Wrap(errChannel, err)
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return errors.Wrap(errChannel, err)
	}
	if err := ctx.Err(); err != nil {
		conn.Close()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.closeLocked()
	}
	c.conn = conn
	c.ch = ch

	return nil
}

func (c *connection) IsEstablished() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.conn != nil && !c.conn.IsClosed() && !c.ch.IsClosed()
}

func (c *connection) SendAsync(msg messaging.Message, onComplete messaging.CompletionHandler) {
	c.mu.RLock()
	conn, ch := c.conn, c.ch
	c.mu.RUnlock()
	if conn == nil || conn.IsClosed() {
		go onComplete(msg, messaging.ErrNotConnected)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	confirm, err := ch.PublishWithDeferredConfirmWithContext(ctx, c.exchange, c.routingKey, false, false, publishing(msg))
	if err != nil {
		cancel()
		go onComplete(msg, err)
		return
	}
	go func() {
		defer cancel()
		select {
		case <-confirm.Done():
			if !confirm.Acked() {
				onComplete(msg, errNack)
				return
			}
			onComplete(msg, nil)
		case <-ctx.Done():
			onComplete(msg, errPublishTimeout)
		}
	}()
}

func (c *connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}

	return c.closeLocked()
}

// closeLocked closes the channel and the connection and forgets both,
// tolerating either already being closed. Callers hold c.mu.
func (c *connection) closeLocked() error {
	conn, ch := c.conn, c.ch
	c.conn = nil
	c.ch = nil
	if err := ch.Close(); err != nil && !errors.Contains(err, amqp.ErrClosed) {
		conn.Close()
		return err
	}
	if err := conn.Close(); err != nil && !errors.Contains(err, amqp.ErrClosed) {
		return err
	}

	return nil
}

func publishing(msg messaging.Message) amqp.Publishing {
	return amqp.Publishing{
		MessageId:       msg.ID,
		Type:            string(msg.Type),
		ContentType:     msg.ContentType,
		ContentEncoding: msg.ContentEncoding,
		Timestamp:       time.Unix(0, msg.Created),
		DeliveryMode:    amqp.Persistent,
		AppId:           appID,
		Body:            msg.Payload,
	}
}
