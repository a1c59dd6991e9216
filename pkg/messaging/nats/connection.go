// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package nats

import (
	"context"
	"sync"
	"time"

	"github.com/absmach/recdist/pkg/errors"
	"github.com/absmach/recdist/pkg/messaging"
	broker "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	maxReconnects = -1

	headerContentType     = "Content-Type"
	headerContentEncoding = "Content-Encoding"
	headerMessageType     = "Message-Type"
)

var (
	errConnect        = errors.New("failed to connect to NATS")
	errStream         = errors.New("failed to create JetStream stream")
	errPublishTimeout = errors.NewRetryable("failed to receive publish acknowledgment due to timeout reached")
)

var _ messaging.Connection = (*connection)(nil)

type connection struct {
	url     string
	subject string
	stream  string
	timeout time.Duration

	mu   sync.RWMutex
	conn *broker.Conn
	js   jetstream.JetStream
}

// New returns a NATS JetStream connection publishing to the given subject.
// The connection is not dialed until Open is called.
func New(url, subject string, timeout time.Duration, opts ...messaging.Option) (messaging.Connection, error) {
	if subject == "" {
		return nil, messaging.ErrEmptyTopic
	}
	c := &connection{
		url:     url,
		subject: subject,
		timeout: timeout,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *connection) Open(ctx context.Context) error {
	conn, err := broker.Connect(c.url, broker.MaxReconnects(maxReconnects), broker.Timeout(c.timeout))
	if err != nil {
		return errors.Wrap(errConnect, err)
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return errors.Wrap(errConnect, err)
	}
	if c.stream != "" {
		cfg := jetstream.StreamConfig{
			Name:        c.stream,
			Description: "REC observations distributed to the ingestion endpoint",
			Subjects:    []string{c.subject},
			Retention:   jetstream.LimitsPolicy,
			MaxAge:      time.Hour * 24,
			MaxMsgSize:  1024 * 1024,
			Discard:     jetstream.DiscardOld,
			Storage:     jetstream.FileStorage,
			Duplicates:  time.Minute * 2,
		}
		if _, err := js.CreateOrUpdateStream(ctx, cfg); err != nil {
			conn.Close()
			return errors.Wrap(errStream, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// The previous connection may still be reconnecting.
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
	c.js = js

	return nil
}

func (c *connection) IsEstablished() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.conn != nil && c.conn.IsConnected()
}

func (c *connection) SendAsync(msg messaging.Message, onComplete messaging.CompletionHandler) {
	c.mu.RLock()
	conn, js := c.conn, c.js
	c.mu.RUnlock()
	if conn == nil || !conn.IsConnected() {
		go onComplete(msg, messaging.ErrNotConnected)
		return
	}

	m := broker.NewMsg(c.subject)
	m.Data = msg.Payload
	m.Header.Set(jetstream.MsgIDHeader, msg.ID)
	m.Header.Set(headerContentType, msg.ContentType)
	m.Header.Set(headerContentEncoding, msg.ContentEncoding)
	m.Header.Set(headerMessageType, string(msg.Type))

	ack, err := js.PublishMsgAsync(m)
	if err != nil {
		go onComplete(msg, err)
		return
	}
	go func() {
		select {
		case <-ack.Ok():
			onComplete(msg, nil)
		case err := <-ack.Err():
			onComplete(msg, err)
		case <-time.After(c.timeout):
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
	c.conn.Close()
	c.conn = nil
	c.js = nil

	return nil
}
