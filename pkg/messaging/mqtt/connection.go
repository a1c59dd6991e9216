// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mqtt

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/absmach/recdist/pkg/errors"
	"github.com/absmach/recdist/pkg/messaging"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	qos              = 1
	defaultClientID  = "recdist-publisher"
	defaultKeepAlive = 30 * time.Second
)

var (
	errConnect        = errors.New("failed to connect to MQTT broker")
	errConnectTimeout = errors.New("failed to connect due to timeout reached")
	errPublishTimeout = errors.NewRetryable("failed to publish due to timeout reached")
)

var _ messaging.Connection = (*connection)(nil)

type connection struct {
	client     mqtt.Client
	topic      string
	timeout    time.Duration
	clientID   string
	username   string
	password   string
	keepAlive  time.Duration
	properties bool
}

// New returns an MQTT broker connection publishing to the given topic.
// The connection is not dialed until Open is called.
func New(address, topic string, timeout time.Duration, opts ...messaging.Option) (messaging.Connection, error) {
	if topic == "" {
		return nil, messaging.ErrEmptyTopic
	}
	c := &connection{
		topic:     topic,
		timeout:   timeout,
		clientID:  defaultClientID,
		keepAlive: defaultKeepAlive,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	co := mqtt.NewClientOptions().
		AddBroker(address).
		SetClientID(c.clientID).
		SetUsername(c.username).
		SetPassword(c.password).
		SetKeepAlive(c.keepAlive).
		SetConnectTimeout(timeout).
		SetCleanSession(true).
		SetAutoReconnect(false)
	c.client = mqtt.NewClient(co)

	return c, nil
}

func (c *connection) Open(ctx context.Context) error {
	token := c.client.Connect()
	select {
	case <-token.Done():
	case <-time.After(c.timeout):
		c.client.Disconnect(0)
		return errConnectTimeout
	case <-ctx.Done():
		c.client.Disconnect(0)
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return errors.Wrap(errConnect, err)
	}

	return nil
}

func (c *connection) IsEstablished() bool {
	return c.client.IsConnectionOpen()
}

func (c *connection) SendAsync(msg messaging.Message, onComplete messaging.CompletionHandler) {
	if !c.client.IsConnectionOpen() {
		go onComplete(msg, messaging.ErrNotConnected)
		return
	}
	token := c.client.Publish(c.topicFor(msg), qos, false, msg.Payload)
	go func() {
		if !token.WaitTimeout(c.timeout) {
			onComplete(msg, errPublishTimeout)
			return
		}
		onComplete(msg, token.Error())
	}()
}

func (c *connection) Close() error {
	if c.client.IsConnected() {
		c.client.Disconnect(uint(c.timeout.Milliseconds()))
	}

	return nil
}

// topicFor appends the message system properties as an URL encoded
// property bag when property encoding is enabled.
func (c *connection) topicFor(msg messaging.Message) string {
	if !c.properties {
		return c.topic
	}
	vals := url.Values{}
	vals.Set("$.mid", msg.ID)
	vals.Set("$.ct", msg.ContentType)
	vals.Set("$.ce", msg.ContentEncoding)
	if msg.Type != "" {
		vals.Set("type", string(msg.Type))
	}
	topic := c.topic
	if !strings.HasSuffix(topic, "/") {
		topic += "/"
	}

	return topic + vals.Encode()
}
