// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync"

	"github.com/absmach/recdist/pkg/messaging"
	"github.com/stretchr/testify/mock"
)

var _ messaging.Connection = (*Connection)(nil)

// Send is a message handed to the connection together with its completion handler.
type Send struct {
	Msg        messaging.Message
	OnComplete messaging.CompletionHandler
}

// Connection is a broker connection that records sends and completes them
// only when the test says so. Open and Close are driven by mock expectations.
type Connection struct {
	mock.Mock

	mu          sync.Mutex
	established bool
	auto        bool
	autoErr     error
	sends       []Send
}

// NewConnection returns a connection that is not established.
func NewConnection() *Connection {
	return &Connection{}
}

func (c *Connection) Open(ctx context.Context) error {
	ret := c.Called(ctx)
	if err := ret.Error(0); err != nil {
		return err
	}
	c.SetEstablished(true)

	return nil
}

func (c *Connection) IsEstablished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.established
}

func (c *Connection) SendAsync(msg messaging.Message, onComplete messaging.CompletionHandler) {
	c.mu.Lock()
	c.sends = append(c.sends, Send{Msg: msg, OnComplete: onComplete})
	auto, err := c.auto, c.autoErr
	c.mu.Unlock()

	if auto {
		go onComplete(msg, err)
	}
}

func (c *Connection) Close() error {
	ret := c.Called()
	c.SetEstablished(false)

	return ret.Error(0)
}

// SetEstablished changes the reported connection state.
func (c *Connection) SetEstablished(established bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.established = established
}

// AutoComplete makes every following send complete on its own goroutine with err.
func (c *Connection) AutoComplete(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auto = true
	c.autoErr = err
}

// Sends returns a copy of all recorded sends in call order.
func (c *Connection) Sends() []Send {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Send(nil), c.sends...)
}

// Deliver invokes the completion handler of the message with the given id.
// It reports whether such a message was sent.
func (c *Connection) Deliver(id string, err error) bool {
	for _, s := range c.Sends() {
		if s.Msg.ID == id {
			s.OnComplete(s.Msg, err)
			return true
		}
	}

	return false
}
