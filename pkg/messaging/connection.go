// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"

	"github.com/absmach/recdist/pkg/errors"
)

// ErrNotConnected indicates that a message was handed to a connection
// which is not open.
var ErrNotConnected = errors.NewRetryable("connection to message broker is not established")

// ErrEmptyTopic indicates that the connection has no destination to publish to.
var ErrEmptyTopic = errors.New("empty topic")

// CompletionHandler is invoked once the broker has accepted (err == nil)
// or rejected (err != nil) a message sent with SendAsync.
type CompletionHandler func(msg Message, err error)

// Connection specifies a single outbound connection to the ingestion endpoint.
//
//go:generate mockery --name Connection --filename connection.go --quiet --note "Copyright (c) Abstract Machines"
type Connection interface {
	// Open establishes the connection.
	Open(ctx context.Context) error

	// IsEstablished reports whether the connection is currently usable.
	IsEstablished() bool

	// SendAsync hands msg to the broker without waiting for the outcome.
	// The handler is called exactly once, from a goroutine owned by the
	// connection and never before SendAsync returns.
	SendAsync(msg Message, onComplete CompletionHandler)

	// Close gracefully closes the connection.
	Close() error
}

// Option represents optional configuration for a broker connection.
//
// Options are applied by the broker specific constructors to their own
// connection type, which is why the value is passed as interface{}.
//
// Example:
//
//	mqtt.New(url, topic, timeout, mqtt.ClientID("building-7"), mqtt.KeepAlive(30*time.Second))
type Option func(vals interface{}) error
