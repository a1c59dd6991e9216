// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package observations

import (
	"context"
	"time"

	"github.com/absmach/recdist/pkg/messaging"
)

// Result is the outcome of a dispatched message.
type Result struct {
	MessageID   string
	Observation Observation
	Latency     time.Duration
	Err         error
}

// Observer is notified about message dispatch and completion. Observers
// are called outside of the service lock; Completed runs on the broker
// goroutine that reported the outcome. The context is the one passed to
// Publish without its cancellation.
type Observer interface {
	// Dispatched is called right before the message is handed to the broker.
	Dispatched(ctx context.Context, msg messaging.Message, obs Observation)

	// Completed is called once for each dispatched message.
	Completed(ctx context.Context, res Result)
}
