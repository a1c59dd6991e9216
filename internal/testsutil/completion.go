// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package testsutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/absmach/recdist/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	returnWait = time.Second
	settleTime = 200 * time.Millisecond
)

// SendAndWait hands msg to conn and returns the error its completion
// handler received. The test fails if the handler runs before SendAsync
// returns, is never called within wait, or is called more than once.
func SendAndWait(t *testing.T, conn messaging.Connection, msg messaging.Message, wait time.Duration) error {
	t.Helper()

	returned := make(chan struct{})
	done := make(chan error, 1)
	var calls atomic.Int32
	var async atomic.Bool

	conn.SendAsync(msg, func(m messaging.Message, err error) {
		select {
		case <-returned:
			async.Store(true)
		case <-time.After(returnWait):
		}
		assert.Equal(t, msg.ID, m.ID, fmt.Sprintf("expected completion for %s got %s", msg.ID, m.ID))
		if calls.Add(1) == 1 {
			done <- err
		}
	})
	close(returned)

	var err error
	select {
	case err = <-done:
	case <-time.After(wait):
		require.Fail(t, "completion handler was not called")
	}
	time.Sleep(settleTime)

	assert.Equal(t, int32(1), calls.Load(), "completion handler must be called exactly once")
	assert.True(t, async.Load(), "completion handler must run after SendAsync returns")

	return err
}

// Message returns a telemetry message with the given id.
func Message(id string) messaging.Message {
	return messaging.Message{
		ID:              id,
		Type:            messaging.Telemetry,
		ContentType:     messaging.ContentTypeJSON,
		ContentEncoding: messaging.EncodingUTF8,
		Payload:         []byte(`{"sensorId":"sensor-1","value":21.5}`),
		Created:         time.Now().UnixNano(),
	}
}
