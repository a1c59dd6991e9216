// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mqtt

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/absmach/recdist/internal/testsutil"
	"github.com/absmach/recdist/pkg/errors"
	"github.com/absmach/recdist/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pausedTimeout = time.Second
	settleTime    = 500 * time.Millisecond
)

func dial(t *testing.T, clientID string, timeout time.Duration, opts ...messaging.Option) messaging.Connection {
	opts = append(opts, ClientID(clientID))
	conn, err := New(brokerAddress, topic, timeout, opts...)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	return conn
}

func open(t *testing.T, clientID string, timeout time.Duration, opts ...messaging.Option) messaging.Connection {
	conn := dial(t, clientID, timeout, opts...)
	err := conn.Open(context.Background())
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	require.True(t, conn.IsEstablished())

	return conn
}

func TestSendAsyncAcknowledged(t *testing.T) {
	cases := []struct {
		desc     string
		clientID string
		opts     []messaging.Option
	}{
		{
			desc:     "send to plain topic",
			clientID: "recdist-plain",
		},
		{
			desc:     "send to topic with property bag",
			clientID: "recdist-properties",
			opts:     []messaging.Option{Properties()},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			conn := open(t, tc.clientID, brokerTimeout, tc.opts...)
			defer conn.Close()

			err := testsutil.SendAndWait(t, conn, testsutil.Message(tc.clientID), brokerTimeout)
			assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
		})
	}
}

func TestSendAsyncBrokerPaused(t *testing.T) {
	conn := open(t, "recdist-paused", pausedTimeout)

	err := pool.Client.PauseContainer(container.Container.ID)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	err = testsutil.SendAndWait(t, conn, testsutil.Message("msg-paused"), 3*pausedTimeout)
	assert.True(t, errors.Contains(err, errPublishTimeout), fmt.Sprintf("expected %s got %s", errPublishTimeout, err))
	assert.True(t, errors.IsRetryable(err))

	err = pool.Client.UnpauseContainer(container.Container.ID)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	conn.Close()
}

func TestOpenAbandoned(t *testing.T) {
	t.Run("open with canceled context", func(t *testing.T) {
		conn := dial(t, "recdist-canceled", brokerTimeout)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := conn.Open(ctx)
		assert.True(t, errors.Contains(err, context.Canceled), fmt.Sprintf("expected %s got %s", context.Canceled, err))
		time.Sleep(settleTime)
		assert.False(t, conn.IsEstablished(), "abandoned connect attempt must not complete")
	})

	t.Run("open timing out on paused broker", func(t *testing.T) {
		conn := dial(t, "recdist-timeout", pausedTimeout)
		err := pool.Client.PauseContainer(container.Container.ID)
		require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

		err = conn.Open(context.Background())
		assert.NotNil(t, err, "expected connect to a paused broker to fail")

		err = pool.Client.UnpauseContainer(container.Container.ID)
		require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
		time.Sleep(settleTime)
		assert.False(t, conn.IsEstablished(), "abandoned connect attempt must not complete")
	})
}
