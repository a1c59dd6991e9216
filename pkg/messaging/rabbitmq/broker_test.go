// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package rabbitmq

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/absmach/recdist/internal/testsutil"
	"github.com/absmach/recdist/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pausedTimeout = time.Second

func open(t *testing.T, timeout time.Duration) *connection {
	conn, err := New(address, routingKey, timeout)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	err = conn.Open(context.Background())
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	require.True(t, conn.IsEstablished())

	return conn.(*connection)
}

func TestSendAsyncConfirmed(t *testing.T) {
	conn := open(t, brokerTimeout)
	defer conn.Close()

	for i := 0; i < 3; i++ {
		err := testsutil.SendAndWait(t, conn, testsutil.Message(fmt.Sprintf("msg-%d", i)), 2*brokerTimeout)
		assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	}
}

func TestSendAsyncBrokerPaused(t *testing.T) {
	conn := open(t, pausedTimeout)
	defer conn.Close()

	err := pool.Client.PauseContainer(container.Container.ID)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	defer func() {
		err := pool.Client.UnpauseContainer(container.Container.ID)
		require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	}()

	err = testsutil.SendAndWait(t, conn, testsutil.Message("msg-paused"), 3*pausedTimeout)
	assert.True(t, errors.Contains(err, errPublishTimeout), fmt.Sprintf("expected %s got %s", errPublishTimeout, err))
	assert.True(t, errors.IsRetryable(err))
}

func TestReopen(t *testing.T) {
	cases := []struct {
		desc    string
		prepare func(c *connection)
	}{
		{
			desc:    "reopen established connection",
			prepare: func(*connection) {},
		},
		{
			desc: "reopen after channel closed",
			prepare: func(c *connection) {
				require.Nil(t, c.ch.Close())
				require.False(t, c.IsEstablished())
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			conn := open(t, brokerTimeout)
			first := conn.conn
			tc.prepare(conn)

			err := conn.Open(context.Background())
			require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
			second := conn.conn
			assert.NotSame(t, first, second)
			assert.True(t, first.IsClosed(), "previous connection must be closed on reopen")
			assert.True(t, conn.IsEstablished())

			err = conn.Close()
			assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
			assert.True(t, second.IsClosed())
			assert.False(t, conn.IsEstablished())
		})
	}
}
