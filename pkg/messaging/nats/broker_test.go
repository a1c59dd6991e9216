// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package nats

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

const pausedTimeout = time.Second

func open(t *testing.T, subject string, timeout time.Duration, opts ...messaging.Option) messaging.Connection {
	conn, err := New(address, subject, timeout, opts...)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	err = conn.Open(context.Background())
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	require.True(t, conn.IsEstablished())

	return conn
}

func TestSendAsync(t *testing.T) {
	cases := []struct {
		desc    string
		subject string
		opts    []messaging.Option
		fails   bool
	}{
		{
			desc:    "send to subject bound to a stream",
			subject: "rec.observations",
			opts:    []messaging.Option{Stream("observations")},
		},
		{
			desc:    "send to subject without a stream",
			subject: "rec.unbound",
			fails:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			conn := open(t, tc.subject, brokerTimeout, tc.opts...)
			defer conn.Close()

			err := testsutil.SendAndWait(t, conn, testsutil.Message(fmt.Sprintf("msg-%d", time.Now().UnixNano())), 2*brokerTimeout)
			switch tc.fails {
			case true:
				assert.NotNil(t, err, "expected failed completion")
			default:
				assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
			}
		})
	}
}

func TestSendAsyncBrokerPaused(t *testing.T) {
	conn := open(t, "rec.paused", pausedTimeout, Stream("paused"))
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
	conn := open(t, "rec.reopen", brokerTimeout)
	c := conn.(*connection)
	first := c.conn

	err := conn.Open(context.Background())
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	second := c.conn
	assert.NotSame(t, first, second)
	assert.True(t, first.IsClosed(), "previous connection must be closed on reopen")
	assert.True(t, conn.IsEstablished())

	err = conn.Close()
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.True(t, second.IsClosed())
	assert.False(t, conn.IsEstablished())
}
