// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package observations_test

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/absmach/recdist/logger"
	"github.com/absmach/recdist/observations"
	"github.com/absmach/recdist/pkg/errors"
	"github.com/absmach/recdist/pkg/messaging"
	"github.com/absmach/recdist/pkg/messaging/mocks"
	"github.com/absmach/recdist/pkg/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errDelivery = errors.New("delivery failed")

type recorder struct {
	mu         sync.Mutex
	dispatched []string
	completed  []observations.Result
}

func (r *recorder) Dispatched(_ context.Context, msg messaging.Message, _ observations.Observation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatched = append(r.dispatched, msg.ID)
}

func (r *recorder) Completed(_ context.Context, res observations.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, res)
}

func (r *recorder) results() []observations.Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]observations.Result(nil), r.completed...)
}

func newService(t *testing.T, cfg observations.Config, observers ...observations.Observer) (observations.Service, *mocks.Connection) {
	conn := mocks.NewConnection()
	svc, err := observations.New(cfg, conn, uuid.NewMock(), logger.NewMock(), observers...)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	return svc, conn
}

func TestNew(t *testing.T) {
	conn := mocks.NewConnection()
	_, err := observations.New(observations.Config{HistoryCapacity: 0, PayloadFormat: observations.FormatObservation}, conn, uuid.NewMock(), logger.NewMock())
	assert.True(t, errors.Contains(err, observations.ErrInvalidConfig), fmt.Sprintf("expected %s got %s", observations.ErrInvalidConfig, err))
}

func TestInitialize(t *testing.T) {
	svc, conn := newService(t, observations.DefaultConfig())

	conn.On("Open", mock.Anything).Return(nil).Once()
	err := svc.Initialize(context.Background())
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.True(t, svc.IsConnectionEstablished())

	conn.On("Close").Return(nil).Once()
	err = svc.CloseConnection()
	assert.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.False(t, svc.IsConnectionEstablished())

	conn.On("Open", mock.Anything).Return(errDelivery).Once()
	err = svc.OpenConnection(context.Background())
	assert.True(t, errors.Contains(err, errDelivery), fmt.Sprintf("expected %s got %s", errDelivery, err))
	assert.False(t, svc.IsConnectionEstablished())
	conn.AssertExpectations(t)
}

func TestPublish(t *testing.T) {
	nan := stubObservation()
	nan.Value = math.NaN()

	cases := []struct {
		desc      string
		connected bool
		obs       *observations.Observation
		observed  uint64
		inQueue   int
		sends     int
		err       error
		retryable bool
	}{
		{
			desc:      "publish observation",
			connected: true,
			obs:       &observations.Observation{SensorID: "sensor-1", SensorType: "temp", Value: 21.5},
			observed:  1,
			inQueue:   1,
			sends:     1,
		},
		{
			desc:      "publish nil observation",
			connected: true,
			obs:       nil,
		},
		{
			desc:      "publish while disconnected",
			connected: false,
			obs:       &observations.Observation{SensorID: "sensor-1"},
			err:       observations.ErrNotConnected,
			retryable: true,
		},
		{
			desc:      "publish nil observation while disconnected",
			connected: false,
			obs:       nil,
			err:       observations.ErrNotConnected,
			retryable: true,
		},
		{
			desc:      "publish observation that cannot be serialized",
			connected: true,
			obs:       &nan,
			err:       observations.ErrSerialization,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svc, conn := newService(t, observations.DefaultConfig())
			conn.SetEstablished(tc.connected)

			err := svc.Publish(context.Background(), tc.obs)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("expected %s got %s", tc.err, err))
			assert.Equal(t, tc.retryable, errors.IsRetryable(err))
			assert.Equal(t, tc.observed, svc.Observed())
			assert.Equal(t, uint64(0), svc.Published())
			assert.Equal(t, uint64(0), svc.Failed())
			assert.Equal(t, tc.inQueue, svc.InQueue())
			assert.Len(t, conn.Sends(), tc.sends)
		})
	}
}

func TestPublishAcknowledged(t *testing.T) {
	rec := &recorder{}
	svc, conn := newService(t, observations.DefaultConfig(), rec)
	conn.SetEstablished(true)

	a := observations.Observation{SensorID: "A", SensorType: "temp", Value: 21.5}
	err := svc.Publish(context.Background(), &a)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, uint64(1), svc.Observed())
	assert.Equal(t, 1, svc.InQueue())
	assert.True(t, svc.LastDistributed().IsZero())

	sends := conn.Sends()
	require.Len(t, sends, 1)
	assert.Equal(t, []string{sends[0].Msg.ID}, rec.dispatched)

	require.True(t, conn.Deliver(sends[0].Msg.ID, nil))
	assert.Equal(t, uint64(1), svc.Observed())
	assert.Equal(t, uint64(1), svc.Published())
	assert.Equal(t, uint64(0), svc.Failed())
	assert.Equal(t, 0, svc.InQueue())
	assert.Equal(t, []observations.Observation{a}, svc.ObservedMessages())
	assert.False(t, svc.LastDistributed().IsZero())

	results := rec.results()
	require.Len(t, results, 1)
	assert.Equal(t, sends[0].Msg.ID, results[0].MessageID)
	assert.Equal(t, a, results[0].Observation)
	assert.Nil(t, results[0].Err)
}

func TestPublishFailed(t *testing.T) {
	rec := &recorder{}
	svc, conn := newService(t, observations.DefaultConfig(), rec)
	conn.SetEstablished(true)

	b := observations.Observation{SensorID: "B", SensorType: "co2", Value: 412}
	err := svc.Publish(context.Background(), &b)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, uint64(1), svc.Observed())
	assert.Equal(t, 1, svc.InQueue())

	sends := conn.Sends()
	require.Len(t, sends, 1)
	require.True(t, conn.Deliver(sends[0].Msg.ID, errDelivery))

	assert.Equal(t, uint64(1), svc.Observed())
	assert.Equal(t, uint64(0), svc.Published())
	assert.Equal(t, uint64(1), svc.Failed())
	assert.Equal(t, 0, svc.InQueue())
	assert.Empty(t, svc.ObservedMessages())
	assert.True(t, svc.LastDistributed().IsZero())

	results := rec.results()
	require.Len(t, results, 1)
	assert.Equal(t, errDelivery, results[0].Err)
}

func TestDuplicateCompletion(t *testing.T) {
	rec := &recorder{}
	svc, conn := newService(t, observations.DefaultConfig(), rec)
	conn.SetEstablished(true)

	err := svc.Publish(context.Background(), &observations.Observation{SensorID: "A"})
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	send := conn.Sends()[0]
	send.OnComplete(send.Msg, nil)
	send.OnComplete(send.Msg, nil)
	send.OnComplete(send.Msg, errDelivery)

	assert.Equal(t, uint64(1), svc.Observed())
	assert.Equal(t, uint64(1), svc.Published())
	assert.Equal(t, uint64(0), svc.Failed())
	assert.Equal(t, 0, svc.InQueue())
	assert.Len(t, svc.ObservedMessages(), 1)
	assert.Len(t, rec.results(), 1)
}

func TestObservationIsCopied(t *testing.T) {
	svc, conn := newService(t, observations.DefaultConfig())
	conn.SetEstablished(true)

	obs := observations.Observation{SensorID: "A", Value: 1}
	err := svc.Publish(context.Background(), &obs)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	obs.SensorID = "changed"
	obs.Value = 2

	require.True(t, conn.Deliver(conn.Sends()[0].Msg.ID, nil))
	history := svc.ObservedMessages()
	require.Len(t, history, 1)
	assert.Equal(t, "A", history[0].SensorID)
	assert.Equal(t, float64(1), history[0].Value)
}

func TestHistoryCapacity(t *testing.T) {
	cfg := observations.DefaultConfig()
	cfg.HistoryCapacity = 3
	svc, conn := newService(t, cfg)
	conn.SetEstablished(true)

	for i := 1; i <= 5; i++ {
		err := svc.Publish(context.Background(), &observations.Observation{SensorID: fmt.Sprintf("sensor-%d", i)})
		require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	}
	for _, s := range conn.Sends() {
		require.True(t, conn.Deliver(s.Msg.ID, nil))
	}

	history := svc.ObservedMessages()
	require.Len(t, history, 3)
	assert.Equal(t, "sensor-3", history[0].SensorID)
	assert.Equal(t, "sensor-5", history[2].SensorID)

	stats := svc.Stats()
	assert.Equal(t, uint64(5), stats.Observed)
	assert.Equal(t, uint64(5), stats.Published)
	assert.Equal(t, 3, stats.History)
	assert.Equal(t, 3, stats.HistoryCapacity)
	assert.Equal(t, 0, stats.InQueue)
	assert.True(t, stats.Connected)
}

func TestPendingMessages(t *testing.T) {
	svc, conn := newService(t, observations.DefaultConfig())
	assert.Empty(t, svc.PendingMessages())

	conn.SetEstablished(true)
	for i := 1; i <= 3; i++ {
		err := svc.Publish(context.Background(), &observations.Observation{SensorID: fmt.Sprintf("sensor-%d", i), Value: float64(i)})
		require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	}
	sends := conn.Sends()
	require.Len(t, sends, 3)

	cases := []struct {
		desc    string
		deliver string
		err     error
		sensors []string
	}{
		{
			desc:    "list all dispatched observations",
			sensors: []string{"sensor-1", "sensor-2", "sensor-3"},
		},
		{
			desc:    "list after acknowledgment",
			deliver: sends[1].Msg.ID,
			sensors: []string{"sensor-1", "sensor-3"},
		},
		{
			desc:    "list after failure",
			deliver: sends[0].Msg.ID,
			err:     errDelivery,
			sensors: []string{"sensor-3"},
		},
		{
			desc:    "list after last acknowledgment",
			deliver: sends[2].Msg.ID,
			sensors: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			if tc.deliver != "" {
				require.True(t, conn.Deliver(tc.deliver, tc.err))
			}
			pending := svc.PendingMessages()
			sensors := []string{}
			for _, obs := range pending {
				sensors = append(sensors, obs.SensorID)
			}
			assert.Equal(t, tc.sensors, sensors)
			assert.Equal(t, svc.InQueue(), len(pending))
		})
	}
}

func TestStats(t *testing.T) {
	svc, conn := newService(t, observations.DefaultConfig())

	stats := svc.Stats()
	assert.Equal(t, observations.Stats{HistoryCapacity: observations.DefaultHistoryCapacity}, stats)

	conn.SetEstablished(true)
	for i := 0; i < 3; i++ {
		err := svc.Publish(context.Background(), &observations.Observation{SensorID: "A"})
		require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	}
	sends := conn.Sends()
	require.True(t, conn.Deliver(sends[0].Msg.ID, nil))
	require.True(t, conn.Deliver(sends[1].Msg.ID, errDelivery))

	stats = svc.Stats()
	assert.Equal(t, uint64(3), stats.Observed)
	assert.Equal(t, uint64(1), stats.Published)
	assert.Equal(t, uint64(1), stats.Failed)
	assert.Equal(t, 1, stats.InQueue)
	assert.Equal(t, 1, stats.History)
	assert.Equal(t, svc.LastDistributed(), stats.LastDistributed)
}

func TestConcurrentPublish(t *testing.T) {
	const (
		publishers = 8
		perWorker  = 250
	)
	rec := &recorder{}
	cfg := observations.DefaultConfig()
	cfg.HistoryCapacity = 100
	svc, conn := newService(t, cfg, rec)
	conn.SetEstablished(true)
	conn.AutoComplete(nil)

	var wg sync.WaitGroup
	for w := 0; w < publishers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				obs := observations.Observation{SensorID: fmt.Sprintf("sensor-%d-%d", w, i)}
				assert.Nil(t, svc.Publish(context.Background(), &obs))
				_ = svc.Stats()
				_ = svc.ObservedMessages()
				_ = svc.PendingMessages()
			}
		}(w)
	}
	wg.Wait()

	total := uint64(publishers * perWorker)
	assert.Eventually(t, func() bool {
		return svc.Published() == total && svc.InQueue() == 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, total, svc.Observed())
	assert.Equal(t, uint64(0), svc.Failed())
	assert.Len(t, svc.ObservedMessages(), cfg.HistoryCapacity)
	assert.Empty(t, svc.PendingMessages())
	assert.Len(t, rec.results(), int(total))
}
