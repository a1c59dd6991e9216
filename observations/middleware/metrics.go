// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"time"

	"github.com/absmach/recdist/observations"
	"github.com/absmach/recdist/pkg/messaging"
	"github.com/go-kit/kit/metrics"
)

var _ observations.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	observations.Service
}

// MetricsMiddleware instruments the distribution service by tracking
// request count and latency.
func MetricsMiddleware(svc observations.Service, counter metrics.Counter, latency metrics.Histogram) observations.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		Service: svc,
	}
}

func (mm *metricsMiddleware) Initialize(ctx context.Context) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "initialize").Add(1)
		mm.latency.With("method", "initialize").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.Service.Initialize(ctx)
}

func (mm *metricsMiddleware) Publish(ctx context.Context, obs *observations.Observation) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "publish").Add(1)
		mm.latency.With("method", "publish").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.Service.Publish(ctx, obs)
}

func (mm *metricsMiddleware) PendingMessages() []observations.Observation {
	defer func(begin time.Time) {
		mm.counter.With("method", "pending_messages").Add(1)
		mm.latency.With("method", "pending_messages").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.Service.PendingMessages()
}

func (mm *metricsMiddleware) OpenConnection(ctx context.Context) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "open_connection").Add(1)
		mm.latency.With("method", "open_connection").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.Service.OpenConnection(ctx)
}

func (mm *metricsMiddleware) CloseConnection() error {
	defer func(begin time.Time) {
		mm.counter.With("method", "close_connection").Add(1)
		mm.latency.With("method", "close_connection").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.Service.CloseConnection()
}

var _ observations.Observer = (*metricsObserver)(nil)

type metricsObserver struct {
	counter metrics.Counter
	latency metrics.Histogram
}

// MetricsObserver tracks dispatched messages and their outcomes, and the
// time from dispatch to acknowledgment.
func MetricsObserver(counter metrics.Counter, latency metrics.Histogram) observations.Observer {
	return &metricsObserver{
		counter: counter,
		latency: latency,
	}
}

func (mo *metricsObserver) Dispatched(context.Context, messaging.Message, observations.Observation) {
	mo.counter.With("outcome", "dispatched").Add(1)
}

func (mo *metricsObserver) Completed(_ context.Context, res observations.Result) {
	outcome := "acknowledged"
	if res.Err != nil {
		outcome = "failed"
	}
	mo.counter.With("outcome", outcome).Add(1)
	mo.latency.With("outcome", outcome).Observe(res.Latency.Seconds())
}
