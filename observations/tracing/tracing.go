// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"

	"github.com/absmach/recdist/observations"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ observations.Service = (*tracingMiddleware)(nil)

type tracingMiddleware struct {
	tracer trace.Tracer
	observations.Service
}

// New returns a new distribution service with tracing capabilities.
func New(svc observations.Service, tracer trace.Tracer) observations.Service {
	return &tracingMiddleware{tracer, svc}
}

func (tm *tracingMiddleware) Initialize(ctx context.Context) error {
	ctx, span := tm.tracer.Start(ctx, "initialize")
	defer span.End()

	return record(span, tm.Service.Initialize(ctx))
}

func (tm *tracingMiddleware) Publish(ctx context.Context, obs *observations.Observation) error {
	var attrs []attribute.KeyValue
	if obs != nil {
		attrs = append(attrs,
			attribute.String("sensor_id", obs.SensorID),
			attribute.String("sensor_type", obs.SensorType),
		)
	}
	ctx, span := tm.tracer.Start(ctx, "publish", trace.WithAttributes(attrs...))
	defer span.End()

	return record(span, tm.Service.Publish(ctx, obs))
}

func (tm *tracingMiddleware) OpenConnection(ctx context.Context) error {
	ctx, span := tm.tracer.Start(ctx, "open_connection")
	defer span.End()

	return record(span, tm.Service.OpenConnection(ctx))
}

func (tm *tracingMiddleware) CloseConnection() error {
	_, span := tm.tracer.Start(context.Background(), "close_connection")
	defer span.End()

	return record(span, tm.Service.CloseConnection())
}

func record(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}
