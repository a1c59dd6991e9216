// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"
	"sync"

	"github.com/absmach/recdist/observations"
	"github.com/absmach/recdist/pkg/messaging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const distributeOP = "distribute_observation"

var _ observations.Observer = (*observer)(nil)

type observer struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[string]trace.Span
}

// NewObserver returns an observer tracing every message from dispatch to
// its acknowledgment or failure. Spans are children of the span in the
// context passed to Publish.
func NewObserver(tracer trace.Tracer) observations.Observer {
	return &observer{
		tracer: tracer,
		spans:  make(map[string]trace.Span),
	}
}

func (o *observer) Dispatched(ctx context.Context, msg messaging.Message, obs observations.Observation) {
	_, span := o.tracer.Start(ctx, distributeOP,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.message.id", msg.ID),
			attribute.Int("messaging.message.payload_size_bytes", len(msg.Payload)),
			attribute.String("sensor_id", obs.SensorID),
			attribute.String("sensor_type", obs.SensorType),
			attribute.String("quantity_kind", observations.QuantityKind(obs.SensorType)),
		),
	)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.spans[msg.ID] = span
}

func (o *observer) Completed(_ context.Context, res observations.Result) {
	o.mu.Lock()
	span, ok := o.spans[res.MessageID]
	delete(o.spans, res.MessageID)
	o.mu.Unlock()
	if !ok {
		return
	}

	span.SetAttributes(attribute.Int64("latency_ms", res.Latency.Milliseconds()))
	record(span, res.Err)
	span.End()
}
