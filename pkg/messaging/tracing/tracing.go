// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"
	"fmt"

	"github.com/absmach/recdist/pkg/messaging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var defaultAttributes = []attribute.KeyValue{
	attribute.Bool("messaging.destination.anonymous", false),
	attribute.Bool("messaging.destination.temporary", false),
	attribute.String("network.transport", "tcp"),
}

// CreateSpan starts a messaging span named after the destination and the operation.
func CreateSpan(ctx context.Context, operation, destination string, msg messaging.Message, spanKind trace.SpanKind, tracer trace.Tracer) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("%s %s", destination, operation)

	kvOpts := []attribute.KeyValue{
		attribute.String("messaging.operation", operation),
		attribute.String("messaging.destination.name", destination),
	}
	if msg.ID != "" {
		kvOpts = append(kvOpts, attribute.String("messaging.message.id", msg.ID))
	}
	if len(msg.Payload) > 0 {
		kvOpts = append(kvOpts, attribute.Int("messaging.message.payload_size_bytes", len(msg.Payload)))
	}
	kvOpts = append(kvOpts, defaultAttributes...)

	return tracer.Start(ctx, spanName, trace.WithAttributes(kvOpts...), trace.WithSpanKind(spanKind))
}
