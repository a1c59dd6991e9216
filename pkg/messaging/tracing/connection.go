// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"

	"github.com/absmach/recdist/pkg/messaging"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Traced operations.
const (
	openOP  = "open"
	sendOP  = "send"
	closeOP = "close"
)

var _ messaging.Connection = (*connectionMiddleware)(nil)

type connectionMiddleware struct {
	conn        messaging.Connection
	destination string
	tracer      trace.Tracer
}

// New creates a tracing middleware for a broker connection. Send spans
// start when a message is handed to the broker and end in the completion
// handler.
func New(destination string, tracer trace.Tracer, conn messaging.Connection) messaging.Connection {
	return &connectionMiddleware{
		conn:        conn,
		destination: destination,
		tracer:      tracer,
	}
}

func (cm *connectionMiddleware) Open(ctx context.Context) error {
	ctx, span := CreateSpan(ctx, openOP, cm.destination, messaging.Message{}, trace.SpanKindClient, cm.tracer)
	defer span.End()

	err := cm.conn.Open(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

func (cm *connectionMiddleware) IsEstablished() bool {
	return cm.conn.IsEstablished()
}

func (cm *connectionMiddleware) SendAsync(msg messaging.Message, onComplete messaging.CompletionHandler) {
	_, span := CreateSpan(context.Background(), sendOP, cm.destination, msg, trace.SpanKindProducer, cm.tracer)
	cm.conn.SendAsync(msg, func(m messaging.Message, err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		onComplete(m, err)
	})
}

func (cm *connectionMiddleware) Close() error {
	_, span := CreateSpan(context.Background(), closeOP, cm.destination, messaging.Message{}, trace.SpanKindClient, cm.tracer)
	defer span.End()

	return cm.conn.Close()
}
