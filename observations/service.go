// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package observations

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/absmach/recdist"
	"github.com/absmach/recdist/pkg/messaging"
)

// Stats is a consistent snapshot of the distribution state.
type Stats struct {
	Observed        uint64    `json:"observed"`
	Published       uint64    `json:"published"`
	Failed          uint64    `json:"failed"`
	InQueue         int       `json:"in_queue"`
	History         int       `json:"history"`
	HistoryCapacity int       `json:"history_capacity"`
	LastDistributed time.Time `json:"last_distributed"`
	Connected       bool      `json:"connected"`
}

// Service specifies an API for distributing observations to the ingestion
// endpoint.
type Service interface {
	// Initialize opens the connection to the ingestion endpoint.
	Initialize(ctx context.Context) error

	// Publish dispatches the observation without waiting for its
	// acknowledgment. A nil observation is ignored.
	Publish(ctx context.Context, obs *Observation) error

	// Observed returns the number of dispatched observations.
	Observed() uint64

	// Published returns the number of acknowledged observations.
	Published() uint64

	// Failed returns the number of observations whose delivery failed.
	Failed() uint64

	// InQueue returns the number of messages awaiting acknowledgment.
	InQueue() int

	// ObservedMessages returns the acknowledged observations, oldest first.
	ObservedMessages() []Observation

	// PendingMessages returns the observations awaiting acknowledgment
	// in dispatch order.
	PendingMessages() []Observation

	// LastDistributed returns the time of the last acknowledgment.
	LastDistributed() time.Time

	// IsConnectionEstablished reports the connection state.
	IsConnectionEstablished() bool

	// OpenConnection opens the connection to the ingestion endpoint.
	OpenConnection(ctx context.Context) error

	// CloseConnection closes the connection to the ingestion endpoint.
	CloseConnection() error

	// Stats returns all counters and state at once.
	Stats() Stats
}

var _ Service = (*distributionService)(nil)

type distributionService struct {
	conn      messaging.Connection
	builder   *Builder
	observers []Observer
	logger    *slog.Logger
	now       func() time.Time

	mu              sync.RWMutex
	pending         *tracker
	history         *history
	observed        counter
	published       counter
	failed          counter
	lastDistributed time.Time
}

// New instantiates the distribution service.
func New(cfg Config, conn messaging.Connection, idp recdist.IDProvider, logger *slog.Logger, observers ...Observer) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &distributionService{
		conn:      conn,
		builder:   NewBuilder(idp, cfg),
		observers: observers,
		logger:    logger,
		now:       time.Now,
		pending:   newTracker(),
		history:   newHistory(cfg.HistoryCapacity),
	}, nil
}

func (svc *distributionService) Initialize(ctx context.Context) error {
	return svc.conn.Open(ctx)
}

func (svc *distributionService) Publish(ctx context.Context, obs *Observation) error {
	if !svc.conn.IsEstablished() {
		return ErrNotConnected
	}
	if obs == nil {
		return nil
	}
	o := *obs

	msg, err := svc.builder.Build(o)
	if err != nil {
		return err
	}

	svc.mu.Lock()
	if err := svc.pending.register(msg.ID, pending{obs: o, dispatched: svc.now()}); err != nil {
		svc.mu.Unlock()
		return err
	}
	svc.observed.inc()
	svc.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	for _, ob := range svc.observers {
		ob.Dispatched(ctx, msg, o)
	}

	id := msg.ID
	svc.conn.SendAsync(msg, func(_ messaging.Message, err error) {
		svc.complete(ctx, id, err)
	})

	return nil
}

func (svc *distributionService) complete(ctx context.Context, id string, err error) {
	now := svc.now()

	svc.mu.Lock()
	entry, ok := svc.pending.resolve(id)
	if !ok {
		svc.mu.Unlock()
		svc.logger.Debug("Received completion for unknown message", slog.String("message_id", id))
		return
	}
	switch err {
	case nil:
		svc.published.inc()
		svc.history.add(entry.obs)
		svc.lastDistributed = now
	default:
		svc.failed.inc()
	}
	svc.mu.Unlock()

	if err != nil {
		svc.logger.Warn("Failed to distribute observation",
			slog.String("message_id", id),
			slog.String("sensor_id", entry.obs.SensorID),
			slog.String("error", err.Error()),
		)
	}

	res := Result{
		MessageID:   id,
		Observation: entry.obs,
		Latency:     now.Sub(entry.dispatched),
		Err:         err,
	}
	for _, ob := range svc.observers {
		ob.Completed(ctx, res)
	}
}

func (svc *distributionService) Observed() uint64 {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return svc.observed.value()
}

func (svc *distributionService) Published() uint64 {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return svc.published.value()
}

func (svc *distributionService) Failed() uint64 {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return svc.failed.value()
}

func (svc *distributionService) InQueue() int {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return svc.pending.len()
}

func (svc *distributionService) ObservedMessages() []Observation {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return svc.history.list()
}

func (svc *distributionService) PendingMessages() []Observation {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return svc.pending.list()
}

func (svc *distributionService) LastDistributed() time.Time {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return svc.lastDistributed
}

func (svc *distributionService) IsConnectionEstablished() bool {
	return svc.conn.IsEstablished()
}

func (svc *distributionService) OpenConnection(ctx context.Context) error {
	return svc.conn.Open(ctx)
}

func (svc *distributionService) CloseConnection() error {
	return svc.conn.Close()
}

func (svc *distributionService) Stats() Stats {
	connected := svc.conn.IsEstablished()

	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return Stats{
		Observed:        svc.observed.value(),
		Published:       svc.published.value(),
		Failed:          svc.failed.value(),
		InQueue:         svc.pending.len(),
		History:         svc.history.len(),
		HistoryCapacity: svc.history.capacity(),
		LastDistributed: svc.lastDistributed,
		Connected:       connected,
	}
}
