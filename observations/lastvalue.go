// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package observations

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/recdist/pkg/messaging"
)

// LastValue is the most recent acknowledged observation of a sensor.
type LastValue struct {
	MessageID     string      `json:"messageId"`
	Observation   Observation `json:"observation"`
	DistributedAt time.Time   `json:"distributedAt"`
}

// LastValueRepository stores the last acknowledged observation per sensor.
type LastValueRepository interface {
	// Save stores lv, replacing the previous value of the same sensor.
	Save(ctx context.Context, lv LastValue) error

	// Retrieve returns the last value of the sensor.
	Retrieve(ctx context.Context, sensorID string) (LastValue, error)
}

var _ Observer = (*lastValueObserver)(nil)

type lastValueObserver struct {
	repo   LastValueRepository
	logger *slog.Logger
}

// NewLastValueObserver returns an observer saving every acknowledged
// observation that carries a sensor id.
func NewLastValueObserver(repo LastValueRepository, logger *slog.Logger) Observer {
	return &lastValueObserver{
		repo:   repo,
		logger: logger,
	}
}

func (lvo *lastValueObserver) Dispatched(context.Context, messaging.Message, Observation) {}

func (lvo *lastValueObserver) Completed(ctx context.Context, res Result) {
	if res.Err != nil || res.Observation.SensorID == "" {
		return
	}
	lv := LastValue{
		MessageID:     res.MessageID,
		Observation:   res.Observation,
		DistributedAt: time.Now().UTC(),
	}
	if err := lvo.repo.Save(ctx, lv); err != nil {
		lvo.logger.Warn("Failed to save last value",
			slog.String("sensor_id", res.Observation.SensorID),
			slog.String("message_id", res.MessageID),
			slog.String("error", err.Error()),
		)
	}
}
