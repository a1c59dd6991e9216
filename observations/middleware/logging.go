// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/recdist/observations"
)

var _ observations.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	observations.Service
}

// LoggingMiddleware adds logging facilities to the distribution service.
// Counter getters are not logged.
func LoggingMiddleware(svc observations.Service, logger *slog.Logger) observations.Service {
	return &loggingMiddleware{
		logger:  logger,
		Service: svc,
	}
}

func (lm *loggingMiddleware) Initialize(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Initialize distribution failed", args...)
			return
		}
		lm.logger.Info("Initialize distribution completed successfully", args...)
	}(time.Now())

	return lm.Service.Initialize(ctx)
}

func (lm *loggingMiddleware) Publish(ctx context.Context, obs *observations.Observation) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if obs != nil {
			args = append(args, slog.Group("observation",
				slog.String("sensor_id", obs.SensorID),
				slog.String("sensor_type", obs.SensorType),
				slog.Float64("value", obs.Value),
			))
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Publish observation failed", args...)
			return
		}
		lm.logger.Debug("Publish observation completed successfully", args...)
	}(time.Now())

	return lm.Service.Publish(ctx, obs)
}

func (lm *loggingMiddleware) PendingMessages() (obs []observations.Observation) {
	defer func(begin time.Time) {
		lm.logger.Debug("List pending messages completed successfully",
			slog.String("duration", time.Since(begin).String()),
			slog.Int("count", len(obs)),
		)
	}(time.Now())

	return lm.Service.PendingMessages()
}

func (lm *loggingMiddleware) OpenConnection(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Open connection failed", args...)
			return
		}
		lm.logger.Info("Open connection completed successfully", args...)
	}(time.Now())

	return lm.Service.OpenConnection(ctx)
}

func (lm *loggingMiddleware) CloseConnection() (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("stats",
				slog.Uint64("observed", lm.Service.Observed()),
				slog.Uint64("published", lm.Service.Published()),
				slog.Uint64("failed", lm.Service.Failed()),
				slog.Int("in_queue", lm.Service.InQueue()),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Close connection failed", args...)
			return
		}
		lm.logger.Info("Close connection completed successfully", args...)
	}(time.Now())

	return lm.Service.CloseConnection()
}
