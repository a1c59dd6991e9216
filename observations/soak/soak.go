// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package soak runs a connection stability test against a distribution
// service: synthetic observations are published at a fixed interval,
// dropped connections are reopened and statistics are reported
// periodically.
package soak

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/absmach/recdist/observations"
	"github.com/absmach/recdist/pkg/errors"
	"github.com/cenkalti/backoff/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const sensorPrefix = "stability-test-"

var errInvalidConfig = errors.New("invalid soak configuration")

// Config bounds a soak run. Fields are parsed from the MG_SOAK_ prefixed
// environment by the soak command.
type Config struct {
	Duration          time.Duration `env:"DURATION"           envDefault:"1h"`
	Interval          time.Duration `env:"INTERVAL"           envDefault:"30s"`
	ReportInterval    time.Duration `env:"REPORT_INTERVAL"    envDefault:"1m"`
	ReconnectWait     time.Duration `env:"RECONNECT_WAIT"     envDefault:"2s"`
	ReconnectAttempts uint64        `env:"RECONNECT_ATTEMPTS" envDefault:"3"`
	Sensors           int           `env:"SENSORS"            envDefault:"5"`
	Verbose           bool          `env:"VERBOSE"            envDefault:"false"`
}

// Validate checks that the run has a duration, a send interval, a report
// interval and at least one sensor.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Duration, validation.Required),
		validation.Field(&c.Interval, validation.Required),
		validation.Field(&c.ReportInterval, validation.Required),
		validation.Field(&c.Sensors, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return errors.Wrap(errInvalidConfig, err)
	}

	return nil
}

// Report summarizes a soak run.
type Report struct {
	Started         time.Time          `json:"started"`
	Finished        time.Time          `json:"finished"`
	Sent            uint64             `json:"sent"`
	Failed          uint64             `json:"failed"`
	ConnectionsLost uint64             `json:"connections_lost"`
	SuccessRate     float64            `json:"success_rate"`
	Uptime          float64            `json:"uptime"`
	Stats           observations.Stats `json:"stats"`
}

// Runner publishes synthetic observations through a distribution service
// and tracks delivery and connection statistics.
type Runner struct {
	svc    observations.Service
	cfg    Config
	logger *slog.Logger
	rand   *rand.Rand

	mu      sync.Mutex
	sent    uint64
	failed  uint64
	lost    uint64
	started time.Time
}

// New returns a Runner for svc, or an error if cfg is invalid.
func New(svc observations.Service, cfg Config, logger *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Runner{
		svc:    svc,
		cfg:    cfg,
		logger: logger,
		rand:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}, nil
}

// Run publishes until the configured duration elapses or ctx is done, and
// returns the final report. The first observation is sent after one
// interval.
func (r *Runner) Run(ctx context.Context) Report {
	r.started = time.Now().UTC()
	r.logger.Info("Soak test started",
		slog.Duration("duration", r.cfg.Duration),
		slog.Duration("interval", r.cfg.Interval),
	)

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Duration)
	defer cancel()

	send := time.NewTicker(r.cfg.Interval)
	defer send.Stop()
	report := time.NewTicker(r.cfg.ReportInterval)
	defer report.Stop()

	for {
		select {
		case <-ctx.Done():
			return r.Report()
		case <-send.C:
			r.tick(ctx)
		case <-report.C:
			r.logStats()
		}
	}
}

// Report returns the statistics gathered so far.
func (r *Runner) Report() Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := Report{
		Started:         r.started,
		Finished:        time.Now().UTC(),
		Sent:            r.sent,
		Failed:          r.failed,
		ConnectionsLost: r.lost,
		SuccessRate:     successRate(r.sent, r.failed),
		Uptime:          uptime(r.sent, r.failed, r.lost),
		Stats:           r.svc.Stats(),
	}

	return rep
}

func (r *Runner) tick(ctx context.Context) {
	if !r.svc.IsConnectionEstablished() {
		r.logger.Warn("Connection lost, reconnecting")
		r.mu.Lock()
		r.lost++
		r.mu.Unlock()
		if err := r.reconnect(ctx); err != nil {
			r.logger.Error(fmt.Sprintf("Failed to reconnect: %s", err))
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.cfg.ReconnectWait):
		}
	}

	obs := r.observation()
	if err := r.svc.Publish(ctx, &obs); err != nil {
		r.mu.Lock()
		r.failed++
		failed := r.failed
		r.mu.Unlock()
		r.logger.Error(fmt.Sprintf("Failed to send message #%d: %s", failed, err))
		return
	}

	r.mu.Lock()
	r.sent++
	sent := r.sent
	r.mu.Unlock()
	if r.cfg.Verbose || sent%10 == 0 {
		r.logger.Info(fmt.Sprintf("Sent message #%d", sent), slog.String("sensor_id", obs.SensorID))
	}
}

// reconnect reopens the connection, backing off exponentially from
// ReconnectWait between attempts.
func (r *Runner) reconnect(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.cfg.ReconnectWait
	notify := func(err error, next time.Duration) {
		r.logger.Info(fmt.Sprintf("Broker not ready: %s, next try in %s", err, next))
	}
	op := func() error {
		return r.svc.OpenConnection(ctx)
	}

	return backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(bo, r.cfg.ReconnectAttempts), ctx), notify)
}

func (r *Runner) observation() observations.Observation {
	now := time.Now().UTC()

	return observations.Observation{
		SensorID:        fmt.Sprintf("%s%d", sensorPrefix, r.rand.IntN(r.cfg.Sensors)),
		RealEstate:      "StabilityTestRE",
		Building:        "TestBuilding",
		Floor:           fmt.Sprintf("%02d", 1+r.rand.IntN(3)),
		Section:         fmt.Sprintf("Section-%c", 'A'+r.rand.IntN(3)),
		ServesRoom:      fmt.Sprintf("Room-%d", 100+r.rand.IntN(10)),
		SensorType:      "temp",
		MeasurementUnit: "C",
		Value:           18 + r.rand.Float64()*12,
		ObservationTime: now.Add(-time.Duration(r.rand.IntN(30)) * time.Second),
		ReceivedAt:      now,
		Tfm:             "TFM-STABILITY-TEST",
	}
}

func (r *Runner) logStats() {
	rep := r.Report()
	r.logger.Info("Soak statistics",
		slog.Uint64("sent", rep.Sent),
		slog.Uint64("failed", rep.Failed),
		slog.Uint64("connections_lost", rep.ConnectionsLost),
		slog.Float64("success_rate", rep.SuccessRate),
		slog.Int("in_queue", rep.Stats.InQueue),
		slog.Bool("connected", rep.Stats.Connected),
	)
}

func successRate(sent, failed uint64) float64 {
	if sent+failed == 0 {
		return 0
	}

	return float64(sent) / float64(sent+failed) * 100
}

func uptime(sent, failed, lost uint64) float64 {
	switch {
	case lost == 0:
		return 100
	case sent+failed == 0 || lost >= sent+failed:
		return 0
	default:
		return (1 - float64(lost)/float64(sent+failed)) * 100
	}
}
