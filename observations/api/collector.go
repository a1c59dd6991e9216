// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/absmach/recdist/observations"
	"github.com/prometheus/client_golang/prometheus"
)

var _ prometheus.Collector = (*collector)(nil)

type collector struct {
	svc             observations.Service
	observed        *prometheus.Desc
	published       *prometheus.Desc
	failed          *prometheus.Desc
	inQueue         *prometheus.Desc
	history         *prometheus.Desc
	connected       *prometheus.Desc
	lastDistributed *prometheus.Desc
}

// NewCollector returns a Prometheus collector exporting the distribution
// counters. All values come from a single Stats snapshot per scrape.
func NewCollector(namespace, subsystem string, svc observations.Service) prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, nil, nil)
	}

	return &collector{
		svc:             svc,
		observed:        desc("observed_total", "Number of observations handed to the broker."),
		published:       desc("published_total", "Number of observations acknowledged by the broker."),
		failed:          desc("failed_total", "Number of observations the broker failed to accept."),
		inQueue:         desc("in_queue", "Number of messages awaiting acknowledgment."),
		history:         desc("history_size", "Number of acknowledged observations kept in memory."),
		connected:       desc("connected", "Whether the broker connection is established."),
		lastDistributed: desc("last_distributed_timestamp_seconds", "Time of the last acknowledgment."),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.observed
	ch <- c.published
	ch <- c.failed
	ch <- c.inQueue
	ch <- c.history
	ch <- c.connected
	ch <- c.lastDistributed
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.svc.Stats()

	var connected, lastDistributed float64
	if stats.Connected {
		connected = 1
	}
	if !stats.LastDistributed.IsZero() {
		lastDistributed = float64(stats.LastDistributed.UnixNano()) / 1e9
	}

	ch <- prometheus.MustNewConstMetric(c.observed, prometheus.CounterValue, float64(stats.Observed))
	ch <- prometheus.MustNewConstMetric(c.published, prometheus.CounterValue, float64(stats.Published))
	ch <- prometheus.MustNewConstMetric(c.failed, prometheus.CounterValue, float64(stats.Failed))
	ch <- prometheus.MustNewConstMetric(c.inQueue, prometheus.GaugeValue, float64(stats.InQueue))
	ch <- prometheus.MustNewConstMetric(c.history, prometheus.GaugeValue, float64(stats.History))
	ch <- prometheus.MustNewConstMetric(c.connected, prometheus.GaugeValue, connected)
	ch <- prometheus.MustNewConstMetric(c.lastDistributed, prometheus.GaugeValue, lastDistributed)
}
