// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package aggregate

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsAggregate holds the Prometheus histograms for the
// graph-building and findings stages of Build, grounded on the
// teacher's pkg/ingestion/metrics.go package-local sync.Once pattern.
type metricsAggregate struct {
	once sync.Once

	graphDuration    prometheus.Histogram
	findingsDuration prometheus.Histogram
}

var aggMetrics metricsAggregate

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

func (m *metricsAggregate) init() {
	m.once.Do(func() {
		m.graphDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "loctree_aggregate_graph_seconds", Help: "Cycle-detection pass duration within Build.", Buckets: durationBuckets,
		})
		m.findingsDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "loctree_aggregate_findings_seconds", Help: "Dead-export/twin/barrel/memory-lint pass duration within Build.", Buckets: durationBuckets,
		})
		prometheus.MustRegister(m.graphDuration, m.findingsDuration)
	})
}

func observeGraphDuration(d time.Duration) {
	aggMetrics.init()
	aggMetrics.graphDuration.Observe(d.Seconds())
}

func observeFindingsDuration(d time.Duration) {
	aggMetrics.init()
	aggMetrics.findingsDuration.Observe(d.Seconds())
}
