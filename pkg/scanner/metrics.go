// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package scanner

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsScanner holds the Prometheus metrics for the scan/resolve
// pipeline, grounded on the teacher's pkg/ingestion/metrics.go
// (package-level struct, sync.Once init, counter/histogram fields
// registered to the default registry on first use). They are
// registered only in a process that scans; `serve --metrics-addr`
// does not scan, so its /metrics does not include them.
type metricsScanner struct {
	once sync.Once

	filesScanned prometheus.Counter
	filesSkipped prometheus.Counter
	filesCached  prometheus.Counter

	parseDuration   prometheus.Histogram
	resolveDuration prometheus.Histogram
}

var scanMetrics metricsScanner

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

func (m *metricsScanner) init() {
	m.once.Do(func() {
		m.filesScanned = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loctree_scanner_files_scanned_total", Help: "Source files extracted by the scanner.",
		})
		m.filesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loctree_scanner_files_skipped_total", Help: "Files excluded by ignore rules, gitignore, or extension filtering.",
		})
		m.filesCached = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loctree_scanner_files_cached_total", Help: "Files reused from the fingerprint cache instead of re-extracted.",
		})
		m.parseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "loctree_scanner_parse_seconds", Help: "Per-file extractor duration.", Buckets: durationBuckets,
		})
		m.resolveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "loctree_scanner_resolve_seconds", Help: "Per-root import/reexport resolution pass duration.", Buckets: durationBuckets,
		})

		prometheus.MustRegister(
			m.filesScanned, m.filesSkipped, m.filesCached,
			m.parseDuration, m.resolveDuration,
		)
	})
}

func recordFileScanned() { scanMetrics.init(); scanMetrics.filesScanned.Inc() }
func recordFileSkipped() { scanMetrics.init(); scanMetrics.filesSkipped.Inc() }
func recordFileCached()  { scanMetrics.init(); scanMetrics.filesCached.Inc() }

func observeParseDuration(d time.Duration) {
	scanMetrics.init()
	scanMetrics.parseDuration.Observe(d.Seconds())
}

func observeResolveDuration(d time.Duration) {
	scanMetrics.init()
	scanMetrics.resolveDuration.Observe(d.Seconds())
}
