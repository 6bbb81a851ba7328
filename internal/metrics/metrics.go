// Package metrics holds the Prometheus counters of a tiling run.
//
// A command-line run has no scrape endpoint, so the metrics live on a private
// registry that can be written out in the node-exporter textfile format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "jp_estat"

// Metrics holds the Prometheus counters and histograms of one process.
type Metrics struct {
	FilesProcessed   prometheus.Counter
	RowsProcessed    prometheus.Counter
	RowsSkipped      prometheus.Counter
	TilesWritten     prometheus.Counter
	TileBytesWritten prometheus.Counter
	// ArchivesFetched is labeled source={downloaded,cached}.
	ArchivesFetched *prometheus.CounterVec
	RunDuration     prometheus.Histogram

	registry *prometheus.Registry
}

// New creates all metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_processed_total",
			Help:      "Mesh statistics files accumulated into tiles.",
		}),
		RowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_processed_total",
			Help:      "Data rows written into tile buffers.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Data rows without a mesh code.",
		}),
		TilesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tiles_written_total",
			Help:      "Tile files written.",
		}),
		TileBytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tile_bytes_written_total",
			Help:      "Encoded tile bytes written.",
		}),
		ArchivesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archives_fetched_total",
			Help:      "Statistics archives made available, by source.",
		}, []string{"source"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete tiling run.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.FilesProcessed,
		m.RowsProcessed,
		m.RowsSkipped,
		m.TilesWritten,
		m.TileBytesWritten,
		m.ArchivesFetched,
		m.RunDuration,
	)

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
