package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics contains Prometheus metrics for catalog synchronization.
// All methods are safe on a nil receiver so callers may run without metrics.
type SyncMetrics struct {
	pagesTotal        *prometheus.CounterVec
	itemsTotal        *prometheus.CounterVec
	failuresTotal     *prometheus.CounterVec
	runsTotal         *prometheus.CounterVec
	runDuration       *prometheus.HistogramVec
	categoriesCreated *prometheus.CounterVec
	assetsCreated     prometheus.Counter
}

// NewSyncMetrics creates the sync metrics and registers them on registry.
func NewSyncMetrics(registry prometheus.Registerer) (*SyncMetrics, error) {
	m := &SyncMetrics{
		pagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_sync_pages_total",
				Help: "Catalog pages fetched, partitioned by outcome",
			},
			[]string{"kind", "status"}, // status: ok, failed
		),
		itemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_sync_items_total",
				Help: "Catalog items processed, partitioned by upsert outcome",
			},
			[]string{"kind", "outcome"}, // outcome: created, updated, failed
		),
		failuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_sync_failures_total",
				Help: "Item failures partitioned by error category",
			},
			[]string{"kind", "category"},
		),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_sync_runs_total",
				Help: "Finished sync runs partitioned by status",
			},
			[]string{"kind", "status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "catalog_sync_run_duration_seconds",
				Help: "Wall time of a sync run",
				// 0.5s up to ~17min
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
			},
			[]string{"kind"},
		),
		categoriesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_sync_categories_created_total",
				Help: "Categories created by the reference resolver",
			},
			[]string{"vocabulary"},
		),
		assetsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_sync_media_assets_created_total",
				Help: "Media assets downloaded and stored",
			},
		),
	}

	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements prometheus.Collector.
func (m *SyncMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.pagesTotal.Describe(ch)
	m.itemsTotal.Describe(ch)
	m.failuresTotal.Describe(ch)
	m.runsTotal.Describe(ch)
	m.runDuration.Describe(ch)
	m.categoriesCreated.Describe(ch)
	m.assetsCreated.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *SyncMetrics) Collect(ch chan<- prometheus.Metric) {
	m.pagesTotal.Collect(ch)
	m.itemsTotal.Collect(ch)
	m.failuresTotal.Collect(ch)
	m.runsTotal.Collect(ch)
	m.runDuration.Collect(ch)
	m.categoriesCreated.Collect(ch)
	m.assetsCreated.Collect(ch)
}

// RecordPages counts fetched and failed pages of one run.
func (m *SyncMetrics) RecordPages(kind string, ok, failed int) {
	if m == nil {
		return
	}
	m.pagesTotal.WithLabelValues(kind, "ok").Add(float64(ok))
	m.pagesTotal.WithLabelValues(kind, "failed").Add(float64(failed))
}

// RecordItem counts one processed item.
func (m *SyncMetrics) RecordItem(kind, outcome string) {
	if m == nil {
		return
	}
	m.itemsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordFailure counts one failed item by error category.
func (m *SyncMetrics) RecordFailure(kind, category string) {
	if m == nil {
		return
	}
	m.itemsTotal.WithLabelValues(kind, "failed").Inc()
	m.failuresTotal.WithLabelValues(kind, category).Inc()
}

// RecordRun counts a finished run and observes its duration.
func (m *SyncMetrics) RecordRun(kind, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(kind, status).Inc()
	m.runDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordCategoryCreated counts a new category.
func (m *SyncMetrics) RecordCategoryCreated(vocabulary string) {
	if m == nil {
		return
	}
	m.categoriesCreated.WithLabelValues(vocabulary).Inc()
}

// RecordAssetCreated counts a new media asset.
func (m *SyncMetrics) RecordAssetCreated() {
	if m == nil {
		return
	}
	m.assetsCreated.Inc()
}
