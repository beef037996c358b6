package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every gamecat collector. A refresh is a batch job, so the
// registry is flushed to a textfile instead of being scraped.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Catalog Gauges
	CatalogEntries = factory.NewGauge(prometheus.GaugeOpts{
		Name: "gamecat_catalog_entries",
		Help: "Number of entries in the persisted catalog after the last refresh.",
	})
	GamesDiscovered = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gamecat_games_discovered",
		Help: "Number of games found by the last scan of each platform.",
	}, []string{"platform"})
	LastRefresh = factory.NewGauge(prometheus.GaugeOpts{
		Name: "gamecat_last_refresh_timestamp_seconds",
		Help: "Unix time of the last completed refresh.",
	})

	// Scan Performance
	ScanDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamecat_scan_duration_seconds",
		Help:    "Duration of platform scans in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"platform"})

	RefreshDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "gamecat_refresh_duration_seconds",
		Help:    "Duration of a full discover-reconcile-save pass in seconds.",
		Buckets: prometheus.DefBuckets,
	})

	ScannerFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "gamecat_scanner_failures_total",
		Help: "Total number of platform scans that failed.",
	}, []string{"platform"})

	ReconcileChanges = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "gamecat_reconcile_changes_total",
		Help: "Total number of catalog changes applied by reconciliation.",
	}, []string{"kind"}) // kind: added, updated
)

// RecordScan records the outcome of one platform scan.
func RecordScan(platform string, start time.Time, found int, failed bool) {
	ScanDuration.WithLabelValues(platform).Observe(time.Since(start).Seconds())
	GamesDiscovered.WithLabelValues(platform).Set(float64(found))
	if failed {
		ScannerFailures.WithLabelValues(platform).Inc()
	}
}

// RecordRefresh records the totals of a finished refresh.
func RecordRefresh(start time.Time, entries, added, updated int) {
	RefreshDuration.Observe(time.Since(start).Seconds())
	CatalogEntries.Set(float64(entries))
	ReconcileChanges.WithLabelValues("added").Add(float64(added))
	ReconcileChanges.WithLabelValues("updated").Add(float64(updated))
	LastRefresh.SetToCurrentTime()
}

// WriteTextfile writes the registry in the text exposition format to path,
// for pickup by a node_exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
