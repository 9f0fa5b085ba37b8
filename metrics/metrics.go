// Package metrics is the prometheus-backed lodcache.MetricsRecorder
// (SPEC_FULL.md §E). The core package never imports prometheus directly;
// it reports through the narrow MetricsRecorder interface, which this
// package's Recorder satisfies structurally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fortytwonet/lodcache"
)

// Recorder implements lodcache.MetricsRecorder against a set of
// promauto-registered collectors.
type Recorder struct {
	retrievalsTotal    *prometheus.CounterVec
	dereferenceSeconds *prometheus.HistogramVec
	rdfizeSeconds      *prometheus.HistogramVec
	indexSize          prometheus.Gauge
}

// New registers the engine's collectors against reg. Passing
// prometheus.DefaultRegisterer matches the package-level promauto helpers.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		retrievalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lodcache_retrievals_total",
			Help: "Total number of Engine.Retrieve calls that performed a fetch, by terminal status.",
		}, []string{"status"}),
		dereferenceSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lodcache_dereference_duration_seconds",
			Help:    "Time spent inside a Dereferencer's Dereference call, by IRI scheme.",
			Buckets: prometheus.DefBuckets,
		}, []string{"scheme"}),
		rdfizeSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lodcache_rdfize_duration_seconds",
			Help:    "Time spent inside an RDFizer's Rdfize call, by media type.",
			Buckets: prometheus.DefBuckets,
		}, []string{"media_type"}),
		indexSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lodcache_metadata_index_size",
			Help: "Current number of entries held in the in-memory metadata index.",
		}),
	}
}

var _ lodcache.MetricsRecorder = (*Recorder)(nil)

// ObserveRetrieval increments the retrievals counter for status.
func (r *Recorder) ObserveRetrieval(status lodcache.Status) {
	r.retrievalsTotal.WithLabelValues(string(status)).Inc()
}

// ObserveDereference records how long a Dereference call took for scheme.
func (r *Recorder) ObserveDereference(scheme string, d time.Duration) {
	r.dereferenceSeconds.WithLabelValues(scheme).Observe(d.Seconds())
}

// ObserveRdfize records how long an Rdfize call took for mediaType.
func (r *Recorder) ObserveRdfize(mediaType string, d time.Duration) {
	r.rdfizeSeconds.WithLabelValues(mediaType).Observe(d.Seconds())
}

// SetIndexSize sets the current metadata index size gauge.
func (r *Recorder) SetIndexSize(n int) {
	r.indexSize.Set(float64(n))
}
