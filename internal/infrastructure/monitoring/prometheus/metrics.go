package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/molgraph/internal/dataset/batching"
	"github.com/turtacn/molgraph/internal/dataset/qm9"
	"github.com/turtacn/molgraph/internal/dataset/snapshot"
)

// Default buckets.
var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultBuildDurationBuckets = []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300, 600}
	DefaultBatchNodeBuckets     = []float64{16, 32, 64, 128, 256, 512, 1024, 2048, 4096}
	DefaultFillRatioBuckets     = []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, 1}
)

// PipelineMetrics holds every metric the pipeline reports.  It implements
// the metric sinks of the assembler, the snapshot cache, the padder and the
// loader.
type PipelineMetrics struct {
	RecordsTotal            CounterVec
	CorpusBuildDuration     HistogramVec
	CorpusSize              GaugeVec
	CacheRequestsTotal      CounterVec
	BatchesTotal            CounterVec
	BatchNodes              HistogramVec
	BatchNodeFillRatio      HistogramVec
	CapacityViolationsTotal CounterVec
	HTTPRequestsTotal       CounterVec
	HTTPRequestDuration     HistogramVec
}

var (
	_ qm9.Metrics            = (*PipelineMetrics)(nil)
	_ snapshot.CacheMetrics  = (*PipelineMetrics)(nil)
	_ batching.PadMetrics    = (*PipelineMetrics)(nil)
	_ batching.LoaderMetrics = (*PipelineMetrics)(nil)
)

// NewPipelineMetrics registers all metrics with collector.
func NewPipelineMetrics(collector MetricsCollector) *PipelineMetrics {
	return &PipelineMetrics{
		RecordsTotal: collector.RegisterCounter("records_total",
			"Structure records processed, by outcome", "outcome"),
		CorpusBuildDuration: collector.RegisterHistogram("corpus_build_duration_seconds",
			"Time to assemble the corpus from raw inputs", DefaultBuildDurationBuckets),
		CorpusSize: collector.RegisterGauge("corpus_size",
			"Graphs in the most recently assembled corpus"),
		CacheRequestsTotal: collector.RegisterCounter("cache_requests_total",
			"Corpus snapshot cache requests", "backend", "result"),
		BatchesTotal: collector.RegisterCounter("batches_total",
			"Batches produced by loaders", "kind"),
		BatchNodes: collector.RegisterHistogram("batch_nodes",
			"Real nodes per padded batch", DefaultBatchNodeBuckets),
		BatchNodeFillRatio: collector.RegisterHistogram("batch_node_fill_ratio",
			"Real nodes over node capacity per padded batch", DefaultFillRatioBuckets),
		CapacityViolationsTotal: collector.RegisterCounter("capacity_violations_total",
			"Batches rejected for exceeding padding capacity", "dimension"),
		HTTPRequestsTotal: collector.RegisterCounter("http_requests_total",
			"HTTP requests served", "method", "route", "status"),
		HTTPRequestDuration: collector.RegisterHistogram("http_request_duration_seconds",
			"HTTP request latency", DefaultHTTPDurationBuckets, "method", "route"),
	}
}

func (m *PipelineMetrics) RecordProcessed(outcome string) {
	m.RecordsTotal.WithLabelValues(outcome).Inc()
}

func (m *PipelineMetrics) CorpusAssembled(d time.Duration, size int) {
	m.CorpusBuildDuration.WithLabelValues().Observe(d.Seconds())
	m.CorpusSize.WithLabelValues().Set(float64(size))
}

func (m *PipelineMetrics) CacheRequest(backend, result string) {
	m.CacheRequestsTotal.WithLabelValues(backend, result).Inc()
}

func (m *PipelineMetrics) BatchProduced(kind string) {
	m.BatchesTotal.WithLabelValues(kind).Inc()
}

func (m *PipelineMetrics) BatchPadded(nodes, nodeCapacity int) {
	m.BatchNodes.WithLabelValues().Observe(float64(nodes))
	if nodeCapacity > 0 {
		m.BatchNodeFillRatio.WithLabelValues().Observe(float64(nodes) / float64(nodeCapacity))
	}
}

func (m *PipelineMetrics) CapacityExceeded(dimension string) {
	m.CapacityViolationsTotal.WithLabelValues(dimension).Inc()
}

// ObserveHTTP records one served request.  route is the matched pattern, not
// the raw path.
func (m *PipelineMetrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

//Personal.AI order the ending
