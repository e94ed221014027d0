package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rawsolid"

// Collector records pipeline activity as Prometheus metrics. It satisfies the
// recorder interfaces of the previews, importing and command packages.
type Collector struct {
	registry          *prometheus.Registry
	thumbnailRequests *prometheus.CounterVec
	toolInvocations   *prometheus.CounterVec
	importFiles       *prometheus.CounterVec
	importDuration    prometheus.Histogram
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		thumbnailRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thumbnail_requests_total",
			Help:      "Thumbnail requests by result (hit, miss, error).",
		}, []string{"result"}),
		toolInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_invocations_total",
			Help:      "External tool invocations by tool and result.",
		}, []string{"tool", "result"}),
		importFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_files_total",
			Help:      "Imported files by result (ok or error kind).",
		}, []string{"result"}),
		importDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_file_duration_seconds",
			Help:      "Time spent organizing a single file.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
	c.registry.MustRegister(
		c.thumbnailRequests,
		c.toolInvocations,
		c.importFiles,
		c.importDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) ThumbnailRequest(result string) {
	c.thumbnailRequests.WithLabelValues(result).Inc()
}

func (c *Collector) ToolInvocation(tool, result string) {
	c.toolInvocations.WithLabelValues(tool, result).Inc()
}

func (c *Collector) ImportFile(result string, elapsed time.Duration) {
	c.importFiles.WithLabelValues(result).Inc()
	c.importDuration.Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// HTTPHandler serves the registry in the Prometheus exposition format.
func (c *Collector) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
