package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2"
)

var buckets = metrics.ExponentialBuckets(1e-3, 5, 6)

// Metrics counts requests and observes their latency per operation and status.
type Metrics struct {
	set *metrics.Set
}

// NewMetrics creates a new Metrics middleware registering series in set.
func NewMetrics(set *metrics.Set) *Metrics {
	return &Metrics{set: set}
}

// Handle updates http_requests_total and http_request_duration_seconds.
func (m *Metrics) Handle(ctx huma.Context, next func(huma.Context)) {
	op, start := ctx.Operation(), time.Now()
	next(ctx)

	labels := joinQuote("{method=", op.Method, ",path=", op.Path, ",status=", strconv.Itoa(ctx.Status()), "}")
	m.set.GetOrCreateCounter("http_requests_total" + labels).Inc()
	m.set.GetOrCreatePrometheusHistogramExt("http_request_duration_seconds"+labels, buckets).UpdateDuration(start)
}

// joinQuote is [strings.Join] with " as separator.
func joinQuote(elems ...string) string { return strings.Join(elems, `"`) }
