package metrics

import (
	"strconv"
	"time"
)

// HTTPServerName is the fixed http_server_name label value reported on the
// request duration histogram. All services built on this kit expose their
// HTTP API under the same logical server name so dashboards can aggregate
// across services.
const HTTPServerName = "rpc"

// HTTPServerDurationBuckets are the histogram boundaries, in seconds, of the
// request duration histogram. Sub-second latencies get fine-grained buckets;
// above one second the resolution widens up to the 15s ceiling.
var HTTPServerDurationBuckets = []float64{
	0.0005, 0.001, 0.005, 0.01, 0.02, 0.05,
	0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9,
	1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5, 5.5,
	6, 6.5, 7, 7.5, 8, 8.5, 9, 9.5, 10,
	11, 12, 13, 14, 15,
}

// httpServerDurationLabels is the full label set of the request duration
// histogram. The first eight describe the request, the last four identify
// the reporting service. Order matters: Record passes values positionally.
var httpServerDurationLabels = []string{
	"http_flavor",
	"http_host",
	"http_method",
	"http_route",
	"http_scheme",
	"http_server_name",
	"http_target",
	"http_status_code",
	"service_name",
	"service_namespace",
	"service_version",
	"service_instance_id",
}

// HTTPSample describes one finished inbound HTTP request. It carries the
// request-scoped label values of the duration histogram; the service-scoped
// labels come from the Metrics configuration.
type HTTPSample struct {
	// Flavor is the HTTP protocol version, e.g. "1.1" or "2".
	Flavor string

	// Host is the value of the Host header the request was addressed to.
	Host string

	// Method is the HTTP method, e.g. "GET".
	Method string

	// Route is the matched route pattern (e.g. "/documents/{id}"), not the
	// raw request path. Using the pattern keeps label cardinality bounded.
	Route string

	// Scheme is "http" or "https".
	Scheme string

	// Target is the request target as sent by the client, path and query.
	Target string

	// StatusCode is the HTTP status code written to the response.
	StatusCode int

	// Duration is the total server-side handling time of the request.
	Duration time.Duration
}

// HTTPServerDuration is the inbound request latency histogram shared by all
// services built on this kit. It records one observation per finished request
// under the metric name "http_server_duration", labeled per HTTPSample plus
// the service identity of the owning Metrics instance.
//
// Create it once at startup via CreateHTTPServerDuration and hand it to the
// HTTP middleware stack; Record is safe for concurrent use.
type HTTPServerDuration struct {
	hist             Histogram
	serviceName      string
	serviceNamespace string
	serviceVersion   string
	instanceID       string
}

// CreateHTTPServerDuration creates the request duration histogram and
// registers it to the application metrics registry.
//
// The histogram uses the fixed name "http_server_duration", the bucket
// layout in HTTPServerDurationBuckets, and a twelve-label schema covering
// the request shape and the service identity. The service_instance_id label
// is a UUID generated when the Metrics instance was constructed, so restarts
// of the same service are distinguishable.
//
// Example:
//
//	duration := m.CreateHTTPServerDuration()
//	duration.Record(metrics.HTTPSample{
//	    Flavor:     "1.1",
//	    Host:       "api.internal",
//	    Method:     "GET",
//	    Route:      "/documents/{id}",
//	    Scheme:     "http",
//	    Target:     "/documents/42",
//	    StatusCode: 200,
//	    Duration:   120 * time.Millisecond,
//	})
func (m *Metrics) CreateHTTPServerDuration() *HTTPServerDuration {
	hist := m.CreateHistogram(
		"http_server_duration",
		"Duration of inbound HTTP requests in seconds",
		httpServerDurationLabels,
		HTTPServerDurationBuckets,
	)
	return &HTTPServerDuration{
		hist:             hist,
		serviceName:      m.serviceName,
		serviceNamespace: m.serviceNamespace,
		serviceVersion:   m.serviceVersion,
		instanceID:       m.instanceID,
	}
}

// Record adds one latency observation for a finished request.
func (d *HTTPServerDuration) Record(sample HTTPSample) {
	d.hist.WithLabelValues(
		sample.Flavor,
		sample.Host,
		sample.Method,
		sample.Route,
		sample.Scheme,
		HTTPServerName,
		sample.Target,
		strconv.Itoa(sample.StatusCode),
		d.serviceName,
		d.serviceNamespace,
		d.serviceVersion,
		d.instanceID,
	).Observe(sample.Duration.Seconds())
}

// InstanceID returns the UUID reported as the service_instance_id label.
func (m *Metrics) InstanceID() string {
	return m.instanceID
}
