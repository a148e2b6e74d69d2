// Package promhooks turns cache events into Prometheus counters.
//
//	twolevel_loads_total{cache, status}           memory | file | downloader | error
//	twolevel_decode_failures_total{cache, source} file | downloader | save
//	twolevel_encode_failures_total{cache}
//	twolevel_disk_errors_total{cache, op}         read | write | remove | list
//
// Hit rate is loads{status=~"memory|file"} over all loads.
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/twolevel"
)

type Metrics struct {
	loads          *prometheus.CounterVec
	decodeFailures *prometheus.CounterVec
	encodeFailures *prometheus.CounterVec
	diskErrors     *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. Register once per process and
// share the Metrics between cache instances; each instance gets its own
// Hooks via For.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twolevel",
			Name:      "loads_total",
			Help:      "Completed loads by the tier that answered.",
		}, []string{"cache", "status"}),
		decodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twolevel",
			Name:      "decode_failures_total",
			Help:      "Payloads the codec could not decode, by where they came from.",
		}, []string{"cache", "source"}),
		encodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twolevel",
			Name:      "encode_failures_total",
			Help:      "Objects the codec could not encode; they were not persisted.",
		}, []string{"cache"}),
		diskErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twolevel",
			Name:      "disk_errors_total",
			Help:      "Swallowed persistent-tier I/O failures.",
		}, []string{"cache", "op"}),
	}
	for _, c := range []prometheus.Collector{m.loads, m.decodeFailures, m.encodeFailures, m.diskErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// For returns Hooks that label every event with the cache name.
func (m *Metrics) For(cache string) *Hooks {
	return &Hooks{m: m, cache: cache}
}

type Hooks struct {
	m     *Metrics
	cache string
}

var _ twolevel.Hooks = (*Hooks)(nil)

func (h *Hooks) LoadCompleted(_ string, st twolevel.Status) {
	h.m.loads.WithLabelValues(h.cache, st.String()).Inc()
}

func (h *Hooks) DecodeFailed(_, source string, _ error) {
	h.m.decodeFailures.WithLabelValues(h.cache, source).Inc()
}

func (h *Hooks) EncodeFailed(string, error) {
	h.m.encodeFailures.WithLabelValues(h.cache).Inc()
}

func (h *Hooks) DiskError(op, _ string, _ error) {
	h.m.diskErrors.WithLabelValues(h.cache, op).Inc()
}
