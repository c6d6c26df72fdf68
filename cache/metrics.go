package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultHit     = "hit"
	resultMiss    = "miss"
	resultError   = "error"
	resultCorrupt = "corrupt"

	kindKey    = "key"
	kindPrefix = "prefix"
)

// Metrics counts cache lookups by result and invalidated keys by kind.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	lookups       *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// NewMetrics registers the cache counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cowork",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by result (hit, miss, error, corrupt).",
		}, []string{"result"}),
		invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cowork",
			Subsystem: "cache",
			Name:      "invalidated_keys_total",
			Help:      "Keys removed from the cache by kind (key, prefix).",
		}, []string{"kind"}),
	}
}

func (m *Metrics) lookup(result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(result).Inc()
}

func (m *Metrics) invalidated(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.invalidations.WithLabelValues(kind).Add(float64(n))
}
