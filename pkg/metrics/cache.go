package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics tracks query cache effectiveness per resource.
type CacheMetrics struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// NewCacheMetrics registers the cache metrics on the provided registerer.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	if reg == nil {
		return &CacheMetrics{}
	}
	hits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_cache_hits_total",
		Help: "Query cache lookups served from memory.",
	}, []string{"resource"})
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_cache_misses_total",
		Help: "Query cache lookups that required a fetch.",
	}, []string{"resource"})
	invalidations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_cache_invalidations_total",
		Help: "Resource invalidations issued after mutations.",
	}, []string{"resource"})
	reg.MustRegister(hits, misses, invalidations)
	return &CacheMetrics{
		hits:          hits,
		misses:        misses,
		invalidations: invalidations,
	}
}

func (c *CacheMetrics) IncHit(resource string) {
	if c == nil || c.hits == nil {
		return
	}
	c.hits.WithLabelValues(normalizeLabel(resource)).Inc()
}

func (c *CacheMetrics) IncMiss(resource string) {
	if c == nil || c.misses == nil {
		return
	}
	c.misses.WithLabelValues(normalizeLabel(resource)).Inc()
}

func (c *CacheMetrics) IncInvalidation(resource string) {
	if c == nil || c.invalidations == nil {
		return
	}
	c.invalidations.WithLabelValues(normalizeLabel(resource)).Inc()
}
