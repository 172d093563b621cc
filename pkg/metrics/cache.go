package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics counts page-cache lookups by outcome.
type CacheMetrics struct {
	hits   prometheus.Counter
	misses prometheus.Counter
}

// NewCacheMetrics registers the page-cache metrics on the provided registerer.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	if reg == nil {
		return &CacheMetrics{}
	}
	hits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "page_cache_hits_total",
		Help: "Page-cache lookups served from the cache.",
	})
	misses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "page_cache_misses_total",
		Help: "Page-cache lookups that fell through to the handler.",
	})
	reg.MustRegister(hits, misses)
	return &CacheMetrics{hits: hits, misses: misses}
}

// ObserveLookup records one lookup outcome.
func (c *CacheMetrics) ObserveLookup(hit bool) {
	if c == nil || c.hits == nil {
		return
	}
	if hit {
		c.hits.Inc()
		return
	}
	c.misses.Inc()
}
