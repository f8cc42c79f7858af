package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheHitsTotal, cacheMissesTotal) }

var (
	cacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resumate_candidate_cache_hits_total",
		Help: "Candidate detail lookups served from the LRU cache.",
	})
	cacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resumate_candidate_cache_misses_total",
		Help: "Candidate detail lookups that went to the analysis service.",
	})
)

func CacheHit()  { cacheHitsTotal.Inc() }
func CacheMiss() { cacheMissesTotal.Inc() }
