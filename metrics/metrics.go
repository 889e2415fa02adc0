// Package metrics defines the Prometheus collectors exported by the
// core subsystems. Collectors are registered once at init; subsystems
// increment them directly.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "corefs",
		Subsystem: "bcache",
		Name:      "hits_total",
		Help:      "Sector cache accesses served without a device read.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "corefs",
		Subsystem: "bcache",
		Name:      "misses_total",
		Help:      "Sector cache accesses that found the sector uncached and claimed a slot for it.",
	})

	CacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "corefs",
		Subsystem: "bcache",
		Name:      "evictions_total",
		Help:      "Cache slots reclaimed for a different sector.",
	})

	CacheWritebacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "corefs",
		Subsystem: "bcache",
		Name:      "writebacks_total",
		Help:      "Dirty sectors written back to the device.",
	})

	CacheReadaheads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "corefs",
		Subsystem: "bcache",
		Name:      "readaheads_total",
		Help:      "Asynchronous read-ahead loads completed.",
	})

	FrameAllocs = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "corefs",
		Subsystem: "frame",
		Name:      "allocs_total",
		Help:      "Frames handed out by the frame table.",
	})

	FrameEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "corefs",
		Subsystem: "frame",
		Name:      "evictions_total",
		Help:      "Frames reclaimed from their previous page.",
	})
)
