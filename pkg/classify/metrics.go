package classify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	classifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabsd_classifications_total",
		Help: "Chat classifications computed (cache misses), by result.",
	}, []string{"result"})

	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabsd_category_cache_hits_total",
		Help: "Category result reads served from cache.",
	}, []string{"category"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabsd_category_cache_misses_total",
		Help: "Category result reads that rebuilt from the ledger.",
	}, []string{"category"})

	recategorizations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tabsd_recategorizations_total",
		Help: "Explicit recategorization requests.",
	})

	ledgerSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tabsd_ledger_messages",
		Help: "Messages in the in-memory ledger.",
	})

	chatCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tabsd_chats",
		Help: "Chats registered in the directory.",
	})

	cacheGeneration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tabsd_cache_generation",
		Help: "Current cache generation counter.",
	})
)
