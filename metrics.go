package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	poolsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amm_pools_created_total",
		Help: "Pools created by formula.",
	}, []string{"formula"})

	swapsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amm_swaps_total",
		Help: "Swap requests by formula and outcome.",
	}, []string{"formula", "outcome"})

	swapImpact = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "amm_swap_impact_percent",
		Help:    "Price impact of executed swaps.",
		Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
	}, []string{"formula"})

	liquidityAdds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amm_liquidity_adds_total",
		Help: "Liquidity deposits by formula.",
	}, []string{"formula"})

	staleRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amm_pool_stale_retries_total",
		Help: "Pool updates retried after a concurrent commit.",
	})

	quoteRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amm_quote_refreshes_total",
		Help: "Price feed refreshes by outcome.",
	}, []string{"outcome"})
)
