package tracker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fitz_tracker",
		Name:      "searches_issued_total",
		Help:      "Catalog searches sent after the debounce window.",
	})

	searchesDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fitz_tracker",
		Name:      "search_responses_discarded_total",
		Help:      "Search responses dropped because a newer search had been issued.",
	})

	reloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitz_tracker",
			Name:      "reloads_total",
			Help:      "Daily log reloads by outcome (ok, failed, superseded).",
		},
		[]string{"outcome"},
	)

	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitz_tracker",
			Name:      "submissions_total",
			Help:      "Log entry submissions by outcome (ok, failed, invalid).",
		},
		[]string{"outcome"},
	)
)
