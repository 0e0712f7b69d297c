package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "formkit_actions_total",
		Help: "Dispatched controller actions by path.",
	}, []string{"action"})

	reroutesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "formkit_reroutes_total",
		Help: "Internal reroutes, including not-found recovery.",
	})

	mutationBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "formkit_mutation_batches_total",
		Help: "Create/edit/delete batches by outcome.",
	}, []string{"outcome"})
)
