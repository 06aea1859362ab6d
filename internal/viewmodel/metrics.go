package viewmodel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bdc_viewmodel_loads_total",
		Help: "View loads applied, by view and result.",
	}, []string{"view", "result"})

	staleResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bdc_viewmodel_stale_results_total",
		Help: "Load results discarded because a later load was already applied.",
	}, []string{"view"})
)
