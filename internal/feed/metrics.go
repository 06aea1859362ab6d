package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bdc_feed_events_total",
		Help: "Change notifications received from the store.",
	}, []string{"table", "op"})

	coalescedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bdc_feed_coalesced_total",
		Help: "Notifications absorbed by an already pending invalidation.",
	})

	subscriptionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bdc_feed_subscriptions",
		Help: "Open view subscriptions.",
	})
)
