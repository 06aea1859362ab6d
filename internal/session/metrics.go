package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bdc_sessions_open",
		Help: "Connected dashboard pages.",
	})

	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bdc_session_commands_total",
		Help: "Page commands received, by type.",
	}, []string{"type"})
)
