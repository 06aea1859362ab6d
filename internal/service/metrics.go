package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	shiftSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bdc_shift_submissions_total",
		Help: "Shift submissions by outcome.",
	}, []string{"result"})

	storewideSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bdc_storewide_saves_total",
		Help: "Storewide report saves by outcome.",
	}, []string{"result"})
)
