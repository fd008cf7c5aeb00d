package attendance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusmark_decisions_total",
		Help: "Attendance pipeline decisions by resulting status.",
	}, []string{"status"})

	verifierFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusmark_verifier_failures_total",
		Help: "Verifier calls that degraded to an unverified verdict.",
	})
)
