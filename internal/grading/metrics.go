package grading

import "github.com/prometheus/client_golang/prometheus"

var fallbacksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "gradeassist",
		Subsystem: "grader",
		Name:      "dependency_fallbacks_total",
		Help:      "Answers graded with a local fallback because a downstream service failed.",
	},
	[]string{"dependency"},
)

func init() {
	prometheus.MustRegister(fallbacksTotal)
}
