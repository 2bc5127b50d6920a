package inference

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var runtimeDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "gradeassist",
		Subsystem: "runtime",
		Name:      "request_duration_seconds",
		Help:      "Latency of calls to model runtimes.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"runtime", "op"},
)

func init() {
	prometheus.MustRegister(runtimeDuration)
}

func observe(runtime, op string, start time.Time) {
	runtimeDuration.WithLabelValues(runtime, op).Observe(time.Since(start).Seconds())
}
