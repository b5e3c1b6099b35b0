package pipeline

import "github.com/prometheus/client_golang/prometheus"

var (
	dayDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dqreplay_day_duration_seconds",
		Help:    "Duration of a single day run",
		Buckets: prometheus.DefBuckets,
	})
	daysProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dqreplay_days_processed_total",
		Help: "Total number of days processed successfully",
	})
	faultsInjected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dqreplay_faults_injected_total",
		Help: "Total number of rows mutated by fault injection",
	})
)

func init() {
	prometheus.MustRegister(dayDuration, daysProcessed, faultsInjected)
}
