package sqlscript

import "github.com/prometheus/client_golang/prometheus"

var (
	statementsExecuted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dqreplay_statements_executed_total",
		Help: "Total number of script statements executed",
	}, []string{"kind"})
	statementFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dqreplay_statement_failures_total",
		Help: "Total number of script statements rejected by the database",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(statementsExecuted, statementFailures)
}
