package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Metrics holds all Prometheus metrics for the engine. Rejections carry a
// reason label so hostile or inconsistent streams can be characterized
// without ever surfacing an error.
type Metrics struct {
	OpsApplied   *prometheus.CounterVec
	OpsRejected  *prometheus.CounterVec
	OpDuration   *prometheus.HistogramVec
	DisputesOpen prometheus.Gauge
	Clients      prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics on the default
// registry. Call at most once per process.
func NewMetrics() *Metrics {
	latencyBuckets := []float64{
		0.000001, 0.000005, 0.00001, 0.000025, 0.00005,
		0.0001, 0.00025, 0.0005, 0.001, 0.002, 0.005, 0.01,
	}

	return &Metrics{
		OpsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "payledger_ops_applied_total",
			Help: "Operations successfully applied",
		}, []string{"kind"}),

		OpsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "payledger_ops_rejected_total",
			Help: "Operations rejected by a transition precondition",
		}, []string{"kind", "reason"}),

		OpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "payledger_op_apply_duration_seconds",
			Help:    "Time to apply a single operation",
			Buckets: latencyBuckets,
		}, []string{"kind"}),

		DisputesOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "payledger_disputes_open",
			Help: "Transaction ids currently under an open dispute",
		}),

		Clients: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "payledger_clients",
			Help: "Client accounts created so far",
		}),
	}
}

// LogSummary gathers the default registry and logs final applied/rejected
// totals. Called once, at the end of a run.
func LogSummary(logger zerolog.Logger) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		logger.Warn().Err(err).Msg("gather metrics")
		return
	}

	var applied, rejected float64
	rejectedByReason := make(map[string]float64)

	for _, mf := range families {
		switch mf.GetName() {
		case "payledger_ops_applied_total":
			for _, m := range mf.GetMetric() {
				applied += m.GetCounter().GetValue()
			}
		case "payledger_ops_rejected_total":
			for _, m := range mf.GetMetric() {
				rejected += m.GetCounter().GetValue()
				for _, lp := range m.GetLabel() {
					if lp.GetName() == "reason" {
						rejectedByReason[lp.GetValue()] += m.GetCounter().GetValue()
					}
				}
			}
		}
	}

	evt := logger.Info().
		Float64("applied", applied).
		Float64("rejected", rejected)
	for reason, n := range rejectedByReason {
		evt = evt.Float64("rejected_"+reason, n)
	}
	evt.Msg("run summary")
}
