package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements ports.GovernanceMetrics and holds the HTTP collectors
// used by the server middleware.
type Prometheus struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	limitDecisions *prometheus.CounterVec
	allocations    *prometheus.CounterVec
	sweptWindows   prometheus.Counter
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "The total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "The HTTP request latencies in seconds",
			},
			[]string{"method", "endpoint"},
		),
		limitDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "governance_rate_limit_decisions_total",
				Help: "Rate limit decisions by role and outcome",
			},
			[]string{"role", "outcome"},
		),
		allocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "governance_sequence_allocations_total",
				Help: "Sequence values allocated per partition",
			},
			[]string{"partition"},
		),
		sweptWindows: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "governance_rate_limit_swept_windows_total",
				Help: "Expired rate limit windows removed by the sweeper",
			},
		),
	}
	reg.MustRegister(p.RequestsTotal, p.RequestDuration, p.limitDecisions, p.allocations, p.sweptWindows)
	return p
}

func (p *Prometheus) ObserveLimitDecision(roleName string, allowed bool) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	p.limitDecisions.WithLabelValues(roleName, outcome).Inc()
}

func (p *Prometheus) ObserveAllocation(partition string) {
	p.allocations.WithLabelValues(partition).Inc()
}

func (p *Prometheus) ObserveSweep(removed int) {
	if removed > 0 {
		p.sweptWindows.Add(float64(removed))
	}
}
