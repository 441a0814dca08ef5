package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers visibility decisions and their degradations. Construct once
// at wiring time; promauto registers on the default registry.
type Metrics struct {
	DecisionsTotal        *prometheus.CounterVec
	FailOpenResolutions   prometheus.Counter
	MembershipIndexDegrad prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		DecisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "praxis_visibility_decisions_total",
			Help: "Visibility filter decisions by principal role and outcome",
		}, []string{"role", "outcome"}),
		FailOpenResolutions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "praxis_fail_open_resolutions_total",
			Help: "Principal resolutions that fell back to sys_admin for a missing profile",
		}),
		MembershipIndexDegrad: promauto.NewCounter(prometheus.CounterOpts{
			Name: "praxis_membership_index_degraded_total",
			Help: "Listing passes served with ownership-only visibility because the roster was unavailable",
		}),
	}
}

func (m *Metrics) ObserveDecision(role string, admitted bool) {
	outcome := "rejected"
	if admitted {
		outcome = "admitted"
	}
	m.DecisionsTotal.WithLabelValues(role, outcome).Inc()
}

func (m *Metrics) IncrementFailOpen() {
	m.FailOpenResolutions.Inc()
}

func (m *Metrics) IncrementIndexDegraded() {
	m.MembershipIndexDegrad.Inc()
}
