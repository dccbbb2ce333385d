package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the insurance core.
type Metrics struct {
	PoliciesIssued    prometheus.Counter
	PolicyTransitions *prometheus.CounterVec

	ClaimsSubmitted  prometheus.Counter
	ClaimTransitions *prometheus.CounterVec

	RiskPoolFailures *prometheus.CounterVec
	OracleRejections prometheus.Counter

	OperationDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PoliciesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coverline_policies_issued_total",
			Help: "Total number of policies issued",
		}),
		PolicyTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coverline_policy_transitions_total",
			Help: "Policy lifecycle transitions by target state",
		}, []string{"to"}),
		ClaimsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coverline_claims_submitted_total",
			Help: "Total number of claims submitted",
		}),
		ClaimTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coverline_claim_transitions_total",
			Help: "Claim lifecycle transitions by target state",
		}, []string{"to"}),
		RiskPoolFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coverline_riskpool_failures_total",
			Help: "Failed risk-pool collaborator calls by operation",
		}, []string{"op"}),
		OracleRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coverline_oracle_rejections_total",
			Help: "Claim validations rejected by the oracle gate",
		}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coverline_operation_duration_seconds",
			Help:    "Duration of public operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

// IncPolicyTransition records a policy state change.
func (m *Metrics) IncPolicyTransition(to string) {
	if m == nil {
		return
	}
	m.PolicyTransitions.WithLabelValues(to).Inc()
}

// IncClaimTransition records a claim state change.
func (m *Metrics) IncClaimTransition(to string) {
	if m == nil {
		return
	}
	m.ClaimTransitions.WithLabelValues(to).Inc()
}

// IncRiskPoolFailure records a failed collaborator call.
func (m *Metrics) IncRiskPoolFailure(op string) {
	if m == nil {
		return
	}
	m.RiskPoolFailures.WithLabelValues(op).Inc()
}
