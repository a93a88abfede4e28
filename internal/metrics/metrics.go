package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FlowsStartedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "glowdesk_flows_started_total",
			Help: "Total number of booking wizard sessions started",
		},
	)

	FlowTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glowdesk_flow_transitions_total",
			Help: "Total number of wizard step transitions",
		},
		[]string{"action"},
	)

	DiscountsAppliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glowdesk_discounts_applied_total",
			Help: "Total number of gift codes successfully applied",
		},
		[]string{"amount_type"},
	)

	DiscountRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glowdesk_discount_rejections_total",
			Help: "Total number of rejected gift code applications",
		},
		[]string{"reason"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glowdesk_submissions_total",
			Help: "Total number of checkout submissions",
		},
		[]string{"outcome"},
	)

	ConsentRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "glowdesk_consent_records_total",
			Help: "Total number of consent records generated",
		},
	)
)

func RecordFlowStarted() {
	FlowsStartedTotal.Inc()
}

func RecordTransition(action string) {
	FlowTransitionsTotal.WithLabelValues(action).Inc()
}

func RecordDiscountApplied(amountType string) {
	DiscountsAppliedTotal.WithLabelValues(amountType).Inc()
}

func RecordDiscountRejected(reason string) {
	DiscountRejectionsTotal.WithLabelValues(reason).Inc()
}

func RecordSubmission(outcome string) {
	SubmissionsTotal.WithLabelValues(outcome).Inc()
}

func RecordConsent() {
	ConsentRecordsTotal.Inc()
}
