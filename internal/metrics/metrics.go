// Package metrics exposes the form engine's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts dispatched submissions by branch and
	// result.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "requestwiki",
		Name:      "submissions_total",
		Help:      "Form submissions dispatched, by branch and result.",
	}, []string{"branch", "result"})

	// RequestsCreated counts successfully saved new wiki requests.
	RequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "requestwiki",
		Name:      "requests_created_total",
		Help:      "New wiki requests saved through the intake form.",
	})
)

// ObserveSubmission records one dispatch outcome.
func ObserveSubmission(branch string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	SubmissionsTotal.WithLabelValues(branch, result).Inc()
}
