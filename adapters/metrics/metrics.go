// Package metrics provides Prometheus metrics collection for leadgate.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics for leadgate.
type Collector struct {
	// Submission metrics
	SubmissionsTotal *prometheus.CounterVec
	SubmissionErrors *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec

	// Gatekeeping metrics
	RateLimitHits   *prometheus.CounterVec
	CaptchaFailures *prometheus.CounterVec

	// Outbound metrics
	EmailDispatches *prometheus.CounterVec

	// Sweep metrics
	SweepRemoved prometheus.Counter
}

// New creates a metrics collector registered on its own registry.
// Keeping the registry local avoids duplicate-registration panics in tests.
func New() (*Collector, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	c := &Collector{
		SubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadgate",
				Name:      "submissions_total",
				Help:      "Form submissions processed, by form and outcome",
			},
			[]string{"form", "outcome"},
		),
		SubmissionErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadgate",
				Name:      "submission_errors_total",
				Help:      "Submissions rejected, by form and reason",
			},
			[]string{"form", "reason"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "leadgate",
				Name:      "request_duration_seconds",
				Help:      "Endpoint handling duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"endpoint", "status"},
		),
		RateLimitHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadgate",
				Name:      "rate_limit_hits_total",
				Help:      "Requests rejected by the rate limiter, by form",
			},
			[]string{"form"},
		),
		CaptchaFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadgate",
				Name:      "captcha_failures_total",
				Help:      "Bot-verification failures, by reason",
			},
			[]string{"reason"},
		),
		EmailDispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "leadgate",
				Name:      "email_dispatches_total",
				Help:      "Notification email dispatch attempts, by outcome",
			},
			[]string{"outcome"},
		),
		SweepRemoved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "leadgate",
				Name:      "ratelimit_sweep_removed_total",
				Help:      "Expired rate-limit entries removed by the sweeper",
			},
		),
	}

	reg.MustRegister(
		c.SubmissionsTotal,
		c.SubmissionErrors,
		c.RequestDuration,
		c.RateLimitHits,
		c.CaptchaFailures,
		c.EmailDispatches,
		c.SweepRemoved,
	)
	return c, reg
}
