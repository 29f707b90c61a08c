package metrics

import (
	"strings"
	"time"

	"fastpick/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors holds the service's collectors. One instance is registered per registry.
type Collectors struct {
	issueTotal      *prometheus.CounterVec
	issueLatencyMs  *prometheus.HistogramVec
	markerHitsTotal *prometheus.CounterVec
	outboxPublished prometheus.Counter
	outboxFailures  prometheus.Counter
}

func New() *Collectors {
	return &Collectors{
		issueTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coupon_issue_total",
				Help: "Coupon claim attempts by outcome (issued or error kind).",
			},
			[]string{"outcome"},
		),
		issueLatencyMs: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coupon_issue_latency_ms",
				Help:    "Claim attempt latency in milliseconds, lock wait included.",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 3000, 5000},
			},
			[]string{"outcome"},
		),
		markerHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coupon_terminal_marker_hits_total",
				Help: "Claims answered from the terminal marker without taking the row lock.",
			},
			[]string{"kind"},
		),
		outboxPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "outbox_events_published_total",
			Help: "Outbox events delivered to the broker.",
		}),
		outboxFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "outbox_publish_failures_total",
			Help: "Relay batches that failed to publish.",
		}),
	}
}

func (c *Collectors) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(c.issueTotal, c.issueLatencyMs, c.markerHitsTotal, c.outboxPublished, c.outboxFailures)
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (c *Collectors) ObserveIssue(outcome string, elapsed time.Duration) {
	o := norm(outcome)
	c.issueTotal.WithLabelValues(o).Inc()
	c.issueLatencyMs.WithLabelValues(o).Observe(float64(elapsed.Microseconds()) / 1000)
}

func (c *Collectors) ObserveMarkerHit(kind errs.Kind) {
	c.markerHitsTotal.WithLabelValues(norm(string(kind))).Inc()
}

func (c *Collectors) ObservePublished(n int) {
	c.outboxPublished.Add(float64(n))
}

func (c *Collectors) ObservePublishFailure() {
	c.outboxFailures.Inc()
}
