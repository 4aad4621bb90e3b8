package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"certify/internal/issuance/models"
)

// Metrics provides observability for the issuance workflow.
type Metrics struct {
	Outcomes         *prometheus.CounterVec
	DeliveryFailures prometheus.Counter
	RunDuration      prometheus.Histogram
	RenderDuration   prometheus.Histogram
}

// New registers the issuance metrics with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "certify_issuance_outcomes_total",
			Help: "Certificate requests by terminal outcome",
		}, []string{"outcome"}),
		DeliveryFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "certify_delivery_failures_total",
			Help: "Runs that ended with a mail transport failure",
		}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "certify_issuance_run_duration_seconds",
			Help:    "Duration of a full claim run, intake to notification",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "certify_render_duration_seconds",
			Help:    "Duration of template copy, substitution and PDF conversion",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncOutcome records the terminal state of one run.
func (m *Metrics) IncOutcome(o models.Outcome) {
	m.Outcomes.WithLabelValues(string(o)).Inc()
}

func (m *Metrics) IncDeliveryFailure() {
	m.DeliveryFailures.Inc()
}

// ObserveRun records a run duration. Call with time.Now() at the start of the run.
func (m *Metrics) ObserveRun(start time.Time) {
	m.RunDuration.Observe(time.Since(start).Seconds())
}

// ObserveRender records a render duration. Call with time.Now() at the start of the render.
func (m *Metrics) ObserveRender(start time.Time) {
	m.RenderDuration.Observe(time.Since(start).Seconds())
}
