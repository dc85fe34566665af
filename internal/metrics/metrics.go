package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeSettledCOD       = "settled_cod"
	OutcomeSettledRedirect  = "settled_redirect"
	OutcomeBusinessFailure  = "business_failure"
	OutcomeTransportFailure = "transport_failure"
)

// Guard redirect reasons.
const (
	ReasonUnauthenticated = "unauthenticated"
	ReasonEmptyCart       = "empty_cart"
)

// Registry holds the checkout collectors. A nil *Registry records nothing.
type Registry struct {
	reg               *prometheus.Registry
	Submissions       *prometheus.CounterVec
	ValidationBlocks  prometheus.Counter
	GuardRedirects    *prometheus.CounterVec
	InFlightRejects   prometheus.Counter
	SubmitLatencySec  *prometheus.HistogramVec
	AuthTransitions   *prometheus.CounterVec
	BreakerStateTotal *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Order submissions by payment method and outcome.",
	}, []string{"method", "outcome"})
	validation := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_validation_blocks_total",
		Help: "Submissions blocked by an incomplete address.",
	})
	guard := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_guard_redirects_total",
		Help: "Guard redirects to the cart view by reason.",
	}, []string{"reason"})
	inFlight := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_inflight_rejections_total",
		Help: "Submissions rejected because another was pending.",
	})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_submit_latency_seconds",
		Help:    "Duration of the order request round trip.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	auth := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_auth_transitions_total",
		Help: "Auth store transitions.",
	}, []string{"transition"})
	breaker := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_breaker_state_changes_total",
		Help: "Circuit breaker state changes by target state.",
	}, []string{"name", "to"})

	r.MustRegister(submissions, validation, guard, inFlight, latency, auth, breaker)
	return &Registry{
		reg:               r,
		Submissions:       submissions,
		ValidationBlocks:  validation,
		GuardRedirects:    guard,
		InFlightRejects:   inFlight,
		SubmitLatencySec:  latency,
		AuthTransitions:   auth,
		BreakerStateTotal: breaker,
	}
}

func (r *Registry) ObserveSubmission(method, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.Submissions.WithLabelValues(method, outcome).Inc()
	r.SubmitLatencySec.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (r *Registry) ValidationBlocked() {
	if r == nil {
		return
	}
	r.ValidationBlocks.Inc()
}

func (r *Registry) GuardRedirect(reason string) {
	if r == nil {
		return
	}
	r.GuardRedirects.WithLabelValues(reason).Inc()
}

func (r *Registry) InFlightRejected() {
	if r == nil {
		return
	}
	r.InFlightRejects.Inc()
}

func (r *Registry) AuthTransition(transition string) {
	if r == nil {
		return
	}
	r.AuthTransitions.WithLabelValues(transition).Inc()
}

func (r *Registry) BreakerStateChange(name, to string) {
	if r == nil {
		return
	}
	r.BreakerStateTotal.WithLabelValues(name, to).Inc()
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
