package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "londonshop"

// Checkout outcomes.
const (
	OutcomeSubmitted = "submitted"
	OutcomeFallback  = "fallback"
	OutcomeFailed    = "failed"
	OutcomeInvalid   = "invalid"
)

// Storefront holds the domain counters for carts, checkout and feedback
// persistence. A nil *Storefront is a valid no-op recorder.
type Storefront struct {
	cartMutations     *prometheus.CounterVec
	cartPersistErrors *prometheus.CounterVec
	activeCarts       prometheus.Gauge
	checkouts         *prometheus.CounterVec
	checkoutDuration  prometheus.Histogram
	feedbackRetries   *prometheus.CounterVec
	feedbackFallbacks *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewStorefront registers the storefront metrics on reg.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	s := &Storefront{
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart state changes by operation.",
		}, []string{"op"}),
		cartPersistErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_persist_errors_total",
			Help:      "Cart store reads or writes that failed and were swallowed.",
		}, []string{"op"}),
		activeCarts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_active_sessions",
			Help:      "Cart managers currently held in memory.",
		}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_submissions_total",
			Help:      "Checkout submissions by outcome.",
		}, []string{"outcome"}),
		checkoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_duration_seconds",
			Help:      "Time spent forwarding a checkout to the feedback store.",
			Buckets:   prometheus.DefBuckets,
		}),
		feedbackRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_retries_total",
			Help:      "Retried feedback store operations.",
		}, []string{"op"}),
		feedbackFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_fallbacks_total",
			Help:      "Feedback operations that exhausted retries and degraded.",
		}, []string{"op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		s.cartMutations,
		s.cartPersistErrors,
		s.activeCarts,
		s.checkouts,
		s.checkoutDuration,
		s.feedbackRetries,
		s.feedbackFallbacks,
		s.httpRequests,
		s.httpDuration,
	)
	return s
}

func (s *Storefront) CartMutation(op string) {
	if s == nil || s.cartMutations == nil {
		return
	}
	s.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func (s *Storefront) CartPersistError(op string) {
	if s == nil || s.cartPersistErrors == nil {
		return
	}
	s.cartPersistErrors.WithLabelValues(normalizeLabel(op)).Inc()
}

func (s *Storefront) SetActiveCarts(n int) {
	if s == nil || s.activeCarts == nil {
		return
	}
	s.activeCarts.Set(float64(n))
}

func (s *Storefront) Checkout(outcome string, elapsed time.Duration) {
	if s == nil || s.checkouts == nil {
		return
	}
	s.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
	if elapsed > 0 {
		s.checkoutDuration.Observe(elapsed.Seconds())
	}
}

func (s *Storefront) FeedbackRetry(op string) {
	if s == nil || s.feedbackRetries == nil {
		return
	}
	s.feedbackRetries.WithLabelValues(normalizeLabel(op)).Inc()
}

func (s *Storefront) FeedbackFallback(op string) {
	if s == nil || s.feedbackFallbacks == nil {
		return
	}
	s.feedbackFallbacks.WithLabelValues(normalizeLabel(op)).Inc()
}

// HTTPRequest records one served request. route is the chi route pattern so
// label cardinality stays bounded.
func (s *Storefront) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	if s == nil || s.httpRequests == nil {
		return
	}
	route = normalizeLabel(route)
	s.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	s.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
