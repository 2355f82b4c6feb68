// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors groups every metric the service exports. A nil *Collectors is
// valid and records nothing.
type Collectors struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	tripsSynthesized *prometheus.CounterVec
	preordersCreated *prometheus.CounterVec
	paymentAttempts  *prometheus.CounterVec
}

// New registers the collectors on reg (the default registerer when nil).
// Collectors that are already registered are reused.
func New(reg prometheus.Registerer) (*Collectors, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collectors{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ukrbus_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ukrbus_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		tripsSynthesized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ukrbus_trips_synthesized_total",
			Help: "Trip instances produced by the schedule synthesizer",
		}, []string{"locale"}),
		preordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ukrbus_preorders_created_total",
			Help: "Preorders started",
		}, []string{"locale"}),
		paymentAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ukrbus_payment_attempts_total",
			Help: "Mock payment attempts by result",
		}, []string{"result"}),
	}

	var err error
	if c.httpRequests, err = register(reg, c.httpRequests); err != nil {
		return nil, err
	}
	if c.httpDuration, err = register(reg, c.httpDuration); err != nil {
		return nil, err
	}
	if c.tripsSynthesized, err = register(reg, c.tripsSynthesized); err != nil {
		return nil, err
	}
	if c.preordersCreated, err = register(reg, c.preordersCreated); err != nil {
		return nil, err
	}
	if c.paymentAttempts, err = register(reg, c.paymentAttempts); err != nil {
		return nil, err
	}
	return c, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, col T) (T, error) {
	if err := reg.Register(col); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return col, err
	}
	return col, nil
}

// ObserveRequest records one served HTTP request.
func (c *Collectors) ObserveRequest(method, path string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// AddTripsSynthesized counts instances produced for locale.
func (c *Collectors) AddTripsSynthesized(locale string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.tripsSynthesized.WithLabelValues(locale).Add(float64(n))
}

// IncPreorders counts a started preorder.
func (c *Collectors) IncPreorders(locale string) {
	if c == nil {
		return
	}
	c.preordersCreated.WithLabelValues(locale).Inc()
}

// IncPaymentAttempts counts a payment attempt by result.
func (c *Collectors) IncPaymentAttempts(result string) {
	if c == nil {
		return
	}
	c.paymentAttempts.WithLabelValues(result).Inc()
}
