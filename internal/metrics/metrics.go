// Package metrics exposes Prometheus counters for the session backend.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface handlers and middleware record through
type Recorder interface {
	RecordLogin(success bool)
	RecordLogout()
	RecordPageRender(signedIn bool)
	RecordRateLimited(route string)
}

// Collector records metrics into a Prometheus registry
type Collector struct {
	logins      *prometheus.CounterVec
	logouts     prometheus.Counter
	pageRenders *prometheus.CounterVec
	rateLimited *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harapan_logins_total",
			Help: "Login notifications received, by result",
		}, []string{"result"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "harapan_logouts_total",
			Help: "Logout notifications received",
		}),
		pageRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harapan_page_renders_total",
			Help: "Home page renders, by sign-in state",
		}, []string{"signed_in"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harapan_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}, []string{"route"}),
	}

	reg.MustRegister(c.logins, c.logouts, c.pageRenders, c.rateLimited)
	return c
}

// RecordLogin counts a login attempt
func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

// RecordLogout counts a logout
func (c *Collector) RecordLogout() {
	c.logouts.Inc()
}

// RecordPageRender counts a home page render
func (c *Collector) RecordPageRender(signedIn bool) {
	c.pageRenders.WithLabelValues(strconv.FormatBool(signedIn)).Inc()
}

// RecordRateLimited counts a rejected request
func (c *Collector) RecordRateLimited(route string) {
	c.rateLimited.WithLabelValues(route).Inc()
}

// Handler returns the scrape handler for gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every measurement
type Nop struct{}

func (Nop) RecordLogin(bool)         {}
func (Nop) RecordLogout()            {}
func (Nop) RecordPageRender(bool)    {}
func (Nop) RecordRateLimited(string) {}
