// Package metrics collects relay connection metrics with Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aethos"

// Recorder is what the connect coordinator and the dev relay report to.
type Recorder interface {
	ObserveAttempt(relayWS, outcome string, elapsed time.Duration)
	SetHealth(slot int, relayWS string, health int)
	SetPending(n int)
	HelloServed(relay string, accepted bool)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	attempts *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	health   *prometheus.GaugeVec
	pending  prometheus.Gauge
	hellos   *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_attempts_total",
			Help:      "Relay connection attempts by endpoint and outcome.",
		}, []string{"relay", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "relay_attempt_duration_seconds",
			Help:      "Duration of relay connection attempts.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"relay"}),
		health: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "relay_health_score",
			Help:      "Current health score per relay slot.",
		}, []string{"slot", "relay"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dispatcher_pending_requests",
			Help:      "Requests awaiting a correlated response.",
		}),
		hellos: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "devrelay_hellos_total",
			Help:      "Hello messages answered by the dev relay.",
		}, []string{"relay", "result"}),
	}

	reg.MustRegister(c.attempts, c.latency, c.health, c.pending, c.hellos)
	return c
}

// ObserveAttempt counts one attempt and records its duration.
func (c *Collector) ObserveAttempt(relayWS, outcome string, elapsed time.Duration) {
	c.attempts.WithLabelValues(relayWS, outcome).Inc()
	c.latency.WithLabelValues(relayWS).Observe(elapsed.Seconds())
}

// SetHealth records the health score of slot.
func (c *Collector) SetHealth(slot int, relayWS string, health int) {
	c.health.WithLabelValues(strconv.Itoa(slot), relayWS).Set(float64(health))
}

// SetPending records the dispatcher's pending count.
func (c *Collector) SetPending(n int) {
	c.pending.Set(float64(n))
}

// HelloServed counts a hello answered by relay.
func (c *Collector) HelloServed(relay string, accepted bool) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	c.hellos.WithLabelValues(relay, result).Inc()
}

// Handler serves the metrics gathered by reg.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) ObserveAttempt(string, string, time.Duration) {}
func (Nop) SetHealth(int, string, int)                   {}
func (Nop) SetPending(int)                               {}
func (Nop) HelloServed(string, bool)                     {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)
