package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects request and domain counters for the core.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	reservationsCreated *prometheus.CounterVec
	journalEntries      *prometheus.CounterVec
	allocationRejected  prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stayledger_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stayledger_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		reservationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stayledger_reservations_created_total",
			Help: "Reservations created, by outcome.",
		}, []string{"outcome"}),
		journalEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stayledger_journal_entries_total",
			Help: "Journal entries posted, by source type.",
		}, []string{"source_type"}),
		allocationRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stayledger_allocations_rejected_total",
			Help: "Payment allocations rejected for exceeding bounds.",
		}),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.reservationsCreated,
		m.journalEntries,
		m.allocationRejected,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) RecordReservation(outcome string) {
	if m == nil {
		return
	}
	m.reservationsCreated.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordJournalEntry(sourceType string) {
	if m == nil {
		return
	}
	m.journalEntries.WithLabelValues(sourceType).Inc()
}

func (m *Metrics) RecordAllocationRejected() {
	if m == nil {
		return
	}
	m.allocationRejected.Inc()
}

// GinMiddleware observes request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
