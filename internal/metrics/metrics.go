package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "credit_engine"

// Outcome label values.
const (
	OutcomeEligible   = "eligible"
	OutcomeIneligible = "ineligible"
	OutcomeError      = "error"
	OutcomeOK         = "ok"
)

// Collector holds the engine's Prometheus collectors.
type Collector struct {
	// Engine metrics
	simulationsTotal   *prometheus.CounterVec
	comparisonsTotal   *prometheus.CounterVec
	compareDuration    prometheus.Histogram
	offersPerCompare   prometheus.Histogram
	validationFailures *prometheus.CounterVec
	exportErrors       *prometheus.CounterVec

	// Catalogue metrics
	catalogRefreshes *prometheus.CounterVec
	catalogSize      prometheus.Gauge

	// Request metrics
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers the collectors on reg. Passing nil uses the default registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		simulationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Product simulations by outcome",
		}, []string{"credit_type", "outcome"}),
		comparisonsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Comparisons by outcome",
		}, []string{"outcome"}),
		compareDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compare_duration_seconds",
			Help:      "Time spent simulating and ranking a catalogue",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		offersPerCompare: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "offers_per_comparison",
			Help:      "Compatible offers found per comparison",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Rejected inputs by field",
		}, []string{"field"}),
		exportErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_errors_total",
			Help:      "Failed exports and archive operations",
		}, []string{"operation"}),
		catalogRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_refreshes_total",
			Help:      "Catalogue cache refresh runs by outcome",
		}, []string{"outcome"}),
		catalogSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_products",
			Help:      "Active products in the last refreshed catalogue",
		}),
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (c *Collector) RecordSimulation(creditType string, eligible bool, err error) {
	outcome := OutcomeIneligible
	switch {
	case err != nil:
		outcome = OutcomeError
	case eligible:
		outcome = OutcomeEligible
	}
	c.simulationsTotal.WithLabelValues(creditType, outcome).Inc()
}

func (c *Collector) RecordComparison(offers int, duration time.Duration, err error) {
	if err != nil {
		c.comparisonsTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	c.comparisonsTotal.WithLabelValues(OutcomeOK).Inc()
	c.compareDuration.Observe(duration.Seconds())
	c.offersPerCompare.Observe(float64(offers))
}

// RecordValidationFailure counts one failure per rejected field.
func (c *Collector) RecordValidationFailure(fields map[string][]string) {
	for field := range fields {
		c.validationFailures.WithLabelValues(field).Inc()
	}
}

func (c *Collector) RecordExportError(operation string) {
	c.exportErrors.WithLabelValues(operation).Inc()
}

func (c *Collector) RecordCatalogRefresh(products int, err error) {
	if err != nil {
		c.catalogRefreshes.WithLabelValues(OutcomeError).Inc()
		return
	}
	c.catalogRefreshes.WithLabelValues(OutcomeOK).Inc()
	c.catalogSize.Set(float64(products))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and latency labelled by mux route template.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		c.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		c.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
