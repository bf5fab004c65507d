// Package metrics exposes Prometheus collectors for billing and HTTP traffic.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
)

var _ billing.InvoiceMetrics = (*Metrics)(nil)

// Config sets the constant labels attached to every series.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics implements billing.InvoiceMetrics and records HTTP requests.
type Metrics struct {
	invoicesCreated *prometheus.CounterVec
	invoiceValue    *prometheus.CounterVec
	statusChanges   *prometheus.CounterVec
	documents       *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers the collectors on registerer (DefaultRegisterer when nil).
func New(registerer prometheus.Registerer, cfg Config) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	service := strings.TrimSpace(cfg.ServiceName)
	if service == "" {
		service = "gst-billing-api"
	}
	env := strings.TrimSpace(cfg.Environment)
	if env == "" {
		env = "unknown"
	}
	constLabels := prometheus.Labels{"service": service, "env": env}

	m := &Metrics{
		invoicesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "gst_invoices_created_total",
			Help:        "Invoices created by supply type.",
			ConstLabels: constLabels,
		}, []string{"supply_type"}),
		invoiceValue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "gst_invoice_value_rupees_total",
			Help:        "Grand total of created invoices in rupees.",
			ConstLabels: constLabels,
		}, []string{"supply_type"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "gst_invoice_status_changes_total",
			Help:        "Invoice status transitions by target status.",
			ConstLabels: constLabels,
		}, []string{"status"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "gst_documents_rendered_total",
			Help:        "Rendered invoice documents by format.",
			ConstLabels: constLabels,
		}, []string{"format"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "gst_http_requests_total",
			Help:        "HTTP requests by method, route and status code.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "gst_http_request_duration_seconds",
			Help:        "HTTP request latency.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
	}
	registerer.MustRegister(
		m.invoicesCreated, m.invoiceValue, m.statusChanges,
		m.documents, m.httpRequests, m.httpDuration,
	)
	return m
}

func (m *Metrics) InvoiceCreated(supplyType string, grandTotal decimal.Decimal) {
	m.invoicesCreated.WithLabelValues(supplyType).Inc()
	if grandTotal.IsPositive() {
		m.invoiceValue.WithLabelValues(supplyType).Add(grandTotal.InexactFloat64())
	}
}

func (m *Metrics) InvoiceStatusChanged(status string) {
	m.statusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) DocumentRendered(format string) {
	m.documents.WithLabelValues(format).Inc()
}

// ObserveRequest records one HTTP request. route is the matched pattern, not the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
