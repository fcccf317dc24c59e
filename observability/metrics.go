package observability

import (
	"strconv"
	"time"

	"oversight/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "oversight"

// Metrics holds the platform's Prometheus collectors. A nil *Metrics records nothing,
// so components can be built without metrics in tests.
type Metrics struct {
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	workflowActions   *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	budgetAlerts      *prometheus.GaugeVec
	batchItems        *prometheus.CounterVec
	loginAttempts     *prometheus.CounterVec
	notifications     *prometheus.CounterVec
}

// NewMetrics registers every collector with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route template and status code",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		workflowActions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "workflow_actions_total",
				Help:      "Approval actions by action and outcome",
			},
			[]string{"action", "result"},
		),
		statusTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "program_status_transitions_total",
				Help:      "Automated program status transitions by new status",
			},
			[]string{"status"},
		),
		budgetAlerts: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "budget_alerts",
				Help:      "Budget alerts found by the most recent scan",
			},
			[]string{"severity"},
		),
		batchItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batch_items_total",
				Help:      "Batch items processed by operation and outcome",
			},
			[]string{"operation", "result"},
		),
		loginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Login attempts by outcome",
			},
			[]string{"result"},
		),
		notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_published_total",
				Help:      "Notification deliveries by channel and outcome",
			},
			[]string{"channel", "result"},
		),
	}
}

// ObserveHTTPRequest records one served request
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// WorkflowAction counts an approval action
func (m *Metrics) WorkflowAction(action, result string) {
	if m == nil {
		return
	}
	m.workflowActions.WithLabelValues(action, result).Inc()
}

// ProgramTransition counts an automated status change
func (m *Metrics) ProgramTransition(status models.ProgramStatus) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(string(status)).Inc()
}

// SetBudgetAlerts replaces the alert gauges with the counts of report
func (m *Metrics) SetBudgetAlerts(report *models.AlertReport) {
	if m == nil || report == nil {
		return
	}
	m.budgetAlerts.WithLabelValues(models.SeverityHigh).Set(float64(report.Critical))
	m.budgetAlerts.WithLabelValues(models.SeverityMedium).Set(float64(report.Warnings))
	m.budgetAlerts.WithLabelValues(models.SeverityLow).Set(float64(report.Info))
}

// BatchItem counts a processed batch item
func (m *Metrics) BatchItem(operation, result string) {
	if m == nil {
		return
	}
	m.batchItems.WithLabelValues(operation, result).Inc()
}

// LoginAttempt counts a login by outcome
func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}

// NotificationPublished counts a notification delivery attempt
func (m *Metrics) NotificationPublished(channel, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(channel, result).Inc()
}
