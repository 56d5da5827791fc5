package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects attendance and approval counters. A nil *Metrics is a no-op.
type Metrics struct {
	CheckIns          *prometheus.CounterVec
	CheckOuts         *prometheus.CounterVec
	ExceptionRequests *prometheus.CounterVec
	Resolutions       *prometheus.CounterVec
	ResolveLatency    prometheus.Histogram
	Notifications     *prometheus.CounterVec
	LeaveReviews      *prometheus.CounterVec
	PendingExceptions prometheus.Gauge
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CheckIns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrms_attendance_check_ins_total",
			Help: "Check-in attempts by outcome",
		}, []string{"outcome"}), // ok, out_of_geofence, error

		CheckOuts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrms_attendance_check_outs_total",
			Help: "Check-out attempts by outcome",
		}, []string{"outcome"}), // ok, out_of_geofence, no_open_session, error

		ExceptionRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrms_exception_requests_total",
			Help: "Exception requests submitted by type",
		}, []string{"type"}),

		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrms_exception_resolutions_total",
			Help: "Exception request resolutions by result",
		}, []string{"result"}),

		ResolveLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hrms_exception_resolve_duration_seconds",
			Help:    "Duration of exception resolution including ledger mutation and archival",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrms_notifications_total",
			Help: "Notification deliveries by sink and outcome",
		}, []string{"sink", "outcome"}),

		LeaveReviews: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrms_leave_reviews_total",
			Help: "Leave request reviews by status",
		}, []string{"status"}),

		PendingExceptions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hrms_exception_requests_pending",
			Help: "Exception requests waiting for an admin decision",
		}),
	}
}

func (m *Metrics) IncCheckIn(outcome string) {
	if m != nil {
		m.CheckIns.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncCheckOut(outcome string) {
	if m != nil {
		m.CheckOuts.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncExceptionRequest(requestType string) {
	if m != nil {
		m.ExceptionRequests.WithLabelValues(requestType).Inc()
	}
}

func (m *Metrics) IncResolution(result string) {
	if m != nil {
		m.Resolutions.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ObserveResolveLatency(d time.Duration) {
	if m != nil {
		m.ResolveLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncNotification(sink, outcome string) {
	if m != nil {
		m.Notifications.WithLabelValues(sink, outcome).Inc()
	}
}

func (m *Metrics) IncLeaveReview(status string) {
	if m != nil {
		m.LeaveReviews.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) SetPendingExceptions(n int) {
	if m != nil {
		m.PendingExceptions.Set(float64(n))
	}
}
