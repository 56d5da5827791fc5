package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncCheckIn("ok")
		m.IncCheckOut("ok")
		m.IncExceptionRequest("CHECK_IN")
		m.IncResolution("APPROVED")
		m.ObserveResolveLatency(time.Millisecond)
		m.IncNotification("email", "ok")
		m.IncLeaveReview("APPROVED")
		m.SetPendingExceptions(3)
	})
}

func TestCountersRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncCheckIn("ok")
	m.IncCheckIn("ok")
	m.IncCheckIn("out_of_geofence")
	m.IncResolution("NO_PRIOR_CHECK_IN")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CheckIns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckIns.WithLabelValues("out_of_geofence")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("NO_PRIOR_CHECK_IN")))
}

func TestPendingGauge(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetPendingExceptions(4)
	m.SetPendingExceptions(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PendingExceptions))
}
