package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordFIBOccupancyUpdatesGauge(t *testing.T) {
	m := New()
	m.RecordFIBOccupancy(3)
	require.Equal(t, float64(3), testutil.ToFloat64(m.fibOccupancy.WithLabelValues()))
}

func TestObserveCSHitAndMissIncrementDistinctLabels(t *testing.T) {
	m := New()
	m.ObserveCSHit()
	m.ObserveCSHit()
	m.ObserveCSMiss()
	require.Equal(t, float64(2), testutil.ToFloat64(m.csLookups.WithLabelValues("hit")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.csLookups.WithLabelValues("miss")))
}

func TestRecordDropTracksReasonLabel(t *testing.T) {
	m := New()
	m.RecordDrop(DropPITFull)
	m.RecordDrop(DropPITFull)
	m.RecordDrop(DropNoRoute)
	require.Equal(t, float64(2), testutil.ToFloat64(m.interestsDropped.WithLabelValues(string(DropPITFull))))
	require.Equal(t, float64(1), testutil.ToFloat64(m.interestsDropped.WithLabelValues(string(DropNoRoute))))
}

func TestRecordDeadNonceRejectedIncrementsCounter(t *testing.T) {
	m := New()
	m.RecordDeadNonceRejected()
	m.RecordDeadNonceRejected()
	require.Equal(t, float64(2), testutil.ToFloat64(m.deadNonces))
}

func TestNilMetricsMethodsAreNoOps(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.RecordFIBOccupancy(1)
		m.ObserveCSHit()
		m.RecordDrop(DropMalformed)
		m.RecordDeadNonceRejected()
		m.RecordMsgQueueDepth(5)
	})
}

func TestHandlerServesPrometheusFormat(t *testing.T) {
	m := New()
	m.RecordMsgQueueDepth(7)
	require.NotNil(t, m.Handler())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ndnlite_msgqueue_depth 7")
}
