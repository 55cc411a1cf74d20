// Package metrics exposes the forwarder's internal state as Prometheus
// collectors: table occupancy gauges, content store hit/miss counters,
// Interest drop-reason counters, and message queue depth.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector this package registers. A nil *Metrics
// is valid everywhere it's passed: every Observe/Record method is a
// no-op on a nil receiver, so disabling metrics costs nothing beyond a
// pointer check.
type Metrics struct {
	registry *prometheus.Registry

	faceOccupancy *prometheus.GaugeVec
	fibOccupancy  *prometheus.GaugeVec
	pitOccupancy  *prometheus.GaugeVec
	csOccupancy   *prometheus.GaugeVec

	csLookups *prometheus.CounterVec

	interestsDropped *prometheus.CounterVec
	deadNonces       prometheus.Counter

	msgQueueDepth prometheus.Gauge
}

// New creates a fresh registry and registers every collector against
// it, mirroring the teacher's per-component CounterVec/GaugeVec shape
// (cache hit/miss, write/read operation counters) applied to forwarder
// tables instead of a content cache.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{registry: reg}

	m.faceOccupancy = promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
		Name: "ndnlite_face_table_entries",
		Help: "Number of faces currently registered in the face table.",
	}, nil)
	m.fibOccupancy = promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
		Name: "ndnlite_fib_entries",
		Help: "Number of entries currently held in the FIB.",
	}, nil)
	m.pitOccupancy = promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
		Name: "ndnlite_pit_entries",
		Help: "Number of entries currently pending in the PIT.",
	}, nil)
	m.csOccupancy = promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
		Name: "ndnlite_cs_entries",
		Help: "Number of Data packets currently cached in the content store.",
	}, nil)

	m.csLookups = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "ndnlite_cs_lookups_total",
		Help: "Content store lookups by outcome.",
	}, []string{"result"}) // "hit", "miss"

	m.interestsDropped = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "ndnlite_interests_dropped_total",
		Help: "Interests dropped by the forwarder, by reason.",
	}, []string{"reason"}) // "hop_limit", "pit_full", "duplicate_nonce", "no_route", "malformed"

	m.deadNonces = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "ndnlite_dead_nonces_rejected_total",
		Help: "Interests rejected because their nonce matched one already recorded as dead.",
	})

	m.msgQueueDepth = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "ndnlite_msgqueue_depth",
		Help: "Number of events currently queued for the forwarder's cooperative event loop.",
	})

	return m
}

// Registry returns the underlying Prometheus registry, for wiring into
// an HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns an http.Handler serving this registry in the
// Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordFaceOccupancy(n int) {
	if m == nil {
		return
	}
	m.faceOccupancy.WithLabelValues().Set(float64(n))
}

func (m *Metrics) RecordFIBOccupancy(n int) {
	if m == nil {
		return
	}
	m.fibOccupancy.WithLabelValues().Set(float64(n))
}

func (m *Metrics) RecordPITOccupancy(n int) {
	if m == nil {
		return
	}
	m.pitOccupancy.WithLabelValues().Set(float64(n))
}

func (m *Metrics) RecordCSOccupancy(n int) {
	if m == nil {
		return
	}
	m.csOccupancy.WithLabelValues().Set(float64(n))
}

func (m *Metrics) ObserveCSHit() {
	if m == nil {
		return
	}
	m.csLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) ObserveCSMiss() {
	if m == nil {
		return
	}
	m.csLookups.WithLabelValues("miss").Inc()
}

// DropReason names why the forwarder dropped an Interest, for the
// ndnlite_interests_dropped_total counter's "reason" label.
type DropReason string

const (
	DropHopLimit       DropReason = "hop_limit"
	DropPITFull        DropReason = "pit_full"
	DropDuplicateNonce DropReason = "duplicate_nonce"
	DropNoRoute        DropReason = "no_route"
	DropMalformed      DropReason = "malformed"
)

func (m *Metrics) RecordDrop(reason DropReason) {
	if m == nil {
		return
	}
	m.interestsDropped.WithLabelValues(string(reason)).Inc()
}

func (m *Metrics) RecordDeadNonceRejected() {
	if m == nil {
		return
	}
	m.deadNonces.Inc()
}

func (m *Metrics) RecordMsgQueueDepth(n int) {
	if m == nil {
		return
	}
	m.msgQueueDepth.Set(float64(n))
}
