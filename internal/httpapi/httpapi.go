// Package httpapi exposes a chi router over a running forwarder's FIB,
// PIT, content store, and face table: read-only JSON snapshots for
// operator diagnostics plus a liveness probe, and a narrow route-table
// admin endpoint so a remote ndnctl can add/remove FIB routes without
// the operator needing shell access to the host running ndnlited.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndn-lite/ndnlite-go/internal/cs"
	"github.com/ndn-lite/ndnlite-go/internal/face"
	"github.com/ndn-lite/ndnlite-go/internal/fib"
	"github.com/ndn-lite/ndnlite-go/internal/logger"
	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/ndnerr"
	"github.com/ndn-lite/ndnlite-go/internal/pit"
)

// Tables is the snapshot source the router reads from; it is exactly
// the set of tables a Forwarder owns, named separately here so this
// package doesn't import internal/forwarder and create a cycle with
// anything forwarder itself grows to depend on.
type Tables struct {
	Faces *face.Table
	FIB   *fib.FIB
	PIT   *pit.PIT
	CS    *cs.CS

	// Bootstrapper, if set, enables POST /bootstrap so ndnctl can
	// trigger the device sign-on exchange on a running daemon instead
	// of the operator needing to script it themselves. Nil disables
	// the route (404).
	Bootstrapper Bootstrapper
}

// Bootstrapper is the subset of *bootstrap.Bootstrapper the diagnostics
// API needs, named locally so this package doesn't import
// internal/appsupport/bootstrap just to spell one method's signature.
type Bootstrapper interface {
	Run(deviceID string, onDone func(error))
}

// startedAt records when this process's diagnostics router was built, so
// /status can report an uptime alongside table occupancy.
var startedAt = time.Now()

// NewRouter builds the diagnostics router. The GET routes are read-only
// JSON snapshots; POST and DELETE /fib add and remove routes, and POST
// /bootstrap (registered only when t.Bootstrapper is set) runs sign-on.
func NewRouter(t Tables) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))

	r.Get("/healthz", healthzHandler)
	r.Get("/status", statusHandler(t))
	r.Get("/fib", fibHandler(t))
	r.Post("/fib", addRouteHandler(t))
	r.Delete("/fib", removeRouteHandler(t))
	r.Get("/pit", pitHandler(t))
	r.Get("/cs", csHandler(t))
	r.Get("/faces", facesHandler(t))
	if t.Bootstrapper != nil {
		r.Post("/bootstrap", bootstrapHandler(t))
	}

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug("diagnostics api request",
			"method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start).String())
	})
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusHandler(t Tables) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"faces":  t.Faces.Len(),
			"fib":    t.FIB.Len(),
			"pit":    t.PIT.Len(),
			"cs":     t.CS.Len(),
			"uptime": time.Since(startedAt).String(),
		})
	}
}

// fibEntryView is the diagnostics shape of one FIB entry.
type fibEntryView struct {
	Name        string   `json:"name"`
	Nexthops    []uint16 `json:"nexthops"`
	HasCallback bool     `json:"has_callback"`
}

func fibHandler(t Tables) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := t.FIB.Entries()
		out := make([]fibEntryView, 0, len(entries))
		for _, e := range entries {
			var nexthops []uint16
			e.Nexthop.Each(func(id uint16) { nexthops = append(nexthops, id) })
			out = append(out, fibEntryView{
				Name:        e.Name().String(),
				Nexthops:    nexthops,
				HasCallback: e.OnInterest != nil,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// routeRequest is the body ndnctl's route add/remove commands POST or
// DELETE to /fib.
type routeRequest struct {
	Name   string `json:"name"`
	FaceID uint16 `json:"face_id"`
}

func addRouteHandler(t Tables) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, req, ok := decodeRouteRequest(w, r)
		if !ok {
			return
		}
		if err := t.FIB.AddRoute(name, req.FaceID); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		logger.Info("route added", logger.Name(name.String()), logger.FaceID(req.FaceID))
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func removeRouteHandler(t Tables) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, req, ok := decodeRouteRequest(w, r)
		if !ok {
			return
		}
		if err := t.FIB.RemoveRoute(name, req.FaceID); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		logger.Info("route removed", logger.Name(name.String()), logger.FaceID(req.FaceID))
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func decodeRouteRequest(w http.ResponseWriter, r *http.Request) (ndn.Name, routeRequest, bool) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return ndn.Name{}, req, false
	}
	name, err := ndn.ParseURI(req.Name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ndnerr.Wrap(ndnerr.KindInvalidName, err, "parse route name %q", req.Name).Error()})
		return ndn.Name{}, req, false
	}
	return name, req, true
}

// bootstrapRequest is the body ndnctl's bootstrap command POSTs to
// /bootstrap.
type bootstrapRequest struct {
	DeviceID string `json:"device_id"`
}

// bootstrapHandler runs the sign-on exchange synchronously and reports
// its outcome; the exchange involves at most two network round trips so
// blocking the request for it is acceptable for an operator-triggered
// admin action.
func bootstrapHandler(t Tables) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bootstrapRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DeviceID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		done := make(chan error, 1)
		t.Bootstrapper.Run(req.DeviceID, func(err error) { done <- err })

		if err := <-done; err != nil {
			logger.Warn("bootstrap failed", "device_id", req.DeviceID, logger.Err(err))
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		logger.Info("bootstrap succeeded", "device_id", req.DeviceID)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// pitEntryView is the diagnostics shape of one pending Interest.
type pitEntryView struct {
	Name        string   `json:"name"`
	CanBePrefix bool     `json:"can_be_prefix"`
	MustBeFresh bool     `json:"must_be_fresh"`
	Incoming    []uint16 `json:"incoming"`
	Outgoing    []uint16 `json:"outgoing"`
	ExpiresAt   string   `json:"expires_at"`
}

func pitHandler(t Tables) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := t.PIT.Entries()
		out := make([]pitEntryView, 0, len(entries))
		for _, e := range entries {
			var incoming, outgoing []uint16
			e.Incoming.Each(func(id uint16) { incoming = append(incoming, id) })
			e.Outgoing.Each(func(id uint16) { outgoing = append(outgoing, id) })
			out = append(out, pitEntryView{
				Name:        e.Name.String(),
				CanBePrefix: e.CanBePrefix,
				MustBeFresh: e.MustBeFresh,
				Incoming:    incoming,
				Outgoing:    outgoing,
				ExpiresAt:   e.LastTime.Add(e.Lifetime).UTC().Format(time.RFC3339Nano),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// csEntryView is the diagnostics shape of one cached Data packet.
type csEntryView struct {
	Name       string `json:"name"`
	CachedAt   string `json:"cached_at"`
	FreshUntil string `json:"fresh_until,omitempty"`
	Fresh      bool   `json:"fresh"`
}

func csHandler(t Tables) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		entries := t.CS.Entries()
		out := make([]csEntryView, 0, len(entries))
		for _, e := range entries {
			view := csEntryView{
				Name:     e.Data.Name.String(),
				CachedAt: e.CachedAt.UTC().Format(time.RFC3339Nano),
				Fresh:    e.Fresh(now),
			}
			if !e.FreshUntil.IsZero() {
				view.FreshUntil = e.FreshUntil.UTC().Format(time.RFC3339Nano)
			}
			out = append(out, view)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// faceEntryView is the diagnostics shape of one registered face.
type faceEntryView struct {
	ID    uint16 `json:"id"`
	Type  string `json:"type"`
	State string `json:"state"`
}

func facesHandler(t Tables) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := t.Faces.Entries()
		out := make([]faceEntryView, 0, len(entries))
		for _, f := range entries {
			out = append(out, faceEntryView{
				ID:    f.ID(),
				Type:  f.Type().String(),
				State: f.State().String(),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	var buf []byte
	var err error
	buf, err = json.Marshal(data)
	if err != nil {
		logger.Error("failed to encode diagnostics response", "error", err)
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}
