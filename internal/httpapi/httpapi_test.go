package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ndn-lite/ndnlite-go/internal/cs"
	"github.com/ndn-lite/ndnlite-go/internal/face"
	"github.com/ndn-lite/ndnlite-go/internal/fib"
	"github.com/ndn-lite/ndnlite-go/internal/nametree"
	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/pit"
	"github.com/stretchr/testify/require"
)

func newTestTables() Tables {
	return Tables{
		Faces: face.NewTable(0),
		FIB:   fib.New(nametree.New(0), 0),
		PIT:   pit.New(nametree.New(0), 0),
		CS:    cs.New(nametree.New(0), 0),
	}
}

func TestHealthzReturnsOK(t *testing.T) {
	r := NewRouter(newTestTables())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
}

func TestStatusReportsTableOccupancy(t *testing.T) {
	tables := newTestTables()
	require.NoError(t, tables.FIB.AddRoute(ndn.MustParseURI("/a"), 1))

	r := NewRouter(tables)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, float64(1), body["fib"])
	require.Equal(t, float64(0), body["pit"])
	require.NotEmpty(t, body["uptime"])
}

func TestFIBRouteListsRegisteredPrefixes(t *testing.T) {
	tables := newTestTables()
	require.NoError(t, tables.FIB.AddRoute(ndn.MustParseURI("/a/b"), 3))

	r := NewRouter(tables)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fib", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body []fibEntryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	require.Equal(t, "/a/b", body[0].Name)
	require.Equal(t, []uint16{3}, body[0].Nexthops)
	require.False(t, body[0].HasCallback)
}

func TestAddRouteHandlerInstallsFIBRoute(t *testing.T) {
	tables := newTestTables()
	r := NewRouter(tables)

	body := strings.NewReader(`{"name":"/a/b","face_id":3}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fib", body))
	require.Equal(t, http.StatusOK, rec.Code)

	entries := tables.FIB.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "/a/b", entries[0].Name().String())
	require.True(t, entries[0].Nexthop.Has(3))
}

func TestAddRouteHandlerRejectsMalformedBody(t *testing.T) {
	tables := newTestTables()
	r := NewRouter(tables)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fib", strings.NewReader(`not json`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveRouteHandlerWithdrawsFIBRoute(t *testing.T) {
	tables := newTestTables()
	require.NoError(t, tables.FIB.AddRoute(ndn.MustParseURI("/a/b"), 3))
	r := NewRouter(tables)

	body := strings.NewReader(`{"name":"/a/b","face_id":3}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/fib", body))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, tables.FIB.Entries(), 0)
}

type fakeBootstrapper struct {
	lastDeviceID string
	err          error
}

func (b *fakeBootstrapper) Run(deviceID string, onDone func(error)) {
	b.lastDeviceID = deviceID
	onDone(b.err)
}

func TestBootstrapRouteAbsentWithoutBootstrapper(t *testing.T) {
	r := NewRouter(newTestTables())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bootstrap", strings.NewReader(`{"device_id":"d1"}`)))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBootstrapRouteRunsBootstrapper(t *testing.T) {
	tables := newTestTables()
	fb := &fakeBootstrapper{}
	tables.Bootstrapper = fb
	r := NewRouter(tables)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bootstrap", strings.NewReader(`{"device_id":"d1"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "d1", fb.lastDeviceID)
}

func TestBootstrapRouteReportsFailure(t *testing.T) {
	tables := newTestTables()
	tables.Bootstrapper = &fakeBootstrapper{err: errors.New("sign-on timed out")}
	r := NewRouter(tables)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bootstrap", strings.NewReader(`{"device_id":"d1"}`)))
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPITRouteListsPendingInterests(t *testing.T) {
	tables := newTestTables()
	_, _, _, err := tables.PIT.FindOrInsert(ndn.MustParseURI("/a"), false, false, 1, time.Second, 1, time.Now())
	require.NoError(t, err)

	r := NewRouter(tables)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pit", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body []pitEntryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	require.Equal(t, "/a", body[0].Name)
	require.Equal(t, []uint16{1}, body[0].Incoming)
}

func TestCSRouteListsCachedData(t *testing.T) {
	tables := newTestTables()
	data := &ndn.Data{Name: ndn.MustParseURI("/cached"), MetaInfo: ndn.MetaInfo{FreshnessPeriod: 4000}, Content: []byte("x")}
	require.NoError(t, tables.CS.PutData(data, time.Now()))

	r := NewRouter(tables)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body []csEntryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	require.Equal(t, "/cached", body[0].Name)
	require.True(t, body[0].Fresh)
}

func TestFacesRouteListsRegisteredFaces(t *testing.T) {
	tables := newTestTables()
	_, err := tables.Faces.Add(face.NewAppFace(nil))
	require.NoError(t, err)

	r := NewRouter(tables)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/faces", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body []faceEntryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	require.Equal(t, "app", body[0].Type)
}
