package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitwall/pitwall/pkg/model"
	"github.com/pitwall/pitwall/pkg/service"
	"github.com/pitwall/pitwall/testsupport/sampledata"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	p := sampledata.NewProvider(sampledata.SampleSession())
	svc := service.New(p)
	srv := httptest.NewServer(NewServer(p, svc).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func sessionQuery() string {
	key := sampledata.SampleKey()
	return fmt.Sprintf("year=%d&circuit=%s&type=%s", key.Year, key.Circuit, key.Type)
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s error = %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s error = %v", url, err)
		}
	}
	return resp
}

func TestServer_Sessions(t *testing.T) {
	srv := testServer(t)
	var keys []model.SessionKey
	resp := getJSON(t, srv.URL+"/api/sessions", &keys)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []model.SessionKey{sampledata.SampleKey()}, keys)
}

func TestServer_Drivers(t *testing.T) {
	srv := testServer(t)
	var drivers []model.DriverInfo
	resp := getJSON(t, srv.URL+"/api/drivers?"+sessionQuery(), &drivers)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, drivers, 2)
}

func TestServer_DriversRejectsBadKey(t *testing.T) {
	srv := testServer(t)
	resp := getJSON(t, srv.URL+"/api/drivers?year=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_UnknownSessionIs404(t *testing.T) {
	srv := testServer(t)
	resp := getJSON(t, srv.URL+"/api/drivers?year=1999&circuit=nowhere&type=Race", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Analysis(t *testing.T) {
	srv := testServer(t)
	var analysis model.DriverAnalysis
	resp := getJSON(t,
		srv.URL+"/api/analysis?"+sessionQuery()+"&driver="+sampledata.SampleDriver().ID,
		&analysis)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, sampledata.SampleDriver(), analysis.Driver)
	assert.True(t, analysis.Evolution.Valid)
}

func TestServer_AnalysisUnknownDriverIs404(t *testing.T) {
	srv := testServer(t)
	resp := getJSON(t, srv.URL+"/api/analysis?"+sessionQuery()+"&driver=99", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_AnalysisRequiresDriver(t *testing.T) {
	srv := testServer(t)
	resp := getJSON(t, srv.URL+"/api/analysis?"+sessionQuery(), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ChartsRenderHTML(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(
		srv.URL + "/charts?" + sessionQuery() + "&driver=" + sampledata.SampleDriver().ID)
	if err != nil {
		t.Fatalf("GET /charts error = %v", err)
	}
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
}

func TestServer_ChartsUseAnalyzedDatasetAfterDriverSwitch(t *testing.T) {
	ctx := context.Background()
	sess := sampledata.SampleSession()
	// second driver with a longer fastest-lap trace than the first
	sess.LapsByID[sampledata.OtherDriver().ID] = []model.LapRecord{
		sampledata.TimedLap(1, 92.0),
	}
	sess.TelemetryByKey[sampledata.TelemetryKey(sampledata.OtherDriver().ID, 1)] =
		sampledata.FlatOutTrace(10)

	p := sampledata.NewProvider(sess)
	svc := service.New(p)
	srv := NewServer(p, svc)
	if err := svc.LoadSession(ctx, sampledata.SampleKey()); err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}

	analysis, ds, err := svc.Analyze(ctx, sampledata.SampleDriver().ID)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	// a request for the other driver replaces the live selection
	// before the first request renders its page
	if _, err := svc.SelectDriver(ctx, sampledata.OtherDriver().ID); err != nil {
		t.Fatalf("SelectDriver() error = %v", err)
	}

	// rendering must pair the bundle with its own dataset; with a
	// longer live trace a mismatch would index past the mask bounds
	page := srv.buildPage(analysis, ds)
	assert.NotNil(t, page)
	assert.Len(t, analysis.Masks.Coast, len(ds.FastestLapTelemetry))
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Post(srv.URL+"/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
