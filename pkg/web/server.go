// Package web serves the dashboard: a JSON API over the analytics
// results plus server-rendered echarts pages. It holds no analysis
// state of its own; everything comes from the service controller.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/cors"

	"github.com/pitwall/pitwall/log"
	"github.com/pitwall/pitwall/pkg/model"
	"github.com/pitwall/pitwall/pkg/provider"
	"github.com/pitwall/pitwall/pkg/service"
)

type Server struct {
	provider provider.Provider
	svc      *service.AnalysisService
	theme    string
	l        *log.Logger
}

type Option func(s *Server)

func WithTheme(arg string) Option {
	return func(s *Server) {
		s.theme = arg
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(s *Server) {
		s.l = arg
	}
}

func NewServer(p provider.Provider, svc *service.AnalysisService, opts ...Option) *Server {
	s := &Server{
		provider: p,
		svc:      svc,
		theme:    "dark",
		l:        log.Default().Named("web"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler including CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/sessions", s.handleSessions)
	mux.HandleFunc("/api/drivers", s.handleDrivers)
	mux.HandleFunc("/api/analysis", s.handleAnalysis)
	mux.HandleFunc("/charts", s.handleCharts)
	return cors.AllowAll().Handler(mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html><head><title>pitwall</title></head><body>
<h1>pitwall</h1>
<p>Endpoints:</p>
<ul>
<li><code>/api/sessions</code></li>
<li><code>/api/drivers?year=&amp;circuit=&amp;type=</code></li>
<li><code>/api/analysis?year=&amp;circuit=&amp;type=&amp;driver=</code></li>
<li><code>/charts?year=&amp;circuit=&amp;type=&amp;driver=</code></li>
</ul>
</body></html>`))
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	keys, err := s.provider.Sessions(r.Context())
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, keys)
}

func (s *Server) handleDrivers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.ensureSession(w, r) {
		return
	}
	s.writeJSON(w, s.svc.Drivers())
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	analysis, _, ok := s.resolveAnalysis(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, analysis)
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	analysis, ds, ok := s.resolveAnalysis(w, r)
	if !ok {
		return
	}
	page := s.buildPage(analysis, ds)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(w); err != nil {
		s.l.Error("chart render failed", log.ErrorField(err))
	}
}

// resolveAnalysis loads the requested session if it is not the active
// one and runs the driver analysis. The returned dataset is the one
// the bundle was computed from; rendering must pair exactly these two.
func (s *Server) resolveAnalysis(
	w http.ResponseWriter, r *http.Request,
) (*model.DriverAnalysis, *model.DriverDataset, bool) {
	if !s.ensureSession(w, r) {
		return nil, nil, false
	}
	driverID := r.URL.Query().Get("driver")
	if driverID == "" {
		s.writeJSONError(w, http.StatusBadRequest, "missing driver parameter")
		return nil, nil, false
	}
	analysis, ds, err := s.svc.Analyze(r.Context(), driverID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrUnknownDriver) {
			status = http.StatusNotFound
		}
		s.writeJSONError(w, status, err.Error())
		return nil, nil, false
	}
	return analysis, ds, true
}

func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) bool {
	key, err := parseSessionKey(r)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if sctx := s.svc.Context(); sctx != nil && sctx.Key == key {
		return true
	}
	if err := s.svc.LoadSession(r.Context(), key); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, provider.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		s.writeJSONError(w, status, err.Error())
		return false
	}
	return true
}

func parseSessionKey(r *http.Request) (model.SessionKey, error) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		return model.SessionKey{}, fmt.Errorf("invalid year parameter")
	}
	circuit := q.Get("circuit")
	sessionType := q.Get("type")
	if circuit == "" || sessionType == "" {
		return model.SessionKey{}, fmt.Errorf("missing circuit/type parameter")
	}
	return model.SessionKey{
		Year:    year,
		Circuit: circuit,
		Type:    model.SessionType(sessionType),
	}, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.Error("response encode failed", log.ErrorField(err))
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
