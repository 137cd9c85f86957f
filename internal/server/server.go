// Package server exposes the riverwalk HTTP surface: survey CRUD, CSV
// export, the report page the browser renders, and the PDF render
// endpoint in front of the renderer.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"riverwalk/internal/renderer"
	"riverwalk/internal/survey"
)

// Renderer is the slice of renderer.Manager the server needs.
type Renderer interface {
	Render(ctx context.Context, req renderer.Request) ([]byte, error)
	Cached() bool
}

// SurveyStore is the slice of store.Store the server needs.
type SurveyStore interface {
	Save(ctx context.Context, sv survey.Survey) error
	Survey(ctx context.Context, walk string) (survey.Survey, error)
	ListWalks(ctx context.Context) ([]string, error)
}

// Server wires the handlers together. BaseURL is where the headless
// browser reaches the report pages; for a single-process deployment that
// is this server's own loopback address.
type Server struct {
	log      *zap.Logger
	renderer Renderer
	store    SurveyStore
	source   DocumentSource
	baseURL  string
	mux      *http.ServeMux
}

func New(baseURL string, rend Renderer, st SurveyStore, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		log:      log,
		renderer: rend,
		store:    st,
		baseURL:  baseURL,
	}
	s.source = localReports{s}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /api/walks", s.handleListWalks)
	mux.HandleFunc("GET /api/surveys/{walk}", s.handleGetSurvey)
	mux.HandleFunc("PUT /api/surveys/{walk}", s.handlePutSurvey)
	mux.HandleFunc("GET /api/surveys/{walk}/csv", s.handleSurveyCSV)
	mux.HandleFunc("GET /reports/{walk}", s.handleReport)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux = mux
	return s
}

// SetBaseURL is called once the listener address is known, when the
// configured base URL was empty.
func (s *Server) SetBaseURL(u string) { s.baseURL = u }

func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.mux)
}

// withRequestID tags every request with a correlation id and logs it.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(withLogFields(r.Context(), id)))
		s.log.Debug("request handled",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

type ctxKey struct{}

func withLogFields(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"browser_cached": s.renderer.Cached(),
	})
}
