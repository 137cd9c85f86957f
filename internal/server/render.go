package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"riverwalk/internal/renderer"
	"riverwalk/internal/store"
	"riverwalk/internal/survey"
)

// renderRequest is the POST /api/render body. Sites is the caller's size
// hint; it is bounded the same way the collection form bounds site count.
type renderRequest struct {
	Target   string `json:"target"`
	Sites    int    `json:"sites"`
	Filename string `json:"filename,omitempty"`
}

// DocumentSource resolves a render target id to the URL of a renderable
// document. The default source serves this server's own report pages, so a
// cold process renders end to end with no external collaborators.
type DocumentSource interface {
	Resolve(ctx context.Context, target string) (string, error)
}

type localReports struct{ s *Server }

func (l localReports) Resolve(ctx context.Context, target string) (string, error) {
	if _, err := l.s.store.Survey(ctx, target); err != nil {
		return "", err
	}
	return strings.TrimRight(l.s.baseURL, "/") + "/reports/" + target, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, details string) {
	writeJSON(w, status, errorResponse{Error: kind, Details: details})
}

// handleRender validates the request fully before any browser interaction,
// then drives one render through the manager.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body: "+err.Error())
		return
	}
	if req.Target == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "target is required")
		return
	}
	if req.Sites < 1 || req.Sites > survey.MaxSites {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Sprintf("sites must be between 1 and %d, got %d", survey.MaxSites, req.Sites))
		return
	}

	// The target must resolve to a single renderable document.
	docURL, err := s.source.Resolve(r.Context(), req.Target)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "bad_request", "unknown target: "+req.Target)
			return
		}
		writeError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	log := s.log.With(
		zap.String("request_id", requestID(r.Context())),
		zap.String("target", req.Target))

	data, err := s.renderer.Render(r.Context(), renderer.Request{
		Target: req.Target,
		URL:    fmt.Sprintf("%s?sites=%d", docURL, req.Sites),
		Sites:  req.Sites,
	})
	if err != nil {
		kind := "render_failed"
		var launchErr *renderer.LaunchError
		if errors.As(err, &launchErr) {
			kind = "launch_failed"
		}
		log.Error("render failed", zap.String("kind", kind), zap.Error(err))
		writeError(w, http.StatusInternalServerError, kind, err.Error())
		return
	}

	filename := sanitizeFilename(req.Filename, req.Target)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// sanitizeFilename strips any path components and forces a .pdf extension.
func sanitizeFilename(name, target string) string {
	if name == "" {
		name = target + ".pdf"
	}
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = target + ".pdf"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
