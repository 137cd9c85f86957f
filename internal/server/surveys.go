package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"riverwalk/internal/store"
	"riverwalk/internal/survey"
)

func (s *Server) handleListWalks(w http.ResponseWriter, r *http.Request) {
	walks, err := s.store.ListWalks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if walks == nil {
		walks = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"walks": walks})
}

func (s *Server) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	walk := r.PathValue("walk")
	sv, err := s.store.Survey(r.Context(), walk)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "no survey for walk "+walk)
			return
		}
		writeError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sv)
}

func (s *Server) handlePutSurvey(w http.ResponseWriter, r *http.Request) {
	walk := r.PathValue("walk")

	var sv survey.Survey
	if err := json.NewDecoder(r.Body).Decode(&sv); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body: "+err.Error())
		return
	}
	sv.Walk = walk
	if err := sv.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err := s.store.Save(r.Context(), sv); err != nil {
		writeError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"walk": walk})
}

func (s *Server) handleSurveyCSV(w http.ResponseWriter, r *http.Request) {
	walk := r.PathValue("walk")
	sv, err := s.store.Survey(r.Context(), walk)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "no survey for walk "+walk)
			return
		}
		writeError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", walk+".csv"))
	if err := survey.WriteCSV(w, sv); err != nil {
		// Headers are gone; all we can do is log-and-drop.
		s.log.Warn("csv export failed mid-stream")
	}
}
