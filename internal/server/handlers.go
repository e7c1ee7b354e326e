package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// response is the body of a suggestion request
type response struct {
	Results []any  `json:"results"`
	Query   string `json:"query"`
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "source")
	src, ok := s.store.Source(name)
	if !ok {
		s.respondError(w, http.StatusNotFound, "unknown source")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondJSON(w, http.StatusOK, response{Results: []any{}, Query: query})
		return
	}

	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-r.Context().Done():
			return
		}
	}

	results := src.Search(query)
	s.logger.Debug("autocomplete request",
		zap.String("source", name),
		zap.String("query", query),
		zap.Int("results", len(results)))
	s.respondJSON(w, http.StatusOK, response{Results: results, Query: query})
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string][]string{"sources": s.store.Names()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
