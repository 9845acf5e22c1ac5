// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api serves the resolution engine and the compound catalog over
// HTTP to the contribution form.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/carbonlab/chemresolve/internal/catalog"
	"github.com/carbonlab/chemresolve/internal/resolve"
	"github.com/carbonlab/chemresolve/internal/source"
	"github.com/carbonlab/chemresolve/pkg/types"
)

// resolveTimeout bounds one whole resolution pass, across every adapter
// call in the cascade.
const resolveTimeout = 60 * time.Second

// Resolver runs one resolution pass. Satisfied by *resolve.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, rec *types.Compound, trigger resolve.Trigger) (resolve.Outcome, error)
}

// Service provides the HTTP surface: resolution, catalog search, and
// compound retrieval. The embedded mux lets it act as an http.Handler.
type Service struct {
	*http.ServeMux

	resolver Resolver
	store    *catalog.Store
	log      *zap.Logger
}

// NewService wires the routes. A nil logger is replaced with a no-op logger.
func NewService(resolver Resolver, store *catalog.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		ServeMux: http.NewServeMux(),
		resolver: resolver,
		store:    store,
		log:      log,
	}

	s.HandleFunc("POST /resolve", s.handleResolve)
	s.HandleFunc("GET /compounds", s.handleSearch)
	s.HandleFunc("GET /compounds/{id}", s.handleGet)
	s.HandleFunc("GET /compounds/{id}/experiments", s.handleExperiments)
	s.HandleFunc("GET /healthz", s.handleHealth)
	s.Handle("GET /metrics", promhttp.Handler())
	return s
}

// resolveRequest is the POST /resolve body.
type resolveRequest struct {
	Record  types.Compound `json:"record"`
	Trigger string         `json:"trigger,omitempty"`
}

func (s *Service) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	trigger := resolve.Trigger(req.Trigger)
	if trigger == "" {
		trigger = resolve.TriggerSearch
	}

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	out, err := s.resolver.Resolve(ctx, &req.Record, trigger)

	var verr *source.ValidationError
	switch {
	case errors.As(err, &verr):
		resolutionsTotal.WithLabelValues("validation-error").Inc()
		writeError(w, http.StatusUnprocessableEntity, verr.Msg)
		return
	case err != nil:
		s.log.Warn("resolution pass aborted", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "resolution failed")
		return
	}

	resolutionsTotal.WithLabelValues(string(out.Status)).Inc()
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	matches, err := s.store.Query(r.Context(), query, 0)
	if err != nil {
		s.log.Warn("catalog query failed", zap.String("query", query), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "catalog query failed")
		return
	}

	results := make([]compoundResponse, 0, len(matches))
	for _, m := range matches {
		results = append(results, compoundResponse{ID: m.ID, Compound: m.Compound})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// compoundResponse pairs a catalog ID with its record.
type compoundResponse struct {
	ID       string         `json:"id"`
	Compound types.Compound `json:"compound"`
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, err := s.store.GetCompound(r.Context(), id)
	if source.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "compound not found")
		return
	}
	if err != nil {
		s.log.Warn("compound load failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "compound load failed")
		return
	}
	writeJSON(w, http.StatusOK, compoundResponse{ID: id, Compound: *c})
}

func (s *Service) handleExperiments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.GetCompound(r.Context(), id); source.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "compound not found")
		return
	}

	exps, err := s.store.ListExperiments(r.Context(), id)
	if err != nil {
		s.log.Warn("experiment list failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "experiment list failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"experiments": exps})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON packages a JSON response with a CORS header; the contribution
// form is a browser client on another origin.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
