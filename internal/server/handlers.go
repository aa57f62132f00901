package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/everstacklabs/tokencalc/internal/catalog"
	"github.com/everstacklabs/tokencalc/internal/cost"
	"github.com/everstacklabs/tokencalc/internal/estimator"
	"github.com/everstacklabs/tokencalc/internal/quote"
	"github.com/everstacklabs/tokencalc/internal/ranking"
)

type providerInfo struct {
	catalog.Provider
	Models    int  `json:"models"`
	Estimator bool `json:"estimator"`
}

type estimateRequest struct {
	Provider catalog.ProviderKey `json:"provider"`
	Text     string              `json:"text"`
}

type estimateResponse struct {
	Provider catalog.ProviderKey `json:"provider"`
	Tokens   int                 `json:"tokens"`
	Fallback bool                `json:"fallback,omitempty"`
}

type compareRequest struct {
	InputText         string `json:"input_text"`
	OutputTokens      int    `json:"output_tokens"`
	IncludeDeprecated bool   `json:"include_deprecated"`
	SortByCost        bool   `json:"sort_by_cost"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":            "tokencalc",
		"status":          "ok",
		"catalog_version": s.svc.Catalog().Version(),
		"started_at":      s.startedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	cat := s.svc.Catalog()
	providers := cat.Providers()
	out := make([]providerInfo, 0, len(providers))
	for _, p := range providers {
		_, ok := estimator.Lookup(p.Name)
		out = append(out, providerInfo{
			Provider:  p,
			Models:    len(cat.ListModels(p.Name)),
			Estimator: ok,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"providers": out})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	provider := catalog.ProviderKey(r.PathValue("provider"))
	cat := s.svc.Catalog()
	if !cat.HasProvider(provider) {
		s.writeErr(w, fmt.Errorf("unknown provider %q: %w", provider, catalog.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"provider": provider,
		"models":   cat.ListModels(provider),
	})
}

func (s *Server) handleCheapest(w http.ResponseWriter, r *http.Request) {
	n := ranking.DefaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_argument", fmt.Sprintf("n must be an integer, got %q", raw))
			return
		}
		n = v
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"models": ranking.MostCostEffective(s.svc.Catalog(), n),
	})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	_, ok := estimator.Lookup(req.Provider)
	writeJSON(w, http.StatusOK, estimateResponse{
		Provider: req.Provider,
		Tokens:   estimator.Estimate(req.Text, req.Provider),
		Fallback: !ok,
	})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quote.Request
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.svc.Quote(req)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !decodeBody(w, r, &req) {
		return
	}
	results, err := s.svc.Compare(req.InputText, req.OutputTokens, quote.CompareOptions{
		IncludeDeprecated: req.IncludeDeprecated,
		SortByCost:        req.SortByCost,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

// writeErr maps service errors onto HTTP statuses.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, cost.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"type": kind, "message": message},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
