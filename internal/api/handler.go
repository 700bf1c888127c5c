package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/guimove/loadoutfit/internal/catalog"
	"github.com/guimove/loadoutfit/internal/optimizer"
	"github.com/guimove/loadoutfit/internal/orchestrator"
	"github.com/guimove/loadoutfit/internal/report"
)

const maxBodyBytes = 32 << 20

// OptimizeRequest is the body of POST /api/v1/optimize. Every field is
// optional; omitted fields fall back to the server configuration and its
// catalog.
type OptimizeRequest struct {
	Catalog *catalog.Catalog `json:"catalog,omitempty"`

	// Prices accept k/m/b shorthands ("15m", "1.2b").
	MinPrice string             `json:"min_price,omitempty"`
	MaxPrice string             `json:"max_price,omitempty"`
	Capacity map[string]float64 `json:"capacity,omitempty"`

	TopN          int      `json:"top_n,omitempty"`
	Model         string   `json:"model,omitempty"`
	Uptime        *float64 `json:"uptime,omitempty"`
	DamageRig     string   `json:"damage_rig,omitempty"`
	RateRig       string   `json:"rof_rig,omitempty"`
	FrontierScope string   `json:"frontier_scope,omitempty"`
}

// OptimizeHandler serves optimization requests with bounded concurrency.
type OptimizeHandler struct {
	orch   *orchestrator.Orchestrator
	sem    chan struct{}
	logger zerolog.Logger
}

// NewOptimizeHandler creates a handler running at most maxConcurrent
// optimizations at once. orch.Source may be nil if every request carries
// its own catalog.
func NewOptimizeHandler(orch *orchestrator.Orchestrator, maxConcurrent int, logger zerolog.Logger) *OptimizeHandler {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &OptimizeHandler{
		orch:   orch,
		sem:    make(chan struct{}, maxConcurrent),
		logger: logger,
	}
}

func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	select {
	case h.sem <- struct{}{}:
		defer func() { <-h.sem }()
	default:
		writeError(w, http.StatusServiceUnavailable, "optimizer busy, retry later")
		return
	}

	var req OptimizeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	orch, q, err := h.prepare(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cat := req.Catalog
	if cat == nil {
		if orch.Source == nil {
			writeError(w, http.StatusBadRequest, "no catalog in request and none configured")
			return
		}
		if cat, err = orch.Source.Load(r.Context()); err != nil {
			h.logger.Error().Err(err).Msg("loading server catalog")
			writeError(w, http.StatusInternalServerError, "loading catalog: "+err.Error())
			return
		}
	}

	res, err := orch.Optimize(r.Context(), cat, q)
	if err != nil {
		h.writeOptimizeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := report.NewReporter("json", w).Report(r.Context(), res.Recommendations, orchestrator.Meta(cat, q, res)); err != nil {
		h.logger.Error().Err(err).Msg("writing response")
	}
}

// prepare applies the request overrides to a copy of the orchestrator.
func (h *OptimizeHandler) prepare(req OptimizeRequest) (*orchestrator.Orchestrator, orchestrator.Query, error) {
	q := orchestrator.OpenQuery()
	q.Capacity = req.Capacity

	if req.MinPrice != "" {
		v, err := catalog.ParsePrice(req.MinPrice)
		if err != nil {
			return nil, q, err
		}
		q.MinPrice = v
	}
	if req.MaxPrice != "" {
		v, err := catalog.ParsePrice(req.MaxPrice)
		if err != nil {
			return nil, q, err
		}
		q.MaxPrice = v
	}

	orch := *h.orch
	orch.Progress = nil
	cfg := orch.Config
	if req.TopN > 0 {
		cfg.Optimizer.TopN = req.TopN
	}
	if req.Model != "" {
		cfg.Benefit.Model = req.Model
	}
	if req.Uptime != nil {
		cfg.Benefit.Uptime = *req.Uptime
	}
	if req.DamageRig != "" {
		cfg.Benefit.DamageRig = req.DamageRig
	}
	if req.RateRig != "" {
		cfg.Benefit.RateRig = req.RateRig
	}
	if req.FrontierScope != "" {
		cfg.Optimizer.FrontierScope = req.FrontierScope
	}
	if err := cfg.Validate(); err != nil {
		return nil, q, err
	}
	orch.Config = cfg
	return &orch, q, nil
}

func (h *OptimizeHandler) writeOptimizeError(w http.ResponseWriter, err error) {
	var overflow *optimizer.OverflowError
	switch {
	case errors.As(err, &overflow):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":     err.Error(),
			"estimated": overflow.Estimated,
			"limit":     overflow.Limit,
		})
	case errors.Is(err, optimizer.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		// the timeout middleware answers 504
		h.logger.Warn().Err(err).Msg("optimization timed out")
	case errors.Is(err, context.Canceled):
		h.logger.Debug().Err(err).Msg("client went away")
	default:
		h.logger.Error().Err(err).Msg("optimization failed")
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("optimization failed: %v", err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
