package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/service"
)

type RunnerHandler struct {
	runner *service.Runner
	// runCtx bounds runner loops started over HTTP so server shutdown stops
	// them too.
	runCtx context.Context
}

func NewRunnerHandler(runner *service.Runner, runCtx context.Context) *RunnerHandler {
	return &RunnerHandler{runner: runner, runCtx: runCtx}
}

type RunnerStatusResponse struct {
	Running bool `json:"running"`
}

func (h *RunnerHandler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RunnerStatusResponse{Running: h.runner.IsRunning()})
}

func (h *RunnerHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.runner.Start(h.runCtx); err != nil {
		if errors.Is(err, domain.ErrRunnerAlreadyRunning) {
			http.Error(w, "Runner already running", http.StatusConflict)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RunnerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.runner.Stop()
	w.WriteHeader(http.StatusNoContent)
}

// TickNow runs a single matchmaking pass synchronously. Useful for
// development and for deployments driving ticks externally.
func (h *RunnerHandler) TickNow(w http.ResponseWriter, r *http.Request) {
	h.runner.Tick(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
