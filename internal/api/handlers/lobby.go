package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type LobbyHandler struct {
	lobbyService *service.LobbyService
}

func NewLobbyHandler(lobbyService *service.LobbyService) *LobbyHandler {
	return &LobbyHandler{lobbyService: lobbyService}
}

type MarkReadyRequest struct {
	PlayerID string `json:"playerId"`
}

type DispatchRequest struct {
	ServerID string `json:"serverId"`
}

type ReportResultsRequest struct {
	// Outcomes maps player id to "win", "loss" or "draw".
	Outcomes map[string]domain.Outcome `json:"outcomes"`
}

func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	lobbyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid lobby id", http.StatusBadRequest)
		return
	}

	lobby, err := h.lobbyService.Lobby(r.Context(), lobbyID)
	if err != nil {
		writeLobbyError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lobby)
}

func (h *LobbyHandler) BeginReadyCheck(w http.ResponseWriter, r *http.Request) {
	lobbyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid lobby id", http.StatusBadRequest)
		return
	}

	lobby, err := h.lobbyService.BeginReadyCheck(r.Context(), lobbyID)
	if err != nil {
		writeLobbyError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lobby)
}

func (h *LobbyHandler) MarkReady(w http.ResponseWriter, r *http.Request) {
	lobbyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid lobby id", http.StatusBadRequest)
		return
	}

	var req MarkReadyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		http.Error(w, "Invalid player id", http.StatusBadRequest)
		return
	}

	lobby, err := h.lobbyService.MarkReady(r.Context(), lobbyID, playerID)
	if err != nil {
		writeLobbyError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lobby)
}

func (h *LobbyHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	lobbyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid lobby id", http.StatusBadRequest)
		return
	}

	var req DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ServerID == "" {
		http.Error(w, "serverId is required", http.StatusBadRequest)
		return
	}

	lobby, err := h.lobbyService.Dispatch(r.Context(), lobbyID, req.ServerID)
	if err != nil {
		writeLobbyError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lobby)
}

func (h *LobbyHandler) ReportResults(w http.ResponseWriter, r *http.Request) {
	lobbyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid lobby id", http.StatusBadRequest)
		return
	}

	var req ReportResultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	outcomes := make(map[uuid.UUID]domain.Outcome, len(req.Outcomes))
	for rawID, outcome := range req.Outcomes {
		playerID, err := uuid.Parse(rawID)
		if err != nil {
			http.Error(w, "Invalid player id in outcomes", http.StatusBadRequest)
			return
		}
		if !outcome.IsValid() {
			http.Error(w, "Invalid outcome in outcomes", http.StatusBadRequest)
			return
		}
		outcomes[playerID] = outcome
	}

	if err := h.lobbyService.UpdateRatings(r.Context(), lobbyID, outcomes); err != nil {
		writeLobbyError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *LobbyHandler) Close(w http.ResponseWriter, r *http.Request) {
	lobbyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid lobby id", http.StatusBadRequest)
		return
	}

	if err := h.lobbyService.Close(r.Context(), lobbyID); err != nil {
		writeLobbyError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeLobbyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrLobbyNotFound):
		http.Error(w, "Lobby not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrPlayerNotInLobby):
		http.Error(w, "Player not in lobby", http.StatusNotFound)
	case errors.Is(err, domain.ErrIllegalStateTransition):
		http.Error(w, "Illegal lobby state transition", http.StatusConflict)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
