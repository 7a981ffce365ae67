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

type PartyHandler struct {
	partyService *service.PartyService
}

func NewPartyHandler(partyService *service.PartyService) *PartyHandler {
	return &PartyHandler{partyService: partyService}
}

type CreatePartyRequest struct {
	LeaderID string `json:"leaderId"`
	MaxSize  int    `json:"maxSize"`
}

type AddMemberRequest struct {
	PlayerID string `json:"playerId"`
}

func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	leaderID, err := uuid.Parse(req.LeaderID)
	if err != nil {
		http.Error(w, "Invalid leader id", http.StatusBadRequest)
		return
	}

	party, err := h.partyService.Create(r.Context(), leaderID, req.MaxSize)
	if err != nil {
		writePartyError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(party)
}

func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	partyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid party id", http.StatusBadRequest)
		return
	}

	party, err := h.partyService.Party(partyID)
	if err != nil {
		writePartyError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(party)
}

func (h *PartyHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	partyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid party id", http.StatusBadRequest)
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		http.Error(w, "Invalid player id", http.StatusBadRequest)
		return
	}

	if err := h.partyService.AddMember(r.Context(), partyID, playerID); err != nil {
		writePartyError(w, err)
		return
	}

	party, err := h.partyService.Party(partyID)
	if err != nil {
		writePartyError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(party)
}

func (h *PartyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	partyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid party id", http.StatusBadRequest)
		return
	}
	playerID, err := uuid.Parse(chi.URLParam(r, "playerId"))
	if err != nil {
		http.Error(w, "Invalid player id", http.StatusBadRequest)
		return
	}

	if err := h.partyService.RemoveMember(r.Context(), partyID, playerID); err != nil {
		writePartyError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PartyHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	partyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid party id", http.StatusBadRequest)
		return
	}

	rating, err := h.partyService.PartyRating(r.Context(), partyID)
	if err != nil {
		writePartyError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rating)
}

func writePartyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPartyNotFound):
		http.Error(w, "Party not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrPartyFull):
		http.Error(w, "Party is full", http.StatusConflict)
	case errors.Is(err, domain.ErrAlreadyInParty):
		http.Error(w, "Player already in a party", http.StatusConflict)
	case errors.Is(err, domain.ErrAlreadyPartyMember):
		http.Error(w, "Player already in this party", http.StatusConflict)
	case errors.Is(err, domain.ErrNotPartyMember):
		http.Error(w, "Player not in party", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidConfiguration):
		http.Error(w, "Invalid party configuration", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
