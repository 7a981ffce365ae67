package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type PlayerHandler struct {
	ratingRepo repository.PlayerRatingRepository
}

func NewPlayerHandler(ratingRepo repository.PlayerRatingRepository) *PlayerHandler {
	return &PlayerHandler{ratingRepo: ratingRepo}
}

type PlayerRatingResponse struct {
	PlayerID             string  `json:"playerId"`
	Rating               float64 `json:"rating"`
	Deviation            float64 `json:"deviation"`
	Volatility           float64 `json:"volatility"`
	ConservativeEstimate float64 `json:"conservativeEstimate"`
}

func (h *PlayerHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid player id", http.StatusBadRequest)
		return
	}

	rating, err := h.ratingRepo.Load(r.Context(), playerID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if rating == nil {
		beginner := domain.DefaultBeginnerRating()
		rating = &beginner
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PlayerRatingResponse{
		PlayerID:             playerID.String(),
		Rating:               rating.Rating,
		Deviation:            rating.Deviation,
		Volatility:           rating.Volatility,
		ConservativeEstimate: rating.ConservativeEstimate(),
	})
}
