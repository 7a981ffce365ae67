package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/repository"
	"github.com/colerae/matchbox/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QueueHandler struct {
	queueService *service.QueueService
	partyService *service.PartyService
	ratingRepo   repository.PlayerRatingRepository
}

func NewQueueHandler(queueService *service.QueueService, partyService *service.PartyService, ratingRepo repository.PlayerRatingRepository) *QueueHandler {
	return &QueueHandler{
		queueService: queueService,
		partyService: partyService,
		ratingRepo:   ratingRepo,
	}
}

type RegisterQueueRequest struct {
	Name        string                  `json:"name"`
	TeamSizes   []int                   `json:"teamSizes"`
	Constraints domain.MatchConstraints `json:"constraints"`
}

type QueueResponse struct {
	Name        string                  `json:"name"`
	Format      domain.MatchFormat      `json:"format"`
	Constraints domain.MatchConstraints `json:"constraints"`
	Size        int                     `json:"size"`
}

type JoinQueueRequest struct {
	PlayerID string         `json:"playerId"`
	Roles    []string       `json:"roles"`
	Region   *string        `json:"region"`
	Custom   map[string]any `json:"custom"`
}

type JoinPartyQueueRequest struct {
	PartyID string   `json:"partyId"`
	Roles   []string `json:"roles"`
	Region  *string  `json:"region"`
}

type LeaveQueueRequest struct {
	PlayerID string `json:"playerId"`
}

func (h *QueueHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	config := domain.QueueConfig{
		Name:        req.Name,
		Format:      domain.NewMatchFormat(req.Name, req.TeamSizes),
		Constraints: req.Constraints,
	}
	if err := h.queueService.RegisterQueue(r.Context(), config); err != nil {
		if errors.Is(err, domain.ErrDuplicateQueue) {
			http.Error(w, "Queue already exists", http.StatusConflict)
			return
		}
		if errors.Is(err, domain.ErrInvalidConfiguration) {
			http.Error(w, "Invalid queue configuration", http.StatusBadRequest)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(QueueResponse{
		Name:        config.Name,
		Format:      config.Format,
		Constraints: config.Constraints,
	})
}

func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"queues": h.queueService.QueueNames()})
}

func (h *QueueHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	config, err := h.queueService.QueueConfig(name)
	if err != nil {
		http.Error(w, "Queue not found", http.StatusNotFound)
		return
	}
	size, err := h.queueService.QueueSize(name)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(QueueResponse{
		Name:        config.Name,
		Format:      config.Format,
		Constraints: config.Constraints,
		Size:        size,
	})
}

func (h *QueueHandler) JoinSolo(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req JoinQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	playerID, err := uuid.Parse(req.PlayerID)
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

	metadata := domain.EntryMetadata{Roles: req.Roles, Region: req.Region, Custom: datatypes.JSONMap(req.Custom)}
	entry, err := h.queueService.JoinSolo(r.Context(), name, playerID, *rating, metadata)
	if err != nil {
		writeQueueError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

func (h *QueueHandler) JoinParty(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req JoinPartyQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	partyID, err := uuid.Parse(req.PartyID)
	if err != nil {
		http.Error(w, "Invalid party id", http.StatusBadRequest)
		return
	}

	party, err := h.partyService.Party(partyID)
	if err != nil {
		http.Error(w, "Party not found", http.StatusNotFound)
		return
	}
	partyRating, err := h.partyService.PartyRating(r.Context(), partyID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	metadata := domain.EntryMetadata{Roles: req.Roles, Region: req.Region}
	entry, err := h.queueService.JoinParty(r.Context(), name, partyID, party.MemberIDs, partyRating, metadata)
	if err != nil {
		writeQueueError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

func (h *QueueHandler) Leave(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req LeaveQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		http.Error(w, "Invalid player id", http.StatusBadRequest)
		return
	}

	if err := h.queueService.Leave(r.Context(), name, playerID); err != nil {
		writeQueueError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeQueueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQueueNotFound):
		http.Error(w, "Queue not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrAlreadyInQueue):
		http.Error(w, "Player already in a queue", http.StatusConflict)
	case errors.Is(err, domain.ErrNotInQueue):
		http.Error(w, "Player not in queue", http.StatusNotFound)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
