package api

import (
	"context"
	"net/http"

	"github.com/colerae/matchbox/internal/api/handlers"
	"github.com/colerae/matchbox/internal/api/middleware"
	"github.com/colerae/matchbox/internal/repository"
	"github.com/colerae/matchbox/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(services *service.Services, repos *repository.Repositories, runCtx context.Context) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Initialize handlers
	queueHandler := handlers.NewQueueHandler(services.Queue, services.Party, repos.PlayerRating)
	partyHandler := handlers.NewPartyHandler(services.Party)
	lobbyHandler := handlers.NewLobbyHandler(services.Lobby)
	playerHandler := handlers.NewPlayerHandler(repos.PlayerRating)
	runnerHandler := handlers.NewRunnerHandler(services.Runner, runCtx)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/queues", func(r chi.Router) {
			r.Get("/", queueHandler.List)
			r.Post("/", queueHandler.Register)
			r.Get("/{name}", queueHandler.Get)
			r.Post("/{name}/join", queueHandler.JoinSolo)
			r.Post("/{name}/join-party", queueHandler.JoinParty)
			r.Post("/{name}/leave", queueHandler.Leave)
		})

		r.Route("/parties", func(r chi.Router) {
			r.Post("/", partyHandler.Create)
			r.Get("/{id}", partyHandler.Get)
			r.Post("/{id}/members", partyHandler.AddMember)
			r.Delete("/{id}/members/{playerId}", partyHandler.RemoveMember)
			r.Get("/{id}/rating", partyHandler.GetRating)
		})

		r.Route("/lobbies", func(r chi.Router) {
			r.Get("/{id}", lobbyHandler.Get)
			r.Post("/{id}/ready-check", lobbyHandler.BeginReadyCheck)
			r.Post("/{id}/ready", lobbyHandler.MarkReady)
			r.Post("/{id}/dispatch", lobbyHandler.Dispatch)
			r.Post("/{id}/results", lobbyHandler.ReportResults)
			r.Post("/{id}/close", lobbyHandler.Close)
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/{id}/rating", playerHandler.GetRating)
		})

		r.Route("/runner", func(r chi.Router) {
			r.Get("/status", runnerHandler.Status)
			r.Post("/start", runnerHandler.Start)
			r.Post("/stop", runnerHandler.Stop)
			r.Post("/tick", runnerHandler.TickNow)
		})
	})

	return r
}
