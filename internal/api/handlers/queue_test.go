package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/colerae/matchbox/internal/api"
	"github.com/colerae/matchbox/internal/config"
	"github.com/colerae/matchbox/internal/repository"
	"github.com/colerae/matchbox/internal/service"
	"github.com/colerae/matchbox/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *repository.Repositories) {
	t.Helper()
	repos := testutil.NewRepositories(t)
	cfg := &config.Config{MMRAlgorithm: "elo", PartyRatingPolicy: "average", TickIntervalMs: 1000}
	services := service.NewServices(repos, cfg)

	srv := httptest.NewServer(api.NewRouter(services, repos, context.Background()))
	t.Cleanup(srv.Close)
	return srv, repos
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestQueueEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	// Register a 1v1 queue
	resp := postJSON(t, srv.URL+"/api/v1/queues", map[string]any{
		"name":      "duel",
		"teamSizes": []int{1, 1},
		"constraints": map[string]any{
			"maxRatingDelta": 500,
			"expansionRate":  10,
		},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate registration conflicts
	resp = postJSON(t, srv.URL+"/api/v1/queues", map[string]any{
		"name":      "duel",
		"teamSizes": []int{1, 1},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Join two players
	playerA, playerB := uuid.New(), uuid.New()
	resp = postJSON(t, srv.URL+"/api/v1/queues/duel/join", map[string]any{"playerId": playerA.String()})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = postJSON(t, srv.URL+"/api/v1/queues/duel/join", map[string]any{"playerId": playerB.String()})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Double join conflicts
	resp = postJSON(t, srv.URL+"/api/v1/queues/duel/join", map[string]any{"playerId": playerA.String()})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Queue info reflects the two entries
	infoResp, err := http.Get(srv.URL + "/api/v1/queues/duel")
	require.NoError(t, err)
	defer infoResp.Body.Close()
	require.Equal(t, http.StatusOK, infoResp.StatusCode)

	var info struct {
		Name string `json:"name"`
		Size int    `json:"size"`
	}
	require.NoError(t, json.NewDecoder(infoResp.Body).Decode(&info))
	assert.Equal(t, "duel", info.Name)
	assert.Equal(t, 2, info.Size)

	// Leave, then leaving again is a 404
	resp = postJSON(t, srv.URL+"/api/v1/queues/duel/leave", map[string]any{"playerId": playerB.String()})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = postJSON(t, srv.URL+"/api/v1/queues/duel/leave", map[string]any{"playerId": playerB.String()})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPartyAndLobbyEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	leaderID := uuid.New()
	resp := postJSON(t, srv.URL+"/api/v1/parties", map[string]any{"leaderId": leaderID.String(), "maxSize": 3})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var party struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&party))

	memberID := uuid.New()
	resp = postJSON(t, fmt.Sprintf("%s/api/v1/parties/%s/members", srv.URL, party.ID), map[string]any{"playerId": memberID.String()})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Party rating aggregates two default beginners
	ratingResp, err := http.Get(fmt.Sprintf("%s/api/v1/parties/%s/rating", srv.URL, party.ID))
	require.NoError(t, err)
	defer ratingResp.Body.Close()
	require.Equal(t, http.StatusOK, ratingResp.StatusCode)

	var rating struct {
		Rating float64 `json:"rating"`
	}
	require.NoError(t, json.NewDecoder(ratingResp.Body).Decode(&rating))
	assert.Equal(t, 1500.0, rating.Rating)

	// Unknown lobby is a 404
	lobbyResp, err := http.Get(srv.URL + "/api/v1/lobbies/" + uuid.New().String())
	require.NoError(t, err)
	defer lobbyResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, lobbyResp.StatusCode)

	// Runner endpoints respond
	statusResp, err := http.Get(srv.URL + "/api/v1/runner/status")
	require.NoError(t, err)
	defer statusResp.Body.Close()
	assert.Equal(t, http.StatusOK, statusResp.StatusCode)
}
