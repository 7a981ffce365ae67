package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type Team struct {
	TeamID    int      `json:"teamId"`
	PlayerIDs []string `json:"playerIds"`
}

type Lobby struct {
	ID        string   `json:"id"`
	MatchID   string   `json:"matchId"`
	State     string   `json:"state"`
	Teams     []Team   `json:"teams"`
	PlayerIDs []string `json:"playerIds"`
}

type QueueInfo struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// RegisterQueue creates a queue with a symmetric team format.
func (c *APIClient) RegisterQueue(name string, teamSize int, maxDelta float64) error {
	body := map[string]interface{}{
		"name":      name,
		"teamSizes": []int{teamSize, teamSize},
		"constraints": map[string]interface{}{
			"maxRatingDelta": maxDelta,
			"expansionRate":  10,
		},
	}

	resp, err := c.post("/queues", body)
	if err != nil {
		return fmt.Errorf("register queue request failed: %w", err)
	}
	defer resp.Body.Close()

	// 409 means the queue already exists, which is fine for repeated runs.
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		return apiError("register queue", resp)
	}
	return nil
}

// JoinSolo puts a fresh fake player into the queue and returns their id.
func (c *APIClient) JoinSolo(queueName string) (string, error) {
	playerID := uuid.New().String()
	body := map[string]interface{}{
		"playerId": playerID,
	}

	resp, err := c.post(fmt.Sprintf("/queues/%s/join", queueName), body)
	if err != nil {
		return "", fmt.Errorf("join request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", apiError("join", resp)
	}
	return playerID, nil
}

// QueueSize returns the current queue depth.
func (c *APIClient) QueueSize(queueName string) (int, error) {
	resp, err := c.get(fmt.Sprintf("/queues/%s", queueName))
	if err != nil {
		return 0, fmt.Errorf("queue info request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, apiError("queue info", resp)
	}

	var info QueueInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return info.Size, nil
}

// Tick triggers one synchronous matchmaking pass.
func (c *APIClient) Tick() error {
	resp, err := c.post("/runner/tick", nil)
	if err != nil {
		return fmt.Errorf("tick request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError("tick", resp)
	}
	return nil
}

// GetLobby fetches a lobby by id.
func (c *APIClient) GetLobby(lobbyID string) (*Lobby, error) {
	resp, err := c.get(fmt.Sprintf("/lobbies/%s", lobbyID))
	if err != nil {
		return nil, fmt.Errorf("lobby request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("get lobby", resp)
	}

	var lobby Lobby
	if err := json.NewDecoder(resp.Body).Decode(&lobby); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &lobby, nil
}

// MarkReady readies one player in a lobby.
func (c *APIClient) MarkReady(lobbyID, playerID string) error {
	body := map[string]string{"playerId": playerID}

	resp, err := c.post(fmt.Sprintf("/lobbies/%s/ready", lobbyID), body)
	if err != nil {
		return fmt.Errorf("ready request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError("ready", resp)
	}
	return nil
}

// Dispatch sends a ready lobby to a fake game server.
func (c *APIClient) Dispatch(lobbyID string) error {
	body := map[string]string{"serverId": "sim-server-1"}

	resp, err := c.post(fmt.Sprintf("/lobbies/%s/dispatch", lobbyID), body)
	if err != nil {
		return fmt.Errorf("dispatch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError("dispatch", resp)
	}
	return nil
}

// ReportResults reports a win for one team and a loss for the rest.
func (c *APIClient) ReportResults(lobby *Lobby, winningTeam int) error {
	outcomes := make(map[string]string)
	for _, team := range lobby.Teams {
		outcome := "loss"
		if team.TeamID == winningTeam {
			outcome = "win"
		}
		for _, playerID := range team.PlayerIDs {
			outcomes[playerID] = outcome
		}
	}
	body := map[string]interface{}{"outcomes": outcomes}

	resp, err := c.post(fmt.Sprintf("/lobbies/%s/results", lobby.ID), body)
	if err != nil {
		return fmt.Errorf("results request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError("results", resp)
	}
	return nil
}

func (c *APIClient) post(path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

func (c *APIClient) get(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

func apiError(op string, resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("%s failed (status %d): %s", op, resp.StatusCode, string(bodyBytes))
}
