package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/village-engine/pkg/state"
	"github.com/jwebster45206/village-engine/pkg/store"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func decodeGameState(body []byte, status, wantStatus int) (*state.GameState, error) {
	if status != wantStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", status, string(body))
		}
		return nil, fmt.Errorf("%s", errorResp.Error)
	}

	var gs state.GameState
	if err := json.Unmarshal(body, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse game state response: %w", err)
	}
	return &gs, nil
}

func createGameState(client *http.Client, baseURL string) (*state.GameState, error) {
	resp, err := client.Post(baseURL+"/v1/gamestate", "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return decodeGameState(body, resp.StatusCode, http.StatusCreated)
}

func getGameState(client *http.Client, baseURL string, gameStateID uuid.UUID) (*state.GameState, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/gamestate/%s", baseURL, gameStateID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return decodeGameState(body, resp.StatusCode, http.StatusOK)
}

func resetGameState(client *http.Client, baseURL string, gameStateID uuid.UUID) (*state.GameState, error) {
	resp, err := client.Post(fmt.Sprintf("%s/v1/gamestate/%s/reset", baseURL, gameStateID), "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return decodeGameState(body, resp.StatusCode, http.StatusOK)
}

// sendCommand applies a named store command and returns the resulting
// game state snapshot.
func sendCommand(client *http.Client, baseURL string, gameStateID uuid.UUID, name store.CommandName, args any) (*state.GameState, error) {
	cmd := store.Command{Name: name}
	if args != nil {
		data, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal command args: %w", err)
		}
		cmd.Args = data
	}

	jsonData, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/gamestate/%s/commands", baseURL, gameStateID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return decodeGameState(body, resp.StatusCode, http.StatusOK)
}

// IntentAck is the API's acknowledgement of an enqueued intent
type IntentAck struct {
	RequestID   string    `json:"request_id"`
	GameStateID uuid.UUID `json:"game_state_id"`
	Queued      bool      `json:"queued"`
}

// sendIntent enqueues a scene intent for the worker and returns the
// request ID. The new state shows up on the next refresh.
func sendIntent(client *http.Client, baseURL string, gameStateID uuid.UUID, intent store.Intent) (string, error) {
	jsonData, err := json.Marshal(intent)
	if err != nil {
		return "", fmt.Errorf("failed to marshal intent: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/gamestate/%s/intents", baseURL, gameStateID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusAccepted {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("%s", errorResp.Error)
	}

	var ack IntentAck
	if err := json.Unmarshal(body, &ack); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return ack.RequestID, nil
}

// getItemCatalog fetches the item definitions so gather and use
// commands know about effects and stackability.
func getItemCatalog(client *http.Client, baseURL string) (map[string]state.ItemStack, error) {
	resp, err := client.Get(baseURL + "/v1/catalog/items")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var items []state.ItemStack
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse item catalog: %w", err)
	}

	catalog := make(map[string]state.ItemStack, len(items))
	for _, item := range items {
		catalog[item.ID] = item
	}
	return catalog, nil
}
