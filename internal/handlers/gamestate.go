package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/village-engine/internal/storage"
	"github.com/jwebster45206/village-engine/pkg/state"
	"github.com/jwebster45206/village-engine/pkg/store"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type GameStateHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewGameStateHandler(logger *slog.Logger, storage storage.Storage) *GameStateHandler {
	return &GameStateHandler{
		logger:  logger,
		storage: storage,
	}
}

// writeError writes a JSON error response with the given status code
func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}

// parseSessionPath splits a path like "/{uuid}" or "/{uuid}/reset" into
// the session id and trailing action.
func parseSessionPath(path string) (uuid.UUID, string, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, "", err
	}
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}
	return id, action, nil
}

// ServeHTTP handles HTTP requests for game state operations
// Routes:
// POST /v1/gamestate              - Create new game state
// GET /v1/gamestate/{id}          - Read game state by ID
// DELETE /v1/gamestate/{id}       - Delete game state by ID
// POST /v1/gamestate/{id}/reset   - Reset a session to defaults
func (h *GameStateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/gamestate")
	var gameStateID uuid.UUID
	var action string
	var err error

	if path != "" && path != "/" {
		gameStateID, action, err = parseSessionPath(path)
		if err != nil {
			h.logger.Warn("Invalid game state ID", "path", path, "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid game state ID format")
			return
		}
	}

	switch {
	case r.Method == http.MethodPost && gameStateID == uuid.Nil:
		h.handleCreate(w, r)

	case r.Method == http.MethodPost && action == "reset":
		h.handleReset(w, r, gameStateID)

	case r.Method == http.MethodGet:
		if gameStateID == uuid.Nil {
			h.logger.Warn("GET request without game state ID")
			writeError(w, h.logger, http.StatusBadRequest, "Game state ID is required for GET requests")
			return
		}
		h.handleRead(w, r, gameStateID)

	case r.Method == http.MethodDelete:
		if gameStateID == uuid.Nil {
			h.logger.Warn("DELETE request without game state ID")
			writeError(w, h.logger, http.StatusBadRequest, "Game state ID is required for DELETE requests")
			return
		}
		h.handleDelete(w, r, gameStateID)

	default:
		h.logger.Warn("Method not allowed for game state endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST, GET, DELETE")
	}
}

func (h *GameStateHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Creating new game state")

	gs := state.NewGameState()

	// Seed the villager roster. A missing seed file is fatal for
	// creation: a village with no villagers is not playable.
	villagers, err := h.storage.GetVillagerSeed(r.Context())
	if err != nil {
		h.logger.Error("Failed to load villager seed", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load villager seed data")
		return
	}
	gs.SetVillagers(villagers)

	// Seed the quest board. Quests are optional content.
	quests, err := h.storage.GetQuestCatalog(r.Context())
	if err != nil {
		h.logger.Warn("Failed to load quest catalog, starting without quests", "error", err)
	} else {
		gs.SetAvailableQuests(quests)
	}

	if err := h.storage.SaveGameState(r.Context(), gs.ID, gs); err != nil {
		h.logger.Error("Failed to save new game state", "error", err, "id", gs.ID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create game state")
		return
	}

	h.logger.Debug("Game state created successfully", "id", gs.ID.String())
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(gs); err != nil {
		h.logger.Error("Failed to encode game state response", "error", err)
	}
}

func (h *GameStateHandler) handleRead(w http.ResponseWriter, r *http.Request, gameStateID uuid.UUID) {
	gs, err := h.storage.LoadGameState(r.Context(), gameStateID)
	if err != nil {
		h.logger.Error("Failed to load game state", "error", err, "id", gameStateID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load game state")
		return
	}

	if gs == nil {
		h.logger.Warn("Game state not found", "id", gameStateID.String())
		writeError(w, h.logger, http.StatusNotFound, "Game state not found")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(gs); err != nil {
		h.logger.Error("Failed to encode game state response", "error", err)
	}
}

// handleReset restores a session to its defaults while keeping the
// villager roster, matching the in-game "new game" flow.
func (h *GameStateHandler) handleReset(w http.ResponseWriter, r *http.Request, gameStateID uuid.UUID) {
	gs, err := h.storage.LoadGameState(r.Context(), gameStateID)
	if err != nil {
		h.logger.Error("Failed to load game state for reset", "error", err, "id", gameStateID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load game state")
		return
	}
	if gs == nil {
		h.logger.Warn("Game state not found for reset", "id", gameStateID.String())
		writeError(w, h.logger, http.StatusNotFound, "Game state not found")
		return
	}

	s := store.New(gs, h.storage, h.logger)
	if err := s.Dispatch(r.Context(), store.Command{Name: store.CmdResetGame}); err != nil {
		h.logger.Error("Failed to reset game state", "error", err, "id", gameStateID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to reset game state")
		return
	}

	h.logger.Info("Game state reset", "id", gameStateID.String())
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(s.Snapshot()); err != nil {
		h.logger.Error("Failed to encode game state response", "error", err)
	}
}

func (h *GameStateHandler) handleDelete(w http.ResponseWriter, r *http.Request, gameStateID uuid.UUID) {
	if err := h.storage.DeleteGameState(r.Context(), gameStateID); err != nil {
		h.logger.Error("Failed to delete game state", "error", err, "id", gameStateID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete game state")
		return
	}
	h.logger.Debug("Game state deleted successfully", "id", gameStateID.String())
	w.WriteHeader(http.StatusNoContent)
}
