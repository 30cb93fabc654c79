package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/village-engine/internal/storage"
	"github.com/jwebster45206/village-engine/pkg/store"
)

// CommandHandler applies named store commands to a session.
// Each request loads the gamestate, runs the command through the store
// so the usual clamping and persistence apply, and returns the new
// snapshot.
type CommandHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewCommandHandler(logger *slog.Logger, storage storage.Storage) *CommandHandler {
	return &CommandHandler{
		logger:  logger,
		storage: storage,
	}
}

// ServeHTTP handles POST /v1/gamestate/{id}/commands
func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for commands endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1/gamestate/")
	idStr := strings.TrimSuffix(path, "/commands")
	gameStateID, err := uuid.Parse(strings.Trim(idStr, "/"))
	if err != nil {
		h.logger.Warn("Invalid game state ID", "id", idStr, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game state ID format")
		return
	}

	var cmd store.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if cmd.Name == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Command name is required")
		return
	}

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

	s := store.New(gs, h.storage, h.logger)
	if err := s.Dispatch(r.Context(), cmd); err != nil {
		h.logger.Warn("Command rejected", "command", cmd.Name, "error", err, "id", gameStateID.String())
		writeError(w, h.logger, http.StatusBadRequest, "Command rejected: "+err.Error())
		return
	}

	h.logger.Debug("Command applied", "command", cmd.Name, "id", gameStateID.String())
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(s.Snapshot()); err != nil {
		h.logger.Error("Failed to encode game state response", "error", err)
	}
}
