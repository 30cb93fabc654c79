package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/village-engine/internal/queue"
	"github.com/jwebster45206/village-engine/internal/storage"
	"github.com/jwebster45206/village-engine/pkg/store"
)

// IntentHandler accepts scene intents and enqueues them for the
// worker. Intents are not applied inline: the worker drains the queue
// in order, so a burst of scene events for one session stays ordered
// even with multiple api replicas.
type IntentHandler struct {
	storage storage.Storage
	queue   *queue.IntentQueue
	logger  *slog.Logger
}

func NewIntentHandler(logger *slog.Logger, storage storage.Storage, intentQueue *queue.IntentQueue) *IntentHandler {
	return &IntentHandler{
		logger:  logger,
		storage: storage,
		queue:   intentQueue,
	}
}

// IntentResponse acknowledges an enqueued intent
type IntentResponse struct {
	RequestID   string    `json:"request_id"`
	GameStateID uuid.UUID `json:"game_state_id"`
	Queued      bool      `json:"queued"`
}

// ServeHTTP handles POST /v1/gamestate/{id}/intents
func (h *IntentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for intents endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1/gamestate/")
	idStr := strings.TrimSuffix(path, "/intents")
	gameStateID, err := uuid.Parse(strings.Trim(idStr, "/"))
	if err != nil {
		h.logger.Warn("Invalid game state ID", "id", idStr, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game state ID format")
		return
	}

	var intent store.Intent
	if err := json.NewDecoder(r.Body).Decode(&intent); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if intent.Kind == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Intent kind is required")
		return
	}

	// Reject intents for sessions that don't exist, so typos don't
	// pile up in the queue.
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

	req := &queue.Request{
		GameStateID: gameStateID,
		Intent:      intent,
	}
	if err := h.queue.Enqueue(r.Context(), req); err != nil {
		h.logger.Error("Failed to enqueue intent", "error", err, "id", gameStateID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to enqueue intent")
		return
	}

	h.logger.Debug("Intent enqueued", "kind", intent.Kind, "request_id", req.RequestID, "id", gameStateID.String())
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(IntentResponse{
		RequestID:   req.RequestID,
		GameStateID: gameStateID,
		Queued:      true,
	}); err != nil {
		h.logger.Error("Failed to encode intent response", "error", err)
	}
}
