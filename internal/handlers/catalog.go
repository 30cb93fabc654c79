package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/village-engine/internal/storage"
)

// CatalogHandler serves the static seed catalogues: the villager
// roster, item definitions, quest board content and crisis templates.
type CatalogHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewCatalogHandler(logger *slog.Logger, storage storage.Storage) *CatalogHandler {
	return &CatalogHandler{
		logger:  logger,
		storage: storage,
	}
}

// ServeHTTP handles GET /v1/catalog/{villagers|items|quests|crises}
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for catalog endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/catalog"), "/")

	var payload any
	var err error
	switch name {
	case "villagers":
		payload, err = h.storage.GetVillagerSeed(r.Context())
	case "items":
		payload, err = h.storage.GetItemCatalog(r.Context())
	case "quests":
		payload, err = h.storage.GetQuestCatalog(r.Context())
	case "crises":
		payload, err = h.storage.GetCrisisCatalog(r.Context())
	default:
		h.logger.Warn("Unknown catalog requested", "catalog", name)
		writeError(w, h.logger, http.StatusNotFound, "Unknown catalog: "+name)
		return
	}

	if err != nil {
		h.logger.Error("Failed to load catalog", "catalog", name, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load catalog: "+name)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode catalog response", "error", err, "catalog", name)
	}
}
