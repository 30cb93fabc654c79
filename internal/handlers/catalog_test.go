package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jwebster45206/village-engine/pkg/state"
)

func TestCatalogHandler_Villagers(t *testing.T) {
	handler := NewCatalogHandler(testLogger(), seededMockStorage())

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog/villagers", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	var villagers []state.Villager
	if err := json.NewDecoder(rr.Body).Decode(&villagers); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(villagers) != 2 || villagers[0].ID != "nomvula" {
		t.Errorf("Unexpected villagers: %+v", villagers)
	}
}

func TestCatalogHandler_Items(t *testing.T) {
	handler := NewCatalogHandler(testLogger(), seededMockStorage())

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog/items", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var items []state.ItemStack
	if err := json.NewDecoder(rr.Body).Decode(&items); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(items) != 1 || items[0].Category != state.CategoryMedical {
		t.Errorf("Unexpected items: %+v", items)
	}
}

func TestCatalogHandler_Unknown(t *testing.T) {
	handler := NewCatalogHandler(testLogger(), seededMockStorage())

	req := httptest.NewRequest(http.MethodGet, "/v1/catalog/dragons", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestCatalogHandler_MethodNotAllowed(t *testing.T) {
	handler := NewCatalogHandler(testLogger(), seededMockStorage())

	req := httptest.NewRequest(http.MethodPost, "/v1/catalog/items", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rr.Code)
	}
}
