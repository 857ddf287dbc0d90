package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	applog "recipebox/internal/log"
	"recipebox/internal/repository"
)

// RecipeAPI serves the recipe endpoints from an injected repository.
type RecipeAPI struct {
	recipes *repository.Repository
}

// NewRecipeAPI returns handlers backed by recipes. A nil repository makes
// every recipe endpoint answer 503.
func NewRecipeAPI(recipes *repository.Repository) *RecipeAPI {
	return &RecipeAPI{recipes: recipes}
}

func (a *RecipeAPI) available(w http.ResponseWriter, r *http.Request) bool {
	if a == nil || a.recipes == nil {
		applog.Debug(r.Context(), "recipe request without database", "path", r.URL.Path)
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return false
	}
	return true
}

func recipeIDParam(r *http.Request) (uint, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "recipeID"))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		applog.Debug(r.Context(), "invalid recipe identifier", "identifier", raw)
		return 0, false
	}
	return uint(value), true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
