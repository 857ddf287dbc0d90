package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	applog "recipebox/internal/log"
	"recipebox/internal/metrics"
	"recipebox/internal/repository"
	"recipebox/internal/validation"
	"recipebox/internal/views/pages"
)

const (
	searchModeAll  = "all"
	searchModeBest = "best"
)

type searchQuery struct {
	Ingredients []string `json:"ingredient" validate:"min=1"`
	Mode        string   `json:"mode" validate:"oneof=all best"`
	Portions    int      `json:"portions" validate:"gte=0"`
}

type searchResponse struct {
	Mode        string   `json:"mode"`
	Ingredients []string `json:"ingredients"`
	Portions    int      `json:"portions,omitempty"`
	Results     any      `json:"results"`
}

var errPortionsNeedBestMode = errors.New("portions can only be used with mode=best")

func parseSearchQuery(r *http.Request) (searchQuery, error) {
	values := r.URL.Query()

	var names []string
	seen := map[string]struct{}{}
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, name := range values["ingredient"] {
		add(name)
	}
	for _, list := range values["ingredients"] {
		for _, name := range strings.Split(list, ",") {
			add(name)
		}
	}

	query := searchQuery{
		Ingredients: names,
		Mode:        strings.ToLower(strings.TrimSpace(values.Get("mode"))),
	}

	if raw := strings.TrimSpace(values.Get("portions")); raw != "" {
		portions, err := strconv.Atoi(raw)
		if err != nil || portions <= 0 {
			return searchQuery{}, repository.ErrInvalidPortions
		}
		query.Portions = portions
	}

	if query.Mode == "" {
		query.Mode = searchModeAll
		if query.Portions > 0 {
			query.Mode = searchModeBest
		}
	}
	if query.Portions > 0 && query.Mode == searchModeAll {
		return searchQuery{}, errPortionsNeedBestMode
	}

	if err := validation.Struct(query); err != nil {
		return searchQuery{}, err
	}
	return query, nil
}

// SearchRecipes finds recipes by ingredient names. mode=all returns recipes
// using every ingredient; mode=best ranks recipes by how many they use and,
// with portions, scales the matched quantities.
func (a *RecipeAPI) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	if !a.available(w, r) {
		return
	}
	ctx := r.Context()

	query, err := parseSearchQuery(r)
	if err != nil {
		applog.Debug(ctx, "invalid search query", "error", err, "query", r.URL.RawQuery)
		var verr *validation.Error
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, validationErrorResponse{Error: "invalid search", Fields: verr.Fields})
			return
		}
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := searchResponse{Mode: query.Mode, Ingredients: query.Ingredients, Portions: query.Portions}
	var count int

	switch {
	case query.Mode == searchModeAll:
		recipes, err := a.recipes.GetRecipesByIngredients(ctx, query.Ingredients)
		if err != nil {
			a.searchFailed(w, r, err)
			return
		}
		resp.Results = pages.ProjectSummaries(recipes)
		count = len(recipes)
	case query.Portions > 0:
		matches, err := a.recipes.GetBestRecipesForIngredientsWithQuantity(ctx, query.Ingredients, query.Portions)
		if err != nil {
			a.searchFailed(w, r, err)
			return
		}
		resp.Results = pages.ProjectScaledMatches(matches)
		count = len(matches)
	default:
		matches, err := a.recipes.GetBestRecipesForIngredients(ctx, query.Ingredients)
		if err != nil {
			a.searchFailed(w, r, err)
			return
		}
		resp.Results = pages.ProjectMatches(matches)
		count = len(matches)
	}

	metrics.RecordSearch(query.Mode, count)
	writeJSON(w, http.StatusOK, resp)
}

func (a *RecipeAPI) searchFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrInvalidPortions) {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	applog.Error(r.Context(), "recipe search failed", "error", err)
	writeJSONError(w, http.StatusInternalServerError, "unable to search recipes")
}
