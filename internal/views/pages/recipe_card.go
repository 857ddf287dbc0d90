package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"recipebox/internal/views/components"
	"recipebox/internal/views/layout"
)

// RecipeCard renders record as a standalone printable HTML page.
func RecipeCard(record RecipeRecord) templ.Component {
	return layout.Document(record.Name, recipeCardBody(record))
}

func recipeCardBody(record RecipeRecord) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<article class="recipe-card"><header><h1>`+templ.EscapeString(record.Name)+`</h1>`); err != nil {
			return err
		}

		meta := []string{fmt.Sprintf("Serves %d", record.NumberOfPortions)}
		if record.MealType != nil {
			meta = append(meta, *record.MealType)
		}
		if record.Nationality != nil {
			meta = append(meta, *record.Nationality)
		}
		meta = append(meta, "Added "+record.CreatedAt)
		if err := components.MetaLine(meta).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</header>`); err != nil {
			return err
		}

		items := make([]components.IngredientItem, 0, len(record.Ingredients))
		for _, name := range SortedIngredientNames(record) {
			amount := record.Ingredients[name]
			items = append(items, components.IngredientItem{
				Name:      name,
				Amount:    components.FormatAmount(amount.Quantity, amount.Unit),
				Component: deref(amount.Component),
			})
		}
		if err := components.IngredientList(items).Render(ctx, w); err != nil {
			return err
		}
		if err := components.ToolList(record.Tools).Render(ctx, w); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<section class="instructions"><h2>Instructions</h2><p>`+templ.EscapeString(record.Instructions)+`</p></section>`); err != nil {
			return err
		}
		if record.Notes != nil && *record.Notes != "" {
			if _, err := io.WriteString(w, `<aside class="notes"><h2>Notes</h2><p>`+templ.EscapeString(*record.Notes)+`</p></aside>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</article>`)
		return err
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
