package components

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// IngredientItem is one rendered ingredient line.
type IngredientItem struct {
	Name      string
	Amount    string
	Component string
}

// FormatAmount renders an optional quantity and unit as "200 g". Missing
// parts are left out; both missing gives "".
func FormatAmount(quantity *float64, unit *string) string {
	parts := make([]string, 0, 2)
	if quantity != nil {
		parts = append(parts, strconv.FormatFloat(*quantity, 'f', -1, 64))
	}
	if unit != nil && strings.TrimSpace(*unit) != "" {
		parts = append(parts, strings.TrimSpace(*unit))
	}
	return strings.Join(parts, " ")
}

// MetaLine renders the dot-separated facts under a card title.
func MetaLine(facts []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		escaped := make([]string, 0, len(facts))
		for _, fact := range facts {
			escaped = append(escaped, templ.EscapeString(fact))
		}
		_, err := io.WriteString(w, `<p class="meta">`+strings.Join(escaped, " &middot; ")+`</p>`)
		return err
	})
}

// IngredientList renders the ingredients section.
func IngredientList(items []IngredientItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="ingredients"><h2>Ingredients</h2>`)
		if len(items) == 0 {
			b.WriteString(`<p class="empty">No ingredients listed.</p></section>`)
			_, err := io.WriteString(w, b.String())
			return err
		}
		b.WriteString(`<ul>`)
		for _, item := range items {
			b.WriteString(`<li><span class="name">`)
			b.WriteString(templ.EscapeString(item.Name))
			b.WriteString(`</span>`)
			if item.Amount != "" {
				b.WriteString(` <span class="amount">`)
				b.WriteString(templ.EscapeString(item.Amount))
				b.WriteString(`</span>`)
			}
			if item.Component != "" {
				b.WriteString(` <span class="component">(`)
				b.WriteString(templ.EscapeString(item.Component))
				b.WriteString(`)</span>`)
			}
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ToolList renders the kitchen tools section; nothing when tools is empty.
func ToolList(tools []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(tools) == 0 {
			return nil
		}
		var b strings.Builder
		b.WriteString(`<section class="tools"><h2>You will need</h2><ul>`)
		for _, tool := range tools {
			b.WriteString(`<li>`)
			b.WriteString(templ.EscapeString(tool))
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
