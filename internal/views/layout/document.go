package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const stylesheet = `body{font-family:Georgia,serif;max-width:42rem;margin:2rem auto;color:#222}` +
	`.meta{color:#666}.component{color:#888;font-style:italic}` +
	`@media print{body{margin:0}}`

// Document wraps body in a minimal standalone HTML page titled title.
func Document(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">` +
			`<meta name="viewport" content="width=device-width, initial-scale=1">` +
			`<title>` + templ.EscapeString(title) + `</title>` +
			`<style>` + stylesheet + `</style></head><body>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
