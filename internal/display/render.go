package display

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/menu.html.tmpl
var templatesFS embed.FS

// Renderer writes a Menu as an HTML page.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded page template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/menu.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("display: parse template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the template into a buffer first so a failure never
// leaves a half-written page on w.
func (r *Renderer) Render(w io.Writer, m Menu) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "menu.html.tmpl", m); err != nil {
		return fmt.Errorf("display: render: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
