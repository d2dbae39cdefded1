package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Renderer executes the embedded page templates.
type Renderer struct {
	templates *template.Template
	markdown  goldmark.Markdown
}

func New() (*Renderer, error) {
	r := &Renderer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}

	funcs := template.FuncMap{
		"markdown": r.Markdown,
		"inc":      func(i int) int { return i + 1 },
	}

	t, err := template.New("").Funcs(funcs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.templates = t
	return r, nil
}

// Markdown renders model output to HTML. Raw HTML in the source is dropped.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// Render writes the named template. Output is buffered so a failing template
// never leaves a half-written page.
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
