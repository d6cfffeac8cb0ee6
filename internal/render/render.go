// Package render produces the HTML pages and result fragments shown to clients.
package render

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
var templateFS embed.FS

// TextFilename is shown as the source of jobs submitted as raw text.
const TextFilename = "Texte brut"

// Result is the data behind a finished job.
type Result struct {
	Filename   string
	Transcript string
	Summary    string // Markdown
}

// Index is the data behind the landing page.
type Index struct {
	ClientID      string
	DefaultPrompt string
	Language      string
	Model         string
	Models        []string
}

// Renderer renders Markdown summaries and page templates.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
		tmpl: tmpl,
	}, nil
}

// Markdown converts src to HTML. Raw HTML in src is not passed through.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Result renders the result fragment for a finished job.
func (r *Renderer) Result(res Result) (string, error) {
	summary, err := r.Markdown(res.Summary)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = r.tmpl.ExecuteTemplate(&buf, "result.html", struct {
		Filename    string
		Transcript  string
		SummaryHTML template.HTML
	}{res.Filename, res.Transcript, summary})
	if err != nil {
		return "", fmt.Errorf("render result: %w", err)
	}
	return buf.String(), nil
}

// Index writes the landing page.
func (r *Renderer) Index(w io.Writer, data Index) error {
	return r.tmpl.ExecuteTemplate(w, "index.html", data)
}
