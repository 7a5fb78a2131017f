// Package output renders stored artifacts for delivery: an HTML story
// page, a PDF document, and a plain-text download.
package output

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"

	"github.com/toldwithlove/toldwithlove/internal/artifact"
)

//go:embed page.html.tmpl
var pageTemplate string

var (
	pageOnce sync.Once
	pageTmpl *template.Template
	pageErr  error
)

type pageData struct {
	Title       string
	Body        template.HTML
	DownloadURL string
	TextURL     string
}

// RenderHTML produces the story page: the generated markdown converted to
// HTML inside the site shell, with download links for the PDF and text
// renditions.
func RenderHTML(a *artifact.Artifact) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("artifact is required")
	}

	pageOnce.Do(func() {
		pageTmpl, pageErr = template.New("page").Parse(pageTemplate)
	})
	if pageErr != nil {
		return nil, fmt.Errorf("parse story page template: %w", pageErr)
	}

	var body bytes.Buffer
	if err := goldmark.Convert([]byte(a.Text), &body); err != nil {
		return nil, fmt.Errorf("render story markdown: %w", err)
	}

	data := pageData{
		Title: a.Title,
		// The body is our own goldmark output, not raw user input.
		Body:        template.HTML(body.String()), // #nosec G203
		DownloadURL: "/download/" + a.ID,
		TextURL:     "/download/" + a.ID + "?format=text",
	}

	var out bytes.Buffer
	if err := pageTmpl.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("render story page: %w", err)
	}
	return out.Bytes(), nil
}
