package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/toldwithlove/toldwithlove/internal/artifact"
)

const (
	pdfLineWidth    = 84
	pdfLinesPerPage = 42
)

type pdfFont struct {
	Name string  `json:"name"`
	Size float64 `json:"size"`
}

type pdfText struct {
	Value    string    `json:"value"`
	Font     pdfFont   `json:"font"`
	Position []float64 `json:"position"`
	Width    float64   `json:"width,omitempty"`
}

type pdfContent struct {
	Text []pdfText `json:"text"`
}

type pdfPage struct {
	Content pdfContent `json:"content"`
}

type pdfDeclaration struct {
	Origin string             `json:"origin"`
	Pages  map[string]pdfPage `json:"pages"`
}

// RenderPDF lays the story out as a letter-format PDF: title page header,
// body wrapped and paginated, rendered through the create-from-JSON API.
func RenderPDF(a *artifact.Artifact) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("artifact is required")
	}

	decl := buildDeclaration(a)
	data, err := json.Marshal(decl)
	if err != nil {
		return nil, fmt.Errorf("encode pdf declaration: %w", err)
	}

	var out bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(data), &out, nil); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return out.Bytes(), nil
}

func buildDeclaration(a *artifact.Artifact) *pdfDeclaration {
	lines := wrapLines(stripMarkdown(a.Text), pdfLineWidth)

	decl := &pdfDeclaration{
		Origin: "upperLeft",
		Pages:  map[string]pdfPage{},
	}

	pageNum := 1
	offset := 0
	for offset < len(lines) || pageNum == 1 {
		var texts []pdfText
		linesHere := pdfLinesPerPage
		bodyTop := 72.0

		if pageNum == 1 {
			title := strings.TrimSpace(a.Title)
			if title == "" {
				title = "Your Story"
			}
			texts = append(texts, pdfText{
				Value:    title,
				Font:     pdfFont{Name: "Helvetica-Bold", Size: 18},
				Position: []float64{72, 72},
				Width:    468,
			})
			bodyTop = 120
			linesHere -= 3
		}

		end := offset + linesHere
		if end > len(lines) {
			end = len(lines)
		}
		if end > offset {
			texts = append(texts, pdfText{
				Value:    strings.Join(lines[offset:end], "\n"),
				Font:     pdfFont{Name: "Helvetica", Size: 11},
				Position: []float64{72, bodyTop},
				Width:    468,
			})
		}
		offset = end

		decl.Pages[strconv.Itoa(pageNum)] = pdfPage{Content: pdfContent{Text: texts}}
		pageNum++

		if offset >= len(lines) {
			break
		}
	}

	return decl
}

// wrapLines breaks paragraphs at word boundaries so no line exceeds the
// column width. Blank lines are preserved as paragraph separators.
func wrapLines(text string, width int) []string {
	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
			continue
		}

		words := strings.Fields(paragraph)
		line := ""
		for _, word := range words {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}
