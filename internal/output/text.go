package output

import (
	"strings"

	"github.com/toldwithlove/toldwithlove/internal/artifact"
)

// RenderText produces the plain-text download: title, body with markdown
// emphasis markers stripped, and a closing attribution line.
func RenderText(a *artifact.Artifact) []byte {
	if a == nil {
		return nil
	}

	var b strings.Builder
	title := strings.TrimSpace(a.Title)
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("=", len(title)))
		b.WriteString("\n\n")
	}

	b.WriteString(stripMarkdown(a.Text))
	b.WriteString("\n\n---\nCreated with Told with Love\n")
	return []byte(b.String())
}

// stripMarkdown removes the heading and emphasis markers the generator
// tends to emit so the text file reads cleanly.
func stripMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			trimmed = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		}
		trimmed = strings.ReplaceAll(trimmed, "**", "")
		lines[i] = trimmed
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
