// Package artifact holds generated documents between creation and delivery.
// The in-memory store is the source of truth for serving; the mirror writes
// a JSON record per generation so operators can recover or audit content
// after a restart.
package artifact

import (
	"strings"
	"time"

	"github.com/toldwithlove/toldwithlove/internal/intake"
)

// Artifact is one generated document keyed by its public identifier.
type Artifact struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Text      string          `json:"text"`
	Kind      string          `json:"kind"`
	Fields    intake.FieldSet `json:"fields,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (a *Artifact) Clone() *Artifact {
	if a == nil {
		return nil
	}
	out := *a
	out.Fields = a.Fields.Clone()
	return &out
}

// TitleFromText extracts a display title from generated content: the first
// non-empty line, stripped of markdown heading markers. Falls back to the
// provided default when the content yields nothing usable.
func TitleFromText(text, fallback string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "#"))
		line = strings.Trim(line, "*_")
		if line != "" {
			return line
		}
	}
	return fallback
}
