package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const mirrorTimeLayout = "20060102_150405"

// Mirror persists one JSON record per generated artifact so content
// survives process restarts. It is best-effort by contract: callers log
// mirror failures and continue serving from memory.
type Mirror struct {
	dir string
}

// NewMirror prepares a mirror rooted at dir, creating it when missing.
func NewMirror(dir string) (*Mirror, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("mirror directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create mirror directory: %w", err)
	}
	return &Mirror{dir: dir}, nil
}

// Dir returns the mirror's root directory.
func (m *Mirror) Dir() string {
	if m == nil {
		return ""
	}
	return m.dir
}

// fileName derives the record name from creation time and an identifier
// fragment: submission_<timestamp>_<idfrag>.json.
func fileName(a *Artifact) string {
	frag := a.ID
	if len(frag) > 8 {
		frag = frag[:8]
	}
	ts := a.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return fmt.Sprintf("submission_%s_%s.json", ts.UTC().Format(mirrorTimeLayout), frag)
}

// Write records the artifact as a JSON file in the mirror directory.
func (m *Mirror) Write(a *Artifact) error {
	if m == nil {
		return fmt.Errorf("mirror not configured")
	}
	if a == nil || a.ID == "" {
		return fmt.Errorf("artifact id is required")
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact record: %w", err)
	}

	path := filepath.Join(m.dir, fileName(a))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact record: %w", err)
	}
	return nil
}

// Load scans the mirror directory for a record whose name carries the
// given identifier's fragment and whose body matches the full ID. Newer
// records win when several share a fragment.
func (m *Mirror) Load(id string) (*Artifact, bool) {
	if m == nil || id == "" {
		return nil, false
	}

	frag := id
	if len(frag) > 8 {
		frag = frag[:8]
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, false
	}

	// ReadDir sorts lexically and the timestamp prefix makes that
	// chronological, so walk backwards for the newest match.
	for i := len(entries) - 1; i >= 0; i-- {
		name := entries[i].Name()
		if !strings.HasPrefix(name, "submission_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		if !strings.Contains(name, "_"+frag+".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(m.dir, name))
		if err != nil {
			continue
		}
		var a Artifact
		if err := json.Unmarshal(data, &a); err != nil {
			continue
		}
		if a.ID == id {
			return &a, true
		}
	}
	return nil, false
}
