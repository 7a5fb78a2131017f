package artifact

import (
	"fmt"
	"strings"
	"time"
)

// SanitizeID reduces an external identifier to the characters safe for URLs
// and filenames: ASCII letters and digits only. An input with nothing left
// after filtering gets a timestamp-derived identifier instead.
func SanitizeID(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fmt.Sprintf("gen%d", time.Now().UnixNano())
	}
	return b.String()
}
