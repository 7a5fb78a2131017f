// Package content owns the catalogue of supported content types and builds
// the natural-language prompts sent to the completion provider.
package content

import "strings"

// Type is a closed enumeration of supported content categories. Unknown
// input maps to TypeCustom; lookups never fail at runtime.
type Type string

const (
	TypeLoveStory         Type = "love_story"
	TypeWeddingSpeech     Type = "wedding_speech"
	TypeEulogy            Type = "eulogy"
	TypeBirthdaySpeech    Type = "birthday_speech"
	TypeAnniversarySpeech Type = "anniversary_speech"
	TypeGraduationSpeech  Type = "graduation_speech"
	TypeRetirementSpeech  Type = "retirement_speech"
	TypeToast             Type = "toast"
	TypeTribute           Type = "tribute"
	TypeCustom            Type = "custom"
)

// Types lists every supported content type in display order.
var Types = []Type{
	TypeLoveStory,
	TypeWeddingSpeech,
	TypeEulogy,
	TypeBirthdaySpeech,
	TypeAnniversarySpeech,
	TypeGraduationSpeech,
	TypeRetirementSpeech,
	TypeToast,
	TypeTribute,
	TypeCustom,
}

// ParseType normalizes raw form input to a known content type, falling back
// to TypeCustom for anything unrecognized.
func ParseType(raw string) Type {
	normalized := Type(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range Types {
		if normalized == t {
			return t
		}
	}
	return TypeCustom
}

// Title renders the type for display, e.g. "wedding_speech" → "Wedding Speech".
func (t Type) Title() string {
	words := strings.Split(string(t), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
