// Package intake normalizes raw form submissions into the fixed field set
// consumed by the prompt builder. Submissions arrive either as Tally webhook
// payloads or as values collected interactively; both paths produce the same
// FieldSet.
package intake

import "strings"

// Key identifies a semantic field collected from a form.
type Key string

// Story-form keys.
const (
	KeyName1          Key = "name1"
	KeyName2          Key = "name2"
	KeySetting        Key = "setting"
	KeyHowMet         Key = "how_met"
	KeySharedInterest Key = "shared_interest"
	KeyChallenge      Key = "challenge"
	KeySpecialThing   Key = "special_thing"
	KeyStoryLength    Key = "story_length"
)

// Universal-form keys.
const (
	KeyContentType   Key = "content_type"
	KeyTone          Key = "tone"
	KeySpeakerName   Key = "speaker_name"
	KeyRecipientName Key = "recipient_name"
	KeyRelationship  Key = "relationship"
	KeyOccasion      Key = "occasion"
	KeyKeyMemories   Key = "key_memories"
	KeyTraits        Key = "traits"
	KeyQuotesPhrases Key = "quotes_phrases"
	KeyLength        Key = "length"
	KeyCustomType    Key = "custom_type"
	KeyEmail         Key = "email"
)

// FieldSet maps semantic keys to free-text values. A FieldSet is created once
// per submission and treated as immutable after normalization.
type FieldSet map[Key]string

// Get returns the value for key, or empty string when absent.
func (f FieldSet) Get(key Key) string {
	if f == nil {
		return ""
	}
	return f[key]
}

// Clone returns an independent copy of the field set.
func (f FieldSet) Clone() FieldSet {
	out := make(FieldSet, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// StoryDefaults supplies the fallback value for every story-form key. Keys
// absent from a submission receive these values during normalization.
var StoryDefaults = FieldSet{
	KeyName1:          "Alex",
	KeyName2:          "Jordan",
	KeySetting:        "a charming small town",
	KeyHowMet:         "by chance at a bookstore",
	KeySharedInterest: "reading and writing",
	KeyChallenge:      "long distance relationship",
	KeySpecialThing:   "their ability to understand each other without words",
	KeyStoryLength:    "medium",
}

// UniversalDefaults supplies fallback values for the universal form's tone
// and length. Content type is deliberately absent: a submission without one
// stays on the dedicated story flow, and ParseType already falls back to the
// custom template for callers on the universal path.
var UniversalDefaults = FieldSet{
	KeyTone:   "heartfelt",
	KeyLength: "medium",
}

// RequiredStoryKeys must be non-empty after defaulting. Defaults make a
// missing value effectively unreachable, but explicit empty-string overrides
// still fail validation; that contract is load-bearing for webhook callers.
var RequiredStoryKeys = []Key{KeyName1, KeyName2, KeySetting}

// ValidationError reports required keys that were empty after defaulting.
type ValidationError struct {
	Missing []Key
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Missing) == 0 {
		return "submission is invalid"
	}
	parts := make([]string, 0, len(e.Missing))
	for _, k := range e.Missing {
		parts = append(parts, string(k))
	}
	return "missing required fields: " + strings.Join(parts, ", ")
}

// ApplyStoryDefaults fills absent story keys in place and returns the set.
func (f FieldSet) ApplyStoryDefaults() FieldSet {
	for key, fallback := range StoryDefaults {
		if _, ok := f[key]; !ok {
			f[key] = fallback
		}
	}
	return f
}

// ValidateStory checks the required story keys. Empty values fail even when a
// default exists, since an explicit empty override bypasses defaulting.
func (f FieldSet) ValidateStory() error {
	var missing []Key
	for _, key := range RequiredStoryKeys {
		if strings.TrimSpace(f.Get(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
