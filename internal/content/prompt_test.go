package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toldwithlove/toldwithlove/internal/intake"
)

func universalFields() intake.FieldSet {
	return intake.FieldSet{
		intake.KeyTone:          "heartfelt",
		intake.KeyLength:        "medium",
		intake.KeySpeakerName:   "Sam",
		intake.KeyRecipientName: "Robin & Casey",
		intake.KeyRelationship:  "best friend",
		intake.KeyOccasion:      "their wedding day",
		intake.KeyKeyMemories:   "the road trip to the coast",
		intake.KeyTraits:        "kindness, terrible puns",
		intake.KeyQuotesPhrases: `"always forward"`,
	}
}

func TestBuildPromptNeverEmptyForAllTypes(t *testing.T) {
	fields := universalFields()
	for _, contentType := range Types {
		prompt := BuildPrompt(fields, contentType)
		require.NotEmpty(t, prompt, "content type %s", contentType)
		// Recipient and occasion pass through verbatim.
		require.Contains(t, prompt, "Robin & Casey")
		require.Contains(t, prompt, "their wedding day")
	}
}

func TestBuildPromptUnknownTypeFallsBackToCustom(t *testing.T) {
	fields := universalFields()
	unknown := BuildPrompt(fields, ParseType("interpretive_dance"))
	custom := BuildPrompt(fields, TypeCustom)
	require.Equal(t, custom, unknown)
}

func TestBuildPromptResolvesGuidanceTables(t *testing.T) {
	fields := universalFields()
	prompt := BuildPrompt(fields, TypeToast)

	require.Contains(t, prompt, "warm, sincere, and emotionally touching")
	require.Contains(t, prompt, "approximately 300-500 words")
}

func TestBuildPromptDefaultsAbsentToneAndLength(t *testing.T) {
	fields := universalFields()
	delete(fields, intake.KeyTone)
	delete(fields, intake.KeyLength)

	prompt := BuildPrompt(fields, TypeToast)
	require.Contains(t, prompt, "**Tone:** Use warm, sincere, and emotionally touching language")
	require.Contains(t, prompt, "approximately 300-500 words")
}

func TestBuildPromptFallsBackToRawToneAndLength(t *testing.T) {
	fields := universalFields()
	fields[intake.KeyTone] = "deadpan"
	fields[intake.KeyLength] = "about a page"

	prompt := BuildPrompt(fields, TypeToast)
	require.Contains(t, prompt, "**Tone:** deadpan")
	require.Contains(t, prompt, "**Length:** about a page")
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	fields := universalFields()
	require.Equal(t, BuildPrompt(fields, TypeEulogy), BuildPrompt(fields, TypeEulogy))
}

func TestBuildLoveStoryPromptIncludesDetailsVerbatim(t *testing.T) {
	fields := intake.FieldSet{
		intake.KeyName1:   "Alex",
		intake.KeyName2:   "Jordan",
		intake.KeySetting: "Paris",
		intake.KeyHowMet:  "at a bookstore",
	}.ApplyStoryDefaults()

	prompt := BuildLoveStoryPrompt(fields)
	for _, want := range []string{"Alex", "Jordan", "Paris", "at a bookstore"} {
		require.Contains(t, prompt, want)
	}
	require.Contains(t, prompt, "800-1200 words")
	require.Contains(t, prompt, "title on the first line")
}

func TestParseType(t *testing.T) {
	require.Equal(t, TypeWeddingSpeech, ParseType(" Wedding_Speech "))
	require.Equal(t, TypeCustom, ParseType("unknown_thing"))
	require.Equal(t, TypeCustom, ParseType(""))
}

func TestTypeTitle(t *testing.T) {
	require.Equal(t, "Wedding Speech", TypeWeddingSpeech.Title())
	require.Equal(t, "Custom", TypeCustom.Title())
}

func TestTemplatesCoverEveryType(t *testing.T) {
	for _, contentType := range Types {
		tpl := Template(contentType)
		require.NotEmpty(t, tpl)
		require.False(t, strings.HasPrefix(tpl, " "))
	}
}
