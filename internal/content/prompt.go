package content

import (
	"strings"

	"github.com/toldwithlove/toldwithlove/internal/intake"
)

// SystemPersona is the fixed system-role instruction for universal content.
const SystemPersona = "You are a professional writer specializing in creating personalized, " +
	"heartfelt content for special occasions. You excel at capturing the essence of " +
	"relationships and creating meaningful, engaging content."

// LoveStorySystemPersona is the system-role instruction for the dedicated
// love-story flow.
const LoveStorySystemPersona = "You are a talented romance novelist who writes beautiful, " +
	"emotional love stories with vivid descriptions and authentic dialogue."

// BuildPrompt composes the universal generation prompt: the content-type
// template, labelled tone/length guidance, and verbatim restatements of the
// supplied fields, closed with an authenticity instruction. It is a pure
// function of the field set and the static tables and never returns an
// empty string.
func BuildPrompt(fields intake.FieldSet, contentType Type) string {
	var b strings.Builder

	b.WriteString(Template(contentType))
	b.WriteString("\n\n")

	typeLabel := contentType.Title()
	if contentType == TypeCustom {
		if custom := strings.TrimSpace(fields.Get(intake.KeyCustomType)); custom != "" {
			typeLabel = custom
		}
	}

	tone := fields.Get(intake.KeyTone)
	if tone == "" {
		tone = intake.UniversalDefaults.Get(intake.KeyTone)
	}
	length := fields.Get(intake.KeyLength)
	if length == "" {
		length = intake.UniversalDefaults.Get(intake.KeyLength)
	}

	writeLabelled(&b, "Content Type", typeLabel)
	writeLabelled(&b, "Tone", ToneGuidance(tone))
	writeLabelled(&b, "Length", LengthGuidance(length))
	b.WriteString("\n")

	writeLabelled(&b, "Speaker", fields.Get(intake.KeySpeakerName))
	writeLabelled(&b, "Recipient(s)", fields.Get(intake.KeyRecipientName))
	writeLabelled(&b, "Relationship", fields.Get(intake.KeyRelationship))
	writeLabelled(&b, "Occasion", fields.Get(intake.KeyOccasion))
	b.WriteString("\n")

	writeSection(&b, "Key Memories & Stories", fields.Get(intake.KeyKeyMemories))
	writeSection(&b, "Special Traits & Qualities", fields.Get(intake.KeyTraits))
	writeSection(&b, "Special Quotes or Phrases", fields.Get(intake.KeyQuotesPhrases))

	b.WriteString("Please create a personalized, engaging piece that captures the essence " +
		"of this relationship and occasion. Make it feel authentic and meaningful to the " +
		"specific people and situation described.\n")

	return b.String()
}

// BuildLoveStoryPrompt composes the narrower fixed-structure prompt for the
// dedicated love-story flow: title on the first line, then an 800-1200-word
// narrative built from the supplied details.
func BuildLoveStoryPrompt(fields intake.FieldSet) string {
	var b strings.Builder

	b.WriteString("You are a creative romance writer. Create a beautiful, heartwarming love story " +
		"based on the following personal details:\n\n")

	b.WriteString("Character Details:\n")
	b.WriteString("- " + fields.Get(intake.KeyName1) + " and " + fields.Get(intake.KeyName2) +
		" are the main characters\n\n")

	b.WriteString("Their Love Story:\n")
	b.WriteString("- Where it takes place: " + fields.Get(intake.KeySetting) + "\n")
	b.WriteString("- How they met: " + fields.Get(intake.KeyHowMet) + "\n")
	b.WriteString("- What they both love: " + fields.Get(intake.KeySharedInterest) + "\n")
	b.WriteString("- A challenge they overcame: " + fields.Get(intake.KeyChallenge) + "\n")
	b.WriteString("- What makes their love special: " + fields.Get(intake.KeySpecialThing) + "\n\n")

	b.WriteString(`Story Requirements:
- Start with a creative, romantic title for the story (e.g., "A Symphony of Love", "When Stars Align", "The Language of Hearts")
- Write a complete love story (800-1200 words)
- Incorporate their actual meeting story and shared interests
- Include the specific things that make their love special
- Include romantic dialogue between the characters
- Show their relationship development from meeting to present
- End with a satisfying, romantic conclusion
- Make it heartwarming and uplifting
- Use vivid descriptions and emotional language
- Make it feel personal and unique to their specific relationship

Format the response with the title on the first line, followed by the story content.

Create a story that captures the essence of their real love story and celebrates their unique connection.`)

	return b.String()
}

func writeLabelled(b *strings.Builder, label, value string) {
	b.WriteString("**" + label + ":** " + value + "\n")
}

func writeSection(b *strings.Builder, label, value string) {
	b.WriteString("**" + label + ":**\n" + value + "\n\n")
}
