package content

// toneGuidance resolves a tone tag to phrasing instructions. Unmapped tones
// fall back to the raw string so callers can pass free-form tone text.
var toneGuidance = map[string]string{
	"romantic":      "Use romantic, passionate language with poetic elements",
	"heartfelt":     "Use warm, sincere, and emotionally touching language",
	"humorous":      "Include humor, wit, and light-hearted moments while staying respectful",
	"formal":        "Use formal, professional language appropriate for the occasion",
	"casual":        "Use conversational, friendly language",
	"inspirational": "Use uplifting, motivational language that inspires",
	"nostalgic":     "Use reflective, memory-focused language that evokes the past",
	"celebratory":   "Use joyful, celebratory language that conveys excitement",
	"reverent":      "Use respectful, dignified language appropriate for solemn occasions",
}

// lengthGuidance resolves a length tag to word-count instructions, with the
// same raw fallback rule as tones.
var lengthGuidance = map[string]string{
	"short":     "Keep this concise (approximately 150-250 words)",
	"medium":    "Make this moderate in length (approximately 300-500 words)",
	"long":      "Make this comprehensive (approximately 600-800 words)",
	"very_long": "Make this detailed and extensive (approximately 800-1200 words)",
}

// ToneGuidance returns phrasing guidance for tone, or tone itself when unmapped.
func ToneGuidance(tone string) string {
	if guidance, ok := toneGuidance[tone]; ok {
		return guidance
	}
	return tone
}

// LengthGuidance returns word-count guidance for length, or length itself when unmapped.
func LengthGuidance(length string) string {
	if guidance, ok := lengthGuidance[length]; ok {
		return guidance
	}
	return length
}
