package content

// templates holds the per-type instructional text. The table is read-only
// and compiled into the process; every supported type has an entry, and
// TypeCustom doubles as the fallback for unknown input.
var templates = map[Type]string{
	TypeLoveStory: `Create a beautiful, romantic love story that reads like a fairy tale come to life.
Begin with a creative, engaging title that captures the essence of their love.
Weave together their memories and traits into a narrative that celebrates their unique bond.
Use romantic language and create a story that feels magical and timeless.`,

	TypeWeddingSpeech: `Create a heartfelt wedding speech that celebrates the couple's love and journey together.
Include personal anecdotes, well-wishes for their future, and words of wisdom about marriage.
Make it appropriate for a wedding ceremony or reception, balancing humor with sincerity.`,

	TypeEulogy: `Create a respectful and meaningful eulogy that honors the person's life and legacy.
Focus on their positive qualities, meaningful contributions, and the impact they had on others.
Include personal memories and stories that capture their essence.
Use dignified, reverent language appropriate for a memorial service.`,

	TypeBirthdaySpeech: `Create a celebratory birthday speech that honors the person and their special day.
Include personal stories, achievements, and reasons why they're loved and appreciated.
Make it joyful and uplifting, perfect for a birthday celebration.`,

	TypeAnniversarySpeech: `Create a romantic anniversary speech that celebrates the couple's journey together.
Reflect on their shared memories, growth as a couple, and the love that has sustained them.
Include hopes for their future together and appreciation for their partnership.`,

	TypeGraduationSpeech: `Create an inspirational graduation speech that celebrates the graduate's achievements and future potential.
Include words of encouragement, advice for the future, and recognition of their hard work.
Make it motivational and forward-looking while honoring their accomplishments.`,

	TypeRetirementSpeech: `Create a respectful retirement speech that honors the person's career and contributions.
Reflect on their professional journey, achievements, and the impact they've made.
Include well-wishes for their retirement and recognition of their dedication and service.`,

	TypeToast: `Create a warm and engaging toast that celebrates the person or occasion.
Include personal anecdotes, well-wishes, and reasons for celebration.
Make it concise but meaningful, perfect for raising a glass in their honor.`,

	TypeTribute: `Create a heartfelt tribute that honors and celebrates the person's life, achievements, or qualities.
Include personal stories, meaningful memories, and recognition of what makes them special.
Make it personal and authentic, capturing the essence of who they are.`,

	TypeCustom: `Create a personalized piece of content that fits the specific occasion and relationship described.
Adapt the style and tone to match the content type and occasion.
Make it meaningful, authentic, and appropriate for the specific situation.`,
}

// Template returns the instructional text for a content type, falling back
// to the custom template for anything unknown.
func Template(t Type) string {
	if tpl, ok := templates[t]; ok {
		return tpl
	}
	return templates[TypeCustom]
}
