package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toldwithlove/toldwithlove/internal/artifact"
)

func sampleArtifact() *artifact.Artifact {
	return &artifact.Artifact{
		ID:    "abc123",
		Title: "A Meeting in Paris",
		Text:  "# A Meeting in Paris\n\nOnce upon a time, **Alex** met Jordan.\n\nThey lived happily.",
		Kind:  "love_story",
	}
}

func TestRenderHTMLContainsStoryAndLinks(t *testing.T) {
	page, err := RenderHTML(sampleArtifact())
	require.NoError(t, err)

	html := string(page)
	require.Contains(t, html, "<title>A Meeting in Paris - Told with Love</title>")
	require.Contains(t, html, "<strong>Alex</strong>")
	require.Contains(t, html, `href="/download/abc123"`)
	require.Contains(t, html, `href="/download/abc123?format=text"`)
}

func TestRenderHTMLEscapesTitle(t *testing.T) {
	a := sampleArtifact()
	a.Title = `<script>alert("x")</script>`

	page, err := RenderHTML(a)
	require.NoError(t, err)
	require.NotContains(t, string(page), "<script>alert")
}

func TestRenderHTMLNilArtifact(t *testing.T) {
	_, err := RenderHTML(nil)
	require.Error(t, err)
}

func TestRenderTextStripsMarkdown(t *testing.T) {
	text := string(RenderText(sampleArtifact()))

	require.True(t, strings.HasPrefix(text, "A Meeting in Paris\n=================="))
	require.Contains(t, text, "Once upon a time, Alex met Jordan.")
	require.NotContains(t, text, "**")
	require.NotContains(t, text, "# ")
	require.Contains(t, text, "Created with Told with Love")
}

func TestRenderTextNilArtifact(t *testing.T) {
	require.Nil(t, RenderText(nil))
}

func TestWrapLinesRespectsWidth(t *testing.T) {
	long := strings.Repeat("word ", 60)
	lines := wrapLines(long+"\n\nsecond paragraph", 20)

	require.NotEmpty(t, lines)
	for _, line := range lines {
		require.LessOrEqual(t, len(line), 20)
	}
	require.Contains(t, lines, "")
	require.Equal(t, "second paragraph", lines[len(lines)-1])
}

func TestBuildDeclarationPaginates(t *testing.T) {
	a := sampleArtifact()
	a.Text = strings.Repeat("A reasonably long sentence that wraps across the page width again and again. ", 200)

	decl := buildDeclaration(a)
	require.Greater(t, len(decl.Pages), 1)
	require.Equal(t, "upperLeft", decl.Origin)

	first := decl.Pages["1"]
	require.NotEmpty(t, first.Content.Text)
	require.Equal(t, "Helvetica-Bold", first.Content.Text[0].Font.Name)
	require.Equal(t, "A Meeting in Paris", first.Content.Text[0].Value)
}

func TestBuildDeclarationEmptyBodyStillHasTitlePage(t *testing.T) {
	a := sampleArtifact()
	a.Text = ""

	decl := buildDeclaration(a)
	require.Len(t, decl.Pages, 1)
	require.NotEmpty(t, decl.Pages["1"].Content.Text)
}

func TestRenderPDFProducesDocument(t *testing.T) {
	data, err := RenderPDF(sampleArtifact())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "%PDF-"))
}
