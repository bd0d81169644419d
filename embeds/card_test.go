package embeds

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLabels = Labels{ViewArticle: "View Article →", ExternalLink: "External Link", InvalidURL: "Invalid URL"}

func render(t *testing.T, e Embed, title, image string) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, Card(e, title, image, testLabels).Render(context.Background(), &sb))
	return sb.String()
}

func TestCardPlayer(t *testing.T) {
	got := render(t, Resolve("https://youtu.be/dQw4w9WgXcQ"), "", "")
	assert.Contains(t, got, `<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ" title="YouTube video"`)
	assert.Contains(t, got, "encrypted-media")

	got = render(t, Resolve("https://codepen.io/a/pen/xyz"), "Pen", "")
	assert.Contains(t, got, `style="height:400px"`)
	assert.Contains(t, got, `title="Pen"`)
}

func TestCardLink(t *testing.T) {
	got := render(t, Resolve("https://example.com/a?b=1&c=2"), `A "quoted" <title>`, "https://images.ctfassets.net/p.jpg")
	assert.Contains(t, got, `href="https://example.com/a?b=1&amp;c=2"`)
	assert.Contains(t, got, `target="_blank" rel="noopener noreferrer"`)
	assert.Contains(t, got, `<img src="https://images.ctfassets.net/p.jpg"`)
	assert.Contains(t, got, `&lt;title&gt;`)
	assert.Contains(t, got, "example.com")
	assert.Contains(t, got, "View Article →")
	assert.NotContains(t, got, "External Link")
}

func TestCardLinkWithoutImage(t *testing.T) {
	got := render(t, Resolve("https://example.com"), "", "")
	assert.Contains(t, got, "External Link")
	assert.NotContains(t, got, "<h3>")
}

func TestCardInvalid(t *testing.T) {
	got := render(t, Resolve("nope"), "Broken", "")
	assert.Contains(t, got, "Invalid URL")
	assert.Contains(t, got, "<h3>Broken</h3>")
	assert.NotContains(t, got, "<a ")
}
