package embeds

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind Kind
		src  string
		host string
	}{
		{"youtube watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", KindYouTube, "https://www.youtube.com/embed/dQw4w9WgXcQ", "www.youtube.com"},
		{"youtu.be", "https://youtu.be/dQw4w9WgXcQ?t=10", KindYouTube, "https://www.youtube.com/embed/dQw4w9WgXcQ", "youtu.be"},
		{"youtube embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", KindYouTube, "https://www.youtube.com/embed/dQw4w9WgXcQ", "www.youtube.com"},
		{"youtube without id", "https://www.youtube.com/channel", KindLink, "", "www.youtube.com"},
		{"vimeo", "https://vimeo.com/76979871", KindVimeo, "https://player.vimeo.com/video/76979871", "vimeo.com"},
		{"vimeo channel", "https://vimeo.com/channels/staffpicks/videos/76979871", KindVimeo, "https://player.vimeo.com/video/76979871", "vimeo.com"},
		{"codepen", "https://codepen.io/team/pen/abcDEF/", KindCodePen, "https://codepen.io/embed/abcDEF?default-tab=result", "codepen.io"},
		{"codepen profile", "https://codepen.io/team", KindLink, "", "codepen.io"},
		{"generic", "https://example.com/posts/1", KindLink, "", "example.com"},
		{"invalid", "not a url", KindInvalid, "", ""},
		{"relative", "/local/path", KindInvalid, "", ""},
		{"javascript with host", "javascript://example.com/%0aalert(document.cookie)", KindInvalid, "", ""},
		{"data url", "data:text/html,<script>alert(1)</script>", KindInvalid, "", ""},
		{"ftp", "ftp://example.com/file", KindInvalid, "", ""},
		{"youtube in query", "https://evil.example/?u=youtube.com/watch?v=dQw4w9WgXcQ", KindLink, "", "evil.example"},
		{"vimeo lookalike", "https://notvimeo.com/76979871", KindLink, "", "notvimeo.com"},
		{"http youtube", "http://youtube.com/watch?v=dQw4w9WgXcQ", KindYouTube, "https://www.youtube.com/embed/dQw4w9WgXcQ", "youtube.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Resolve(tt.in)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.src, e.Src)
			assert.Equal(t, tt.host, e.Host)
			assert.Equal(t, tt.in, e.SourceURL)
			assert.Equal(t, tt.src != "", e.IsPlayer())
		})
	}
}

func TestCodePenHasFixedHeight(t *testing.T) {
	assert.Equal(t, 400, Resolve("https://codepen.io/a/pen/xyz").Height)
	assert.Zero(t, Resolve("https://vimeo.com/1").Height)
}

func TestIsPlayerLink(t *testing.T) {
	assert.True(t, IsPlayerLink("https://player.vimeo.com/video/1"))
	assert.True(t, IsPlayerLink("https://www.youtube.com/embed/abc"))
	assert.False(t, IsPlayerLink("https://www.youtube.com/watch?v=abc"))
	assert.False(t, IsPlayerLink("javascript:alert(1)//player.vimeo.com/video"))
	assert.False(t, IsPlayerLink("http://player.vimeo.com/video/1"))
	assert.False(t, IsPlayerLink("https://evil.example/player.vimeo.com/video/1"))
	assert.False(t, IsPlayerLink("https://player.vimeo.com.evil.example/video/1"))
}

func TestCardNeverLinksUnsafeSchemes(t *testing.T) {
	var b strings.Builder
	writeCard(&b, Resolve("javascript://example.com/%0aalert(document.cookie)"), "x", "", Labels{InvalidURL: "Invalid URL"})
	got := b.String()
	assert.NotContains(t, got, `href="javascript:`)
	assert.Contains(t, got, "Invalid URL")
}
