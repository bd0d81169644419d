package richtext

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericx1023/contentful-blog/contentful"
	"github.com/ericx1023/contentful-blog/embeds"
)

func renderDoc(t *testing.T, doc string, opts Options) string {
	t.Helper()
	rt := &contentful.RichText{JSON: json.RawMessage(doc)}
	var sb strings.Builder
	require.NoError(t, Render(rt, opts).Render(context.Background(), &sb))
	return sb.String()
}

func TestRenderBlocksAndMarks(t *testing.T) {
	got := renderDoc(t, `{"nodeType":"document","content":[
		{"nodeType":"heading-2","content":[{"nodeType":"text","value":"Title","marks":[]}]},
		{"nodeType":"paragraph","content":[
			{"nodeType":"text","value":"plain "},
			{"nodeType":"text","value":"both","marks":[{"type":"bold"},{"type":"italic"}]},
			{"nodeType":"text","value":" <x>"}
		]},
		{"nodeType":"unordered-list","content":[{"nodeType":"list-item","content":[{"nodeType":"paragraph","content":[{"nodeType":"text","value":"one"}]}]}]},
		{"nodeType":"hr","content":[]}
	]}`, Options{})

	assert.Equal(t, `<article class="prose">`+
		`<h2>Title</h2>`+
		`<p>plain <strong><em>both</em></strong> &lt;x&gt;</p>`+
		`<ul><li><p>one</p></li></ul>`+
		`<hr/>`+
		`</article>`, got)
}

func TestRenderHyperlinks(t *testing.T) {
	got := renderDoc(t, `{"nodeType":"document","content":[{"nodeType":"paragraph","content":[
		{"nodeType":"hyperlink","data":{"uri":"https://example.com"},"content":[{"nodeType":"text","value":"site"}]},
		{"nodeType":"hyperlink","data":{"uri":"https://www.youtube.com/embed/abc"},"content":[{"nodeType":"text","value":"clip"}]},
		{"nodeType":"hyperlink","data":{"uri":"javascript:alert(1)"},"content":[{"nodeType":"text","value":"bad"}]}
	]}]}`, Options{})

	assert.Contains(t, got, `<a href="https://example.com" target="_blank" rel="noopener noreferrer">site</a>`)
	assert.Contains(t, got, `<iframe title="clip" src="https://www.youtube.com/embed/abc"`)
	assert.NotContains(t, got, "javascript:")
}

func TestRenderHyperlinkPlayerLookalikes(t *testing.T) {
	got := renderDoc(t, `{"nodeType":"document","content":[{"nodeType":"paragraph","content":[
		{"nodeType":"hyperlink","data":{"uri":"javascript:alert(1)//player.vimeo.com/video"},"content":[{"nodeType":"text","value":"bad"}]},
		{"nodeType":"hyperlink","data":{"uri":"https://evil.example/youtube.com/embed/abc"},"content":[{"nodeType":"text","value":"fake"}]}
	]}]}`, Options{})

	assert.NotContains(t, got, "<iframe")
	assert.NotContains(t, got, "javascript:")
	assert.Contains(t, got, `<a href="https://evil.example/youtube.com/embed/abc"`)
}

func TestRenderEmbeddedEntries(t *testing.T) {
	var rt contentful.RichText
	require.NoError(t, json.Unmarshal([]byte(`{
		"json":{"nodeType":"document","content":[
			{"nodeType":"embedded-entry-block","data":{"target":{"sys":{"id":"img"}}},"content":[]},
			{"nodeType":"embedded-entry-block","data":{"target":{"sys":{"id":"vid"}}},"content":[]},
			{"nodeType":"embedded-entry-block","data":{"target":{"sys":{"id":"missing"}}},"content":[]}
		]},
		"links":{"entries":{"block":[
			{"__typename":"ComponentRichImage","sys":{"id":"img"},"caption":"A caption","fullWidth":true,
			 "image":{"sys":{"id":"a"},"url":"https://images.ctfassets.net/a.jpg","description":"alt text","width":1600,"height":900}},
			{"__typename":"PageBlogPostWithHtml","sys":{"id":"vid"},"sourceUrl":"https://vimeo.com/42","title":"Clip"}
		]}}
	}`), &rt))

	opts := Options{
		ImageURL: func(src string, width int) string { return "/_img?w=" + strconv.Itoa(width) + "&url=" + src },
		Labels:   embeds.Labels{ViewArticle: "View"},
	}
	var sb strings.Builder
	require.NoError(t, Render(&rt, opts).Render(context.Background(), &sb))
	got := sb.String()

	assert.Contains(t, got, `<figure class="rich-image rich-image-full">`)
	assert.Contains(t, got, `src="/_img?w=1200&amp;url=https://images.ctfassets.net/a.jpg"`)
	assert.Contains(t, got, `alt="alt text" width="1600" height="900"`)
	assert.Contains(t, got, `<figcaption>A caption</figcaption>`)
	assert.Contains(t, got, `https://player.vimeo.com/video/42`)
	assert.Equal(t, 1, strings.Count(got, "<iframe"))
}

func TestRenderNilAndInvalid(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Render(nil, Options{}).Render(context.Background(), &sb))
	assert.Empty(t, sb.String())

	err := Render(&contentful.RichText{JSON: json.RawMessage(`{bad`)}, Options{}).Render(context.Background(), &sb)
	assert.Error(t, err)
}
