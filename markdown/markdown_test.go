package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFormatInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"_italic_", "<em>italic</em>"},
		{"~~gone~~", "<del>gone</del>"},
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
		{"use `**raw**` here", "use <code>**raw**</code> here"},
		{"a <b> tag", "a &lt;b&gt; tag"},
		{"snake_case_name", "snake_case_name"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input, new(int), nil)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineLinks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[home](/)", `<a href="/">home</a>`},
		{"[ext](https://example.com)", `<a href="https://example.com" target="_blank" rel="noopener noreferrer">ext</a>`},
		{"[bad](javascript:void)", "bad"},
		{"[under](https://example.com/a_b_c)", `<a href="https://example.com/a_b_c" target="_blank" rel="noopener noreferrer">under</a>`},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input, new(int), nil)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineImages(t *testing.T) {
	count := 0
	proxy := func(src string) string { return "/_img?url=" + src }

	first := FormatInline("![cat](https://images.ctfassets.net/cat.png)", &count, proxy)
	want := `<img src="/_img?url=https://images.ctfassets.net/cat.png" alt="cat" fetchpriority="high" decoding="async"/>`
	if first != want {
		t.Errorf("first image = %q, want %q", first, want)
	}

	second := FormatInline(`![dog](/dog.png "Good dog")`, &count, nil)
	if !strings.Contains(second, `loading="lazy"`) || !strings.Contains(second, `title="Good dog"`) {
		t.Errorf("second image = %q, want lazy loading and title", second)
	}
	if count != 2 {
		t.Errorf("image count = %d, want 2", count)
	}

	if got := FormatInline("![x](data:text/html,hi)", new(int), nil); got != "x" {
		t.Errorf("unsafe image = %q, want alt text only", got)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com", "https://example.com"},
		{"mailto:a@b.c", "mailto:a@b.c"},
		{"/local?a=1&b=2", "/local?a=1&amp;b=2"},
		{"#anchor", "#anchor"},
		{"javascript:alert(1)", ""},
		{"JAVASCRIPT:alert(1)", ""},
		{"relative/path", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func render(md string) string {
	var buf bytes.Buffer
	Render(&buf, md, Options{})
	return buf.String()
}

func TestRenderBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"headings", "# One\n###### Six", "<h1>One</h1><h6>Six</h6>"},
		{"paragraph joins lines", "a\nb", "<p>a b</p>"},
		{"hard break", "a  \nb", "<p>a<br/>b</p>"},
		{"star list", "* one\n* two", "<ul><li>one</li><li>two</li></ul>"},
		{"dash list", "- one", "<ul><li>one</li></ul>"},
		{"ordered list", "1. one\n2) two", "<ol><li>one</li><li>two</li></ol>"},
		{"task list", "- [ ] todo\n- [x] done", `<ul><li><input type="checkbox" disabled/> todo</li><li><input type="checkbox" checked disabled/> done</li></ul>`},
		{"quote", "> a\n> b", "<blockquote>a<br/>b</blockquote>"},
		{"rule", "a\n\n---\n\nb", "<p>a</p><hr/><p>b</p>"},
		{"code", "```go\nx := <1>\n```", `<pre class="code-block"><code class="language-go">x := &lt;1&gt;` + "\n" + `</code></pre>`},
		{"unterminated code", "```\nx", `<pre class="code-block"><code>x` + "\n" + `</code></pre>`},
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |", "<table><thead><tr><th>a</th><th>b</th></tr></thead><tbody><tr><td>1</td><td>2</td></tr></tbody></table>"},
		{"list then paragraph", "- one\ntext", "<ul><li>one</li></ul><p>text</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(tt.input); got != tt.expected {
				t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRenderRawHTML(t *testing.T) {
	input := "<div class=\"note\">\n  <b>kept</b> **not markdown**\n</div>\n\nafter"
	got := render(input)
	want := "<div class=\"note\">\n  <b>kept</b> **not markdown**\n</div><p>after</p>"
	if got != want {
		t.Errorf("Render raw HTML = %q, want %q", got, want)
	}
}

func TestRenderRawHTMLDropsScripts(t *testing.T) {
	got := render("<div>ok<script>alert(1)</script></div>")
	if strings.Contains(got, "script") {
		t.Errorf("script survived: %q", got)
	}
	if !strings.Contains(got, "<div>ok</div>") {
		t.Errorf("surrounding markup lost: %q", got)
	}
}

func TestMarkdownComponent(t *testing.T) {
	var sb strings.Builder
	err := Markdown("![a](https://x.test/a.png)", Options{ImageURL: func(s string) string { return s + "?w=750" }}).
		Render(context.Background(), &sb)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), `src="https://x.test/a.png?w=750"`) {
		t.Errorf("got %q", sb.String())
	}
}
