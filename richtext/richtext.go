// Package richtext renders Contentful rich text documents to HTML.
package richtext

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/ericx1023/contentful-blog/contentful"
	"github.com/ericx1023/contentful-blog/embeds"
)

// Node is one node of a rich text document tree.
type Node struct {
	NodeType string   `json:"nodeType"`
	Value    string   `json:"value,omitempty"`
	Marks    []Mark   `json:"marks,omitempty"`
	Data     NodeData `json:"data"`
	Content  []Node   `json:"content,omitempty"`
}

// Mark is a text decoration such as bold or code.
type Mark struct {
	Type string `json:"type"`
}

// NodeData carries hyperlink targets and embedded entry references.
type NodeData struct {
	URI    string `json:"uri,omitempty"`
	Target *struct {
		Sys contentful.Sys `json:"sys"`
	} `json:"target,omitempty"`
}

// Options controls how embedded content is rendered.
type Options struct {
	// ImageURL rewrites asset URLs, e.g. through the image proxy. Nil leaves them as is.
	ImageURL func(src string, width int) string
	Labels   embeds.Labels
}

// Render returns a component that writes the rich text field rt as HTML.
func Render(rt *contentful.RichText, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if rt == nil || len(rt.JSON) == 0 {
			return nil
		}
		var doc Node
		if err := json.Unmarshal(rt.JSON, &doc); err != nil {
			return fmt.Errorf("decode rich text: %w", err)
		}
		r := &renderer{links: rt, opts: opts}
		r.b.WriteString(`<article class="prose">`)
		r.children(doc)
		r.b.WriteString(`</article>`)
		_, err := io.WriteString(w, r.b.String())
		return err
	})
}

var blockTags = map[string]string{
	"paragraph":         "p",
	"heading-1":         "h1",
	"heading-2":         "h2",
	"heading-3":         "h3",
	"heading-4":         "h4",
	"heading-5":         "h5",
	"heading-6":         "h6",
	"unordered-list":    "ul",
	"ordered-list":      "ol",
	"list-item":         "li",
	"blockquote":        "blockquote",
	"table":             "table",
	"table-row":         "tr",
	"table-cell":        "td",
	"table-header-cell": "th",
}

var markTags = map[string]string{
	"bold":          "strong",
	"italic":        "em",
	"underline":     "u",
	"code":          "code",
	"superscript":   "sup",
	"subscript":     "sub",
	"strikethrough": "s",
}

type renderer struct {
	b     strings.Builder
	links *contentful.RichText
	opts  Options
}

func (r *renderer) children(n Node) {
	for _, c := range n.Content {
		r.node(c)
	}
}

func (r *renderer) node(n Node) {
	if tag, ok := blockTags[n.NodeType]; ok {
		r.b.WriteString("<" + tag + ">")
		r.children(n)
		r.b.WriteString("</" + tag + ">")
		return
	}
	switch n.NodeType {
	case "text":
		r.text(n)
	case "hr":
		r.b.WriteString("<hr/>")
	case "hyperlink":
		r.hyperlink(n)
	case "embedded-entry-block":
		r.embeddedEntry(n)
	default:
		// entry-hyperlink, embedded-asset-block and unknown nodes render their text only.
		r.children(n)
	}
}

func (r *renderer) text(n Node) {
	var tags []string
	for _, m := range n.Marks {
		if tag, ok := markTags[m.Type]; ok {
			tags = append(tags, tag)
			r.b.WriteString("<" + tag + ">")
		}
	}
	r.b.WriteString(strings.ReplaceAll(templ.EscapeString(n.Value), "\n", "<br/>"))
	for i := len(tags) - 1; i >= 0; i-- {
		r.b.WriteString("</" + tags[i] + ">")
	}
}

func (r *renderer) hyperlink(n Node) {
	uri := n.Data.URI
	if embeds.IsPlayerLink(uri) {
		r.b.WriteString(`<span class="iframe-container"><iframe title="` + templ.EscapeString(plainText(n)) + `" src="` + templ.EscapeString(uri) + `" allow="accelerometer; encrypted-media; gyroscope; picture-in-picture" frameborder="0" allowfullscreen></iframe></span>`)
		return
	}
	r.b.WriteString(`<a href="` + templ.EscapeString(string(templ.URL(uri))) + `" target="_blank" rel="noopener noreferrer">`)
	if len(n.Content) > 0 && n.Content[0].NodeType == "text" {
		r.children(n)
	} else {
		r.b.WriteString(templ.EscapeString(uri))
	}
	r.b.WriteString(`</a>`)
}

func (r *renderer) embeddedEntry(n Node) {
	if n.Data.Target == nil {
		return
	}
	entry, ok := r.links.Entry(n.Data.Target.Sys.ID)
	if !ok {
		return
	}
	switch entry.Typename {
	case "ComponentRichImage":
		r.richImage(entry)
	case "PageBlogPostWithHtml":
		if entry.SourceURL == "" {
			return
		}
		var img string
		if entry.FeaturedImage != nil {
			img = r.imageURL(entry.FeaturedImage.URL, 1200)
		}
		var sb strings.Builder
		_ = embeds.Card(embeds.Resolve(entry.SourceURL), entry.Title, img, r.opts.Labels).Render(context.Background(), &sb)
		r.b.WriteString(sb.String())
	}
}

func (r *renderer) richImage(entry *contentful.LinkedEntry) {
	if entry.Image == nil || entry.Image.URL == "" {
		return
	}
	class := "rich-image"
	if entry.FullWidth {
		class += " rich-image-full"
	}
	width := 750
	if entry.FullWidth {
		width = 1200
	}
	alt := entry.Image.Description
	if alt == "" {
		alt = entry.Image.Title
	}
	r.b.WriteString(`<figure class="` + class + `"><img src="` + templ.EscapeString(r.imageURL(entry.Image.URL, width)) + `" alt="` + templ.EscapeString(alt) + `"`)
	if entry.Image.Width > 0 && entry.Image.Height > 0 {
		r.b.WriteString(` width="` + strconv.Itoa(entry.Image.Width) + `" height="` + strconv.Itoa(entry.Image.Height) + `"`)
	}
	r.b.WriteString(` loading="lazy"/>`)
	if entry.Caption != "" {
		r.b.WriteString(`<figcaption>` + templ.EscapeString(entry.Caption) + `</figcaption>`)
	}
	r.b.WriteString(`</figure>`)
}

func (r *renderer) imageURL(src string, width int) string {
	if r.opts.ImageURL == nil {
		return src
	}
	return r.opts.ImageURL(src, width)
}

func plainText(n Node) string {
	if n.NodeType == "text" {
		return n.Value
	}
	var b strings.Builder
	for _, c := range n.Content {
		b.WriteString(plainText(c))
	}
	return b.String()
}
