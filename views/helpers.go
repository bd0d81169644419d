package views

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/araddon/dateparse"

	"github.com/ericx1023/contentful-blog/article"
	"github.com/ericx1023/contentful-blog/contentful"
)

// DateLayout is how dates are shown to readers.
const DateLayout = "Jan 02, 2006"

var esc = templ.EscapeString[string]

// attrURL escapes u for an href or src attribute. URLs with a script or other
// unsafe scheme are replaced by templ's failed-sanitization URL.
func attrURL(u string) string {
	return esc(string(templ.URL(u)))
}

// out writes strings and components to w, keeping the first error.
type out struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (o *out) s(parts ...string) {
	for _, p := range parts {
		if o.err != nil {
			return
		}
		_, o.err = io.WriteString(o.w, p)
	}
}

func (o *out) c(cmp templ.Component) {
	if o.err != nil || cmp == nil {
		return
	}
	o.err = cmp.Render(o.ctx, o.w)
}

func component(fn func(o *out)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &out{ctx: ctx, w: w}
		fn(o)
		return o.err
	})
}

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FormatDate renders an ISO-8601 timestamp as DateLayout. Unparseable input yields "".
func FormatDate(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := dateparse.ParseIn(iso, time.UTC)
	if err != nil {
		return ""
	}
	return t.Format(DateLayout)
}

// MarkdownDate picks the displayed date of a markdown post.
func MarkdownDate(p *contentful.PageBlogPostWithHTML) string {
	if p.Sys.PublishedAt != "" {
		return p.Sys.PublishedAt
	}
	return p.Sys.FirstPublishedAt
}

// WebsiteJSONLD produces a Schema.org WebSite JSON-LD block.
func WebsiteJSONLD(site Site) string {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      buildURL(site.URL),
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	return marshalJSONLD(data)
}

// BlogPostingJSONLD produces a Schema.org BlogPosting JSON-LD block for an article.
func BlogPostingJSONLD(site Site, a article.UnifiedArticle, postURL string) string {
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      a.Title,
		"datePublished": a.PublishedDate,
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if a.ShortDescription != "" {
		data["description"] = a.ShortDescription
	}
	if a.Author != nil && a.Author.Name != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  a.Author.Name,
		}
	}
	if a.FeaturedImage != nil && a.FeaturedImage.URL != "" {
		data["image"] = a.FeaturedImage.URL
	}
	return marshalJSONLD(data)
}

func marshalJSONLD(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// MetaFromSeo builds page metadata from CMS SEO fields, using fallback values for empty ones.
func MetaFromSeo(seo *contentful.SeoFields, title, description string) Meta {
	m := Meta{Title: title, Description: description}
	if seo == nil {
		return m
	}
	if seo.PageTitle != "" {
		m.Title = seo.PageTitle
	}
	if seo.PageDescription != "" {
		m.Description = seo.PageDescription
	}
	m.Canonical = seo.CanonicalURL
	m.NoIndex = seo.Noindex
	m.NoFollow = seo.Nofollow
	for _, img := range seo.ShareImages.Items {
		if img != nil && img.URL != "" {
			m.Image = img.URL
			break
		}
	}
	return m
}

func altText(a *contentful.Asset, fallback string) string {
	if a.Description != "" {
		return a.Description
	}
	if a.Title != "" {
		return a.Title
	}
	return fallback
}

// jsString renders s as a JavaScript string literal safe inside a <script> element.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
