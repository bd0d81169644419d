package views

import (
	"github.com/ericx1023/contentful-blog/article"
	"github.com/ericx1023/contentful-blog/i18n"
)

// Site holds site-wide settings every page needs.
type Site struct {
	Name              string
	URL               string
	Description       string
	IssoURL           string
	GoogleAnalyticsID string
	AdSenseClient     string
}

// Meta carries per-page OpenGraph and SEO metadata into the <head>.
type Meta struct {
	Title       string
	Description string
	Canonical   string // absolute URL; empty derives it from the page path
	Image       string
	OGType      string // "website" or "article"
	NoIndex     bool
	NoFollow    bool
	JSONLD      []string
}

// Page is the per-request context shared by every component.
type Page struct {
	Site   Site
	Bundle *i18n.Bundle
	Locale string
	// Path is the request path without its locale prefix.
	Path      string
	Theme     string
	Draft     bool
	CSRFToken string
	Meta      Meta
	// ImageURL maps an asset URL and display width to a served URL. Nil serves assets directly.
	ImageURL func(src string, width int) string
}

// T translates key for the page locale.
func (p Page) T(key string) string {
	if p.Bundle == nil {
		return key
	}
	return p.Bundle.T(p.Locale, key)
}

// Href localizes an absolute site path for the page locale.
func (p Page) Href(path string) string {
	if p.Bundle == nil {
		return path
	}
	return p.Bundle.LocalizePath(p.Locale, path)
}

// Image returns the URL to serve src at width.
func (p Page) Image(src string, width int) string {
	if p.ImageURL == nil || src == "" {
		return src
	}
	return p.ImageURL(src, width)
}

// Inspector returns live-preview attributes for a field of a standard article.
// It returns "" outside draft mode and for markdown articles.
func (p Page) Inspector(a article.UnifiedArticle, field string) string {
	if a.Type() != article.TypeStandard {
		return ""
	}
	return p.entryInspector(a.Sys.ID, field)
}

func (p Page) entryInspector(entryID, field string) string {
	if !p.Draft || entryID == "" {
		return ""
	}
	return ` data-contentful-entry-id="` + esc(entryID) + `" data-contentful-field-id="` + esc(field) + `" data-contentful-locale="` + esc(p.Locale) + `"`
}
