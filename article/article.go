// Package article merges standard and markdown posts into one newest-first feed.
package article

import (
	"slices"
	"time"

	"github.com/araddon/dateparse"

	"github.com/ericx1023/contentful-blog/contentful"
)

// Type records which collection an article came from.
type Type string

const (
	TypeStandard Type = "standard"
	TypeMarkdown Type = "markdown"
)

// PathPrefix is the route segment placed before the slug.
func (t Type) PathPrefix() string {
	if t == TypeMarkdown {
		return "html-posts/"
	}
	return ""
}

// isoMillis matches the timestamps Contentful returns.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Source is the untransformed record an article was built from.
// It is either a StandardSource or a MarkdownSource.
type Source interface {
	source()
}

// StandardSource wraps a rich text post.
type StandardSource struct {
	Post *contentful.PageBlogPost
}

// MarkdownSource wraps a markdown/HTML post.
type MarkdownSource struct {
	Post *contentful.PageBlogPostWithHTML
}

func (StandardSource) source() {}
func (MarkdownSource) source() {}

// UnifiedArticle is the provenance-independent shape rendered by tiles, heroes and feeds.
// Empty strings and nil pointers mean the field is absent.
type UnifiedArticle struct {
	Sys              contentful.Sys
	Slug             string
	Title            string
	InternalName     string
	PublishedDate    string
	ShortDescription string
	Author           *contentful.Author
	FeaturedImage    *contentful.Asset
	Original         Source

	kind Type
}

// Type returns the collection the article came from. It is fixed at construction.
func (a UnifiedArticle) Type() Type {
	return a.kind
}

// Path is the site-relative route of the article, without locale prefix.
func (a UnifiedArticle) Path() string {
	return "/" + a.kind.PathPrefix() + a.Slug
}

// StandardPost returns the source record when the article is a standard post.
func (a UnifiedArticle) StandardPost() (*contentful.PageBlogPost, bool) {
	s, ok := a.Original.(StandardSource)
	return s.Post, ok
}

// MarkdownPost returns the source record when the article is a markdown post.
func (a UnifiedArticle) MarkdownPost() (*contentful.PageBlogPostWithHTML, bool) {
	s, ok := a.Original.(MarkdownSource)
	return s.Post, ok
}

// FromStandard copies a standard post field for field.
func FromStandard(p *contentful.PageBlogPost) UnifiedArticle {
	return UnifiedArticle{
		Sys:              p.Sys,
		Slug:             p.Slug,
		Title:            p.Title,
		InternalName:     p.InternalName,
		PublishedDate:    p.PublishedDate,
		ShortDescription: p.ShortDescription,
		Author:           p.Author,
		FeaturedImage:    p.FeaturedImage,
		Original:         StandardSource{Post: p},
		kind:             TypeStandard,
	}
}

// FromMarkdown builds an article from a markdown post. The publish date is taken from
// sys.publishedAt, then sys.firstPublishedAt, then now.
func FromMarkdown(p *contentful.PageBlogPostWithHTML, now time.Time) UnifiedArticle {
	published := p.Sys.PublishedAt
	if published == "" {
		published = p.Sys.FirstPublishedAt
	}
	if published == "" {
		published = now.UTC().Format(isoMillis)
	}
	sys := p.Sys
	sys.PublishedAt = published
	return UnifiedArticle{
		Sys:           sys,
		Slug:          p.Slug,
		Title:         p.Title,
		InternalName:  p.InternalName,
		PublishedDate: published,
		Author:        p.Author,
		FeaturedImage: p.FeaturedImage,
		Original:      MarkdownSource{Post: p},
		kind:          TypeMarkdown,
	}
}

// EffectiveDate is the ordering key: PublishedDate, else Sys.PublishedAt.
// Unparseable values count as missing.
func EffectiveDate(a UnifiedArticle) (time.Time, bool) {
	for _, s := range []string{a.PublishedDate, a.Sys.PublishedAt} {
		if s == "" {
			continue
		}
		if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MergeAndSort drops nil records, normalizes both collections and returns them newest
// first. Articles without a usable date go last; ties keep standard-then-markdown input
// order. now is only used for markdown posts that carry no system timestamps.
func MergeAndSort(standard []*contentful.PageBlogPost, markdown []*contentful.PageBlogPostWithHTML, now time.Time) []UnifiedArticle {
	type keyed struct {
		article UnifiedArticle
		date    time.Time
		dated   bool
	}
	all := make([]keyed, 0, len(standard)+len(markdown))
	add := func(a UnifiedArticle) {
		d, ok := EffectiveDate(a)
		all = append(all, keyed{article: a, date: d, dated: ok})
	}
	for _, p := range standard {
		if p != nil {
			add(FromStandard(p))
		}
	}
	for _, p := range markdown {
		if p != nil {
			add(FromMarkdown(p, now))
		}
	}

	slices.SortStableFunc(all, func(a, b keyed) int {
		switch {
		case a.dated && b.dated:
			return b.date.Compare(a.date)
		case a.dated:
			return -1
		case b.dated:
			return 1
		default:
			return 0
		}
	})

	out := make([]UnifiedArticle, len(all))
	for i, k := range all {
		out[i] = k.article
	}
	return out
}

// Split returns the newest article and the remainder. featured is nil when articles is empty.
func Split(articles []UnifiedArticle) (featured *UnifiedArticle, rest []UnifiedArticle) {
	if len(articles) == 0 {
		return nil, nil
	}
	return &articles[0], articles[1:]
}
