package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/ericx1023/contentful-blog/article"
	"github.com/ericx1023/contentful-blog/contentful"
)

// Author renders the author's avatar and name. It renders nothing without a name.
func Author(p Page, author *contentful.Author) templ.Component {
	return component(func(o *out) {
		if author == nil || author.Name == "" {
			return
		}
		o.s(`<div class="article-author">`)
		if author.Avatar != nil && author.Avatar.URL != "" {
			o.s(`<span class="avatar"`, p.entryInspector(author.Sys.ID, "avatar"), `><img src="`, attrURL(p.Image(author.Avatar.URL, 64)), `" alt="`, esc(p.T("article.authorAvatar")), `" width="28" height="28" loading="lazy"/></span>`)
		}
		o.s(`<span class="author-name"`, p.entryInspector(author.Sys.ID, "name"), `>`, esc(author.Name), `</span></div>`)
	})
}

// ArticleHero renders the large header of an article: date, title, author, featured image
// and short description.
func ArticleHero(p Page, a article.UnifiedArticle, isFeatured bool) templ.Component {
	return component(func(o *out) {
		o.s(`<div class="article-hero">`)
		if isFeatured {
			o.s(`<span class="article-label">`, esc(p.T("article.featured")), `</span>`)
		}
		o.s(`<div class="article-hero-text">`)
		if date := FormatDate(a.PublishedDate); date != "" {
			o.s(`<time datetime="`, esc(a.PublishedDate), `"`, p.Inspector(a, "publishedDate"), `>`, esc(date), `</time>`)
		}
		o.s(`<h1`, p.Inspector(a, "title"), `>`, esc(a.Title), `</h1>`)
		o.c(Author(p, a.Author))
		o.s(`</div>`)
		if img := a.FeaturedImage; img != nil && img.URL != "" {
			o.s(`<div class="article-hero-image"`, p.Inspector(a, "featuredImage"), `>`)
			o.c(image(p, img, 1200, altText(img, p.T("article.featuredImage")), true))
			o.s(`</div>`)
		}
		if a.ShortDescription != "" {
			o.s(`<p class="article-summary"`, p.Inspector(a, "shortDescription"), `>`, esc(a.ShortDescription), `</p>`)
		}
		o.s(`</div>`)
	})
}

// ArticleTile renders one card of the article grid, linking to the article's page.
func ArticleTile(p Page, a article.UnifiedArticle) templ.Component {
	return component(func(o *out) {
		o.s(`<a class="article-tile" href="`, attrURL(p.Href(a.Path()+"/")), `">`)
		if img := a.FeaturedImage; img != nil && img.URL != "" {
			o.s(`<div class="tile-image"`, p.Inspector(a, "featuredImage"), `>`)
			o.c(image(p, img, 640, altText(img, a.Title), false))
			o.s(`<div class="tile-overlay"></div></div>`)
		}
		o.s(`<div class="tile-body">`)
		if a.Title != "" {
			o.s(`<p class="tile-title"`, p.Inspector(a, "title"), `>`, esc(a.Title), `</p>`)
		}
		o.s(`<div class="tile-meta">`)
		o.c(Author(p, a.Author))
		if date := FormatDate(a.PublishedDate); date != "" {
			o.s(`<time datetime="`, esc(a.PublishedDate), `"`, p.Inspector(a, "publishedDate"), `>`, esc(date), `</time>`)
		}
		o.s(`</div></div></a>`)
	})
}

// ArticleTileGrid renders articles as a grid of tiles.
func ArticleTileGrid(p Page, articles []article.UnifiedArticle) templ.Component {
	return component(func(o *out) {
		if len(articles) == 0 {
			return
		}
		o.s(`<div class="article-grid">`)
		for _, a := range articles {
			o.c(ArticleTile(p, a))
		}
		o.s(`</div>`)
	})
}

func image(p Page, img *contentful.Asset, width int, alt string, priority bool) templ.Component {
	return component(func(o *out) {
		o.s(`<img src="`, attrURL(p.Image(img.URL, width)), `" alt="`, esc(alt), `"`)
		if img.Width > 0 && img.Height > 0 {
			o.s(` width="`, strconv.Itoa(img.Width), `" height="`, strconv.Itoa(img.Height), `"`)
		}
		if priority {
			o.s(` fetchpriority="high"`)
		} else {
			o.s(` loading="lazy"`)
		}
		o.s(` decoding="async"/>`)
	})
}
