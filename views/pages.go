package views

import (
	"github.com/a-h/templ"

	"github.com/ericx1023/contentful-blog/article"
	"github.com/ericx1023/contentful-blog/contentful"
	"github.com/ericx1023/contentful-blog/embeds"
	"github.com/ericx1023/contentful-blog/markdown"
	"github.com/ericx1023/contentful-blog/richtext"
)

// Landing renders the home page: the newest article as the hero and the rest as tiles.
func Landing(p Page, featured *article.UnifiedArticle, rest []article.UnifiedArticle) templ.Component {
	return Layout(p, component(func(o *out) {
		if featured != nil {
			o.s(`<section class="container landing-hero"><a href="`, attrURL(p.Href(featured.Path()+"/")), `">`)
			o.c(ArticleHero(p, *featured, false))
			o.s(`</a></section>`)
		}
		o.s(`<section class="container landing-latest"><h2>`, esc(p.T("landingPage.latestArticles")), `</h2>`)
		o.c(ArticleTileGrid(p, rest))
		o.s(`</section>`)
	}))
}

// BlogPost renders a standard rich text post with its related posts and comments.
func BlogPost(p Page, post *contentful.PageBlogPost, related []article.UnifiedArticle) templ.Component {
	a := article.FromStandard(post)
	return Layout(p, component(func(o *out) {
		o.s(`<article class="post">`)
		o.s(`<div class="container">`)
		o.c(ArticleHero(p, a, false))
		o.s(`</div><div class="container post-body"`, p.Inspector(a, "content"), `>`)
		o.c(richtext.Render(post.Content, richtext.Options{ImageURL: p.ImageURL, Labels: embedLabels(p)}))
		o.s(`</div></article>`)
		if len(related) > 0 {
			o.s(`<section class="container related"><h2`, p.Inspector(a, "relatedBlogPosts"), `>`, esc(p.T("article.relatedArticles")), `</h2>`)
			o.c(ArticleTileGrid(p, related))
			o.s(`</section>`)
		}
		o.c(Comments(p))
	}))
}

// HTMLPostIndex renders the list of markdown/HTML posts.
func HTMLPostIndex(p Page, posts []*contentful.PageBlogPostWithHTML) templ.Component {
	return Layout(p, component(func(o *out) {
		o.s(`<section class="container html-posts"><h1>`, esc(p.T("htmlPosts.title")), `</h1>`)
		o.s(`<p class="lead">`, esc(p.T("htmlPosts.description")), `</p><ul class="html-post-list">`)
		for _, post := range posts {
			if post == nil {
				continue
			}
			o.s(`<li><a href="`, attrURL(p.Href("/html-posts/"+post.Slug+"/")), `"><h2>`, esc(post.Title), `</h2>`)
			if date := FormatDate(MarkdownDate(post)); date != "" {
				o.s(`<time datetime="`, esc(MarkdownDate(post)), `">`, esc(date), `</time>`)
			}
			o.s(`</a></li>`)
		}
		o.s(`</ul></section>`)
	}))
}

// HTMLPost renders one markdown/HTML post.
func HTMLPost(p Page, post *contentful.PageBlogPostWithHTML) templ.Component {
	return Layout(p, component(func(o *out) {
		o.s(`<article class="container post html-post">`)
		o.s(`<span class="badge">`, esc(p.T("article.markdownBadge")), `</span>`)
		if date := MarkdownDate(post); date != "" {
			if formatted := FormatDate(date); formatted != "" {
				o.s(`<time datetime="`, esc(date), `">`, esc(formatted), `</time>`)
			}
		}
		o.s(`<h1>`, esc(post.Title), `</h1>`)
		o.c(Author(p, post.Author))
		if post.InternalName != "" {
			o.s(`<p class="internal-name">`, esc(post.InternalName), `</p>`)
		}
		if img := post.FeaturedImage; img != nil && img.URL != "" {
			o.s(`<div class="article-hero-image">`)
			o.c(image(p, img, 1200, altText(img, p.T("article.featuredImage")), true))
			o.s(`</div>`)
		}
		o.s(`<div class="prose">`)
		o.c(markdown.Markdown(post.HTML, markdown.Options{ImageURL: func(src string) string { return p.Image(src, 750) }}))
		o.s(`</div>`)
		if post.SourceURL != "" {
			img := ""
			if post.FeaturedImage != nil {
				img = p.Image(post.FeaturedImage.URL, 1200)
			}
			o.c(embeds.Card(embeds.Resolve(post.SourceURL), post.Title, img, embedLabels(p)))
		}
		o.s(`<p class="back-link"><a href="`, attrURL(p.Href("/html-posts/")), `">← `, esc(p.T("common.backToList")), `</a></p>`)
		o.s(`</article>`)
		o.c(Comments(p))
	}))
}

// Comments renders the Isso thread for the current page. It renders nothing when Isso is not configured.
func Comments(p Page) templ.Component {
	return component(func(o *out) {
		if p.Site.IssoURL == "" {
			return
		}
		o.s(`<section class="container comments"><h3>`, esc(p.T("comments.title")), `</h3>`)
		o.s(`<section id="isso-thread" data-isso-id="`, esc(p.Href(p.Path)), `" data-title="`, esc(p.Meta.Title), `"></section></section>`)
	})
}

// NotFound renders the 404 page.
func NotFound(p Page) templ.Component {
	return errorPage(p, "notFound")
}

// ServerError renders the 500 page.
func ServerError(p Page) templ.Component {
	return errorPage(p, "serverError")
}

func errorPage(p Page, key string) templ.Component {
	p.Meta = Meta{Title: p.T(key + ".title"), NoIndex: true}
	return Layout(p, component(func(o *out) {
		o.s(`<section class="container error-page"><h1>`, esc(p.T(key+".title")), `</h1><p>`, esc(p.T(key+".description")), `</p>`)
		o.s(`<a href="`, attrURL(p.Href("/")), `">`, esc(p.T("common.homepage")), `</a></section>`)
	}))
}

func embedLabels(p Page) embeds.Labels {
	return embeds.Labels{
		ViewArticle:  p.T("article.viewArticle"),
		ExternalLink: p.T("article.externalLink"),
		InvalidURL:   p.T("article.invalidURL"),
	}
}
