package views

import (
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

// LivePreviewModule is the ES module that powers Contentful live preview in draft mode.
const LivePreviewModule = "https://cdn.jsdelivr.net/npm/@contentful/live-preview@4/+esm"

// Themes lists the accepted theme cookie values.
var Themes = []string{"light", "dark", "system"}

// DefaultTheme applies when no theme cookie is set.
const DefaultTheme = "dark"

// Layout wraps body in the full HTML document: head, header, footer and third-party scripts.
func Layout(p Page, body templ.Component) templ.Component {
	return component(func(o *out) {
		htmlClass := ""
		if p.Theme == "dark" {
			htmlClass = ` class="dark"`
		}
		o.s(`<!doctype html><html lang="`, esc(p.Locale), `"`, htmlClass, ` data-theme="`, esc(p.Theme), `">`)
		o.c(head(p))
		o.s(`<body class="site">`)
		o.s(`<a class="skip-link" href="#main">`, esc(p.T("common.skipToContent")), `</a>`)
		if p.Draft {
			o.s(`<div class="draft-banner" role="status">`, esc(p.T("preview.active")),
				` <a href="/api/disable-draft?redirect=`, esc(url.QueryEscape(p.Href(p.Path))), `">`, esc(p.T("preview.exit")), `</a></div>`)
		}
		o.c(header(p))
		o.s(`<main id="main">`)
		o.c(body)
		o.s(`</main>`)
		o.c(footer(p))
		o.c(scripts(p))
		o.s(`</body></html>`)
	})
}

func head(p Page) templ.Component {
	return component(func(o *out) {
		m := p.Meta
		title := m.Title
		if title == "" {
			title = p.Site.Name
		} else if title != p.Site.Name {
			title += " | " + p.Site.Name
		}
		desc := m.Description
		if desc == "" {
			desc = p.Site.Description
		}
		canonical := m.Canonical
		if canonical == "" {
			canonical = absolute(p.Site.URL, p.Href(p.Path))
		}
		ogType := m.OGType
		if ogType == "" {
			ogType = "website"
		}

		o.s(`<head><meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		o.s(`<title>`, esc(title), `</title>`)
		o.s(`<meta name="description" content="`, esc(desc), `"/>`)
		if robots := robotsContent(m.NoIndex, m.NoFollow); robots != "" {
			o.s(`<meta name="robots" content="`, robots, `"/>`)
		}
		o.s(`<link rel="canonical" href="`, attrURL(canonical), `"/>`)
		if p.Bundle != nil {
			for _, loc := range p.Bundle.Locales() {
				o.s(`<link rel="alternate" hreflang="`, esc(loc), `" href="`, attrURL(absolute(p.Site.URL, p.Bundle.LocalizePath(loc, p.Path))), `"/>`)
			}
			o.s(`<link rel="alternate" hreflang="x-default" href="`, attrURL(absolute(p.Site.URL, p.Path)), `"/>`)
		}
		o.s(`<meta property="og:title" content="`, esc(title), `"/>`)
		o.s(`<meta property="og:description" content="`, esc(desc), `"/>`)
		o.s(`<meta property="og:type" content="`, esc(ogType), `"/>`)
		o.s(`<meta property="og:url" content="`, attrURL(canonical), `"/>`)
		o.s(`<meta property="og:site_name" content="`, esc(p.Site.Name), `"/>`)
		o.s(`<meta property="og:locale" content="`, esc(strings.ReplaceAll(p.Locale, "-", "_")), `"/>`)
		if m.Image != "" {
			o.s(`<meta property="og:image" content="`, attrURL(m.Image), `"/>`)
			o.s(`<meta name="twitter:card" content="summary_large_image"/>`)
		}
		o.s(`<link rel="alternate" type="application/rss+xml" title="`, esc(p.Site.Name), `" href="/feed.xml"/>`)
		o.s(`<link rel="icon" href="/public/favicon.svg" type="image/svg+xml"/>`)
		o.s(`<link rel="stylesheet" href="/public/styles.css"/>`)
		if p.Theme == "system" {
			o.s(`<script>if(window.matchMedia('(prefers-color-scheme: dark)').matches){document.documentElement.classList.add('dark')}</script>`)
		}
		for _, ld := range m.JSONLD {
			o.s(`<script type="application/ld+json">`, ld, `</script>`)
		}
		if id := p.Site.GoogleAnalyticsID; id != "" {
			o.s(`<script async src="https://www.googletagmanager.com/gtag/js?id=`, esc(url.QueryEscape(id)), `"></script>`)
			o.s(`<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments)}gtag('js',new Date());gtag('config',`, jsString(id), `);</script>`)
		}
		if client := p.Site.AdSenseClient; client != "" {
			o.s(`<script async src="https://pagead2.googlesyndication.com/pagead/js/adsbygoogle.js?client=`, esc(url.QueryEscape(client)), `" crossorigin="anonymous"></script>`)
		}
		o.s(`</head>`)
	})
}

func robotsContent(noIndex, noFollow bool) string {
	var parts []string
	if noIndex {
		parts = append(parts, "noindex")
	}
	if noFollow {
		parts = append(parts, "nofollow")
	}
	return strings.Join(parts, ", ")
}

func absolute(base, p string) string {
	return strings.TrimSuffix(base, "/") + p
}

func header(p Page) templ.Component {
	return component(func(o *out) {
		home := p.Href("/")
		o.s(`<header class="site-header"><nav class="container nav">`)
		o.s(`<a class="logo" href="`, attrURL(home), `" title="`, esc(p.T("common.homepage")), `"><img src="/public/logo.svg" alt="logo" width="68" height="68"/></a>`)
		o.s(`<div class="nav-links"><a href="`, attrURL(home), `">`, esc(p.T("common.homepage")), `</a>`)
		o.s(`<a href="`, attrURL(p.Href("/html-posts/")), `">`, esc(p.T("htmlPosts.title")), `</a></div>`)
		o.c(languageSelector(p))
		o.c(themeToggle(p))
		o.s(`</nav></header>`)
	})
}

func languageSelector(p Page) templ.Component {
	return component(func(o *out) {
		if p.Bundle == nil {
			return
		}
		o.s(`<div class="language-selector" aria-label="`, esc(p.T("locale.label")), `"><ul>`)
		for _, loc := range p.Bundle.Locales() {
			current := ""
			if loc == p.Locale {
				current = ` aria-current="true"`
			}
			o.s(`<li><a hreflang="`, esc(loc), `" href="`, attrURL(p.Bundle.LocalizePath(loc, p.Path)), `"`, current, `>`, esc(p.T("locale."+loc)), `</a></li>`)
		}
		o.s(`</ul></div>`)
	})
}

func themeToggle(p Page) templ.Component {
	return component(func(o *out) {
		o.s(`<form class="theme-toggle" method="post" action="/theme/" aria-label="`, esc(p.T("theme.toggle")), `">`)
		o.s(`<input type="hidden" name="_csrf" value="`, esc(p.CSRFToken), `"/>`)
		o.s(`<input type="hidden" name="redirect" value="`, esc(p.Href(p.Path)), `"/>`)
		for _, theme := range Themes {
			pressed := "false"
			if theme == p.Theme {
				pressed = "true"
			}
			o.s(`<button type="submit" name="theme" value="`, theme, `" aria-pressed="`, pressed, `">`, esc(p.T("theme."+theme)), `</button>`)
		}
		o.s(`</form>`)
	})
}

func footer(p Page) templ.Component {
	return component(func(o *out) {
		o.s(`<footer class="site-footer"><div class="container">`)
		o.s(`<h2>`, esc(p.T("footer.aboutUs")), `</h2><p>`, esc(p.T("footer.description")), `</p>`)
		o.s(`<p class="copyright">© `, esc(p.Site.Name), `. `, esc(p.T("footer.rights")), ` `, esc(p.T("footer.powerBy")), ` <a href="https://www.contentful.com" target="_blank" rel="noopener noreferrer">Contentful</a></p>`)
		o.s(`</div></footer>`)
	})
}

func scripts(p Page) templ.Component {
	return component(func(o *out) {
		if isso := strings.TrimSuffix(p.Site.IssoURL, "/"); isso != "" {
			o.s(`<script data-isso="`, esc(isso), `/" data-isso-lang="`, esc(issoLang(p.Locale)), `" src="`, attrURL(isso), `/js/embed.min.js" async></script>`)
		}
		if p.Draft {
			o.s(`<script type="module">import { ContentfulLivePreview } from '`, LivePreviewModule, `';ContentfulLivePreview.init({ locale: `, jsString(p.Locale), `, enableInspectorMode: true, enableLiveUpdates: false });</script>`)
		}
	})
}

func issoLang(locale string) string {
	if strings.HasPrefix(locale, "zh") {
		return "zh_TW"
	}
	lang, _, _ := strings.Cut(locale, "-")
	return lang
}
