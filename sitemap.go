package blog

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ericx1023/contentful-blog/article"
)

type sitemapURLSet struct {
	XMLName    xml.Name     `xml:"urlset"`
	XMLNS      string       `xml:"xmlns,attr"`
	XMLNSXHTML string       `xml:"xmlns:xhtml,attr"`
	URLs       []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string           `xml:"loc"`
	LastMod    string           `xml:"lastmod,omitempty"`
	Alternates []sitemapAltLink `xml:"xhtml:link"`
}

type sitemapAltLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// sitemapEntry is one page listed once per locale.
type sitemapEntry struct {
	path    string
	lastMod string
}

func (a *App) localizedURL(locale, p string) string {
	return BuildURL(a.Config.URL, strings.TrimPrefix(a.I18n.LocalizePath(locale, p), "/"))
}

func (a *App) renderSitemap(c echo.Context) error {
	entries := []sitemapEntry{{path: "/"}, {path: "/html-posts/"}}
	data, err := a.Cache.Get(c.Request().Context(), a.I18n.Default())
	if err != nil {
		a.Logger.Warn("sitemap: feed unavailable", zap.Error(err))
	}
	for _, art := range article.MergeAndSort(data.Standard, data.Markdown, a.now()) {
		e := sitemapEntry{path: art.Path() + "/"}
		if t, ok := article.EffectiveDate(art); ok {
			e.lastMod = t.Format("2006-01-02")
		}
		entries = append(entries, e)
	}

	locales := a.I18n.Locales()
	urls := make([]sitemapURL, 0, len(entries)*len(locales))
	for _, e := range entries {
		alts := make([]sitemapAltLink, 0, len(locales))
		for _, loc := range locales {
			alts = append(alts, sitemapAltLink{Rel: "alternate", Hreflang: loc, Href: a.localizedURL(loc, e.path)})
		}
		for _, loc := range locales {
			urls = append(urls, sitemapURL{Loc: a.localizedURL(loc, e.path), LastMod: e.lastMod, Alternates: alts})
		}
	}

	sitemap := sitemapURLSet{
		XMLNS:      "http://www.sitemaps.org/schemas/sitemap/0.9",
		XMLNSXHTML: "http://www.w3.org/1999/xhtml",
		URLs:       urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
