package blog

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ericx1023/contentful-blog/article"
	"github.com/ericx1023/contentful-blog/contentful"
	"github.com/ericx1023/contentful-blog/views"
)

// feed returns the landing data for the request locale: straight from the preview API
// in draft mode, from the cache otherwise.
func (a *App) feed(c echo.Context) (FeedData, error) {
	api, draft := a.contentSource(c)
	if draft {
		return FetchFeed(c.Request().Context(), api, Locale(c))
	}
	return a.Cache.Get(c.Request().Context(), Locale(c))
}

// fetchFailed logs a CMS failure and renders the 404 page.
func (a *App) fetchFailed(c echo.Context, what string, err error) error {
	level := a.Logger.Warn
	if errors.Is(err, contentful.ErrNotFound) {
		level = a.Logger.Debug
	}
	level("content unavailable", zap.String("content", what), zap.String("path", c.Request().URL.Path), zap.String("locale", Locale(c)), zap.Error(err))
	return a.notFound(c)
}

func (a *App) handleLanding(c echo.Context) error {
	data, err := a.feed(c)
	if err != nil {
		return a.fetchFailed(c, "landing", err)
	}
	if data.Empty() {
		return a.fetchFailed(c, "landing", errNoArticles)
	}
	featured, rest := article.Split(article.MergeAndSort(data.Standard, data.Markdown, a.now()))

	var seo *contentful.SeoFields
	if data.Landing != nil {
		seo = data.Landing.SeoFields
	}
	meta := views.MetaFromSeo(seo, a.Config.Name, a.Config.Description)
	meta.JSONLD = []string{views.WebsiteJSONLD(a.site())}
	return Render(c, views.Landing(a.page(c, meta), featured, rest))
}

var errNoArticles = errors.New("no articles in either collection")

func (a *App) handleBlogPost(c echo.Context) error {
	api, _ := a.contentSource(c)
	post, err := api.PageBlogPost(c.Request().Context(), c.Param("slug"), Locale(c))
	if err != nil {
		return a.fetchFailed(c, "blog post", err)
	}

	var related []article.UnifiedArticle
	for _, r := range post.RelatedBlogPosts.Items {
		if r != nil {
			related = append(related, article.FromStandard(r))
		}
	}

	meta := views.MetaFromSeo(post.SeoFields, post.Title, post.ShortDescription)
	meta.OGType = "article"
	if meta.Image == "" && post.FeaturedImage != nil {
		meta.Image = post.FeaturedImage.URL
	}
	a.addPostingJSONLD(c, &meta, article.FromStandard(post))
	return Render(c, views.BlogPost(a.page(c, meta), post, related))
}

func (a *App) handleHTMLPostIndex(c echo.Context) error {
	api, _ := a.contentSource(c)
	posts, err := api.PageBlogPostWithHTMLCollection(c.Request().Context(), contentful.CollectionParams{
		Locale: Locale(c),
		Limit:  htmlPostLimit,
		Order:  contentful.OrderTitleAsc,
	})
	if err != nil {
		return a.fetchFailed(c, "markdown posts", err)
	}
	meta := views.Meta{
		Title:       a.I18n.T(Locale(c), "htmlPosts.title"),
		Description: a.I18n.T(Locale(c), "htmlPosts.description"),
	}
	return Render(c, views.HTMLPostIndex(a.page(c, meta), posts))
}

func (a *App) handleHTMLPost(c echo.Context) error {
	api, _ := a.contentSource(c)
	post, err := api.PageBlogPostWithHTML(c.Request().Context(), c.Param("slug"), Locale(c))
	if err != nil {
		return a.fetchFailed(c, "markdown post", err)
	}
	meta := views.Meta{Title: post.Title, OGType: "article"}
	if post.FeaturedImage != nil {
		meta.Image = post.FeaturedImage.URL
	}
	a.addPostingJSONLD(c, &meta, article.FromMarkdown(post, a.now()))
	return Render(c, views.HTMLPost(a.page(c, meta), post))
}

func (a *App) addPostingJSONLD(c echo.Context, meta *views.Meta, art article.UnifiedArticle) {
	meta.Canonical = a.articleURL(Locale(c), art)
	meta.JSONLD = append(meta.JSONLD, views.BlogPostingJSONLD(a.site(), art, meta.Canonical))
}

func (a *App) handleTheme(c echo.Context) error {
	theme := c.FormValue("theme")
	if !slices.Contains(views.Themes, theme) {
		return c.String(http.StatusBadRequest, "unknown theme")
	}
	c.SetCookie(&http.Cookie{
		Name:     themeCookie,
		Value:    theme,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 365,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	})
	return c.Redirect(http.StatusSeeOther, LocalRedirect(c.FormValue("redirect"), "/"))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c)
}

func (a *App) handleFeed(c echo.Context) error {
	data, err := a.Cache.Get(c.Request().Context(), Locale(c))
	if err != nil {
		a.Logger.Warn("rss feed", zap.String("locale", Locale(c)), zap.Error(err))
		return echo.ErrServiceUnavailable
	}
	return a.renderRSS(c, article.MergeAndSort(data.Standard, data.Markdown, a.now()))
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: " + strings.TrimSuffix(a.Config.URL, "/") + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = a.notFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", zap.Int("status", code), zap.String("path", c.Request().URL.Path), zap.Error(err))
		_ = RenderStatus(c, code, views.ServerError(a.page(c, views.Meta{})))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
