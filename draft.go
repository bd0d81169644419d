package blog

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ericx1023/contentful-blog/contentful"
)

// handleDraft enables draft mode after checking the preview secret and that the
// requested entry exists in the preview API, then redirects to the entry.
func (a *App) handleDraft(c echo.Context) error {
	if a.preview == nil || a.Config.Contentful.PreviewSecret == "" {
		return echo.ErrNotFound
	}
	ip := c.RealIP()
	if !a.draftLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many attempts. Try again later.")
	}
	secret := c.QueryParam("secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(a.Config.Contentful.PreviewSecret)) != 1 {
		a.draftLimiter.Record(ip)
		a.Logger.Warn("draft mode: invalid secret", zap.String("remote_ip", ip))
		return c.String(http.StatusUnauthorized, "Invalid token")
	}

	locale := c.QueryParam("locale")
	if !a.I18n.Supported(locale) {
		locale = a.I18n.Default()
	}
	target := "/"
	if slug := c.QueryParam("slug"); slug != "" {
		ctx := c.Request().Context()
		var err error
		if isMarkdownType(c.QueryParam("type")) {
			_, err = a.preview.PageBlogPostWithHTML(ctx, slug, locale)
			target = "/html-posts/" + slug + "/"
		} else {
			_, err = a.preview.PageBlogPost(ctx, slug, locale)
			target = "/" + slug + "/"
		}
		if errors.Is(err, contentful.ErrNotFound) {
			return c.String(http.StatusUnauthorized, "Invalid slug")
		}
		if err != nil {
			return err
		}
	}

	if err := setDraftSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusTemporaryRedirect, a.I18n.LocalizePath(locale, target))
}

func isMarkdownType(t string) bool {
	switch t {
	case "markdown", "html", "pageBlogPostWithHtml":
		return true
	}
	return false
}

// handleDisableDraft clears draft mode and returns to the redirect parameter or the home page.
func (a *App) handleDisableDraft(c echo.Context) error {
	if err := clearDraftSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusTemporaryRedirect, LocalRedirect(c.QueryParam("redirect"), "/"))
}

// contentSource returns the preview client for draft-mode requests and the delivery client otherwise.
func (a *App) contentSource(c echo.Context) (contentful.API, bool) {
	if a.preview != nil && IsDraft(c) {
		return a.preview, true
	}
	return a.delivery, false
}
