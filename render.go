package blog

import (
	"net/http"
	"slices"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/ericx1023/contentful-blog/views"
)

const themeCookie = "theme"

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// page builds the per-request view context.
func (a *App) page(c echo.Context, meta views.Meta) views.Page {
	locale := Locale(c)
	if locale == "" {
		locale = a.I18n.Default()
	}
	return views.Page{
		Site:      a.site(),
		Bundle:    a.I18n,
		Locale:    locale,
		Path:      unprefixedPath(c),
		Theme:     Theme(c),
		Draft:     IsDraft(c),
		CSRFToken: CsrfToken(c),
		Meta:      meta,
		ImageURL:  a.images.URL,
	}
}

func (a *App) site() views.Site {
	return views.Site{
		Name:              a.Config.Name,
		URL:               a.Config.URL,
		Description:       a.Config.Description,
		IssoURL:           a.Config.IssoURL,
		GoogleAnalyticsID: a.Config.GoogleAnalyticsID,
		AdSenseClient:     a.Config.AdSenseClient,
	}
}

// Theme returns the theme stored in the request cookie, or the default theme.
func Theme(c echo.Context) string {
	ck, err := c.Cookie(themeCookie)
	if err != nil || !slices.Contains(views.Themes, ck.Value) {
		return views.DefaultTheme
	}
	return ck.Value
}

func (a *App) notFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, views.NotFound(a.page(c, views.Meta{})))
}
