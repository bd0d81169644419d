package blog

import (
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	draftSessionName = "draft_session"
	localeContextKey = "locale"
	pathContextKey   = "unprefixed_path"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return strings.HasPrefix(p, "/public") ||
				strings.HasPrefix(p, "/api/") ||
				strings.HasPrefix(p, "/_img") ||
				path.Ext(p) != ""
		},
	}))

	e.Pre(a.localeMiddleware)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				a.Logger.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			a.Logger.Info("request", fields...)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return strings.HasPrefix(p, "/public/") || strings.HasPrefix(p, "/_img")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: a.contentSecurityPolicy(),
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(a.cacheControlMiddleware)
}

// localeMiddleware strips a locale prefix from the request path before routing and
// stores the locale and the unprefixed path on the context.
func (a *App) localeMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		locale, rest := a.I18n.SplitPath(req.URL.Path)
		if locale != a.I18n.Default() {
			req.URL.Path = rest
			if req.URL.RawPath != "" {
				_, req.URL.RawPath = a.I18n.SplitPath(req.URL.RawPath)
			}
		}
		c.Set(localeContextKey, locale)
		c.Set(pathContextKey, req.URL.Path)
		return next(c)
	}
}

// Locale returns the locale selected by the request path.
func Locale(c echo.Context) string {
	if l, ok := c.Get(localeContextKey).(string); ok {
		return l
	}
	return ""
}

func unprefixedPath(c echo.Context) string {
	if p, ok := c.Get(pathContextKey).(string); ok {
		return p
	}
	return c.Request().URL.Path
}

func (a *App) cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	revalidate := strconv.Itoa(int(a.Config.Revalidate.Seconds()))
	return func(c echo.Context) error {
		p := c.Request().URL.Path
		h := c.Response().Header()
		switch {
		case IsDraft(c) || strings.HasPrefix(p, "/api/") || c.Request().Method != http.MethodGet:
			h.Set("Cache-Control", "no-store")
		case strings.HasPrefix(p, "/public/"):
			h.Set("Cache-Control", "public, max-age=31536000, immutable")
		case p == "/sitemap.xml" || p == "/feed.xml" || p == "/robots.txt":
			h.Set("Cache-Control", "public, max-age=86400")
		default:
			h.Set("Cache-Control", "public, max-age=0, s-maxage="+revalidate+", stale-while-revalidate")
		}
		return next(c)
	}
}

// contentSecurityPolicy allows the embeds, analytics, ads, comments and live-preview
// origins the pages load, and lets the Contentful web app frame the site.
func (a *App) contentSecurityPolicy() string {
	scripts := []string{"'self'", "'unsafe-inline'", "https://www.googletagmanager.com", "https://pagead2.googlesyndication.com", "https://cdn.jsdelivr.net"}
	connect := []string{"'self'", "https://www.google-analytics.com", "https://*.contentful.com", "wss://*.contentful.com"}
	if origin := originOf(a.Config.IssoURL); origin != "" {
		scripts = append(scripts, origin)
		connect = append(connect, origin)
	}
	frames := []string{"https://www.youtube.com", "https://player.vimeo.com", "https://codepen.io", "https://googleads.g.doubleclick.net", "https://tpc.googlesyndication.com"}
	return strings.Join([]string{
		"default-src 'self'",
		"script-src " + strings.Join(scripts, " "),
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' https: data:",
		"font-src 'self'",
		"connect-src " + strings.Join(connect, " "),
		"frame-src " + strings.Join(frames, " "),
		"frame-ancestors 'self' https://app.contentful.com",
	}, "; ")
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func (a *App) newSessionStore() *sessions.CookieStore {
	// The live preview pane frames the site cross-site, which needs SameSite=None.
	// Browsers only accept that on Secure cookies.
	sameSite := http.SameSiteLaxMode
	if a.Config.CookieSecure {
		sameSite = http.SameSiteNoneMode
	}
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: sameSite,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// IsDraft reports whether the request carries an enabled draft-mode session.
func IsDraft(c echo.Context) bool {
	sess, err := session.Get(draftSessionName, c)
	if err != nil {
		return false
	}
	on, ok := sess.Values["draft"].(bool)
	return ok && on
}

func setDraftSession(c echo.Context) error {
	sess, err := session.Get(draftSessionName, c)
	if err != nil {
		return err
	}
	sess.Values["draft"] = true
	return sess.Save(c.Request(), c.Response())
}

func clearDraftSession(c echo.Context) error {
	sess, err := session.Get(draftSessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
