// Package blog serves a Contentful-backed blog built with Go, Echo, and templ.
// It renders standard rich text posts and markdown/HTML posts into one feed, with
// draft-mode previews, localized routes, RSS, and a sitemap out of the box.
package blog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ericx1023/contentful-blog/article"
	"github.com/ericx1023/contentful-blog/contentful"
	"github.com/ericx1023/contentful-blog/i18n"
)

const shutdownTimeout = 10 * time.Second

// App is the central application. It wires together the Contentful clients, cache,
// handlers, middleware, and views.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Logger *zap.Logger
	Cache  *FeedCache
	I18n   *i18n.Bundle

	delivery     contentful.API
	preview      contentful.API
	draftLimiter *AttemptLimiter
	images       *ImageProxy
	customRoutes []func(*App)
	staticDir    string
	now          func() time.Time

	initOnce sync.Once
	initErr  error
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config:    cfg,
		Echo:      e,
		staticDir: "public",
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init validates the configuration and builds clients, middleware, and routes.
// Start calls it; tests call it directly and drive a.Echo with httptest.
func (a *App) Init() error {
	a.initOnce.Do(func() { a.initErr = a.init() })
	return a.initErr
}

func (a *App) init() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	if a.Logger == nil {
		logger, err := NewLogger(a.Config.LogLevel, a.Config.Development)
		if err != nil {
			return fmt.Errorf("blog: init logger: %w", err)
		}
		a.Logger = logger
	}
	bundle, err := i18n.Load()
	if err != nil {
		return fmt.Errorf("blog: load translations: %w", err)
	}
	a.I18n = bundle

	if a.delivery == nil {
		a.delivery = contentful.New(a.Config.Contentful.delivery(), a.Logger.Named("contentful"))
		if a.Config.Contentful.PreviewAccessToken != "" {
			a.preview = contentful.New(a.Config.Contentful.preview(), a.Logger.Named("contentful.preview"))
		}
	}
	if a.preview == nil {
		a.Logger.Info("draft mode disabled: no preview access token")
	}

	a.Cache = NewFeedCache(a.delivery, a.Config.Revalidate, a.Logger.Named("cache"))
	a.draftLimiter = NewAttemptLimiter(5, time.Minute)
	a.images = NewImageProxy(a.Config.ImageHosts, a.Logger.Named("images"))

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("listening", zap.String("addr", a.Config.Addr), zap.String("url", a.Config.URL))
		errCh <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("blog: shutdown: %w", err)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	assets := a.staticFS()
	e.StaticFS("/public", assets)
	e.FileFS("/favicon.svg", "favicon.svg", assets)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/_img", a.images.handle)

	e.GET("/api/draft", a.handleDraft)
	e.GET("/api/disable-draft", a.handleDisableDraft)
	e.POST("/theme/", a.handleTheme)

	e.GET("/", a.handleLanding)
	e.GET("/html-posts/", a.handleHTMLPostIndex)
	e.GET("/html-posts/:slug/", a.handleHTMLPost)
	e.GET("/:slug/", a.handleBlogPost)
}

// Articles returns the unified newest-first feed for locale.
func (a *App) Articles(ctx context.Context, locale string) ([]article.UnifiedArticle, error) {
	if err := a.Init(); err != nil {
		return nil, err
	}
	if locale == "" {
		locale = a.I18n.Default()
	}
	if !a.I18n.Supported(locale) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLocale, locale)
	}
	data, err := a.Cache.Get(ctx, locale)
	if err != nil {
		return nil, err
	}
	return article.MergeAndSort(data.Standard, data.Markdown, a.now()), nil
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.draftLimiter != nil {
		a.draftLimiter.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return nil
}
