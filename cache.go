package blog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ericx1023/contentful-blog/contentful"
)

// Collection sizes requested from the CMS.
const (
	feedLimit     = 10
	htmlPostLimit = 20
)

// FeedData is the raw CMS content behind the landing page, feed and sitemap of one locale.
type FeedData struct {
	Landing  *contentful.PageLanding
	Standard []*contentful.PageBlogPost
	Markdown []*contentful.PageBlogPostWithHTML
}

// Empty reports whether neither collection has items.
func (d FeedData) Empty() bool {
	return len(d.Standard) == 0 && len(d.Markdown) == 0
}

// FetchFeed loads the landing entry and the newest posts of both kinds for locale.
// A missing landing entry is not an error.
func FetchFeed(ctx context.Context, api contentful.API, locale string) (FeedData, error) {
	var d FeedData
	landing, err := api.PageLanding(ctx, locale)
	switch {
	case errors.Is(err, contentful.ErrNotFound):
	case err != nil:
		return d, fmt.Errorf("landing page: %w", err)
	default:
		d.Landing = landing
	}
	d.Standard, err = api.PageBlogPostCollection(ctx, contentful.CollectionParams{
		Locale: locale,
		Limit:  feedLimit,
		Order:  contentful.OrderPublishedDateDesc,
	})
	if err != nil {
		return d, fmt.Errorf("standard posts: %w", err)
	}
	d.Markdown, err = api.PageBlogPostWithHTMLCollection(ctx, contentful.CollectionParams{
		Locale: locale,
		Limit:  feedLimit,
		Order:  contentful.OrderSysPublishedAtDesc,
	})
	if err != nil {
		return d, fmt.Errorf("markdown posts: %w", err)
	}
	return d, nil
}

type feedEntry struct {
	data    FeedData
	fetched time.Time
}

// FeedCache keeps FeedData per locale and refetches it once it is older than ttl.
// Concurrent refreshes of one locale share a single fetch; locales refresh independently.
// When a refetch fails the previous data keeps being served.
type FeedCache struct {
	mu      sync.RWMutex
	entries map[string]feedEntry
	group   singleflight.Group
	ttl     time.Duration
	api     contentful.API
	now     func() time.Time
	logger  *zap.Logger
}

// NewFeedCache creates a FeedCache backed by api.
func NewFeedCache(api contentful.API, ttl time.Duration, logger *zap.Logger) *FeedCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedCache{
		entries: make(map[string]feedEntry),
		ttl:     ttl,
		api:     api,
		now:     time.Now,
		logger:  logger,
	}
}

func (c *FeedCache) lookup(locale string) (feedEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[locale]
	return e, ok
}

func (c *FeedCache) fresh(locale string) (FeedData, bool) {
	e, ok := c.lookup(locale)
	return e.data, ok && c.now().Sub(e.fetched) < c.ttl
}

// Get returns the feed for locale, fetching it when missing or stale.
func (c *FeedCache) Get(ctx context.Context, locale string) (FeedData, error) {
	if data, ok := c.fresh(locale); ok {
		return data, nil
	}
	// The fetch outlives any single waiter.
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(locale, func() (any, error) {
		if data, ok := c.fresh(locale); ok {
			return data, nil
		}
		data, err := FetchFeed(shared, c.api, locale)
		if err != nil {
			if e, ok := c.lookup(locale); ok {
				c.logger.Warn("feed refresh failed, serving stale data",
					zap.String("locale", locale), zap.Time("fetched", e.fetched), zap.Error(err))
				return e.data, nil
			}
			return FeedData{}, err
		}
		c.mu.Lock()
		c.entries[locale] = feedEntry{data: data, fetched: c.now()}
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return FeedData{}, err
	}
	return v.(FeedData), nil
}
