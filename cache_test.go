package blog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericx1023/contentful-blog/contentful"
)

func newTestCache(api *fakeAPI, ttl time.Duration) (*FeedCache, *time.Time) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFeedCache(api, ttl, nil)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestFetchFeedToleratesMissingLanding(t *testing.T) {
	api := sampleContent()
	api.landing = nil

	data, err := FetchFeed(context.Background(), api, "en-US")
	require.NoError(t, err)
	assert.Nil(t, data.Landing)
	assert.Len(t, data.Standard, 1)
	assert.Len(t, data.Markdown, 1)
	require.Len(t, api.params, 2)
	assert.Equal(t, contentful.OrderPublishedDateDesc, api.params[0].Order)
	assert.Equal(t, contentful.OrderSysPublishedAtDesc, api.params[1].Order)
	assert.Equal(t, feedLimit, api.params[1].Limit)
}

func TestFeedCacheServesWithinTTL(t *testing.T) {
	api := sampleContent()
	c, now := newTestCache(api, 10*time.Second)
	ctx := context.Background()

	_, err := c.Get(ctx, "en-US")
	require.NoError(t, err)
	*now = now.Add(5 * time.Second)
	_, err = c.Get(ctx, "en-US")
	require.NoError(t, err)
	assert.Equal(t, 1, api.landingCalls)

	*now = now.Add(6 * time.Second)
	_, err = c.Get(ctx, "en-US")
	require.NoError(t, err)
	assert.Equal(t, 2, api.landingCalls)
}

func TestFeedCacheIsPerLocale(t *testing.T) {
	api := sampleContent()
	c, _ := newTestCache(api, time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx, "en-US")
	require.NoError(t, err)
	_, err = c.Get(ctx, "zh-Hant-TW")
	require.NoError(t, err)
	assert.Equal(t, 2, api.landingCalls)
}

func TestFeedCacheServesStaleOnError(t *testing.T) {
	api := sampleContent()
	c, now := newTestCache(api, time.Second)
	ctx := context.Background()

	first, err := c.Get(ctx, "en-US")
	require.NoError(t, err)

	api.err = contentful.ErrUnexpectedStatusCode
	*now = now.Add(time.Minute)
	stale, err := c.Get(ctx, "en-US")
	require.NoError(t, err)
	assert.Equal(t, first, stale)

	_, err = c.Get(ctx, "zh-Hant-TW")
	assert.ErrorIs(t, err, contentful.ErrUnexpectedStatusCode)
}

// gatedAPI blocks landing fetches for one locale until release is closed.
type gatedAPI struct {
	*fakeAPI
	locale  string
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedAPI) PageLanding(ctx context.Context, locale string) (*contentful.PageLanding, error) {
	if locale == g.locale {
		g.once.Do(func() { close(g.started) })
		<-g.release
	}
	return g.fakeAPI.PageLanding(ctx, locale)
}

func newGatedAPI(locale string) *gatedAPI {
	return &gatedAPI{fakeAPI: sampleContent(), locale: locale, started: make(chan struct{}), release: make(chan struct{})}
}

func TestFeedCacheSlowLocaleDoesNotBlockOthers(t *testing.T) {
	api := newGatedAPI("zh-Hant-TW")
	c := NewFeedCache(api, time.Minute, nil)
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "zh-Hant-TW")
		slow <- err
	}()
	<-api.started

	done := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "en-US")
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("en-US refresh waited on zh-Hant-TW")
	}

	close(api.release)
	require.NoError(t, <-slow)
}

func TestFeedCacheCoalescesConcurrentRefreshes(t *testing.T) {
	api := newGatedAPI("en-US")
	c := NewFeedCache(api, time.Minute, nil)
	ctx := context.Background()

	const callers = 5
	errs := make(chan error, callers)
	go func() {
		_, err := c.Get(ctx, "en-US")
		errs <- err
	}()
	<-api.started
	for range callers - 1 {
		go func() {
			_, err := c.Get(ctx, "en-US")
			errs <- err
		}()
	}
	// Give the followers time to join the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(api.release)

	for range callers {
		require.NoError(t, <-errs)
	}
	assert.Equal(t, 1, api.landingCalls)
}

func TestFeedCacheFetchSurvivesCallerCancel(t *testing.T) {
	api := sampleContent()
	c := NewFeedCache(api, time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data, err := c.Get(ctx, "en-US")
	require.NoError(t, err)
	assert.Len(t, data.Standard, 1)
}
