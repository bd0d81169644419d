package blog

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ericx1023/contentful-blog/contentful"
)

var (
	ErrMissingSpace         = errors.New("blog: contentful space id is required")
	ErrMissingToken         = errors.New("blog: contentful access token is required")
	ErrMissingSessionSecret = errors.New("blog: session secret is required")
	ErrInvalidLocale        = errors.New("blog: unsupported locale")
)

// DefaultImageHosts are the CMS asset hosts the image proxy will fetch from.
var DefaultImageHosts = []string{"images.ctfassets.net", "downloads.ctfassets.net"}

// ContentfulConfig selects the space and credentials used for content delivery and preview.
type ContentfulConfig struct {
	SpaceID            string `yaml:"space_id"`
	Environment        string `yaml:"environment"`
	AccessToken        string `yaml:"access_token"`
	PreviewAccessToken string `yaml:"preview_access_token"`
	// PreviewSecret guards /api/draft.
	PreviewSecret string `yaml:"preview_secret"`
}

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags

	Addr string `yaml:"addr"` // Listen address (default ":3000")

	Contentful ContentfulConfig `yaml:"contentful"`

	SessionSecret string `yaml:"session_secret"` // Required: draft session encryption secret
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS

	Revalidate time.Duration `yaml:"revalidate"` // Feed cache lifetime (default 10s)

	IssoURL           string   `yaml:"isso_url"`
	GoogleAnalyticsID string   `yaml:"google_analytics_id"`
	AdSenseClient     string   `yaml:"adsense_client"`
	ImageHosts        []string `yaml:"image_hosts"`

	LogLevel    string `yaml:"log_level"` // debug, info, warn, error (default "info")
	Development bool   `yaml:"development"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Contentful.Environment == "" {
		c.Contentful.Environment = "master"
	}
	if c.Revalidate == 0 {
		c.Revalidate = 10 * time.Second
	}
	if len(c.ImageHosts) == 0 {
		c.ImageHosts = DefaultImageHosts
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports the first missing required setting.
func (c SiteConfig) Validate() error {
	switch {
	case c.Contentful.SpaceID == "":
		return ErrMissingSpace
	case c.Contentful.AccessToken == "":
		return ErrMissingToken
	case c.SessionSecret == "":
		return ErrMissingSessionSecret
	}
	return nil
}

// LoadConfig reads the optional YAML file at path, then applies environment overrides.
// An empty path skips the file.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"CONTENTFUL_SPACE_ID":             &c.Contentful.SpaceID,
		"CONTENTFUL_ENVIRONMENT":          &c.Contentful.Environment,
		"CONTENTFUL_ACCESS_TOKEN":         &c.Contentful.AccessToken,
		"CONTENTFUL_PREVIEW_ACCESS_TOKEN": &c.Contentful.PreviewAccessToken,
		"CONTENTFUL_PREVIEW_SECRET":       &c.Contentful.PreviewSecret,
		"SESSION_SECRET":                  &c.SessionSecret,
		"SITE_NAME":                       &c.Name,
		"SITE_URL":                        &c.URL,
		"SITE_DESCRIPTION":                &c.Description,
		"ADDR":                            &c.Addr,
		"ISSO_URL":                        &c.IssoURL,
		"GOOGLE_ANALYTICS_ID":             &c.GoogleAnalyticsID,
		"ADSENSE_CLIENT":                  &c.AdSenseClient,
		"LOG_LEVEL":                       &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup("COOKIE_SECURE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		c.CookieSecure = b
	}
	if v, ok := lookup("REVALIDATE"); ok && v != "" {
		d, err := parseRevalidate(v)
		if err != nil {
			return fmt.Errorf("REVALIDATE: %w", err)
		}
		c.Revalidate = d
	}
	if v, ok := lookup("IMAGE_HOSTS"); ok && v != "" {
		c.ImageHosts = FilterEmpty(strings.Split(v, ","))
	}
	return nil
}

// parseRevalidate accepts a Go duration ("30s") or a bare number of seconds ("10").
func parseRevalidate(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("must be positive, got %d", secs)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

func (c ContentfulConfig) delivery() contentful.Config {
	return contentful.Config{SpaceID: c.SpaceID, Environment: c.Environment, AccessToken: c.AccessToken}
}

func (c ContentfulConfig) preview() contentful.Config {
	return contentful.Config{SpaceID: c.SpaceID, Environment: c.Environment, AccessToken: c.PreviewAccessToken, Preview: true}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets served under /public (default "public").
// The built-in assets are served when the directory does not exist.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the logger built from the config.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithContentSource replaces the Contentful clients. preview may be nil to disable draft mode.
func WithContentSource(delivery, preview contentful.API) Option {
	return func(a *App) {
		a.delivery = delivery
		a.preview = preview
	}
}

// WithClock sets the time source used when unifying articles.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
