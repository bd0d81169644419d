package blog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	var cfg SiteConfig
	err := cfg.applyEnv(envMap(map[string]string{
		"CONTENTFUL_SPACE_ID":             "space",
		"CONTENTFUL_ACCESS_TOKEN":         "delivery",
		"CONTENTFUL_PREVIEW_ACCESS_TOKEN": "preview",
		"CONTENTFUL_PREVIEW_SECRET":       "secret",
		"SESSION_SECRET":                  "session",
		"SITE_URL":                        "https://blog.example",
		"COOKIE_SECURE":                   "true",
		"REVALIDATE":                      "30",
		"IMAGE_HOSTS":                     "a.example, ,b.example",
		"SITE_NAME":                       "",
	}))
	require.NoError(t, err)

	assert.Equal(t, "space", cfg.Contentful.SpaceID)
	assert.Equal(t, "delivery", cfg.Contentful.AccessToken)
	assert.Equal(t, "preview", cfg.Contentful.PreviewAccessToken)
	assert.Equal(t, "secret", cfg.Contentful.PreviewSecret)
	assert.Equal(t, "session", cfg.SessionSecret)
	assert.Equal(t, "https://blog.example", cfg.URL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 30*time.Second, cfg.Revalidate)
	assert.Equal(t, []string{"a.example", "b.example"}, cfg.ImageHosts)
	assert.Empty(t, cfg.Name, "empty variables are ignored")
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	var cfg SiteConfig
	assert.Error(t, cfg.applyEnv(envMap(map[string]string{"COOKIE_SECURE": "maybe"})))
	assert.Error(t, cfg.applyEnv(envMap(map[string]string{"REVALIDATE": "soon"})))
}

func TestParseRevalidate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"10", 10 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"0", 0, true},
		{"-5s", 0, true},
		{"ten", 0, true},
	}
	for _, tt := range tests {
		got, err := parseRevalidate(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestValidate(t *testing.T) {
	cfg := testConfig()
	assert.NoError(t, cfg.Validate())

	missingSpace := cfg
	missingSpace.Contentful.SpaceID = ""
	assert.ErrorIs(t, missingSpace.Validate(), ErrMissingSpace)

	missingToken := cfg
	missingToken.Contentful.AccessToken = ""
	assert.ErrorIs(t, missingToken.Validate(), ErrMissingToken)

	missingSecret := cfg
	missingSecret.SessionSecret = ""
	assert.ErrorIs(t, missingSecret.Validate(), ErrMissingSessionSecret)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: My Blog
url: https://blog.example
revalidate: 45s
contentful:
  space_id: from-file
  access_token: file-token
session_secret: file-secret
`), 0o600))
	t.Setenv("CONTENTFUL_SPACE_ID", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "My Blog", cfg.Name)
	assert.Equal(t, "from-env", cfg.Contentful.SpaceID, "environment overrides the file")
	assert.Equal(t, "file-token", cfg.Contentful.AccessToken)
	assert.Equal(t, 45*time.Second, cfg.Revalidate)
	assert.Equal(t, "master", cfg.Contentful.Environment)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, DefaultImageHosts, cfg.ImageHosts)
	assert.NoError(t, cfg.Validate())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestContentfulClientConfigs(t *testing.T) {
	c := ContentfulConfig{SpaceID: "s", Environment: "staging", AccessToken: "d", PreviewAccessToken: "p"}
	assert.False(t, c.delivery().Preview)
	assert.Equal(t, "d", c.delivery().AccessToken)
	assert.True(t, c.preview().Preview)
	assert.Equal(t, "p", c.preview().AccessToken)
	assert.Equal(t, "staging", c.preview().Environment)
}
