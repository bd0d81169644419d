package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTables(t *testing.T) {
	b, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"en-US", "zh-Hant-TW"}, b.Locales())
	assert.Equal(t, "Homepage", b.T("en-US", "common.homepage"))
	assert.Equal(t, "首頁", b.T("zh-Hant-TW", "common.homepage"))
	assert.Equal(t, "最新文章", b.T("zh-Hant-TW", "landingPage.latestArticles"))
}

func TestTranslateFallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"l/en-US.yaml": {Data: []byte("common:\n  homepage: Home\n  only_en: English only\n")},
		"l/de-DE.yaml": {Data: []byte("common:\n  homepage: Startseite\n")},
	}
	b, err := LoadFS(fsys, "l", "en-US")
	require.NoError(t, err)

	assert.Equal(t, "Startseite", b.T("de-DE", "common.homepage"))
	assert.Equal(t, "English only", b.T("de-DE", "common.only_en"))
	assert.Equal(t, "Home", b.T("fr-FR", "common.homepage"))
	assert.Equal(t, "missing.key", b.T("de-DE", "missing.key"))
}

func TestLoadFSRequiresDefault(t *testing.T) {
	fsys := fstest.MapFS{"l/de-DE.yaml": {Data: []byte("a: b\n")}}
	_, err := LoadFS(fsys, "l", "en-US")
	assert.Error(t, err)
}

func TestSplitPath(t *testing.T) {
	b := MustLoad()
	tests := []struct {
		in, locale, rest string
	}{
		{"/", "en-US", "/"},
		{"/hello/", "en-US", "/hello/"},
		{"/zh-Hant-TW", "zh-Hant-TW", "/"},
		{"/zh-Hant-TW/", "zh-Hant-TW", "/"},
		{"/zh-Hant-TW/html-posts/x/", "zh-Hant-TW", "/html-posts/x/"},
		{"/en-US/hello/", "en-US", "/en-US/hello/"},
		{"/fr-FR/hello/", "en-US", "/fr-FR/hello/"},
	}
	for _, tt := range tests {
		locale, rest := b.SplitPath(tt.in)
		assert.Equal(t, tt.locale, locale, tt.in)
		assert.Equal(t, tt.rest, rest, tt.in)
	}
}

func TestLocalizePath(t *testing.T) {
	b := MustLoad()
	assert.Equal(t, "/", b.LocalizePath("en-US", "/"))
	assert.Equal(t, "/post/", b.LocalizePath("en-US", "post/"))
	assert.Equal(t, "/zh-Hant-TW/", b.LocalizePath("zh-Hant-TW", "/"))
	assert.Equal(t, "/zh-Hant-TW/html-posts/a/", b.LocalizePath("zh-Hant-TW", "/html-posts/a/"))
	assert.Equal(t, "/x/", b.LocalizePath("xx-XX", "/x/"))
}
