// Package i18n holds the UI translation tables and locale-aware path helpers.
// Tables are YAML files named after their locale code and embedded in the binary.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is served without a path prefix.
const DefaultLocale = "en-US"

//go:embed locales/*.yaml
var localeFS embed.FS

// Bundle is a set of flattened translation tables keyed by locale.
type Bundle struct {
	def     string
	locales []string
	tables  map[string]map[string]string
}

// Load reads the embedded tables.
func Load() (*Bundle, error) {
	return LoadFS(localeFS, "locales", DefaultLocale)
}

// MustLoad is Load that panics on error.
func MustLoad() *Bundle {
	b, err := Load()
	if err != nil {
		panic(err)
	}
	return b
}

// LoadFS reads every <locale>.yaml file in dir. defaultLocale must be among them.
func LoadFS(fsys fs.FS, dir, defaultLocale string) (*Bundle, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	b := &Bundle{def: defaultLocale, tables: make(map[string]map[string]string)}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		locale := strings.TrimSuffix(e.Name(), ".yaml")
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		table := make(map[string]string)
		flatten("", raw, table)
		b.tables[locale] = table
	}
	if _, ok := b.tables[defaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %q has no table", defaultLocale)
	}
	for l := range b.tables {
		if l != defaultLocale {
			b.locales = append(b.locales, l)
		}
	}
	sort.Strings(b.locales)
	b.locales = append([]string{defaultLocale}, b.locales...)
	return b, nil
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Default returns the default locale.
func (b *Bundle) Default() string { return b.def }

// Locales returns the default locale followed by the others in lexical order.
func (b *Bundle) Locales() []string { return b.locales }

// Supported reports whether locale has a table.
func (b *Bundle) Supported(locale string) bool {
	_, ok := b.tables[locale]
	return ok
}

// T translates key for locale, falling back to the default locale and then the key itself.
func (b *Bundle) T(locale, key string) string {
	if v, ok := b.tables[locale][key]; ok {
		return v
	}
	if v, ok := b.tables[b.def][key]; ok {
		return v
	}
	return key
}

// SplitPath strips a leading non-default locale segment from p.
// "/zh-Hant-TW/html-posts/" yields ("zh-Hant-TW", "/html-posts/").
func (b *Bundle) SplitPath(p string) (locale, rest string) {
	trimmed := strings.TrimPrefix(p, "/")
	seg, tail, _ := strings.Cut(trimmed, "/")
	if seg != "" && seg != b.def && b.Supported(seg) {
		return seg, "/" + tail
	}
	return b.def, p
}

// LocalizePath prefixes p with locale unless it is the default.
func (b *Bundle) LocalizePath(locale, p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if locale == "" || locale == b.def || !b.Supported(locale) {
		return p
	}
	if p == "/" {
		return "/" + locale + "/"
	}
	return "/" + locale + p
}
