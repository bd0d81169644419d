package blog

import (
	"embed"
	"io/fs"
	"os"
)

// builtinAssets holds the stylesheet, logo and favicon served when no static
// directory is present: favicon.svg, logo.svg, styles.css
//
//go:embed assets/*
var builtinAssets embed.FS

// staticFS returns the directory set with WithStaticDir when it exists, otherwise
// the built-in assets.
func (a *App) staticFS() fs.FS {
	if a.staticDir != "" {
		if st, err := os.Stat(a.staticDir); err == nil && st.IsDir() {
			return os.DirFS(a.staticDir)
		}
	}
	sub, err := fs.Sub(builtinAssets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
