package embeds

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// Labels are the translated strings shown on link cards.
type Labels struct {
	ViewArticle  string
	ExternalLink string
	InvalidURL   string
}

// Card renders e as an iframe player, a link card, or an invalid-URL notice.
// imageURL may be empty.
func Card(e Embed, title, imageURL string, labels Labels) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		writeCard(&b, e, title, imageURL, labels)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeCard(b *strings.Builder, e Embed, title, imageURL string, labels Labels) {
	esc := templ.EscapeString[string]
	if e.IsPlayer() {
		if title == "" {
			title = playerTitle(e.Kind)
		}
		if e.Height > 0 {
			b.WriteString(`<div class="embed embed-fixed" style="height:` + strconv.Itoa(e.Height) + `px">`)
		} else {
			b.WriteString(`<div class="embed embed-video">`)
		}
		b.WriteString(`<iframe src="` + esc(e.Src) + `" title="` + esc(title) + `"`)
		switch e.Kind {
		case KindYouTube:
			b.WriteString(` allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"`)
		case KindVimeo:
			b.WriteString(` allow="autoplay; fullscreen; picture-in-picture"`)
		}
		b.WriteString(` allowfullscreen loading="lazy"></iframe></div>`)
		return
	}

	b.WriteString(`<div class="not-prose embed-card">`)
	if e.Kind == KindInvalid {
		b.WriteString(`<div class="embed-card-body"><div class="embed-card-placeholder embed-card-invalid"><p>` + esc(labels.InvalidURL) + `</p></div>`)
		if title != "" {
			b.WriteString(`<h3>` + esc(title) + `</h3>`)
		}
		b.WriteString(`<div class="embed-card-meta"><span class="truncate">` + esc(e.SourceURL) + `</span></div></div></div>`)
		return
	}

	b.WriteString(`<a href="` + esc(e.SourceURL) + `" target="_blank" rel="noopener noreferrer">`)
	if imageURL != "" {
		alt := title
		if alt == "" {
			alt = "Preview"
		}
		b.WriteString(`<div class="embed-card-image"><img src="` + esc(imageURL) + `" alt="` + esc(alt) + `" loading="lazy"/></div>`)
	} else {
		b.WriteString(`<div class="embed-card-placeholder"><p>` + esc(labels.ExternalLink) + `</p></div>`)
	}
	b.WriteString(`<div class="embed-card-body">`)
	if title != "" {
		b.WriteString(`<h3>` + esc(title) + `</h3>`)
	}
	b.WriteString(`<div class="embed-card-meta"><span class="truncate">` + esc(e.Host) + `</span><span>` + esc(labels.ViewArticle) + `</span></div></div></a></div>`)
}

func playerTitle(k Kind) string {
	switch k {
	case KindYouTube:
		return "YouTube video"
	case KindVimeo:
		return "Vimeo video"
	case KindCodePen:
		return "CodePen"
	}
	return ""
}
