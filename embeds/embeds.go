// Package embeds classifies external source URLs into iframe players or link cards.
package embeds

import (
	"net/url"
	"regexp"
	"strings"
)

// Kind is the rendering strategy for an embed.
type Kind int

const (
	KindInvalid Kind = iota
	KindLink
	KindYouTube
	KindVimeo
	KindCodePen
)

var (
	reYouTube = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
	reVimeo   = regexp.MustCompile(`vimeo\.com/(?:.*#|.*/videos/)?([0-9]+)`)
)

// Embed is the resolved form of a source URL.
type Embed struct {
	Kind      Kind
	SourceURL string
	// Src is the iframe URL for player kinds.
	Src string
	// Host is the hostname shown on link cards.
	Host string
	// Height in pixels for players with a fixed height. Zero means 16:9.
	Height int
}

// IsPlayer reports whether the embed renders as an iframe.
func (e Embed) IsPlayer() bool {
	return e.Src != ""
}

// Resolve classifies raw. Only http and https URLs are embeddable; anything else is
// invalid. YouTube, Vimeo and CodePen URLs whose id cannot be extracted fall back to a
// link card.
func Resolve(raw string) Embed {
	e := Embed{SourceURL: raw}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		e.Kind = KindInvalid
		return e
	}
	e.Host = u.Hostname()

	switch {
	case onHost(e.Host, "youtube.com") || onHost(e.Host, "youtu.be"):
		if m := reYouTube.FindStringSubmatch(raw); m != nil {
			e.Kind = KindYouTube
			e.Src = "https://www.youtube.com/embed/" + m[1]
			return e
		}
	case onHost(e.Host, "vimeo.com"):
		if m := reVimeo.FindStringSubmatch(raw); m != nil {
			e.Kind = KindVimeo
			e.Src = "https://player.vimeo.com/video/" + m[1]
			return e
		}
	case onHost(e.Host, "codepen.io"):
		if _, after, ok := strings.Cut(u.Path, "/pen/"); ok {
			if id, _, _ := strings.Cut(after, "/"); id != "" {
				e.Kind = KindCodePen
				e.Src = "https://codepen.io/embed/" + url.PathEscape(id) + "?default-tab=result"
				e.Height = 400
				return e
			}
		}
	}
	e.Kind = KindLink
	return e
}

// onHost reports whether host is domain or one of its subdomains.
func onHost(host, domain string) bool {
	host = strings.ToLower(host)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// IsPlayerLink reports whether a rich text hyperlink already points at an embeddable
// player: an https Vimeo player or YouTube embed URL.
func IsPlayerLink(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "https" {
		return false
	}
	switch strings.ToLower(u.Hostname()) {
	case "player.vimeo.com":
		return strings.HasPrefix(u.Path, "/video/")
	case "youtube.com", "www.youtube.com", "youtube-nocookie.com", "www.youtube-nocookie.com":
		return strings.HasPrefix(u.Path, "/embed/")
	}
	return false
}
