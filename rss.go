package blog

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ericx1023/contentful-blog/article"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description,omitempty"`
	Category    string  `xml:"category,omitempty"`
	PubDate     string  `xml:"pubDate,omitempty"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// articleURL is the absolute URL of a in locale.
func (a *App) articleURL(locale string, art article.UnifiedArticle) string {
	return a.localizedURL(locale, art.Path())
}

func (a *App) renderRSS(c echo.Context, articles []article.UnifiedArticle) error {
	locale := Locale(c)
	items := make([]rssItem, 0, len(articles))
	for _, art := range articles {
		pubDate := ""
		if t, ok := article.EffectiveDate(art); ok {
			pubDate = t.Format(time.RFC1123Z)
		}
		postURL := a.articleURL(locale, art)
		items = append(items, rssItem{
			Title:       art.Title,
			Link:        postURL,
			Description: art.ShortDescription,
			Category:    string(art.Type()),
			PubDate:     pubDate,
			GUID:        rssGUID{IsPermaLink: true, Value: postURL},
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        a.localizedURL(locale, "/"),
			Description: a.Config.Description,
			Language:    locale,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(feed)
}
