package contentful

import "encoding/json"

// Sys is the system metadata Contentful attaches to every entry and asset.
// Timestamps are ISO-8601 strings; empty means the field was null.
type Sys struct {
	ID               string `json:"id"`
	SpaceID          string `json:"spaceId,omitempty"`
	PublishedAt      string `json:"publishedAt,omitempty"`
	FirstPublishedAt string `json:"firstPublishedAt,omitempty"`
}

// Asset is a media file (usually an image) served from the Contentful CDN.
type Asset struct {
	Sys         Sys    `json:"sys"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	ContentType string `json:"contentType,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Author is the componentAuthor entry linked from blog posts.
type Author struct {
	Sys    Sys    `json:"sys"`
	Name   string `json:"name"`
	Avatar *Asset `json:"avatar,omitempty"`
}

// SeoFields is the componentSeo entry shared by pages and posts.
type SeoFields struct {
	PageTitle       string `json:"pageTitle,omitempty"`
	PageDescription string `json:"pageDescription,omitempty"`
	CanonicalURL    string `json:"canonicalUrl,omitempty"`
	Nofollow        bool   `json:"nofollow,omitempty"`
	Noindex         bool   `json:"noindex,omitempty"`
	ShareImages     struct {
		Items []*Asset `json:"items"`
	} `json:"shareImagesCollection"`
}

// ComponentRichImage is an image block embedded in rich text.
type ComponentRichImage struct {
	Image      *Asset `json:"image,omitempty"`
	Caption    string `json:"caption,omitempty"`
	FullWidth  bool   `json:"fullWidth,omitempty"`
	InternalID string `json:"internalName,omitempty"`
}

// LinkedEntry is one block-level entry referenced from a rich text document.
// Typename selects which of the embedded payloads is populated.
type LinkedEntry struct {
	Typename string `json:"__typename"`
	Sys      Sys    `json:"sys"`

	// PageBlogPostWithHtml embeds.
	SourceURL     string `json:"sourceUrl,omitempty"`
	Title         string `json:"title,omitempty"`
	FeaturedImage *Asset `json:"featuredImage,omitempty"`

	ComponentRichImage
}

// RichText is a Contentful rich text field: the raw document plus its linked entries.
type RichText struct {
	JSON  json.RawMessage `json:"json"`
	Links struct {
		Entries struct {
			Block []*LinkedEntry `json:"block"`
		} `json:"entries"`
	} `json:"links"`
}

// Entry returns the linked block entry with the given id.
func (r *RichText) Entry(id string) (*LinkedEntry, bool) {
	if r == nil {
		return nil, false
	}
	for _, e := range r.Links.Entries.Block {
		if e != nil && e.Sys.ID == id {
			return e, true
		}
	}
	return nil, false
}

// PageBlogPost is a standard post authored in the native rich text model.
type PageBlogPost struct {
	Sys              Sys        `json:"sys"`
	Slug             string     `json:"slug,omitempty"`
	Title            string     `json:"title,omitempty"`
	InternalName     string     `json:"internalName,omitempty"`
	PublishedDate    string     `json:"publishedDate,omitempty"`
	ShortDescription string     `json:"shortDescription,omitempty"`
	Author           *Author    `json:"author,omitempty"`
	FeaturedImage    *Asset     `json:"featuredImage,omitempty"`
	SeoFields        *SeoFields `json:"seoFields,omitempty"`
	Content          *RichText  `json:"content,omitempty"`
	RelatedBlogPosts struct {
		Items []*PageBlogPost `json:"items"`
	} `json:"relatedBlogPostsCollection"`
}

// PageBlogPostWithHTML is a post whose body is authored as Markdown/HTML outside the
// rich text model. It has no authorial publish date or short description.
type PageBlogPostWithHTML struct {
	Sys           Sys     `json:"sys"`
	Slug          string  `json:"slug,omitempty"`
	Title         string  `json:"title,omitempty"`
	InternalName  string  `json:"internalName,omitempty"`
	HTML          string  `json:"html,omitempty"`
	SourceURL     string  `json:"sourceUrl,omitempty"`
	Author        *Author `json:"author,omitempty"`
	FeaturedImage *Asset  `json:"featuredImage,omitempty"`
}

// PageLanding is the landing page entry.
type PageLanding struct {
	Sys              Sys           `json:"sys"`
	InternalName     string        `json:"internalName,omitempty"`
	Greeting         string        `json:"greeting,omitempty"`
	SeoFields        *SeoFields    `json:"seoFields,omitempty"`
	FeaturedBlogPost *PageBlogPost `json:"featuredBlogPost,omitempty"`
}

// Order is a GraphQL collection ordering enum value.
type Order string

const (
	OrderPublishedDateDesc  Order = "publishedDate_DESC"
	OrderSysPublishedAtDesc Order = "sys_publishedAt_DESC"
	OrderTitleAsc           Order = "title_ASC"
)

// CollectionParams are the variables accepted by the collection queries.
type CollectionParams struct {
	Locale string
	Limit  int
	Order  Order
	// Where is passed through as the GraphQL filter object.
	Where map[string]any
}
