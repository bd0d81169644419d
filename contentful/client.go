// Package contentful is a small client for the Contentful GraphQL Content API.
// It exposes the handful of queries the blog needs and decodes them into typed records.
package contentful

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrGraphQL              = errors.New("graphql error")
	ErrNoData               = errors.New("no data in response")
	ErrNotFound             = errors.New("entry not found")
)

// DefaultBaseURL is the GraphQL Content API host.
const DefaultBaseURL = "https://graphql.contentful.com"

const maxResponseSize = 10 << 20

// API is the set of content queries used by the site. Both the delivery and the
// preview client implement it.
type API interface {
	PageLanding(ctx context.Context, locale string) (*PageLanding, error)
	PageBlogPost(ctx context.Context, slug, locale string) (*PageBlogPost, error)
	PageBlogPostCollection(ctx context.Context, p CollectionParams) ([]*PageBlogPost, error)
	PageBlogPostWithHTML(ctx context.Context, slug, locale string) (*PageBlogPostWithHTML, error)
	PageBlogPostWithHTMLCollection(ctx context.Context, p CollectionParams) ([]*PageBlogPostWithHTML, error)
}

var _ API = (*Client)(nil)

// Config identifies a space/environment and the token used to read it.
type Config struct {
	BaseURL     string
	SpaceID     string
	Environment string
	AccessToken string
	// Preview reads draft content. AccessToken must then be a preview token.
	Preview bool
	Timeout time.Duration
}

// Client sends GraphQL queries to one Contentful space.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	preview    bool
	logger     *zap.Logger
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError is a single error entry from a GraphQL response.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// New creates a Client. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Environment == "" {
		cfg.Environment = "master"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   fmt.Sprintf("%s/content/v1/spaces/%s/environments/%s", cfg.BaseURL, cfg.SpaceID, cfg.Environment),
		token:      cfg.AccessToken,
		preview:    cfg.Preview,
		logger:     logger.With(zap.Bool("preview", cfg.Preview)),
	}
}

// Preview reports whether this client reads draft content.
func (c *Client) Preview() bool {
	return c.preview
}

// Execute runs query with variables and decodes the data object into out.
func (c *Client) Execute(ctx context.Context, name, query string, variables map[string]any, out any) error {
	c.logger.Debug("contentful query", zap.String("query", name))

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read %s response: %w", name, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("contentful request failed",
			zap.String("query", name),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw))
		return fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	var gql graphQLResponse
	if err := json.Unmarshal(raw, &gql); err != nil {
		return fmt.Errorf("parse %s response: %w", name, err)
	}
	if len(gql.Errors) > 0 {
		return fmt.Errorf("%w: %s", ErrGraphQL, gql.Errors[0].Message)
	}
	if len(gql.Data) == 0 || string(gql.Data) == "null" {
		return ErrNoData
	}
	if err := json.Unmarshal(gql.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", name, err)
	}
	return nil
}

func (c *Client) vars(locale string) map[string]any {
	v := map[string]any{"preview": c.preview}
	if locale != "" {
		v["locale"] = locale
	}
	return v
}

func (c *Client) collectionVars(p CollectionParams) map[string]any {
	v := c.vars(p.Locale)
	if p.Limit > 0 {
		v["limit"] = p.Limit
	}
	if p.Order != "" {
		v["order"] = []Order{p.Order}
	}
	if p.Where != nil {
		v["where"] = p.Where
	}
	return v
}

type collection[T any] struct {
	Items []*T `json:"items"`
}

// PageLanding returns the landing page entry for locale.
func (c *Client) PageLanding(ctx context.Context, locale string) (*PageLanding, error) {
	var data struct {
		Collection *collection[PageLanding] `json:"pageLandingCollection"`
	}
	if err := c.Execute(ctx, "pageLanding", pageLandingQuery, c.vars(locale), &data); err != nil {
		return nil, err
	}
	return first(data.Collection)
}

// PageBlogPost returns the standard post with slug.
func (c *Client) PageBlogPost(ctx context.Context, slug, locale string) (*PageBlogPost, error) {
	v := c.vars(locale)
	v["slug"] = slug
	var data struct {
		Collection *collection[PageBlogPost] `json:"pageBlogPostCollection"`
	}
	if err := c.Execute(ctx, "pageBlogPost", pageBlogPostQuery, v, &data); err != nil {
		return nil, err
	}
	return first(data.Collection)
}

// PageBlogPostCollection lists standard posts. Null items are kept as nil entries.
func (c *Client) PageBlogPostCollection(ctx context.Context, p CollectionParams) ([]*PageBlogPost, error) {
	var data struct {
		Collection *collection[PageBlogPost] `json:"pageBlogPostCollection"`
	}
	if err := c.Execute(ctx, "pageBlogPostCollection", pageBlogPostCollectionQuery, c.collectionVars(p), &data); err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return nil, nil
	}
	return data.Collection.Items, nil
}

// PageBlogPostWithHTML returns the markdown/HTML post with slug.
func (c *Client) PageBlogPostWithHTML(ctx context.Context, slug, locale string) (*PageBlogPostWithHTML, error) {
	v := c.vars(locale)
	v["slug"] = slug
	var data struct {
		Collection *collection[PageBlogPostWithHTML] `json:"pageBlogPostWithHtmlCollection"`
	}
	if err := c.Execute(ctx, "pageBlogPostWithHtml", pageBlogPostWithHTMLQuery, v, &data); err != nil {
		return nil, err
	}
	return first(data.Collection)
}

// PageBlogPostWithHTMLCollection lists markdown/HTML posts. Null items are kept as nil entries.
func (c *Client) PageBlogPostWithHTMLCollection(ctx context.Context, p CollectionParams) ([]*PageBlogPostWithHTML, error) {
	var data struct {
		Collection *collection[PageBlogPostWithHTML] `json:"pageBlogPostWithHtmlCollection"`
	}
	if err := c.Execute(ctx, "pageBlogPostWithHtmlCollection", pageBlogPostWithHTMLCollectionQuery, c.collectionVars(p), &data); err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return nil, nil
	}
	return data.Collection.Items, nil
}

func first[T any](c *collection[T]) (*T, error) {
	if c == nil || len(c.Items) == 0 || c.Items[0] == nil {
		return nil, ErrNotFound
	}
	return c.Items[0], nil
}
