package imdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://api.imdbapi.dev"
	defaultTimeout = 15 * time.Second

	embedURLTemplate = "https://www.imdb.com/videoembed/%s"
)

// Client talks to the external movie catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the catalog base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new catalog client.
func NewClient(logger zerolog.Logger, opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// get performs a GET request and returns the response body. A remote 404
// maps to ErrNotFound; any other non-2xx status maps to an *APIError.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// Search looks up titles by name. The remote may wrap results under a
// "titles" key or return a bare array; both shapes are accepted. Individual
// results that fail to parse are skipped rather than failing the search.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)

	body, err := c.get(ctx, "/search/titles", params)
	if err != nil {
		return nil, err
	}

	items, err := searchItems(body)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(items))
	for _, item := range items {
		var doc titleDoc
		if err := json.Unmarshal(item, &doc); err != nil {
			c.logger.Debug().Err(err).Msg("Skipping unparsable search result")
			continue
		}

		title := doc.PrimaryTitle
		if title == "" {
			title = doc.OriginalTitle
		}

		result := SearchResult{
			IMDbID: doc.ID,
			Title:  title,
			Year:   parseYear(doc.StartYear),
			Type:   doc.Type,
		}
		if doc.PrimaryImage != nil {
			result.Poster = doc.PrimaryImage.URL
		}
		results = append(results, result)
	}

	c.logger.Debug().Str("query", query).Int("count", len(results)).Msg("Catalog search complete")
	return results, nil
}

// searchItems accepts both response shapes: an object wrapping results under
// "titles", or a bare array.
func searchItems(body []byte) ([]json.RawMessage, error) {
	var wrapped searchDoc
	if err := json.Unmarshal(body, &wrapped); err == nil {
		return wrapped.Titles, nil
	}

	var bare []json.RawMessage
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	return bare, nil
}

// GetTitle fetches the full details for a title and flattens them into the
// system schema. Returns ErrNotFound when the remote reports 404.
func (c *Client) GetTitle(ctx context.Context, imdbID string) (*Title, error) {
	body, err := c.get(ctx, "/titles/"+imdbID, nil)
	if err != nil {
		return nil, err
	}

	var doc titleDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse title response: %w", err)
	}

	return flattenTitle(imdbID, doc), nil
}

// GetImages fetches every image for a title, transparently following the
// page-continuation token until the remote stops returning one. A not-found
// title yields an empty slice, not an error.
func (c *Client) GetImages(ctx context.Context, imdbID string) ([]Image, error) {
	images := []Image{}
	pageToken := ""

	for {
		params := url.Values{}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		body, err := c.get(ctx, "/titles/"+imdbID+"/images", params)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return []Image{}, nil
			}
			return nil, err
		}

		var page imagesPageDoc
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to parse images response: %w", err)
		}

		for _, img := range page.Images {
			images = append(images, Image{
				URL:    img.URL,
				Width:  img.Width,
				Height: img.Height,
				Type:   img.Type,
			})
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.logger.Debug().Str("imdb_id", imdbID).Int("count", len(images)).Msg("Fetched title images")
	return images, nil
}

// GetVideos fetches the videos for a title, deriving an embed URL for each.
// A not-found title yields an empty slice, not an error.
func (c *Client) GetVideos(ctx context.Context, imdbID string) ([]Video, error) {
	body, err := c.get(ctx, "/titles/"+imdbID+"/videos", nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []Video{}, nil
		}
		return nil, err
	}

	var doc videosDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse videos response: %w", err)
	}

	videos := make([]Video, 0, len(doc.Videos))
	for _, vid := range doc.Videos {
		video := Video{
			ID:             vid.ID,
			Type:           vid.Type,
			Name:           vid.Name,
			Description:    vid.Description,
			Width:          vid.Width,
			Height:         vid.Height,
			RuntimeSeconds: vid.RuntimeSeconds,
			EmbedURL:       fmt.Sprintf(embedURLTemplate, vid.ID),
		}
		if vid.PrimaryImage != nil {
			video.Thumbnail = vid.PrimaryImage.URL
		}
		videos = append(videos, video)
	}

	return videos, nil
}
