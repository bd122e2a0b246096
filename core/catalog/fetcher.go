package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"catalog-sync/core/errors"

	"github.com/antonholmquist/jason"
	"go.uber.org/zap"
)

// Client fetches collection pages and media from the catalog.
type Client struct {
	transport Transport
	cfg       Config
	logger    *zap.Logger
}

// NewClient creates a Client on top of transport.
func NewClient(transport Transport, cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{transport: transport, cfg: cfg, logger: logger}
}

// pageEnvelope is the collection response shape. Results is a pointer so a missing array is detectable.
type pageEnvelope struct {
	Results *[]json.RawMessage `json:"results"`
}

// FetchPage retrieves the results array of a single page. It never retries.
func (c *Client) FetchPage(ctx context.Context, endpoint string, page int) ([]RawItem, error) {
	if page < 1 {
		return nil, errors.NewConfigurationError("page", fmt.Sprintf("must be >= 1, got %d", page))
	}

	pageURL, err := PageURL(endpoint, page)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	var envelope pageEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, errors.NewTransportError(pageURL, resp.StatusCode, fmt.Errorf("malformed page body: %w", err))
	}
	if envelope.Results == nil {
		return nil, errors.NewTransportError(pageURL, resp.StatusCode, errors.New("page body has no results array"))
	}

	return *envelope.Results, nil
}

// DiscoverPages reads info.pages from the first page of endpoint.
func (c *Client) DiscoverPages(ctx context.Context, endpoint string) (int, error) {
	if _, err := url.Parse(endpoint); err != nil || endpoint == "" {
		return 0, errors.NewConfigurationError("endpoint", fmt.Sprintf("invalid URL %q", endpoint))
	}

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return 0, err
	}

	obj, err := jason.NewObjectFromBytes(resp.Body)
	if err != nil {
		return 0, errors.NewTransportError(endpoint, resp.StatusCode, fmt.Errorf("malformed body: %w", err))
	}
	pages, err := obj.GetInt64("info", "pages")
	if err != nil {
		return 0, errors.NewTransportError(endpoint, resp.StatusCode, fmt.Errorf("missing info.pages: %w", err))
	}
	if pages < 0 {
		return 0, errors.NewTransportError(endpoint, resp.StatusCode, fmt.Errorf("negative info.pages %d", pages))
	}

	c.logger.Debug("Discovered page count", zap.String("endpoint", endpoint), zap.Int64("pages", pages))
	return int(pages), nil
}

// Download retrieves a media file.
func (c *Client) Download(ctx context.Context, sourceURL string) (*Response, error) {
	if sourceURL == "" {
		return nil, errors.NewValidationError("image", "empty source URL")
	}
	return c.transport.Get(ctx, sourceURL)
}

// PageURL returns endpoint with the page query parameter set.
func PageURL(endpoint string, page int) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil || endpoint == "" {
		return "", errors.NewConfigurationError("endpoint", fmt.Sprintf("invalid URL %q", endpoint))
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
