// Package geo is the HTTP client for the ContentGeo upstream API.
//
// Every operation is a single GET against the base URL with a page
// discriminator, the operation's own query parameters in declaration order,
// and the API key appended last when configured.
package geo

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

	"github.com/bobmcallan/contentgeo-mcp/internal/common"
	"github.com/bobmcallan/contentgeo-mcp/internal/config"
)

// maxResponseSize caps the upstream body to prevent OOM from unexpectedly large responses.
const maxResponseSize = 50 << 20

// Page names understood by the upstream API.
const (
	PageLandmarkInfo   = "landmarkinfo"
	PageLandmarks      = "landmarks"
	PageRestaurants    = "restaurants"
	PageRestaurantInfo = "restaurantinfo"
	PageGeoObjects     = "geo_objects"
	PageGeoObjectInfo  = "geo_object_info"
	PageLocationSearch = "location_search"
)

// Param is one query string pair. Order is preserved when the URL is built.
type Param struct {
	Key   string
	Value string
}

// Client issues requests to the upstream API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
}

// NewClient creates a client from the [upstream] config section.
// A zero timeout leaves outbound requests unbounded.
func NewClient(cfg config.UpstreamConfig, logger *common.Logger) (*Client, error) {
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, err
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("upstream base url is empty")
	}
	return &Client{
		baseURL:    base,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Close releases idle upstream connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// BaseURL returns the configured upstream base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HasAPIKey reports whether requests carry an api_key parameter.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// BuildURL returns the upstream URL for page with params in the given order.
func (c *Client) BuildURL(page string, params ...Param) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString("/?page=")
	b.WriteString(url.QueryEscape(page))
	for _, p := range params {
		b.WriteByte('&')
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	if c.apiKey != "" {
		b.WriteString("&api_key=")
		b.WriteString(url.QueryEscape(c.apiKey))
	}
	return b.String()
}

// Fetch performs the GET for page and returns the body if it is valid JSON.
// The body is returned byte-for-byte; no schema is applied.
//
// Errors wrap ErrUnavailable, ErrMalformed, or are a *StatusError.
func (c *Client) Fetch(ctx context.Context, page string, params ...Param) (json.RawMessage, error) {
	target := c.BuildURL(page, params...)
	logged := c.redact(target)

	c.logger.Debug().Str("method", "GET").Str("url", logged).Msg("upstream request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		err = c.redactError(err)
		c.logger.Error().Str("url", logged).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("upstream request failed")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrUnavailable, c.redactError(err))
	}

	c.logger.Debug().Str("url", logged).Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("upstream response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseStatusError(resp.StatusCode, body)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON (%d bytes)", ErrMalformed, len(body))
	}

	return json.RawMessage(body), nil
}

// redact masks the api_key query value so it never reaches logs or error
// payloads. Only that parameter is touched; the rest of the URL is kept as is.
func (c *Client) redact(s string) string {
	if c.apiKey == "" {
		return s
	}
	i := strings.IndexByte(s, '?')
	if i < 0 {
		return s
	}
	pairs := strings.Split(s[i+1:], "&")
	for j, pair := range pairs {
		if strings.HasPrefix(pair, "api_key=") {
			pairs[j] = "api_key=REDACTED"
		}
	}
	return s[:i+1] + strings.Join(pairs, "&")
}

func (c *Client) redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: c.redact(urlErr.URL), Err: urlErr.Err}
	}
	return err
}
