// Package store provides a thin HTTP client for the symbol store REST API.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/signalzero/symbolstore-mcp/internal/common"
)

// DefaultTimeout bounds each round trip when the config does not set one.
const DefaultTimeout = 10 * time.Second

// StatusError is returned when the remote store responds with a non-2xx
// status. It carries enough of the exchange to report the failure to the
// caller as text.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Request to %s %s failed with status %d: %s",
		e.Method, e.URL, e.StatusCode, e.Body)
}

// QueryParams holds the optional filters for QuerySymbols. Zero values are
// treated as absent and never transmitted.
type QueryParams struct {
	Domain string
	Tag    string
	LastID string
	Limit  int
}

// Client communicates with the symbol store REST API. Each call performs a
// single round trip on its own connection; keep-alives are disabled so no
// transport state is shared across calls.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
}

// NewClient creates a client targeting the given base URL. The API key is
// optional; when set it is attached as an x-api-key header on every request.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *common.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
		},
		logger: logger,
	}
}

// QuerySymbols fetches symbols matching the given filters.
// GET /symbol?symbol_domain=&symbol_tag=&last_symbol_id=&limit=
func (c *Client) QuerySymbols(ctx context.Context, params QueryParams) ([]byte, error) {
	query := url.Values{}
	if params.Domain != "" {
		query.Set("symbol_domain", params.Domain)
	}
	if params.Tag != "" {
		query.Set("symbol_tag", params.Tag)
	}
	if params.LastID != "" {
		query.Set("last_symbol_id", params.LastID)
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}

	path := "/symbol"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return c.do(ctx, http.MethodGet, path, nil)
}

// GetSymbol fetches a single symbol by ID.
// GET /symbol/{id}
func (c *Client) GetSymbol(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/symbol/"+url.PathEscape(id), nil)
}

// PutSymbol stores a symbol under the given ID.
// PUT /save_symbol/{symbol_id} with JSON body
func (c *Client) PutSymbol(ctx context.Context, id string, payload map[string]any) ([]byte, error) {
	return c.do(ctx, http.MethodPut, "/save_symbol/"+url.PathEscape(id), payload)
}

// ListDomains fetches the list of known symbol domains.
// GET /domains
func (c *Client) ListDomains(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/domains", nil)
}

// do performs one request/response round trip and returns the raw response
// body. Non-2xx responses become *StatusError; transport failures are
// wrapped and returned as-is.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Msg("Symbol store request")

	var bodyReader io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Dur("duration", duration).Msg("Symbol store request failed")
		return nil, fmt.Errorf("symbol store request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().
		Str("status", resp.Status).
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Msg("Symbol store response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Method:     method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return body, nil
}
