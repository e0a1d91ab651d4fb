// Package client provides the Raydium v3 pool listing HTTP client.
//
// The client fails open: listing and count lookups never return an error to
// the caller. Failures are logged, counted and degraded to an empty listing
// or a zero count.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/raydium-pools-bot/pkg/pools"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for Raydium API operations.
var (
	raydiumRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raydium_requests_total",
		Help: "Total Raydium API requests by request kind and status",
	}, []string{"kind", "status"})

	raydiumRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "raydium_request_duration_seconds",
		Help:    "Raydium API request duration in seconds by request kind",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"kind"})

	raydiumErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raydium_errors_total",
		Help: "Total Raydium API errors by class",
	}, []string{"class"})
)

const (
	// DefaultBaseURL is the public Raydium v3 API.
	DefaultBaseURL = "https://api-v3.raydium.io"

	// DefaultPageSize is the number of pools rendered per page.
	DefaultPageSize = 10

	// ListPath is the pool listing endpoint.
	ListPath = "/pools/info/list"

	kindPage  = "page"
	kindCount = "count"
)

// Client fetches pool listings from the Raydium API.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the Raydium API, without trailing slash.
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// PageSize is the number of records requested per listing page.
	PageSize int

	// Timeout is the overall HTTP client timeout. Zero means no timeout.
	Timeout time.Duration
}

// DefaultConfig returns the configuration used against the public API.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		PageSize:  DefaultPageSize,
		Timeout:   30 * time.Second,
	}
}

// New creates a new Raydium client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("page_size must be >= 1 (got %d)", cfg.PageSize)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: log.With().Str("component", "raydium-client").Logger(),
	}, nil
}

// listResponse is the /pools/info/list envelope.
type listResponse struct {
	ID      string `json:"id"`
	Success *bool  `json:"success"`
	Msg     string `json:"msg"`
	Data    struct {
		Count       int               `json:"count"`
		Data        []json.RawMessage `json:"data"`
		HasNextPage bool              `json:"hasNextPage"`
	} `json:"data"`
}

// PageSize returns the configured listing page size.
func (c *Client) PageSize() int {
	return c.config.PageSize
}

// ListURL builds the listing URL for a pool type, page and page size.
func ListURL(baseURL string, poolType pools.PoolType, page, pageSize int) string {
	return fmt.Sprintf("%s%s?poolType=%s&poolSortField=default&sortType=desc&page=%d&pageSize=%d",
		strings.TrimRight(baseURL, "/"), ListPath, url.QueryEscape(string(poolType)), page, pageSize)
}

// FetchPage returns the pools on the given page. Any failure is logged and
// yields an empty slice.
func (c *Client) FetchPage(ctx context.Context, poolType pools.PoolType, page int) []pools.Record {
	resp, err := c.list(ctx, kindPage, ListURL(c.config.BaseURL, poolType, page, c.config.PageSize))
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("pool_type", string(poolType)).
			Int("page", page).
			Msg("Failed to fetch pools")
		return []pools.Record{}
	}

	c.logger.Debug().
		Str("pool_type", string(poolType)).
		Int("page", page).
		Int("records", len(resp.Data.Data)).
		Int("count", resp.Data.Count).
		Msg("Fetched pools")

	return c.decodeRecords(resp.Data.Data)
}

// decodeRecords decodes each record on its own. A record that cannot be
// decoded keeps its position as an empty Record, which renders as
// placeholders.
func (c *Client) decodeRecords(raw []json.RawMessage) []pools.Record {
	records := make([]pools.Record, len(raw))
	for i, data := range raw {
		if err := json.Unmarshal(data, &records[i]); err != nil {
			raydiumErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
			c.logger.Warn().
				Err(err).
				Int("index", i).
				Msg("Failed to decode pool record")
			records[i] = pools.Record{}
		}
	}
	return records
}

// FetchTotalCount requests a single-record page only to read the total item
// count. Any failure is logged and yields 0.
func (c *Client) FetchTotalCount(ctx context.Context, poolType pools.PoolType) int {
	resp, err := c.list(ctx, kindCount, ListURL(c.config.BaseURL, poolType, 1, 1))
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("pool_type", string(poolType)).
			Msg("Failed to fetch total count")
		return 0
	}

	c.logger.Debug().
		Str("pool_type", string(poolType)).
		Int("count", resp.Data.Count).
		Msg("Fetched total count")

	return resp.Data.Count
}

// list performs one listing request and decodes the envelope.
func (c *Client) list(ctx context.Context, kind, rawURL string) (*listResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req, kind)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		raydiumErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassDecode,
			Message:    "decode response",
			Err:        err,
		}
	}

	if out.Success != nil && !*out.Success {
		raydiumErrorsTotal.WithLabelValues(string(ErrorClassAPI)).Inc()
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassAPI,
			Message:    out.Msg,
		}
	}

	return &out, nil
}

// Do sends a request with the client headers and records metrics. Non-2xx
// responses are returned as *APIError with the body already closed.
func (c *Client) Do(req *http.Request, kind string) (*http.Response, error) {
	startTime := time.Now()
	defer func() {
		raydiumRequestDuration.WithLabelValues(kind).Observe(time.Since(startTime).Seconds())
	}()

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("kind", kind).
		Str("url", req.URL.String()).
		Msg("Executing Raydium request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errClass := classifyError(nil, err)
		raydiumErrorsTotal.WithLabelValues(string(errClass)).Inc()
		raydiumRequestsTotal.WithLabelValues(kind, "network_error").Inc()
		return nil, &APIError{
			ErrorClass: errClass,
			Message:    "request failed",
			Err:        err,
		}
	}

	raydiumRequestsTotal.WithLabelValues(kind, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		errClass := classifyError(resp, nil)
		raydiumErrorsTotal.WithLabelValues(string(errClass)).Inc()

		c.logger.Warn().
			Str("kind", kind).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Raydium request error")

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
		}
	}

	return resp, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
