package pagination

import (
	"context"
	"time"

	"github.com/Sternrassler/raydium-pools-bot/pkg/pools"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultPageSize is the number of pools shown per page.
const DefaultPageSize = 10

// Config holds loader configuration
type Config struct {
	// PageSize must match the page size the fetcher requests
	PageSize int
}

// DefaultConfig returns the default loader configuration
func DefaultConfig() Config {
	return Config{
		PageSize: DefaultPageSize,
	}
}

// PageFetcher is implemented by the Raydium client. Both methods fail open.
type PageFetcher interface {
	// FetchTotalCount returns the total number of pools, 0 on failure
	FetchTotalCount(ctx context.Context, poolType pools.PoolType) int
	// FetchPage returns the pools on one page, empty on failure
	FetchPage(ctx context.Context, poolType pools.PoolType, page int) []pools.Record
}

// TotalPages returns max(1, ceil(count/pageSize)). A non-positive pageSize
// falls back to DefaultPageSize and a negative count counts as zero.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// Loader runs the fetch half of a page render: total count, then the page.
type Loader struct {
	fetcher PageFetcher
	config  Config
	logger  zerolog.Logger
}

// NewLoader creates a new loader
func NewLoader(fetcher PageFetcher, config Config) *Loader {
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}

	return &Loader{
		fetcher: fetcher,
		config:  config,
		logger:  log.With().Str("component", "pagination").Logger(),
	}
}

// Load fetches one page. Callers must reject req.Page < 1 before calling.
func (l *Loader) Load(ctx context.Context, req pools.PageRequest) pools.Page {
	start := time.Now()

	count := l.fetcher.FetchTotalCount(ctx, req.PoolType)
	totalPages := TotalPages(count, l.config.PageSize)
	records := l.fetcher.FetchPage(ctx, req.PoolType, req.Page)

	l.logger.Info().
		Str("pool_type", string(req.PoolType)).
		Int("page", req.Page).
		Int("total_count", count).
		Int("total_pages", totalPages).
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Page loaded")

	return pools.Page{
		PoolType:   req.PoolType,
		Number:     req.Page,
		TotalPages: totalPages,
		Records:    records,
	}
}
