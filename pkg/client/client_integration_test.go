//go:build integration

package client

import (
	"context"
	"testing"
	"time"

	"github.com/Sternrassler/raydium-pools-bot/pkg/pools"
)

// These tests hit the public Raydium API.

func TestIntegration_LivePageAndCount(t *testing.T) {
	c, err := New(DefaultConfig("raydium-pools-bot-integration/0.1.0"))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, poolType := range pools.PoolTypes() {
		t.Run(string(poolType), func(t *testing.T) {
			count := c.FetchTotalCount(ctx, poolType)
			if count == 0 {
				t.Fatalf("FetchTotalCount(%s) = 0, upstream unreachable or empty", poolType)
			}

			records := c.FetchPage(ctx, poolType, 1)
			if len(records) == 0 || len(records) > DefaultPageSize {
				t.Fatalf("FetchPage(%s, 1) returned %d records", poolType, len(records))
			}
			if records[0].ID == "" {
				t.Error("first record has no id")
			}
			if records[0].MintA == nil || records[0].MintA.Symbol == "" {
				t.Error("first record has no mintA symbol")
			}
		})
	}
}

// The count request is redundant if every page envelope already carries the
// total. This checks that assumption against the live API.
func TestIntegration_PageEnvelopeCarriesCount(t *testing.T) {
	c, err := New(DefaultConfig("raydium-pools-bot-integration/0.1.0"))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	countResp, err := c.list(ctx, kindCount, ListURL(c.config.BaseURL, pools.PoolTypeAll, 1, 1))
	if err != nil {
		t.Fatalf("count request failed: %v", err)
	}
	pageResp, err := c.list(ctx, kindPage, ListURL(c.config.BaseURL, pools.PoolTypeAll, 2, DefaultPageSize))
	if err != nil {
		t.Fatalf("page request failed: %v", err)
	}

	diff := countResp.Data.Count - pageResp.Data.Count
	if diff < -50 || diff > 50 {
		t.Errorf("count differs between requests: %d vs %d", countResp.Data.Count, pageResp.Data.Count)
	}
}
