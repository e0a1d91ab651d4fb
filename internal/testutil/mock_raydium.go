// Package testutil provides testing utilities for the Raydium pools bot.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
)

// MockRaydiumResponse overrides the listing handler with a fixed response.
type MockRaydiumResponse struct {
	StatusCode int
	Body       string
}

// MockRaydium is a configurable mock of the Raydium /pools/info/list endpoint.
// Pools are stored as raw JSON objects per pool type and paginated from the
// page and pageSize query parameters.
type MockRaydium struct {
	server *httptest.Server
	mu     sync.RWMutex
	pools  map[string][]json.RawMessage
	fixed  *MockRaydiumResponse

	requests []url.Values
}

// NewMockRaydium creates and starts a new mock server.
func NewMockRaydium() *MockRaydium {
	mock := &MockRaydium{
		pools: make(map[string][]json.RawMessage),
	}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the mock server base URL.
func (m *MockRaydium) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockRaydium) Close() {
	m.server.Close()
}

// SetPools replaces the dataset served for a pool type filter.
func (m *MockRaydium) SetPools(poolType string, records ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw := make([]json.RawMessage, len(records))
	for i, r := range records {
		raw[i] = json.RawMessage(r)
	}
	m.pools[poolType] = raw
}

// SetResponse makes every request return the given status and body.
func (m *MockRaydium) SetResponse(resp MockRaydiumResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixed = &resp
}

// Requests returns the query parameters of every request received so far.
func (m *MockRaydium) Requests() []url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]url.Values, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestCount returns the number of requests received so far.
func (m *MockRaydium) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// Reset clears the request log.
func (m *MockRaydium) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

func (m *MockRaydium) handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	m.mu.Lock()
	m.requests = append(m.requests, query)
	fixed := m.fixed
	records := m.pools[query.Get("poolType")]
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if fixed != nil {
		w.WriteHeader(fixed.StatusCode)
		w.Write([]byte(fixed.Body))
		return
	}

	if r.URL.Path != "/pools/info/list" {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success": false, "msg": "not found"}`))
		return
	}

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"success": false, "msg": "invalid page %q"}`, query.Get("page"))
		return
	}
	pageSize, err := strconv.Atoi(query.Get("pageSize"))
	if err != nil || pageSize < 1 {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"success": false, "msg": "invalid pageSize %q"}`, query.Get("pageSize"))
		return
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(records) {
		start = len(records)
	}
	if end > len(records) {
		end = len(records)
	}

	body := struct {
		ID      string `json:"id"`
		Success bool   `json:"success"`
		Data    struct {
			Count       int               `json:"count"`
			Data        []json.RawMessage `json:"data"`
			HasNextPage bool              `json:"hasNextPage"`
		} `json:"data"`
	}{ID: "mock", Success: true}
	body.Data.Count = len(records)
	body.Data.Data = append([]json.RawMessage{}, records[start:end]...)
	body.Data.HasNextPage = end < len(records)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

// PoolJSON renders a complete pool record for use with SetPools.
func PoolJSON(id, symbolA, symbolB string, tvl, volume, fee, apr float64) string {
	return fmt.Sprintf(`{"type":"Standard","id":%q,"mintA":{"symbol":%q},"mintB":{"symbol":%q},"tvl":%v,"day":{"volume":%v,"volumeFee":%v,"apr":%v}}`,
		id, symbolA, symbolB, tvl, volume, fee, apr)
}

// Pools generates n distinct pool records with ids prefixed by prefix.
func Pools(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = PoolJSON(fmt.Sprintf("%s%d", prefix, i+1), "TKA", "TKB",
			float64(1000*(i+1)), float64(100*(i+1)), 0.25, float64(i+1))
	}
	return out
}
