// Package pools defines the Raydium liquidity pool types shared by the client,
// pagination, formatting and bot packages.
package pools

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PoolType selects which subset of pools the listing endpoint returns.
type PoolType string

const (
	// PoolTypeAll lists every pool.
	PoolTypeAll PoolType = "all"

	// PoolTypeConcentrated lists concentrated liquidity (CLMM) pools.
	PoolTypeConcentrated PoolType = "concentrated"

	// PoolTypeStandard lists standard constant-product (AMM) pools.
	PoolTypeStandard PoolType = "standard"
)

// PoolTypes returns all supported pool types in command order.
func PoolTypes() []PoolType {
	return []PoolType{PoolTypeAll, PoolTypeConcentrated, PoolTypeStandard}
}

// ParsePoolType converts a raw filter value into a PoolType.
func ParsePoolType(s string) (PoolType, error) {
	switch PoolType(s) {
	case PoolTypeAll, PoolTypeConcentrated, PoolTypeStandard:
		return PoolType(s), nil
	default:
		return "", fmt.Errorf("unknown pool type %q", s)
	}
}

// String implements fmt.Stringer.
func (t PoolType) String() string {
	return string(t)
}

// Mint is the token side of a pool. Only the symbol is rendered.
type Mint struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

// Value is a scalar statistic in its upstream textual form. Numbers keep
// their digits and strings their content. Null, booleans, arrays and objects
// decode to the empty Value, which renders as a placeholder.
type Value string

// UnmarshalJSON implements json.Unmarshaler. It never fails on a well-formed
// JSON value.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*v = ""
	if len(data) == 0 {
		return nil
	}

	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
	case c == '-' || (c >= '0' && c <= '9'):
		*v = Value(data)
	}
	return nil
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return string(v)
}

// DayStats holds the rolling 24h statistics of a pool.
type DayStats struct {
	Volume    Value `json:"volume"`
	VolumeFee Value `json:"volumeFee"`
	APR       Value `json:"apr"`
}

// Record is one pool entry as returned by /pools/info/list.
// Numeric fields keep the upstream textual form so the same payload always
// renders to the same text. A zero value means the field was absent or null.
type Record struct {
	ID    string    `json:"id"`
	Type  string    `json:"type"`
	MintA *Mint     `json:"mintA"`
	MintB *Mint     `json:"mintB"`
	TVL   Value     `json:"tvl"`
	Day   *DayStats `json:"day"`
}

// PageRequest identifies one rendered page. It is never stored server side;
// the bot rebuilds it from the button payload.
type PageRequest struct {
	PoolType PoolType
	Page     int
}

// Page is the transient result of one fetch, discarded after rendering.
type Page struct {
	PoolType   PoolType
	Number     int
	TotalPages int
	Records    []Record
}
