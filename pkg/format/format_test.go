package format

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Sternrassler/raydium-pools-bot/pkg/pools"
)

func decodeRecords(t *testing.T, raw string) []pools.Record {
	t.Helper()
	var recs []pools.Record
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	return recs
}

func TestFormat_Empty(t *testing.T) {
	tests := []struct {
		name    string
		records []pools.Record
	}{
		{"nil records", nil},
		{"empty records", []pools.Record{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, nav := Format(pools.Page{PoolType: pools.PoolTypeAll, Number: 4, TotalPages: 3, Records: tt.records})
			if text != NoDataText {
				t.Errorf("text = %q, want %q", text, NoDataText)
			}
			if nav != nil {
				t.Errorf("navigation = %+v, want nil", nav)
			}
		})
	}
}

func TestFormat_SingleRecord(t *testing.T) {
	recs := decodeRecords(t, `[{
		"id": "pool1",
		"mintA": {"symbol": "SOL"},
		"mintB": {"symbol": "USDC"},
		"tvl": 1234.5,
		"day": {"volume": 678, "volumeFee": 0.25, "apr": 12.07}
	}]`)

	text, nav := Format(pools.Page{PoolType: pools.PoolTypeConcentrated, Number: 2, TotalPages: 9, Records: recs})

	want := "🔹 **Page 2 Concentrated Liquidity Pools** 🔹\n\n" +
		"🔸 **Token Pair:** SOL ↔️ USDC\n" +
		"💧 **Liquidity:** 1234.5\n" +
		"📈 **24h Volume:** 678\n" +
		"💰 **24h Fee:** 0.25%\n" +
		"📊 **24h APR:** 12.07%\n" +
		"🔗 [Add Liquidity to This Pool](https://raydium.io/liquidity/increase/?mode=add&pool_id=pool1)\n\n"

	if text != want {
		t.Errorf("text mismatch\ngot:  %q\nwant: %q", text, want)
	}
	if nav == nil {
		t.Fatal("navigation is nil")
	}
}

func TestFormat_MissingFields(t *testing.T) {
	recs := decodeRecords(t, `[{"id": "bare"}, {"mintA": {}, "mintB": {"symbol": "RAY"}, "day": {"apr": 3}}]`)

	text, _ := Format(pools.Page{PoolType: pools.PoolTypeStandard, Number: 1, Records: recs})

	checks := []string{
		"🔸 **Token Pair:** N/A ↔️ N/A\n💧 **Liquidity:** N/A\n📈 **24h Volume:** N/A\n💰 **24h Fee:** N/A%\n📊 **24h APR:** N/A%\n",
		"pool_id=bare)",
		"🔸 **Token Pair:** N/A ↔️ RAY\n",
		"📊 **24h APR:** 3%\n",
		"pool_id=)",
	}
	for _, want := range checks {
		if !strings.Contains(text, want) {
			t.Errorf("text does not contain %q\n%s", want, text)
		}
	}
}

func TestFormat_OneEntryPerRecordInOrder(t *testing.T) {
	recs := decodeRecords(t, `[{"id": "c"}, {"id": "a"}, {"id": "b"}]`)

	text, _ := Format(pools.Page{PoolType: pools.PoolTypeAll, Number: 1, Records: recs})

	if n := strings.Count(text, "🔸 **Token Pair:**"); n != 3 {
		t.Errorf("entry count = %d, want 3", n)
	}
	ic := strings.Index(text, "pool_id=c)")
	ia := strings.Index(text, "pool_id=a)")
	ib := strings.Index(text, "pool_id=b)")
	if !(ic < ia && ia < ib) || ic < 0 {
		t.Errorf("entries out of order: c=%d a=%d b=%d", ic, ia, ib)
	}
}

func TestFormat_Idempotent(t *testing.T) {
	raw := `[{"id": "x", "mintA": {"symbol": "A"}, "mintB": {"symbol": "B"}, "tvl": 1e3, "day": {"volume": 0.1, "volumeFee": 0.0001, "apr": 0}}]`
	page := pools.Page{PoolType: pools.PoolTypeAll, Number: 7, Records: decodeRecords(t, raw)}

	first, _ := Format(page)
	page.Records = decodeRecords(t, raw)
	second, _ := Format(page)

	if first != second {
		t.Errorf("formatting is not stable:\n%q\n%q", first, second)
	}
	if !strings.Contains(first, "💧 **Liquidity:** 1e3\n") {
		t.Errorf("number text not preserved: %q", first)
	}
}

func TestNewNavigation(t *testing.T) {
	nav := NewNavigation(pools.PoolTypeConcentrated, 1)

	buttons := nav.Buttons()
	if len(buttons) != 3 {
		t.Fatalf("len(Buttons()) = %d, want 3", len(buttons))
	}

	want := []Button{
		{Text: "Previous", Payload: "concentrated_pools_0"},
		{Text: "Page 1 ", Payload: "noop"},
		{Text: "Next", Payload: "concentrated_pools_2"},
	}
	for i := range want {
		if buttons[i] != want[i] {
			t.Errorf("button %d = %+v, want %+v", i, buttons[i], want[i])
		}
	}
}
