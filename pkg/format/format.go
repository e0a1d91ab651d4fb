// Package format renders a page of pools as a Telegram Markdown message and
// builds its navigation buttons.
package format

import (
	"fmt"
	"strings"

	"github.com/Sternrassler/raydium-pools-bot/pkg/pools"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fixed user-facing texts.
const (
	WelcomeText   = "🌟 Chào mừng! Sử dụng /all_pools, /concentrated_pools, hoặc /standard_pools để xem thông tin về các liquidity pools trên Raydium. 🌟"
	NoDataText    = "🚫 Không có thông tin pools để hiển thị."
	FirstPageText = "🚫 Đây là trang đầu tiên."

	// Placeholder is rendered for any field missing from a record.
	Placeholder = "N/A"

	addLiquidityURL = "https://raydium.io/liquidity/increase/?mode=add&pool_id="
)

// Button is one inline navigation action.
type Button struct {
	Text    string
	Payload string
}

// Navigation is the previous/current/next control attached to a page.
type Navigation struct {
	Previous Button
	Current  Button
	Next     Button
}

// Buttons returns the three actions in display order.
func (n *Navigation) Buttons() []Button {
	return []Button{n.Previous, n.Current, n.Next}
}

// Format renders page. An empty page yields NoDataText and no navigation.
func Format(page pools.Page) (string, *Navigation) {
	if len(page.Records) == 0 {
		return NoDataText, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔹 **Page %d %s Liquidity Pools** 🔹\n\n", page.Number, titleCase(string(page.PoolType)))
	for _, rec := range page.Records {
		writeRecord(&b, rec)
	}

	return b.String(), NewNavigation(page.PoolType, page.Number)
}

// NewNavigation builds the controls for page of poolType. The payloads carry
// everything needed to rebuild the request, so no session state is kept.
func NewNavigation(poolType pools.PoolType, page int) *Navigation {
	return &Navigation{
		Previous: Button{
			Text:    "Previous",
			Payload: EncodePayload(pools.PageRequest{PoolType: poolType, Page: page - 1}),
		},
		Current: Button{
			Text:    fmt.Sprintf("Page %d ", page),
			Payload: NoopPayload,
		},
		Next: Button{
			Text:    "Next",
			Payload: EncodePayload(pools.PageRequest{PoolType: poolType, Page: page + 1}),
		},
	}
}

func writeRecord(b *strings.Builder, rec pools.Record) {
	var symbolA, symbolB string
	if rec.MintA != nil {
		symbolA = rec.MintA.Symbol
	}
	if rec.MintB != nil {
		symbolB = rec.MintB.Symbol
	}

	var day pools.DayStats
	if rec.Day != nil {
		day = *rec.Day
	}

	fmt.Fprintf(b, "🔸 **Token Pair:** %s ↔️ %s\n", orPlaceholder(symbolA), orPlaceholder(symbolB))
	fmt.Fprintf(b, "💧 **Liquidity:** %s\n", orPlaceholder(rec.TVL.String()))
	fmt.Fprintf(b, "📈 **24h Volume:** %s\n", orPlaceholder(day.Volume.String()))
	fmt.Fprintf(b, "💰 **24h Fee:** %s%%\n", orPlaceholder(day.VolumeFee.String()))
	fmt.Fprintf(b, "📊 **24h APR:** %s%%\n", orPlaceholder(day.APR.String()))
	fmt.Fprintf(b, "🔗 [Add Liquidity to This Pool](%s%s)\n\n", addLiquidityURL, rec.ID)
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// titleCase upper-cases the first letter of a pool type. Casers are stateful,
// so one is made per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
