// Package format renders market data into Telegram Markdown messages.
// Everything here is a pure function of its input; missing fields render
// as omitted lines, never as an error.
package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"kriptoradar/market"
)

// printer adds thousands separators to localized number verbs.
var printer = message.NewPrinter(language.English)

// Price renders a price with a currency symbol. Sub-unit prices keep
// six decimals so small coins stay readable, larger ones get two
// decimals and thousands separators.
func Price(v float64, currency string) string {
	symbol := "$"
	if strings.EqualFold(currency, "try") {
		symbol = "₺"
	}
	if v >= 1 {
		return printer.Sprintf("%s%.2f", symbol, v)
	}
	return fmt.Sprintf("%s%.6f", symbol, v)
}

// Percent renders a change percentage with a trend icon. Positive gets
// an explicit plus, negative carries its own sign, zero is flat.
func Percent(v float64) string {
	switch {
	case v > 0:
		return fmt.Sprintf("📈 +%%%.2f", v)
	case v < 0:
		return fmt.Sprintf("📉 %%%.2f", v)
	default:
		return fmt.Sprintf("➡️ %%%.2f", v)
	}
}

// Magnitude scales market caps and volumes to the largest fitting unit.
func Magnitude(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return printer.Sprintf("$%.0f", v)
	}
}

func changeIcon(v float64) string {
	switch {
	case v > 0:
		return "📈"
	case v < 0:
		return "📉"
	default:
		return "➡️"
	}
}

// PriceMessage builds the full price reply for one coin. The secondary
// currency, market cap and volume lines are dropped when zero.
func PriceMessage(snap *market.Snapshot, name, local string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "💰 **%s Fiyat Bilgileri**\n\n", strings.ToUpper(name))
	fmt.Fprintf(&b, "💵 **Fiyat:** %s\n", Price(snap.USD, "usd"))

	if snap.Local != 0 {
		fmt.Fprintf(&b, "🇹🇷 **TL:** %s\n", Price(snap.Local, local))
	}

	fmt.Fprintf(&b, "📊 **24s Değişim:** %s\n", Percent(snap.Change24h))

	if snap.MarketCap != 0 {
		fmt.Fprintf(&b, "🏪 **Piyasa Değeri:** %s\n", Magnitude(snap.MarketCap))
	}
	if snap.Volume24h != 0 {
		fmt.Fprintf(&b, "📈 **24s Hacim:** %s\n", Magnitude(snap.Volume24h))
	}

	b.WriteString("\n🕐 _Güncelleme: Şimdi_")
	return b.String()
}

// TopCoinsMessage builds the ranked top-N list reply.
func TopCoinsMessage(coins []market.Coin) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🏆 **Top %d Kripto Para**\n\n", len(coins))
	for i, coin := range coins {
		fmt.Fprintf(&b, "%d. **%s (%s)**\n", i+1, coin.Name, strings.ToUpper(coin.Symbol))
		fmt.Fprintf(&b, "   💰 %s %s %%%.2f\n\n", Price(coin.Price, "usd"), changeIcon(coin.Change24h), coin.Change24h)
	}

	b.WriteString("🕐 _Güncelleme: Şimdi_")
	return b.String()
}

// GainersMessage builds the 1h top-gainers reply.
func GainersMessage(coins []market.Coin) string {
	var b strings.Builder

	b.WriteString("🚀 **Son 1 Saatte En Çok Yükselen 5 Coin:**\n\n")
	for i, coin := range coins {
		fmt.Fprintf(&b, "%d. **%s**: +%%%.2f | $%.4f\n", i+1, strings.ToUpper(coin.Symbol), coin.Change1h, coin.Price)
	}

	b.WriteString("\n🕐 _Güncelleme: Şimdi_")
	return b.String()
}

// SearchMessage builds the coin search reply.
func SearchMessage(results []market.SearchResult) string {
	var b strings.Builder

	b.WriteString("🔍 **Arama Sonuçları:**\n\n")
	for _, r := range results {
		fmt.Fprintf(&b, "• **%s (%s)**\n", r.Name, strings.ToUpper(r.Symbol))
	}

	b.WriteString("\n💡 Fiyat öğrenmek için: `/fiyat <coin ismi>`")
	return b.String()
}
