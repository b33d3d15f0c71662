// Package coins maps free-form user text to canonical CoinGecko
// identifiers and decides whether arbitrary chat text looks like an
// asset query at all.
package coins

import (
	"regexp"
	"sort"
	"strings"
)

// Common coin aliases, ticker and full name both map to the
// CoinGecko identifier.
var aliases = map[string]string{
	"btc":       "bitcoin",
	"bitcoin":   "bitcoin",
	"eth":       "ethereum",
	"ethereum":  "ethereum",
	"bnb":       "binancecoin",
	"binance":   "binancecoin",
	"xrp":       "ripple",
	"ripple":    "ripple",
	"ada":       "cardano",
	"cardano":   "cardano",
	"sol":       "solana",
	"solana":    "solana",
	"doge":      "dogecoin",
	"dogecoin":  "dogecoin",
	"dot":       "polkadot",
	"polkadot":  "polkadot",
	"avax":      "avalanche-2",
	"avalanche": "avalanche-2",
	"ltc":       "litecoin",
	"litecoin":  "litecoin",
}

// ordered holds the alias keys longest-first so the substring fallback
// in Resolve is deterministic. Short generic tokens would otherwise
// match whatever map iteration happened to visit first.
var ordered = func() []string {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Resolve maps user input to a CoinGecko identifier. Unknown input is
// returned as-is and treated as a literal identifier; whether it exists
// is decided by the fetch, not here.
func Resolve(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return token
	}

	if id, ok := aliases[token]; ok {
		return id
	}

	// Substring fallback, longest alias wins
	for _, alias := range ordered {
		if strings.Contains(alias, token) || strings.Contains(token, alias) {
			return aliases[alias]
		}
	}

	return token
}

// Known reports whether the token is an exact alias key.
func Known(token string) bool {
	_, ok := aliases[strings.ToLower(strings.TrimSpace(token))]
	return ok
}

// Aliases returns the user-facing alias keys, longest first.
func Aliases() []string {
	return ordered
}

var (
	junkRe  = regexp.MustCompile(`[^\w\s.-]`)
	queryRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)
)

// Clean strips everything except word characters, whitespace, hyphen
// and period, then trims and lowercases.
func Clean(text string) string {
	return strings.ToLower(strings.TrimSpace(junkRe.ReplaceAllString(text, "")))
}

// IsQuery reports whether free-form chat text is worth a price lookup.
// Known aliases always pass; anything else must look like a ticker,
// a letter followed by letters, digits or hyphens.
func IsQuery(text string) bool {
	cleaned := Clean(text)

	if len(cleaned) < 2 {
		return false
	}

	if _, ok := aliases[cleaned]; ok {
		return true
	}

	return queryRe.MatchString(cleaned)
}
