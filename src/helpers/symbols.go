package helpers

import "strings"

// NormalizeSymbol is the canonical key form of a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
