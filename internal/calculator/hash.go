package calculator

import (
	"strings"
)

// HashSymbol is a cheap deterministic hash of a ticker: the sum of the code
// points of the trimmed, upper-cased symbol. It only seeds cosmetic path
// modulation and must never feed a statistic.
func HashSymbol(symbol string) int {
	sum := 0
	for _, r := range strings.ToUpper(strings.TrimSpace(symbol)) {
		sum += int(r)
	}
	return sum
}
