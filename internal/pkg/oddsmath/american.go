package oddsmath

import (
	"math"
	"strconv"
	"strings"
)

// Minus glyphs that sportsbook pages render in front of favourite prices.
const (
	unicodeMinus = "−"
	enDash       = "–"
)

var signReplacer = strings.NewReplacer(unicodeMinus, "-", enDash, "-")

// NormalizeSign trims the price and rewrites every minus glyph variant to an ASCII hyphen.
func NormalizeSign(price string) string {
	return signReplacer.Replace(strings.TrimSpace(price))
}

// HasSign reports whether price starts with "+" or any minus glyph.
func HasSign(price string) bool {
	p := NormalizeSign(price)
	return strings.HasPrefix(p, "+") || strings.HasPrefix(p, "-")
}

// ToDecimal converts an American price string to decimal odds rounded to 2 places.
// "+450" → 5.50, "-110" → 1.91
// Anything that is not a signed integer (or is zero) yields 0, which callers treat as unknown.
func ToDecimal(price string) float64 {
	p := NormalizeSign(price)
	if len(p) < 2 {
		return 0
	}

	negative := false
	switch p[0] {
	case '+':
	case '-':
		negative = true
	default:
		return 0
	}

	digits := p[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0
		}
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n == 0 {
		return 0
	}

	if negative {
		return round2(100.0/float64(n) + 1.0)
	}
	return round2(float64(n)/100.0 + 1.0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
