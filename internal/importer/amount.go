package importer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numericPrefix is the longest leading number a sanitized amount may start with.
var numericPrefix = regexp.MustCompile(`^-?(?:\d+(?:\.\d*)?|\.\d+)`)

// SanitizeAmount drops thousands separators and every character except
// digits, '.' and '-'. "S/ -1,234.50" -> "-1234.50"
func SanitizeAmount(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
}

// ParseAmount sanitizes raw and reads the number at its start, ignoring any
// trailing garbage ("12-3" -> 12, "1.2.3" -> 1.2). ok is false when no number
// starts the sanitized text.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	m := numericPrefix.FindString(SanitizeAmount(raw))
	if m == "" {
		return decimal.Zero, false
	}

	neg := strings.HasPrefix(m, "-")
	m = strings.TrimPrefix(m, "-")
	m = strings.TrimSuffix(m, ".")
	if strings.HasPrefix(m, ".") {
		m = "0" + m
	}

	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero, false
	}
	if neg {
		d = d.Neg()
	}
	return d, true
}
