// Package normalize maps free-form statement tokens to canonical values.
package normalize

import "strings"

// Canonical currency codes.
const (
	PEN = "PEN"
	USD = "USD"
	EUR = "EUR"
	JPY = "JPY"
)

// Currency maps a raw currency token ("S/.", "US$", "€", "soles", ...) to a
// canonical code. Unrecognized tokens come back uppercased and trimmed; an
// empty or blank token returns "".
//
// Rules are tested in order and the first match wins: "s/." must never be
// read as a dollar sign.
func Currency(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ".", "")

	switch {
	case strings.Contains(s, "s/"), s == "pen", strings.Contains(s, "sol"):
		return PEN
	case strings.Contains(s, "usd"), strings.Contains(s, "us$"), s == "$", strings.Contains(s, "dollar"):
		return USD
	case strings.Contains(s, "eur"), strings.Contains(s, "euro"), strings.Contains(s, "€"):
		return EUR
	case strings.Contains(s, "jpy"), strings.Contains(s, "yen"), strings.Contains(s, "¥"):
		return JPY
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IsKnownCurrency reports whether code is one of the canonical codes.
func IsKnownCurrency(code string) bool {
	switch code {
	case PEN, USD, EUR, JPY:
		return true
	}
	return false
}
