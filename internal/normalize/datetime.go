package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// spanishMonths maps the three-letter Spanish month abbreviations used in
// statement exports to month numbers.
var spanishMonths = map[string]int{
	"ene": 1, "feb": 2, "mar": 3, "abr": 4, "may": 5, "jun": 6,
	"jul": 7, "ago": 8, "sep": 9, "oct": 10, "nov": 11, "dic": 12,
}

// CurrentYear returns the system calendar year. Statement lines carry no year,
// so callers pass this (or a pinned year) to DateTime.
func CurrentYear() int {
	return time.Now().Year()
}

// DateTime turns "Lun 15 Mar 14:30" into "2025-03-15T14:30:00" for year 2025.
// The time token is copied through unchanged. It returns false when there are
// fewer than four tokens, the day is missing or zero, or the month is unknown.
func DateTime(raw string, year int) (string, bool) {
	parts := strings.Fields(raw)
	if len(parts) < 4 {
		return "", false
	}

	day := leadingInt(parts[1])
	month, ok := spanishMonths[strings.ToLower(parts[2])]
	if day == 0 || !ok {
		return "", false
	}

	return fmt.Sprintf("%04d-%02d-%02dT%s:00", year, month, day, parts[3]), true
}

// leadingInt reads the decimal digits at the start of s; "15abc" -> 15, "x" -> 0.
func leadingInt(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0
	}
	return n
}
