// Package integrity cross-checks parser output against a rough count of the
// money amounts present in the raw text. Its verdict is advisory only.
package integrity

import (
	"fmt"
	"regexp"
)

// moneyPattern finds a currency marker followed by an amount with thousands
// and decimal separators. It is independent of the parser's line grammar.
var moneyPattern = regexp.MustCompile(`(?i)(?:S/|USD|US\$|\$|€|¥)[\s\p{Zs}]*[+-]?\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})`)

// Counts pairs the money tokens found in the text with the parsed row count.
type Counts struct {
	Detected int `json:"detected"`
	Parsed   int `json:"parsed"`
}

// Verdict is the outcome of Check. Passed=false is a warning, never a failure.
type Verdict struct {
	Passed  bool   `json:"passed"`
	Counts  Counts `json:"counts"`
	Message string `json:"message"`
}

// Missing returns how many detected amounts have no parsed row. Negative when
// more rows were parsed than amounts detected.
func (v Verdict) Missing() int {
	return v.Counts.Detected - v.Counts.Parsed
}

// CountAmounts returns the number of non-overlapping money tokens in raw.
func CountAmounts(raw string) int {
	return len(moneyPattern.FindAllStringIndex(raw, -1))
}

// Check compares the money tokens in raw against parsed, the number of
// candidates the parser produced before deduplication.
func Check(raw string, parsed int) Verdict {
	detected := CountAmounts(raw)
	v := Verdict{
		Passed: true,
		Counts: Counts{Detected: detected, Parsed: parsed},
	}

	diff := detected - parsed
	switch {
	case detected == 0 && parsed == 0:
		v.Message = "No monetary amounts detected, nothing to check."
	case diff == 0:
		v.Message = fmt.Sprintf("Integrity check passed: %d transactions parsed (all amounts matched).", parsed)
	case diff > 0:
		v.Passed = false
		v.Message = fmt.Sprintf("Integrity check warning: detected %d amounts, but only %d transactions were parsed. Missing %d.", detected, parsed, diff)
	default:
		v.Passed = false
		v.Message = fmt.Sprintf("Integrity mismatch: parsed more transactions (%d) than detected amounts (%d).", parsed, detected)
	}
	return v
}
