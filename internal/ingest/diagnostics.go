package ingest

import (
	"unicode/utf8"

	"github.com/extracto-dev/extracto/internal/model"
)

const (
	sampleRows     = 3
	rawSampleChars = 1000
	rawSampleLimit = 4000
)

// Diagnostics describes the last parse for troubleshooting. Lengths count
// characters, not bytes.
type Diagnostics struct {
	RawLength  int                 `json:"raw_length"`
	Parsed     int                 `json:"parsed"`
	Samples    []model.Transaction `json:"samples,omitempty"`
	RawSample  string              `json:"raw_sample,omitempty"`
	RawTooLong bool                `json:"raw_too_long,omitempty"`
}

// NewDiagnostics summarizes raw and the candidates parsed from it.
func NewDiagnostics(raw string, parsed []model.Transaction) Diagnostics {
	d := Diagnostics{
		RawLength: utf8.RuneCountInString(raw),
		Parsed:    len(parsed),
	}
	if len(parsed) > 0 {
		n := min(len(parsed), sampleRows)
		d.Samples = append([]model.Transaction(nil), parsed[:n]...)
	}

	switch {
	case raw == "":
	case d.RawLength < rawSampleLimit:
		d.RawSample = firstRunes(raw, rawSampleChars)
	default:
		d.RawTooLong = true
	}
	return d
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
