package importer

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/extracto-dev/extracto/internal/model"
	"github.com/extracto-dev/extracto/internal/normalize"
)

// Data-line grammar: "<weekday> <day> <month> <HH:MM> <currency> <amount>",
// e.g. "Lun 15 Mar 14:30 S/. -45.50". Weekday and month allow Spanish accents.
// Gaps around the currency also accept Unicode spaces such as the NBSP that
// bank web pages put between fields.
const (
	dateTimePattern = `[\wáéíóúüñÁÉÍÓÚÜÑ]{3,4}\.? \d{1,2} [\wáéíóúüñÁÉÍÓÚÜÑ]{3} \d{2}:\d{2}`
	currencyPattern = `[A-Za-z$€¥/.\s\p{Zs}]+`
	amountPattern   = `[+-]?[0-9.,-]+`
	gapPattern      = `[\s\p{Zs}]*`
)

var dataLine = regexp.MustCompile(`(?i)` +
	`(?P<datetime>` + dateTimePattern + `)` + gapPattern +
	`(?P<currency>` + currencyPattern + `)` + gapPattern +
	`(?P<amount>` + amountPattern + `)`)

var (
	groupDateTime = dataLine.SubexpIndex("datetime")
	groupCurrency = dataLine.SubexpIndex("currency")
	groupAmount   = dataLine.SubexpIndex("amount")
)

// DataLine holds the three fields captured from a data line.
type DataLine struct {
	DateTime string
	Currency string
	Amount   string
}

// MatchDataLine matches line against the data-line grammar. The match may
// start anywhere in the line.
func MatchDataLine(line string) (DataLine, bool) {
	m := dataLine.FindStringSubmatch(line)
	if m == nil {
		return DataLine{}, false
	}
	return DataLine{
		DateTime: m[groupDateTime],
		Currency: m[groupCurrency],
		Amount:   m[groupAmount],
	}, true
}

// LinePairParser reads statements laid out as a description line followed by
// a data line. It walks every consecutive pair of non-empty lines, so a line
// that fails as a description is still tried as the data line of the pair
// before it.
type LinePairParser struct {
	// Year dates every row, since data lines carry no year. 0 = current year.
	Year int
}

// Format returns the parser name.
func (p *LinePairParser) Format() string { return "linepair" }

// Parse reads all of r and parses it. See ParseText.
func (p *LinePairParser) Parse(r io.Reader) (Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Batch{}, fmt.Errorf("reading statement text: %w", err)
	}
	return p.ParseText(string(data))
}

// ParseText parses pasted statement text. Rows whose amount is not a number
// are dropped. Any currency problem discards the whole batch.
func (p *LinePairParser) ParseText(text string) (Batch, error) {
	year := p.Year
	if year == 0 {
		year = normalize.CurrentYear()
	}

	lines := SplitLines(text)
	batch := Batch{Candidates: []model.Transaction{}}

	for i := 0; i < len(lines)-1; i++ {
		desc := lines[i]
		if IsNoiseLine(desc) {
			continue
		}

		dl, ok := MatchDataLine(lines[i+1])
		if !ok {
			continue
		}

		currencyRaw := strings.TrimSpace(dl.Currency)
		currency := normalize.Currency(currencyRaw)
		if !normalize.IsKnownCurrency(currency) {
			return Batch{}, fmt.Errorf("line %d: %w %q", i+2, ErrCurrencyUnrecognized, currencyRaw)
		}

		if batch.Currency == "" {
			batch.Currency = currency
			batch.RawCurrency = currencyRaw
		} else if currency != batch.Currency {
			return Batch{}, fmt.Errorf("line %d: %w: %s and %s", i+2, ErrCurrencyInconsistent, batch.Currency, currency)
		}

		amount, ok := ParseAmount(dl.Amount)
		if !ok {
			continue
		}

		txn := model.Transaction{
			Descripcion:  desc,
			FechaHoraRaw: dl.DateTime,
			Monto:        amount.InexactFloat64(),
			Currency:     currency,
			CurrencyRaw:  currencyRaw,
		}
		if stamp, ok := normalize.DateTime(dl.DateTime, year); ok {
			txn.FechaHora = &stamp
		}
		batch.Candidates = append(batch.Candidates, txn)
	}

	return batch, nil
}

// SplitLines splits text into trimmed, non-empty lines.
func SplitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
