package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/extracto-dev/extracto/internal/model"
)

// Header is the CSV header of a transaction table.
const Header = "uuid,descripcion,fecha_hora,fecha_hora_raw,monto,currency,currency_raw"

const (
	numFields      = 7
	colUUID        = 0
	colDescripcion = 1
	colFechaHora   = 2
	colFechaRaw    = 3
	colMonto       = 4
	colCurrency    = 5
	colCurrencyRaw = 6
)

// MarshalRow converts a Transaction to a CSV row. A missing timestamp is
// written as an empty cell.
func MarshalRow(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colUUID] = t.UUID
	row[colDescripcion] = t.Descripcion
	if t.FechaHora != nil {
		row[colFechaHora] = *t.FechaHora
	}
	row[colFechaRaw] = t.FechaHoraRaw
	row[colMonto] = decimal.NewFromFloat(t.Monto).StringFixed(2)
	row[colCurrency] = t.Currency
	row[colCurrencyRaw] = t.CurrencyRaw
	return row
}

// WriteCSV writes txns as a CSV table (including header).
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	if len(txns) == 0 {
		return ErrNothingToExport
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalRow(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
