package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimestampFormat is the layout of Transaction.FechaHora.
const TimestampFormat = "2006-01-02T15:04:05"

// Transaction is one parsed statement row, either a fresh candidate or a
// stored record. JSON names are the persisted shape.
type Transaction struct {
	Descripcion  string  `json:"descripcion"`
	FechaHora    *string `json:"fecha_hora"` // nil when the date could not be normalized
	FechaHoraRaw string  `json:"fecha_hora_raw"`
	Monto        float64 `json:"monto"` // negative = charge, positive = deposit
	Currency     string  `json:"currency"`
	CurrencyRaw  string  `json:"currency_raw"`
	UUID         string  `json:"uuid,omitempty"`
}

// Time parses FechaHora. ok is false when the timestamp is missing or malformed.
func (t Transaction) Time() (time.Time, bool) {
	if t.FechaHora == nil {
		return time.Time{}, false
	}
	ts, err := time.Parse(TimestampFormat, *t.FechaHora)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// DisplayDate prefers the raw matched date text, falling back to FechaHora.
func (t Transaction) DisplayDate() string {
	if t.FechaHoraRaw != "" {
		return t.FechaHoraRaw
	}
	if t.FechaHora != nil {
		return *t.FechaHora
	}
	return ""
}

// Amount returns Monto as a decimal for summing.
func (t Transaction) Amount() decimal.Decimal {
	return decimal.NewFromFloat(t.Monto)
}

// TransactionStore is the persisted per-account transaction list.
// Transactions are kept in arrival order.
type TransactionStore struct {
	AccountID    string        `json:"account_id"`
	Currency     *string       `json:"currency"`
	Transactions []Transaction `json:"transactions"`
}

// NewTransactionStore returns an empty store for accountID.
func NewTransactionStore(accountID string) *TransactionStore {
	return &TransactionStore{AccountID: accountID, Transactions: []Transaction{}}
}

// Net sums every stored amount.
func (s *TransactionStore) Net() decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.Transactions {
		total = total.Add(t.Amount())
	}
	return total
}

// Stats computes count and the oldest/newest transaction dates.
func (s *TransactionStore) Stats() AccountStats {
	stats := AccountStats{Count: len(s.Transactions)}
	var minTS, maxTS time.Time
	found := false
	for _, t := range s.Transactions {
		ts, ok := t.Time()
		if !ok {
			continue
		}
		if !found || ts.Before(minTS) {
			minTS = ts
		}
		if !found || ts.After(maxTS) {
			maxTS = ts
		}
		found = true
	}
	if found {
		stats.Oldest = minTS.Format("2006-01-02")
		stats.Newest = maxTS.Format("2006-01-02")
	}
	return stats
}
