package ingest

import (
	"errors"
	"time"

	"github.com/extracto-dev/extracto/internal/model"
)

// ErrNoRange is returned by ClearRange when neither bound is given.
var ErrNoRange = errors.New("at least one date bound is required")

// ClearAll empties an account's stored transactions and returns how many
// were removed.
func (s *Service) ClearAll(accountID string) (int, error) {
	st, err := s.store.LoadTransactions(accountID)
	if err != nil {
		return 0, err
	}
	n := len(st.Transactions)
	if n == 0 {
		return 0, nil
	}

	st.Transactions = []model.Transaction{}
	if err := s.store.SaveTransactions(accountID, st); err != nil {
		return 0, err
	}
	s.log.Info().Str("account_id", accountID).Int("removed", n).Msg("cleared all transactions")
	return n, nil
}

// ClearRange removes stored transactions dated within [start 00:00:00,
// end 23:59:59]. Either bound may be nil, not both. Records without a usable
// timestamp are always kept. Nothing is written when no record matches.
func (s *Service) ClearRange(accountID string, start, end *time.Time) (int, error) {
	if start == nil && end == nil {
		return 0, ErrNoRange
	}

	var from, to time.Time
	if start != nil {
		from = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	}
	if end != nil {
		to = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
	}

	st, err := s.store.LoadTransactions(accountID)
	if err != nil {
		return 0, err
	}

	kept := make([]model.Transaction, 0, len(st.Transactions))
	removed := 0
	for _, t := range st.Transactions {
		ts, ok := t.Time()
		if !ok {
			kept = append(kept, t)
			continue
		}
		if (start != nil && ts.Before(from)) || (end != nil && ts.After(to)) {
			kept = append(kept, t)
			continue
		}
		removed++
	}

	if removed == 0 {
		return 0, nil
	}

	st.Transactions = kept
	if err := s.store.SaveTransactions(accountID, st); err != nil {
		return 0, err
	}
	s.log.Info().Str("account_id", accountID).Int("removed", removed).Msg("cleared transactions in range")
	return removed, nil
}
