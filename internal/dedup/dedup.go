// Package dedup splits freshly parsed candidates into new and duplicate
// transactions against an account's stored history.
package dedup

import (
	"github.com/extracto-dev/extracto/internal/id"
	"github.com/extracto-dev/extracto/internal/model"
)

// Result is the outcome of Partition.
type Result struct {
	// Existing is the stored history with identity keys backfilled. It must be
	// saved back together with New.
	Existing   []model.Transaction
	New        []model.Transaction
	Duplicates []model.Transaction
	// Backfilled counts stored records that received a key in this pass.
	Backfilled int
}

// Empty reports whether the batch produced neither new nor duplicate rows.
func (r Result) Empty() bool {
	return len(r.New) == 0 && len(r.Duplicates) == 0
}

// Merged returns the list to persist: existing history followed by new rows.
func (r Result) Merged() []model.Transaction {
	out := make([]model.Transaction, 0, len(r.Existing)+len(r.New))
	out = append(out, r.Existing...)
	return append(out, r.New...)
}

// Partition assigns identity keys and splits candidates, preserving their
// order. Stored records without a key get one when they have a non-empty
// timestamp; records with neither stay keyless. existing and candidates are
// not modified.
//
// Candidates without a timestamp all share the "<account>_null" key, so only
// the first of them is ever new.
func Partition(accountNumber string, existing, candidates []model.Transaction) Result {
	clean := id.CleanAccountNumber(accountNumber)

	res := Result{Existing: make([]model.Transaction, len(existing))}
	seen := make(map[string]struct{}, len(existing)+len(candidates))

	for i, t := range existing {
		if t.UUID == "" && t.FechaHora != nil && *t.FechaHora != "" {
			t.UUID = id.TransactionKey(clean, t.FechaHora)
			res.Backfilled++
		}
		if t.UUID != "" {
			seen[t.UUID] = struct{}{}
		}
		res.Existing[i] = t
	}

	for _, c := range candidates {
		c.UUID = id.TransactionKey(clean, c.FechaHora)
		if _, dup := seen[c.UUID]; dup {
			res.Duplicates = append(res.Duplicates, c)
			continue
		}
		seen[c.UUID] = struct{}{}
		res.New = append(res.New, c)
	}

	return res
}
