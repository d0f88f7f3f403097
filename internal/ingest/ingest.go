// Package ingest runs the parse pipeline for the active account: parse the
// pasted text, check currency and integrity, deduplicate against stored
// history, and persist the new rows.
package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/extracto-dev/extracto/internal/dedup"
	"github.com/extracto-dev/extracto/internal/importer"
	"github.com/extracto-dev/extracto/internal/integrity"
	"github.com/extracto-dev/extracto/internal/model"
	"github.com/extracto-dev/extracto/internal/normalize"
	"github.com/extracto-dev/extracto/internal/runlog"
)

var (
	// ErrInputMissing means there is no usable account or no text to parse.
	ErrInputMissing = errors.New("missing input")
	// ErrCurrencyMismatch means the batch currency differs from the account's.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Outcome classifies a run for callers and the run log.
type Outcome string

// Run outcomes. The first three end without an error.
const (
	OutcomeSaved                Outcome = "saved"
	OutcomeNothingParsed        Outcome = "nothing_parsed"
	OutcomeNothingToPersist     Outcome = "nothing_to_persist"
	OutcomeInputMissing         Outcome = "input_missing"
	OutcomeCurrencyUnrecognized Outcome = "currency_unrecognized"
	OutcomeCurrencyInconsistent Outcome = "currency_inconsistent"
	OutcomeCurrencyMismatch     Outcome = "currency_mismatch"
	OutcomeFailed               Outcome = "failed"
)

// Store is the persistence the pipeline needs.
type Store interface {
	LoadAccounts() ([]model.BankAccount, error)
	LoadTransactions(accountID string) (*model.TransactionStore, error)
	SaveTransactions(accountID string, s *model.TransactionStore) error
}

// Result reports one run. It is returned for every run, including failed
// ones, so callers can always show Message.
type Result struct {
	Outcome     Outcome
	Success     bool
	Message     string
	Account     model.BankAccount
	Parsed      int
	New         []model.Transaction
	Duplicates  []model.Transaction
	Backfilled  int
	Verdict     *integrity.Verdict // nil when the run stopped before the check
	Diagnostics *Diagnostics       // nil when nothing was parsed yet
}

// Service runs the pipeline.
type Service struct {
	store  Store
	parser importer.Parser
	log    zerolog.Logger
	now    func() time.Time

	// RunLogDir, when set, receives one parse-log.csv row per run.
	RunLogDir string
}

// NewService creates a Service.
func NewService(store Store, parser importer.Parser, log zerolog.Logger) *Service {
	return &Service{
		store:  store,
		parser: parser,
		log:    log.With().Str("component", "ingest").Logger(),
		now:    time.Now,
	}
}

// Run parses text for the session's active account. Failures return a
// wrapped sentinel (ErrInputMissing, ErrCurrencyMismatch,
// importer.ErrCurrencyUnrecognized, importer.ErrCurrencyInconsistent)
// together with a Result describing them; in that case nothing is written.
// Empty batches are outcomes, not errors.
func (s *Service) Run(sess *Session, text string) (Result, error) {
	res, err := s.run(sess, text)
	if err != nil {
		res.Success = false
		res.Outcome = outcomeFor(err)
		if res.Message == "" {
			res.Message = err.Error()
		}
		s.log.Warn().Err(err).Str("account_id", sess.ActiveAccountID).Str("outcome", string(res.Outcome)).Msg("parse aborted")
	} else {
		s.log.Info().
			Str("account_id", sess.ActiveAccountID).
			Str("outcome", string(res.Outcome)).
			Int("parsed", res.Parsed).
			Int("new", len(res.New)).
			Int("duplicates", len(res.Duplicates)).
			Msg("parse finished")
	}
	s.appendRunLog(sess.ActiveAccountID, res)
	return res, err
}

func (s *Service) run(sess *Session, text string) (Result, error) {
	sess.ResetDuplicates()

	if sess.ActiveAccountID == "" {
		return Result{Message: "No bank account selected."}, fmt.Errorf("%w: no bank account selected", ErrInputMissing)
	}
	acct, found, err := s.findAccount(sess.ActiveAccountID)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{Message: "Selected account not found."}, fmt.Errorf("%w: account %s not found", ErrInputMissing, sess.ActiveAccountID)
	}
	res := Result{Account: acct}

	if strings.TrimSpace(text) == "" {
		res.Message = "No text to parse."
		return res, fmt.Errorf("%w: no text to parse", ErrInputMissing)
	}

	accountCurrency := normalize.Currency(acct.Currency)
	if accountCurrency == "" {
		res.Message = "Account currency invalid."
		return res, fmt.Errorf("%w: account %s has no currency", ErrInputMissing, acct.ID)
	}

	batch, err := s.parser.Parse(strings.NewReader(text))
	if err != nil {
		return res, fmt.Errorf("parsing statement: %w", err)
	}
	res.Parsed = len(batch.Candidates)

	diag := NewDiagnostics(text, batch.Candidates)
	res.Diagnostics = &diag

	if len(batch.Candidates) == 0 {
		res.Outcome = OutcomeNothingParsed
		res.Message = "No transactions parsed."
		return res, nil
	}

	if batch.Currency != "" && batch.Currency != accountCurrency {
		res.Message = fmt.Sprintf("Currency mismatch: account is %q, data is %q.", acct.Currency, batch.RawCurrency)
		return res, fmt.Errorf("%w: account %s, batch %s", ErrCurrencyMismatch, accountCurrency, batch.Currency)
	}

	verdict := integrity.Check(text, len(batch.Candidates))
	res.Verdict = &verdict
	if !verdict.Passed {
		s.log.Warn().Str("account_id", acct.ID).Int("detected", verdict.Counts.Detected).Int("parsed", verdict.Counts.Parsed).Msg(verdict.Message)
	}

	st, err := s.store.LoadTransactions(acct.ID)
	if err != nil {
		return res, fmt.Errorf("loading stored transactions: %w", err)
	}
	st.AccountID = acct.ID
	st.Currency = &accountCurrency

	part := dedup.Partition(acct.AccountNumber, st.Transactions, batch.Candidates)
	res.New = part.New
	res.Duplicates = part.Duplicates
	res.Backfilled = part.Backfilled

	if part.Empty() {
		res.Outcome = OutcomeNothingToPersist
		res.Message = "Nothing to save."
		return res, nil
	}

	st.Transactions = part.Merged()
	for _, verr := range dedup.Validate(st.Transactions) {
		s.log.Warn().Str("account_id", acct.ID).Msg(verr.Error())
	}
	if err := s.store.SaveTransactions(acct.ID, st); err != nil {
		return res, fmt.Errorf("saving transactions: %w", err)
	}

	sess.LastBatch = part.New
	sess.Duplicates = part.Duplicates

	res.Outcome = OutcomeSaved
	res.Success = true
	res.Message = Summary(len(part.New), len(part.Duplicates))
	return res, nil
}

// Summary formats the status line of a saved run.
func Summary(newCount, dupCount int) string {
	var parts []string
	if newCount > 0 {
		parts = append(parts, fmt.Sprintf("Parsed %d new transaction(s).", newCount))
	}
	if dupCount > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate(s) skipped.", dupCount))
	}
	if len(parts) == 0 {
		return "Parsing completed."
	}
	return strings.Join(parts, " ")
}

func (s *Service) findAccount(accountID string) (model.BankAccount, bool, error) {
	accts, err := s.store.LoadAccounts()
	if err != nil {
		return model.BankAccount{}, false, err
	}
	for _, a := range accts {
		if a.ID == accountID {
			return a, true, nil
		}
	}
	return model.BankAccount{}, false, nil
}

func outcomeFor(err error) Outcome {
	switch {
	case errors.Is(err, ErrInputMissing):
		return OutcomeInputMissing
	case errors.Is(err, importer.ErrCurrencyUnrecognized):
		return OutcomeCurrencyUnrecognized
	case errors.Is(err, importer.ErrCurrencyInconsistent):
		return OutcomeCurrencyInconsistent
	case errors.Is(err, ErrCurrencyMismatch):
		return OutcomeCurrencyMismatch
	default:
		return OutcomeFailed
	}
}

func (s *Service) appendRunLog(accountID string, res Result) {
	if s.RunLogDir == "" {
		return
	}
	e := runlog.Entry{
		Timestamp:  s.now().UTC(),
		AccountID:  accountID,
		Outcome:    string(res.Outcome),
		Parsed:     res.Parsed,
		New:        len(res.New),
		Duplicates: len(res.Duplicates),
		Message:    res.Message,
	}
	if res.Verdict != nil {
		e.Detected = res.Verdict.Counts.Detected
	}
	if err := runlog.Append(s.RunLogDir, []runlog.Entry{e}); err != nil {
		s.log.Error().Err(err).Msg("writing parse log")
	}
}
