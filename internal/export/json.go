// Package export writes an account's transactions as JSON documents or CSV
// tables.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extracto-dev/extracto/internal/model"
	"github.com/extracto-dev/extracto/internal/normalize"
)

// ErrNothingToExport is returned when the transaction list is empty.
var ErrNothingToExport = errors.New("nothing to export")

// AccountHeader identifies the account at the top of an export.
type AccountHeader struct {
	Alias         string `json:"alias"`
	BankName      string `json:"bank_name"`
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	Currency      string `json:"currency"`
	AccountType   string `json:"account_type"`
}

// DuplicatesHeader is the shorter header of a duplicates export.
type DuplicatesHeader struct {
	Alias         string `json:"alias"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	Currency      string `json:"currency"`
}

// Document is a batch or full-history export.
type Document struct {
	BankAccount  AccountHeader       `json:"bank_account"`
	Transactions []model.Transaction `json:"transactions"`
}

// DuplicatesDocument lists the rows a run skipped.
type DuplicatesDocument struct {
	BankAccount       DuplicatesHeader    `json:"bank_account"`
	SkippedDuplicates []model.Transaction `json:"skipped_duplicates"`
}

// NewAccountHeader builds the header with the account currency normalized.
func NewAccountHeader(acct model.BankAccount) AccountHeader {
	return AccountHeader{
		Alias:         acct.Alias,
		BankName:      acct.BankName,
		AccountHolder: acct.AccountHolder,
		AccountNumber: acct.AccountNumber,
		Currency:      normalize.Currency(acct.Currency),
		AccountType:   acct.AccountType,
	}
}

// Batch writes the new rows of the last run.
func Batch(w io.Writer, acct model.BankAccount, txns []model.Transaction) error {
	return writeDocument(w, acct, txns)
}

// All writes an account's full stored history.
func All(w io.Writer, acct model.BankAccount, txns []model.Transaction) error {
	return writeDocument(w, acct, txns)
}

// Duplicates writes the rows the last run skipped.
func Duplicates(w io.Writer, acct model.BankAccount, txns []model.Transaction) error {
	if len(txns) == 0 {
		return ErrNothingToExport
	}
	return writeJSON(w, DuplicatesDocument{
		BankAccount: DuplicatesHeader{
			Alias:         acct.Alias,
			BankName:      acct.BankName,
			AccountNumber: acct.AccountNumber,
			Currency:      normalize.Currency(acct.Currency),
		},
		SkippedDuplicates: txns,
	})
}

func writeDocument(w io.Writer, acct model.BankAccount, txns []model.Transaction) error {
	if len(txns) == 0 {
		return ErrNothingToExport
	}
	return writeJSON(w, Document{BankAccount: NewAccountHeader(acct), Transactions: txns})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// BatchFileName returns e.g. "transactions_batch_BCP_123-456.json".
func BatchFileName(acct model.BankAccount) string {
	return fileName("transactions_batch", acct, "json")
}

// AllFileName returns e.g. "transactions_all_BCP_123-456.json".
func AllFileName(acct model.BankAccount) string {
	return fileName("transactions_all", acct, "json")
}

// DuplicatesFileName returns e.g. "duplicates_BCP_123-456.json".
func DuplicatesFileName(acct model.BankAccount) string {
	return fileName("duplicates", acct, "json")
}

// CSVFileName returns e.g. "transactions_all_BCP_123-456.csv".
func CSVFileName(acct model.BankAccount) string {
	return fileName("transactions_all", acct, "csv")
}

var fileNameReplacer = strings.NewReplacer("/", "_", `\`, "_")

func fileName(prefix string, acct model.BankAccount, ext string) string {
	return fileNameReplacer.Replace(fmt.Sprintf("%s_%s_%s.%s", prefix, acct.BankName, acct.AccountNumber, ext))
}

// WriteFile creates dir/name and fills it with write. The file is removed if
// write fails.
func WriteFile(dir, name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", name, err)
	}
	return path, nil
}
