package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extracto-dev/extracto/internal/importer"
	"github.com/extracto-dev/extracto/internal/model"
	"github.com/extracto-dev/extracto/internal/runlog"
	"github.com/extracto-dev/extracto/internal/store"
)

const firstPENRow = "Compra en Tienda\nLun 15 Mar 14:30 S/ -45.50\n"

type fixture struct {
	svc   *Service
	store *store.Local
	sess  *Session
	acct  model.BankAccount
}

func newFixture(t *testing.T, currency string) *fixture {
	t.Helper()
	l, err := store.Open(filepath.Join(t.TempDir(), "extracto.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	acct := model.BankAccount{
		ID:            "acc_1",
		BankName:      "BCP",
		AccountHolder: "Ana Torres",
		AccountNumber: "123-456",
		Currency:      currency,
	}
	require.NoError(t, l.SaveAccounts([]model.BankAccount{acct}))

	svc := NewService(l, &importer.LinePairParser{Year: 2025}, zerolog.Nop())
	return &fixture{svc: svc, store: l, sess: NewSession(acct.ID), acct: acct}
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	return string(data)
}

func (f *fixture) stored(t *testing.T) []model.Transaction {
	t.Helper()
	st, err := f.store.LoadTransactions(f.acct.ID)
	require.NoError(t, err)
	return st.Transactions
}

func TestRun_PENEndToEnd(t *testing.T) {
	f := newFixture(t, "S/.")

	res, err := f.svc.Run(f.sess, firstPENRow)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, res.Outcome)
	assert.True(t, res.Success)
	assert.Equal(t, "Parsed 1 new transaction(s).", res.Message)
	require.Len(t, res.New, 1)

	got := res.New[0]
	assert.Equal(t, "Compra en Tienda", got.Descripcion)
	require.NotNil(t, got.FechaHora)
	assert.Equal(t, "2025-03-15T14:30:00", *got.FechaHora)
	assert.Equal(t, "Lun 15 Mar 14:30", got.FechaHoraRaw)
	assert.InDelta(t, -45.50, got.Monto, 1e-9)
	assert.Equal(t, "PEN", got.Currency)
	assert.Equal(t, "S/", got.CurrencyRaw)
	assert.Equal(t, "123456_2025-03-15T14:30:00", got.UUID)

	st, err := f.store.LoadTransactions(f.acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "acc_1", st.AccountID)
	require.NotNil(t, st.Currency)
	assert.Equal(t, "PEN", *st.Currency)
	assert.Equal(t, res.New, st.Transactions)
	assert.Equal(t, res.New, f.sess.LastBatch)

	// Same text again: one duplicate, nothing new.
	res, err = f.svc.Run(f.sess, firstPENRow)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, res.Outcome)
	assert.Empty(t, res.New)
	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, "1 duplicate(s) skipped.", res.Message)
	assert.Len(t, f.sess.Duplicates, 1)
	assert.Len(t, f.stored(t), 1)
}

func TestRun_USDIntoPENAccountAborts(t *testing.T) {
	f := newFixture(t, "PEN")
	_, err := f.svc.Run(f.sess, firstPENRow)
	require.NoError(t, err)
	before := f.stored(t)

	res, err := f.svc.Run(f.sess, readFixture(t, "statement_usd.txt"))
	require.ErrorIs(t, err, ErrCurrencyMismatch)
	assert.Equal(t, OutcomeCurrencyMismatch, res.Outcome)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Currency mismatch")
	require.NotNil(t, res.Diagnostics, "diagnostics are filled before the mismatch check")
	assert.Equal(t, 2, res.Diagnostics.Parsed)
	assert.Nil(t, res.Verdict)
	assert.Empty(t, f.sess.Duplicates)

	assert.Equal(t, before, f.stored(t), "store unchanged")
}

func TestRun_Idempotent(t *testing.T) {
	f := newFixture(t, "PEN")
	text := readFixture(t, "statement_pen.txt")

	first, err := f.svc.Run(f.sess, text)
	require.NoError(t, err)
	require.Len(t, first.New, 5)
	after := f.stored(t)

	second, err := f.svc.Run(f.sess, text)
	require.NoError(t, err)
	assert.Empty(t, second.New)
	assert.Len(t, second.Duplicates, 5)
	assert.Equal(t, after, f.stored(t))
}

func TestRun_UniqueKeysAndOrder(t *testing.T) {
	f := newFixture(t, "PEN")
	res, err := f.svc.Run(f.sess, readFixture(t, "statement_pen.txt"))
	require.NoError(t, err)
	require.True(t, res.Verdict.Passed)
	assert.Equal(t, 5, res.Verdict.Counts.Detected)

	stored := f.stored(t)
	wantDesc := []string{
		"Compra en Tienda",
		"Netflix",
		"Depósito de sueldo",
		"Transferencia recibida",
		"Pago tarjeta",
	}
	require.Len(t, stored, len(wantDesc))

	seen := map[string]bool{}
	for i, txn := range stored {
		assert.Equal(t, wantDesc[i], txn.Descripcion)
		assert.False(t, seen[txn.UUID], "duplicate key %s", txn.UUID)
		seen[txn.UUID] = true
	}
}

func TestRun_IntegrityWarningDoesNotBlock(t *testing.T) {
	f := newFixture(t, "PEN")
	text := firstPENRow + "Saldo disponible S/ 1,000.00\n"

	res, err := f.svc.Run(f.sess, text)
	require.NoError(t, err)
	require.NotNil(t, res.Verdict)
	assert.False(t, res.Verdict.Passed)
	assert.Equal(t, 2, res.Verdict.Counts.Detected)
	assert.Equal(t, 1, res.Verdict.Counts.Parsed)
	assert.Equal(t, OutcomeSaved, res.Outcome)
	assert.Len(t, f.stored(t), 1)
}

func TestRun_InputMissing(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		account  string
		text     string
		message  string
	}{
		{"no account selected", "PEN", "", firstPENRow, "No bank account selected."},
		{"unknown account", "PEN", "acc_gone", firstPENRow, "Selected account not found."},
		{"blank text", "PEN", "acc_1", "  \n\t ", "No text to parse."},
		{"account without currency", "  ", "acc_1", firstPENRow, "Account currency invalid."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.currency)
			f.sess.ActiveAccountID = tt.account

			res, err := f.svc.Run(f.sess, tt.text)
			require.ErrorIs(t, err, ErrInputMissing)
			assert.Equal(t, OutcomeInputMissing, res.Outcome)
			assert.Equal(t, tt.message, res.Message)
			assert.Empty(t, f.stored(t))
		})
	}
}

func TestRun_NothingParsed(t *testing.T) {
	f := newFixture(t, "PEN")
	res, err := f.svc.Run(f.sess, "hola\nmundo\n")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNothingParsed, res.Outcome)
	assert.False(t, res.Success)
	require.NotNil(t, res.Diagnostics)
	assert.Zero(t, res.Diagnostics.Parsed)

	_, ok, err := f.store.GetItem(store.TransactionsKey(f.acct.ID))
	require.NoError(t, err)
	assert.False(t, ok, "nothing written")
}

func TestRun_CurrencyErrorsAbortBatch(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
		outcome Outcome
	}{
		{"mixed currencies", readFixture(t, "statement_mixed.txt"), importer.ErrCurrencyInconsistent, OutcomeCurrencyInconsistent},
		{"unknown currency", "Compra\nLun 15 Mar 14:30 XYZ 10.00\n", importer.ErrCurrencyUnrecognized, OutcomeCurrencyUnrecognized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "PEN")
			res, err := f.svc.Run(f.sess, tt.text)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Empty(t, f.stored(t))
		})
	}
}

func TestRun_BackfillsLegacyKeys(t *testing.T) {
	f := newFixture(t, "PEN")
	stamp := "2025-03-15T14:30:00"
	legacy := model.NewTransactionStore(f.acct.ID)
	legacy.Transactions = []model.Transaction{
		{Descripcion: "Compra en Tienda", FechaHora: &stamp, Monto: -45.5, Currency: "PEN"},
		{Descripcion: "sin fecha", Monto: 1},
	}
	require.NoError(t, f.store.SaveTransactions(f.acct.ID, legacy))

	res, err := f.svc.Run(f.sess, firstPENRow)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Backfilled)
	assert.Len(t, res.Duplicates, 1)

	stored := f.stored(t)
	require.Len(t, stored, 2)
	assert.Equal(t, "123456_2025-03-15T14:30:00", stored[0].UUID)
	assert.Empty(t, stored[1].UUID, "records without a timestamp stay keyless")
}

func TestRun_UndatedRowsCollide(t *testing.T) {
	f := newFixture(t, "PEN")
	text := "Uno\nLun 15 Xyz 14:30 S/ 10.00\nDos\nMar 16 Xyz 09:00 S/ 20.00\n"

	res, err := f.svc.Run(f.sess, text)
	require.NoError(t, err)
	require.Len(t, res.New, 1)
	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, "123456_null", res.New[0].UUID)
	assert.Nil(t, res.New[0].FechaHora)
}

func TestRun_ResetsSessionDuplicates(t *testing.T) {
	f := newFixture(t, "PEN")
	_, err := f.svc.Run(f.sess, firstPENRow)
	require.NoError(t, err)
	_, err = f.svc.Run(f.sess, firstPENRow)
	require.NoError(t, err)
	require.Len(t, f.sess.Duplicates, 1)

	_, err = f.svc.Run(f.sess, "")
	require.Error(t, err)
	assert.Empty(t, f.sess.Duplicates)
}

func TestRun_WritesRunLog(t *testing.T) {
	f := newFixture(t, "PEN")
	f.svc.RunLogDir = t.TempDir()
	f.svc.now = func() time.Time { return time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC) }

	_, err := f.svc.Run(f.sess, readFixture(t, "statement_pen.txt"))
	require.NoError(t, err)
	_, err = f.svc.Run(f.sess, readFixture(t, "statement_usd.txt"))
	require.Error(t, err)

	entries, err := runlog.Read(f.svc.RunLogDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "acc_1", entries[0].AccountID)
	assert.Equal(t, string(OutcomeSaved), entries[0].Outcome)
	assert.Equal(t, 5, entries[0].Parsed)
	assert.Equal(t, 5, entries[0].New)
	assert.Equal(t, 5, entries[0].Detected)

	assert.Equal(t, string(OutcomeCurrencyMismatch), entries[1].Outcome)
	assert.Equal(t, 2, entries[1].Parsed)
	assert.Zero(t, entries[1].New)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Parsed 2 new transaction(s). 1 duplicate(s) skipped.", Summary(2, 1))
	assert.Equal(t, "Parsed 2 new transaction(s).", Summary(2, 0))
	assert.Equal(t, "3 duplicate(s) skipped.", Summary(0, 3))
	assert.Equal(t, "Parsing completed.", Summary(0, 0))
}

func TestSessionSelect(t *testing.T) {
	s := NewSession("acc_1")
	s.Duplicates = []model.Transaction{{Descripcion: "x"}}
	s.Select("acc_2")
	assert.Equal(t, "acc_2", s.ActiveAccountID)
	assert.Empty(t, s.Duplicates)
}

func TestRun_RefusesToOverwriteUnreadableHistory(t *testing.T) {
	f := newFixture(t, "PEN")
	raw := `{"account_id":"acc_1","currency":"PEN","transactions":[{"descripcion":"Compra","fecha_hora":"2025-01-02T10:00:00","monto":"12.50"}]}`
	require.NoError(t, f.store.SetItem(store.TransactionsKey(f.acct.ID), raw))

	res, err := f.svc.Run(f.sess, firstPENRow)
	require.ErrorIs(t, err, store.ErrUnreadable)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.False(t, res.Success)

	v, _, err := f.store.GetItem(store.TransactionsKey(f.acct.ID))
	require.NoError(t, err)
	assert.Equal(t, raw, v, "stored history untouched")
}
