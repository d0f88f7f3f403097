package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/extracto-dev/extracto/internal/model"
)

func strPtr(s string) *string { return &s }

func candidate(desc string, stamp *string, amount float64) model.Transaction {
	return model.Transaction{Descripcion: desc, FechaHora: stamp, Monto: amount, Currency: "PEN"}
}

func TestPartition_AllNew(t *testing.T) {
	cands := []model.Transaction{
		candidate("A", strPtr("2025-03-15T14:30:00"), -10),
		candidate("B", strPtr("2025-03-16T09:00:00"), -20),
		candidate("C", strPtr("2025-03-17T08:15:00"), 30),
	}

	res := Partition("123-456", nil, cands)
	require.Len(t, res.New, 3)
	assert.Empty(t, res.Duplicates)
	assert.False(t, res.Empty())

	// Input order is preserved.
	assert.Equal(t, "A", res.New[0].Descripcion)
	assert.Equal(t, "B", res.New[1].Descripcion)
	assert.Equal(t, "C", res.New[2].Descripcion)
	assert.Equal(t, "123456_2025-03-15T14:30:00", res.New[0].UUID)

	// Caller's slice untouched.
	assert.Empty(t, cands[0].UUID)
}

func TestPartition_Idempotent(t *testing.T) {
	cands := []model.Transaction{
		candidate("A", strPtr("2025-03-15T14:30:00"), -10),
		candidate("B", strPtr("2025-03-16T09:00:00"), -20),
	}

	first := Partition("123-456", nil, cands)
	stored := first.Merged()
	require.Len(t, stored, 2)

	second := Partition("123-456", stored, cands)
	assert.Empty(t, second.New)
	assert.Len(t, second.Duplicates, 2)
	assert.Len(t, second.Merged(), 2, "stored length unchanged")
	assert.Empty(t, Validate(second.Merged()))
}

func TestPartition_DuplicateWithinBatch(t *testing.T) {
	cands := []model.Transaction{
		candidate("A", strPtr("2025-03-15T14:30:00"), -10),
		candidate("A again", strPtr("2025-03-15T14:30:00"), -99),
	}
	res := Partition("123-456", nil, cands)
	require.Len(t, res.New, 1)
	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, "A again", res.Duplicates[0].Descripcion)
}

func TestPartition_NullDatesCollide(t *testing.T) {
	cands := []model.Transaction{
		candidate("no date 1", nil, -10),
		candidate("no date 2", nil, -20),
	}
	res := Partition("123-456", nil, cands)
	require.Len(t, res.New, 1)
	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, "123456_null", res.New[0].UUID)
	assert.Equal(t, "123456_null", res.Duplicates[0].UUID)

	// A later batch loses its null-date row too.
	later := Partition("123-456", res.Merged(), []model.Transaction{candidate("no date 3", nil, -30)})
	assert.Empty(t, later.New)
	assert.Len(t, later.Duplicates, 1)
}

func TestPartition_BackfillsLegacy(t *testing.T) {
	existing := []model.Transaction{
		candidate("legacy", strPtr("2025-03-15T14:30:00"), -10),
		{Descripcion: "keyed", FechaHora: strPtr("2025-03-16T09:00:00"), UUID: "123456_2025-03-16T09:00:00"},
		candidate("legacy no date", nil, -5),
	}
	cands := []model.Transaction{
		candidate("same as legacy", strPtr("2025-03-15T14:30:00"), -10),
		candidate("no date", nil, -1),
	}

	res := Partition("123-456", existing, cands)
	assert.Equal(t, 1, res.Backfilled)
	assert.Equal(t, "123456_2025-03-15T14:30:00", res.Existing[0].UUID)
	assert.Equal(t, "123456_2025-03-16T09:00:00", res.Existing[1].UUID)
	assert.Empty(t, res.Existing[2].UUID, "legacy record without a date stays keyless")
	assert.Empty(t, existing[0].UUID, "input history not mutated")

	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, "same as legacy", res.Duplicates[0].Descripcion)
	require.Len(t, res.New, 1)
	assert.Equal(t, "no date", res.New[0].Descripcion)
}

func TestPartition_EmptyLegacyTimestampStaysKeyless(t *testing.T) {
	existing := []model.Transaction{candidate("legacy blank date", strPtr(""), -10)}

	res := Partition("123-456", existing, []model.Transaction{candidate("no date", nil, -1)})
	assert.Zero(t, res.Backfilled)
	assert.Empty(t, res.Existing[0].UUID)
	require.Len(t, res.New, 1)
	assert.Equal(t, "123456_null", res.New[0].UUID)
}

func TestPartition_NothingParsed(t *testing.T) {
	res := Partition("123-456", []model.Transaction{candidate("x", strPtr("2025-01-01T00:00:00"), 1)}, nil)
	assert.True(t, res.Empty())
	assert.Len(t, res.Merged(), 1)
}

func TestPartition_AccountsDoNotCollide(t *testing.T) {
	stamp := strPtr("2025-03-15T14:30:00")
	a := Partition("111", nil, []model.Transaction{candidate("A", stamp, 1)})
	b := Partition("222", a.Merged(), []model.Transaction{candidate("A", stamp, 1)})
	assert.Len(t, b.New, 1, "keys are namespaced by account number")
}

func TestValidate(t *testing.T) {
	txns := []model.Transaction{
		{UUID: "1_a"},
		{UUID: ""},
		{UUID: "1_b"},
		{UUID: ""},
		{UUID: "1_a"},
	}
	errs := Validate(txns)
	require.Len(t, errs, 1)
	assert.Equal(t, 4, errs[0].Index)
	assert.Equal(t, 0, errs[0].First)
	assert.Contains(t, errs[0].Error(), "duplicate of transaction 0")
}
