package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCleanAccountNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"123-456", "123456"},
		{"ABC 12/34.56", "ABC123456"},
		{"  0011-0222-0300001234 ", "001102220300001234"},
		{"ñ-99", "99"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanAccountNumber(tt.input), "CleanAccountNumber(%q)", tt.input)
	}
}

func TestTransactionKey(t *testing.T) {
	tests := []struct {
		account string
		stamp   *string
		want    string
	}{
		{"123456", strPtr("2025-03-15T14:30:00"), "123456_2025-03-15T14:30:00"},
		{"123456", nil, "123456_null"},
		{"", strPtr("2025-01-01T00:00:00"), "_2025-01-01T00:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TransactionKey(tt.account, tt.stamp))
	}
}

func TestTransactionKey_NullDatesCollide(t *testing.T) {
	a := TransactionKey("123456", nil)
	b := TransactionKey("123456", nil)
	assert.Equal(t, a, b)
	assert.True(t, IsNullDateKey(a))
}

func TestSplitTransactionKey(t *testing.T) {
	acct, stamp, ok := SplitTransactionKey("123456_2025-03-15T14:30:00")
	assert.True(t, ok)
	assert.Equal(t, "123456", acct)
	assert.Equal(t, "2025-03-15T14:30:00", stamp)

	_, _, ok = SplitTransactionKey("nounderscore")
	assert.False(t, ok)

	assert.False(t, IsNullDateKey("123456_2025-03-15T14:30:00"))
	assert.False(t, IsNullDateKey("null"))
}
