package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"S/.", "PEN"},
		{"S/", "PEN"},
		{"s/. ", "PEN"},
		{"PEN", "PEN"},
		{"Soles", "PEN"},
		{"US$", "USD"},
		{"USD", "USD"},
		{"$", "USD"},
		{"Dollars", "USD"},
		{"€", "EUR"},
		{"EUR", "EUR"},
		{"Euros", "EUR"},
		{"¥", "JPY"},
		{"JPY", "JPY"},
		{"yen", "JPY"},
		{"XYZ", "XYZ"},
		{" gbp ", "GBP"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Currency(tt.raw), "Currency(%q)", tt.raw)
	}
}

func TestCurrency_OrderMatters(t *testing.T) {
	// A sol marker wins even when a dollar sign follows it.
	assert.Equal(t, "PEN", Currency("S/.$"))
	assert.Equal(t, "USD", Currency("US$."))
}

func TestIsKnownCurrency(t *testing.T) {
	for _, code := range []string{"PEN", "USD", "EUR", "JPY"} {
		assert.True(t, IsKnownCurrency(code), code)
	}
	assert.False(t, IsKnownCurrency("XYZ"))
	assert.False(t, IsKnownCurrency(""))
	assert.False(t, IsKnownCurrency("pen"))
}
