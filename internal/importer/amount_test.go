package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"45.50", "45.50"},
		{"-1,234.56", "-1234.56"},
		{"+120.00", "120.00"},
		{"S/ 3,500.00", "3500.00"},
		{"1.234,56", "1.23456"},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeAmount(tt.raw), "SanitizeAmount(%q)", tt.raw)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"45.50", "45.5", true},
		{"-1,234.56", "-1234.56", true},
		{"+120.00", "120", true},
		{"12-3", "12", true},
		{"1.2.3", "1.2", true},
		{"12.", "12", true},
		{".5", "0.5", true},
		{"-.5", "-0.5", true},
		{"-", "", false},
		{".", "", false},
		{"--5", "", false},
		{"...", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseAmount(tt.raw)
		assert.Equal(t, tt.wantOK, ok, "ParseAmount(%q) ok", tt.raw)
		if tt.wantOK {
			assert.Equal(t, tt.want, got.String(), "ParseAmount(%q)", tt.raw)
		}
	}
}
