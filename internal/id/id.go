package id

import (
	"strings"
)

// NullDateKey is the timestamp part of an identity key for a transaction whose
// date could not be normalized. Every such transaction in one account shares
// the key "<account>_null", so only the first one is ever stored.
const NullDateKey = "null"

// CleanAccountNumber strips everything but ASCII letters and digits.
// "123-456" -> "123456"
func CleanAccountNumber(accountNumber string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, accountNumber)
}

// TransactionKey returns the identity key for a transaction, e.g.
// "123456_2025-03-15T14:30:00". A nil timestamp yields "123456_null".
// cleanAccount must already be cleaned with CleanAccountNumber.
func TransactionKey(cleanAccount string, fechaHora *string) string {
	if fechaHora == nil {
		return cleanAccount + "_" + NullDateKey
	}
	return cleanAccount + "_" + *fechaHora
}

// SplitTransactionKey splits a key into its account and timestamp parts.
// "123456_2025-03-15T14:30:00" -> "123456", "2025-03-15T14:30:00"
func SplitTransactionKey(key string) (account, stamp string, ok bool) {
	i := strings.IndexByte(key, '_')
	if i < 0 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}

// IsNullDateKey reports whether key was built from a missing timestamp.
func IsNullDateKey(key string) bool {
	_, stamp, ok := SplitTransactionKey(key)
	return ok && stamp == NullDateKey
}
