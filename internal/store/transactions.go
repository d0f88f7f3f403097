package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/extracto-dev/extracto/internal/model"
)

// TransactionsKey returns the storage key of an account's transaction list.
func TransactionsKey(accountID string) string {
	return transactionKeyPrefix + accountID
}

// LoadTransactions returns the account's store. A missing value or one that
// is not JSON yields an empty store; the latter is logged. JSON of the wrong
// shape fails with ErrUnreadable.
func (l *Local) LoadTransactions(accountID string) (*model.TransactionStore, error) {
	raw, ok, err := l.GetItem(TransactionsKey(accountID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return model.NewTransactionStore(accountID), nil
	}

	var s model.TransactionStore
	if err := decodeItem(TransactionsKey(accountID), raw, &s); err != nil {
		if errors.Is(err, ErrUnreadable) {
			return nil, err
		}
		l.log.Error().Err(err).Str("account_id", accountID).Msg("stored transactions are not valid JSON, treating as empty")
		return model.NewTransactionStore(accountID), nil
	}
	if s.Transactions == nil {
		s.Transactions = []model.Transaction{}
	}
	return &s, nil
}

// SaveTransactions writes the whole store for accountID.
func (l *Local) SaveTransactions(accountID string, s *model.TransactionStore) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling transactions: %w", err)
	}
	return l.SetItem(TransactionsKey(accountID), string(data))
}

// ClearTransactions removes the account's store entirely.
func (l *Local) ClearTransactions(accountID string) error {
	return l.RemoveItem(TransactionsKey(accountID))
}

// ClearAllTransactions removes every account's store and returns how many
// stores were removed.
func (l *Local) ClearAllTransactions() (int, error) {
	return l.removePrefix(transactionKeyPrefix)
}
