package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/extracto-dev/extracto/internal/model"
)

// LoadAccounts returns the registered accounts in registration order. A
// list that is not JSON is logged and read as empty.
func (l *Local) LoadAccounts() ([]model.BankAccount, error) {
	raw, ok, err := l.GetItem(keyAccounts)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.BankAccount{}, nil
	}

	var accts []model.BankAccount
	if err := decodeItem(keyAccounts, raw, &accts); err != nil {
		if errors.Is(err, ErrUnreadable) {
			return nil, err
		}
		l.log.Error().Err(err).Msg("bankAccounts is not valid JSON, treating as empty")
		return []model.BankAccount{}, nil
	}
	if accts == nil {
		accts = []model.BankAccount{}
	}
	return accts, nil
}

// SaveAccounts replaces the full account list.
func (l *Local) SaveAccounts(accts []model.BankAccount) error {
	data, err := json.Marshal(accts)
	if err != nil {
		return fmt.Errorf("marshaling accounts: %w", err)
	}
	return l.SetItem(keyAccounts, string(data))
}

// ActiveAccountID returns the persisted active account id, "" when none.
func (l *Local) ActiveAccountID() (string, error) {
	v, _, err := l.GetItem(keyActiveAccount)
	return v, err
}

// SetActiveAccountID persists the active account id.
func (l *Local) SetActiveAccountID(accountID string) error {
	return l.SetItem(keyActiveAccount, accountID)
}

// ClearActiveAccountID forgets the active account.
func (l *Local) ClearActiveAccountID() error {
	return l.RemoveItem(keyActiveAccount)
}
