package accounts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/extracto-dev/extracto/internal/model"
)

var (
	// ErrNotFound is returned for an unknown account id.
	ErrNotFound = errors.New("account not found")
	// ErrInvalidAccount is returned when required account fields are missing.
	ErrInvalidAccount = errors.New("invalid account")
)

// Store is the persistence the registry needs.
type Store interface {
	LoadAccounts() ([]model.BankAccount, error)
	SaveAccounts(accts []model.BankAccount) error
	ActiveAccountID() (string, error)
	SetActiveAccountID(accountID string) error
	ClearActiveAccountID() error
	LoadTransactions(accountID string) (*model.TransactionStore, error)
	ClearTransactions(accountID string) error
}

// Service manages registered bank accounts and the active selection.
type Service struct {
	store Store
	newID func() string
}

// NewService creates a Service over store.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		newID: func() string { return "acc_" + uuid.NewString() },
	}
}

// AddParams holds the fields of a new account.
type AddParams struct {
	Alias         string
	BankName      string
	AccountHolder string
	AccountNumber string
	Currency      string
	AccountType   string
}

// UpdateParams holds the editable fields of an account. The account number
// cannot be changed since identity keys are derived from it.
type UpdateParams struct {
	Alias         string
	BankName      string
	AccountHolder string
	Currency      string
	AccountType   string
}

// Add registers an account and makes it the active one.
func (s *Service) Add(p AddParams) (model.BankAccount, error) {
	acct := model.BankAccount{
		ID:            s.newID(),
		Alias:         strings.TrimSpace(p.Alias),
		BankName:      strings.TrimSpace(p.BankName),
		AccountHolder: strings.TrimSpace(p.AccountHolder),
		AccountNumber: strings.TrimSpace(p.AccountNumber),
		Currency:      strings.TrimSpace(p.Currency),
		AccountType:   strings.TrimSpace(p.AccountType),
	}
	if acct.BankName == "" || acct.AccountHolder == "" || acct.AccountNumber == "" {
		return model.BankAccount{}, fmt.Errorf("%w: bank name, holder name and account number are required", ErrInvalidAccount)
	}

	accts, err := s.store.LoadAccounts()
	if err != nil {
		return model.BankAccount{}, err
	}
	accts = append(accts, acct)
	if err := s.store.SaveAccounts(accts); err != nil {
		return model.BankAccount{}, fmt.Errorf("saving accounts: %w", err)
	}
	if err := s.store.SetActiveAccountID(acct.ID); err != nil {
		return model.BankAccount{}, fmt.Errorf("selecting new account: %w", err)
	}
	return acct, nil
}

// Update edits an existing account.
func (s *Service) Update(accountID string, p UpdateParams) (model.BankAccount, error) {
	bankName := strings.TrimSpace(p.BankName)
	holder := strings.TrimSpace(p.AccountHolder)
	if bankName == "" || holder == "" {
		return model.BankAccount{}, fmt.Errorf("%w: bank name and account holder are required", ErrInvalidAccount)
	}

	accts, err := s.store.LoadAccounts()
	if err != nil {
		return model.BankAccount{}, err
	}
	i := indexOf(accts, accountID)
	if i < 0 {
		return model.BankAccount{}, fmt.Errorf("%w: %s", ErrNotFound, accountID)
	}

	accts[i].Alias = strings.TrimSpace(p.Alias)
	accts[i].BankName = bankName
	accts[i].AccountHolder = holder
	accts[i].Currency = strings.TrimSpace(p.Currency)
	accts[i].AccountType = strings.TrimSpace(p.AccountType)

	if err := s.store.SaveAccounts(accts); err != nil {
		return model.BankAccount{}, fmt.Errorf("saving accounts: %w", err)
	}
	return accts[i], nil
}

// Delete removes an account together with its stored transactions. Deleting
// the active account clears the selection.
func (s *Service) Delete(accountID string) error {
	accts, err := s.store.LoadAccounts()
	if err != nil {
		return err
	}
	i := indexOf(accts, accountID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, accountID)
	}

	accts = append(accts[:i], accts[i+1:]...)
	if err := s.store.SaveAccounts(accts); err != nil {
		return fmt.Errorf("saving accounts: %w", err)
	}
	if err := s.store.ClearTransactions(accountID); err != nil {
		return fmt.Errorf("clearing transactions: %w", err)
	}

	active, err := s.store.ActiveAccountID()
	if err != nil {
		return err
	}
	if active == accountID {
		if err := s.store.ClearActiveAccountID(); err != nil {
			return fmt.Errorf("clearing selection: %w", err)
		}
	}
	return nil
}

// All returns every account in registration order.
func (s *Service) All() ([]model.BankAccount, error) {
	return s.store.LoadAccounts()
}

// Get returns an account by id.
func (s *Service) Get(accountID string) (model.BankAccount, error) {
	accts, err := s.store.LoadAccounts()
	if err != nil {
		return model.BankAccount{}, err
	}
	i := indexOf(accts, accountID)
	if i < 0 {
		return model.BankAccount{}, fmt.Errorf("%w: %s", ErrNotFound, accountID)
	}
	return accts[i], nil
}

// Resolve finds an account by id, or by a unique alias or account number.
func (s *Service) Resolve(ref string) (model.BankAccount, error) {
	accts, err := s.store.LoadAccounts()
	if err != nil {
		return model.BankAccount{}, err
	}
	if i := indexOf(accts, ref); i >= 0 {
		return accts[i], nil
	}

	var matches []model.BankAccount
	for _, a := range accts {
		if (a.Alias != "" && strings.EqualFold(a.Alias, ref)) || a.AccountNumber == ref {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return model.BankAccount{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return model.BankAccount{}, fmt.Errorf("%q matches %d accounts, use the account id", ref, len(matches))
	}
}

// Select makes accountID the active account.
func (s *Service) Select(accountID string) error {
	if _, err := s.Get(accountID); err != nil {
		return err
	}
	return s.store.SetActiveAccountID(accountID)
}

// ActiveID returns the persisted active account id, "" when none is selected.
func (s *Service) ActiveID() (string, error) {
	return s.store.ActiveAccountID()
}

// Active returns the active account. ok is false when none is selected.
func (s *Service) Active() (acct model.BankAccount, ok bool, err error) {
	accountID, err := s.store.ActiveAccountID()
	if err != nil || accountID == "" {
		return model.BankAccount{}, false, err
	}
	acct, err = s.Get(accountID)
	if err != nil {
		return model.BankAccount{}, false, err
	}
	return acct, true, nil
}

// Stats returns the transaction count and date span of an account.
func (s *Service) Stats(accountID string) (model.AccountStats, error) {
	ts, err := s.store.LoadTransactions(accountID)
	if err != nil {
		return model.AccountStats{}, err
	}
	return ts.Stats(), nil
}

func indexOf(accts []model.BankAccount, accountID string) int {
	for i, a := range accts {
		if a.ID == accountID {
			return i
		}
	}
	return -1
}
