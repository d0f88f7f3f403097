package model

// BankAccount is a registered bank account. JSON names match the persisted
// bankAccounts list.
type BankAccount struct {
	ID            string `json:"id"`
	Alias         string `json:"alias"`
	BankName      string `json:"bank_name"`
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	Currency      string `json:"currency"`
	AccountType   string `json:"account_type"`
}

// Label returns a short human label like "Sueldo (BCP 123-456)".
func (a BankAccount) Label() string {
	label := a.BankName + " " + a.AccountNumber
	if a.Alias != "" {
		label = a.Alias + " (" + label + ")"
	}
	return label
}

// AccountStats summarizes an account's stored transactions. Oldest and Newest
// are "YYYY-MM-DD", empty when no stored transaction has a usable date.
type AccountStats struct {
	Count  int
	Oldest string
	Newest string
}
