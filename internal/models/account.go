package models

import "github.com/sheikh-saqib/payments-engine/internal/money"

// Account holds the balances of a single client.
// Total always equals Available + Held.
type Account struct {
	ClientID  uint16
	Available money.Amount
	Held      money.Amount
	Total     money.Amount
	Locked    bool
}

// NewAccount returns a zeroed, unlocked account.
func NewAccount(clientID uint16) *Account {
	return &Account{ClientID: clientID}
}

// Balanced reports whether the account satisfies its balance invariants.
func (a Account) Balanced() bool {
	return a.Total == a.Available+a.Held && !a.Held.IsNegative()
}
