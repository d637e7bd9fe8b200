package models

import (
	"fmt"
	"strings"

	"github.com/sheikh-saqib/payments-engine/internal/money"
)

// Kind is the closed set of transaction types the engine understands.
type Kind uint8

const (
	KindDeposit Kind = iota + 1
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

var kindNames = map[Kind]string{
	KindDeposit:    "deposit",
	KindWithdrawal: "withdrawal",
	KindDispute:    "dispute",
	KindResolve:    "resolve",
	KindChargeback: "chargeback",
}

// ParseKind accepts the lower-case kind names, ignoring case and surrounding space.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown transaction type: %q", s)
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// CarriesAmount reports whether records of this kind move money and get stored.
func (k Kind) CarriesAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Transaction is one input record. Deposits and withdrawals are also the
// stored form kept in the ledger; Disputed is only meaningful there.
type Transaction struct {
	ID       uint32
	ClientID uint16
	Kind     Kind
	Amount   money.Amount // zero for dispute, resolve and chargeback
	Disputed bool
}
