package interfaces

import "github.com/sheikh-saqib/payments-engine/internal/models"

// LedgerStore keeps accepted deposits and withdrawals so later disputes can find them.
type LedgerStore interface {
	Record(entry models.Transaction) bool
	Lookup(id uint32) (models.Transaction, bool)
	SetDisputed(id uint32, disputed bool) bool
	Len() int
}

// AccountStore hands out per-client accounts, creating them on first use.
type AccountStore interface {
	GetOrCreate(clientID uint16) *models.Account
	Snapshot() []models.Account
}

// TransactionSource yields records in input order and io.EOF when exhausted.
type TransactionSource interface {
	Next() (models.Transaction, error)
}
